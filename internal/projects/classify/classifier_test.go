package classify

import (
	"testing"

	"github.com/GoSim-25-26J-441/project-sync/internal/projects/domain"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		roles []string
		tech  []string
		want  domain.ClassificationTag
	}{
		{"role outranks web stack", []string{"AI Engineer"}, []string{"React", "Tailwind"}, domain.TagAI},
		{"web stack without ai role", nil, []string{"React", "Tailwind"}, domain.TagWebDev},
		{"default", nil, []string{"COBOL"}, domain.TagOther},
		{"empty input", nil, nil, domain.TagOther},
		{"ai tech", []string{"Backend"}, []string{"PyTorch", "FastAPI"}, domain.TagAI},
		{"ml role substring", []string{"ML Ops"}, nil, domain.TagAI},
		{"ai tech beats data science", nil, []string{"Python", "TensorFlow"}, domain.TagAI},
		{"data science", nil, []string{"Python", "Pandas"}, domain.TagDataScience},
		{"react native is mobile not web", nil, []string{"React Native"}, domain.TagMobileDev},
		{"devops before cloud", nil, []string{"AWS", "Serverless"}, domain.TagDevOps},
		{"design tools", nil, []string{"Figma"}, domain.TagUIUX},
		{"cloud", nil, []string{"GCP"}, domain.TagCloudComputing},
		{"case and whitespace", nil, []string{"  KUBERNETES "}, domain.TagDevOps},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.roles, tt.tech))
		})
	}
}
