// Package classify maps a project's roles and tech stack to a single
// classification tag.
package classify

import (
	"strings"

	"github.com/GoSim-25-26J-441/project-sync/internal/projects/domain"
)

type rule struct {
	tag      domain.ClassificationTag
	keywords []string
}

var aiRoleKeywords = []string{
	"ai", "ai engineer", "ml", "machine learning", "data scientist", "nlp",
	"deep learning", "computer vision", "llm",
}

// Bare "ai" and "ml" are left out here: they would match "tailwind" and "html".
var aiTechKeywords = []string{
	"tensorflow", "pytorch", "keras", "neural", "llm", "gpt", "openai",
	"langchain", "hugging face", "transformers", "machine learning",
	"deep learning", "computer vision",
}

// techRules are evaluated in order after the AI checks; the first hit wins.
var techRules = []rule{
	{domain.TagDataScience, []string{
		"python", "pandas", "numpy", "jupyter", "scikit", "big data", "spark",
		"hadoop", "matplotlib", "data analysis",
	}},
	{domain.TagMobileDev, []string{
		"react native", "flutter", "ios", "android", "swift", "kotlin", "expo", "xamarin",
	}},
	{domain.TagDevOps, []string{
		"jenkins", "gitlab", "ci/cd", "kubernetes", "docker", "terraform", "aws",
		"azure", "ansible", "github actions", "helm",
	}},
	{domain.TagUIUX, []string{
		"figma", "adobe", "sketch", "ui/ux", "design", "invision", "prototyp",
	}},
	{domain.TagWebDev, []string{
		"react", "angular", "vue", "html", "css", "javascript", "typescript",
		"node", "express", "next.js", "nuxt", "svelte", "django", "flask",
		"laravel", "rails", "tailwind",
	}},
	{domain.TagCloudComputing, []string{
		"cloud", "gcp", "serverless", "firebase", "heroku", "lambda",
	}},
}

// Classify returns the first matching tag in priority order. Role signals
// outrank tech-stack signals: an "AI Engineer" on a React project is AI.
func Classify(roles, techStack []string) domain.ClassificationTag {
	r := normalize(roles)
	t := normalize(techStack)

	if matchAny(r, aiRoleKeywords) {
		return domain.TagAI
	}
	if matchAny(t, aiTechKeywords) {
		return domain.TagAI
	}
	for _, rl := range techRules {
		if matchAny(t, rl.keywords) {
			return rl.tag
		}
	}
	return domain.TagOther
}

func normalize(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		tok = strings.ToLower(strings.TrimSpace(tok))
		if tok != "" {
			out = append(out, tok)
		}
	}
	return out
}

func matchAny(tokens, keywords []string) bool {
	for _, tok := range tokens {
		for _, kw := range keywords {
			if strings.Contains(tok, kw) {
				return true
			}
		}
	}
	return false
}
