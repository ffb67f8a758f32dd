package identifier

import (
	"context"
	"errors"
	"testing"

	"github.com/GoSim-25-26J-441/project-sync/internal/projects/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counter struct {
	next map[domain.ClassificationTag]int
	err  error
}

func (c *counter) NextSerialNumber(_ context.Context, tag domain.ClassificationTag) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	if c.next == nil {
		c.next = map[domain.ClassificationTag]int{}
	}
	c.next[tag]++
	return c.next[tag], nil
}

type cache struct {
	recs []domain.ProjectRecord
	err  error
}

func (c *cache) ReadAll(context.Context) ([]domain.ProjectRecord, error) {
	return c.recs, c.err
}

func TestGenerate_RemoteCounter(t *testing.T) {
	ctx := context.Background()
	g := NewGenerator(&counter{}, &cache{}, "PRJ", 4, nil)

	first, err := g.Generate(ctx, domain.TagAI)
	require.NoError(t, err)
	second, err := g.Generate(ctx, domain.TagAI)
	require.NoError(t, err)

	assert.Equal(t, "PRJ-AI-0001", first.Value)
	assert.Equal(t, "PRJ-AI-0002", second.Value)
	assert.Greater(t, second.Serial, first.Serial)
	assert.Equal(t, domain.SourceRemote, first.Source)
}

func TestGenerate_FallsBackToLocalCount(t *testing.T) {
	ctx := context.Background()
	local := &cache{recs: make([]domain.ProjectRecord, 2)}
	g := NewGenerator(&counter{err: errors.New("connection refused")}, local, "PRJ", 4, nil)

	id, err := g.Generate(ctx, domain.TagWebDev)
	require.NoError(t, err)
	assert.Equal(t, "PRJ-WEB-0003", id.Value)
	assert.Equal(t, domain.SourceLocal, id.Source)

	// Sequential fallback only advances once a record has been written.
	local.recs = append(local.recs, domain.ProjectRecord{})
	next, err := g.Generate(ctx, domain.TagWebDev)
	require.NoError(t, err)
	assert.Equal(t, "PRJ-WEB-0004", next.Value)
}

func TestGenerate_LocalFallbackRepeatsWithoutWrites(t *testing.T) {
	ctx := context.Background()
	g := NewGenerator(&counter{err: errors.New("down")}, &cache{}, "PRJ", 4, nil)

	a, err := g.Generate(ctx, domain.TagOther)
	require.NoError(t, err)
	b, err := g.Generate(ctx, domain.TagOther)
	require.NoError(t, err)
	assert.Equal(t, a.Value, b.Value, "best-effort allocator does not reserve serials")
}

func TestGenerate_BothAllocatorsFail(t *testing.T) {
	g := NewGenerator(&counter{err: errors.New("down")}, &cache{err: errors.New("disk")}, "PRJ", 4, nil)

	_, err := g.Generate(context.Background(), domain.TagAI)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRemoteUnavailable)
	assert.ErrorIs(t, err, domain.ErrLocalStorage)
}

func TestGenerate_UnknownTagUsesOther(t *testing.T) {
	g := NewGenerator(&counter{}, &cache{}, "", 0, nil)
	id, err := g.Generate(context.Background(), domain.ClassificationTag("???"))
	require.NoError(t, err)
	assert.Equal(t, "PRJ-OTH-0001", id.Value)
}
