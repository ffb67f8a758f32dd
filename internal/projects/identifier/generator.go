package identifier

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/GoSim-25-26J-441/project-sync/internal/projects/domain"
)

// Identifier is a generated structured id and the allocator that produced its serial.
type Identifier struct {
	Value  string
	Serial int
	Source domain.Source
}

// Generator composes structured ids, preferring the primary allocator and
// falling back to the secondary one on any error.
type Generator struct {
	Primary  SerialAllocator
	Fallback SerialAllocator
	Prefix   string
	Width    int
	Log      *zap.Logger
}

// NewGenerator wires the remote counter as primary and the cache count as fallback.
func NewGenerator(remote CounterSource, cache RecordCounter, prefix string, width int, log *zap.Logger) *Generator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Generator{
		Primary:  RemoteAllocator{Source: remote},
		Fallback: LocalAllocator{Cache: cache},
		Prefix:   prefix,
		Width:    width,
		Log:      log,
	}
}

// Generate returns prefix + classification code + zero-padded serial.
func (g *Generator) Generate(ctx context.Context, tag domain.ClassificationTag) (Identifier, error) {
	if !tag.Valid() {
		tag = domain.TagOther
	}

	var primaryErr error
	if g.Primary != nil {
		serial, err := g.Primary.Next(ctx, tag)
		if err == nil {
			return g.compose(tag, serial, domain.SourceRemote), nil
		}
		primaryErr = err
		g.logger().Warn("remote serial unavailable, using local count",
			zap.String("classification", string(tag)), zap.Error(err))
	}

	if g.Fallback == nil {
		return Identifier{}, fmt.Errorf("generate identifier: %w", primaryErr)
	}
	serial, err := g.Fallback.Next(ctx, tag)
	if err != nil {
		return Identifier{}, fmt.Errorf("generate identifier: %w", errors.Join(primaryErr, err))
	}
	return g.compose(tag, serial, domain.SourceLocal), nil
}

func (g *Generator) compose(tag domain.ClassificationTag, serial int, src domain.Source) Identifier {
	return Identifier{
		Value:  domain.FormatStructuredID(g.Prefix, tag, serial, g.Width),
		Serial: serial,
		Source: src,
	}
}

func (g *Generator) logger() *zap.Logger {
	if g.Log == nil {
		return zap.NewNop()
	}
	return g.Log
}
