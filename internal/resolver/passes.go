package resolver

import (
	"context"
	"fmt"

	"github.com/spigell/formfill/internal/ai"
	"github.com/spigell/formfill/internal/gforms"
	"github.com/spigell/formfill/internal/profile"
	"go.uber.org/zap"
)

// pass is a single resolution strategy. Passes run in priority order and the
// first one producing a value for an entry wins.
type pass interface {
	Name() string
	Source() Source
	Resolve(ctx context.Context, entry *gforms.Entry, p *profile.Profile) (value string, confidence float64, ok bool)
}

// step describes the outcome of running one pass over the schema, mirroring
// how filter chains report their work.
type step struct {
	Initial  int
	Resolved int
	Left     int
}

type rulePass struct{}

func (rulePass) Name() string   { return "rule" }
func (rulePass) Source() Source { return SourceRule }

func (rulePass) Resolve(_ context.Context, entry *gforms.Entry, p *profile.Profile) (string, float64, bool) {
	c, ok := matchCategory(entry.Name)
	if !ok {
		return "", 0, false
	}

	value := p.Attribute(c.attribute)
	if value == "" {
		return "", 0, false
	}

	return value, 1, true
}

type aiPass struct {
	matcher       ai.Matcher
	minConfidence float64
	logger        *zap.Logger
}

func (aiPass) Name() string   { return "ai" }
func (aiPass) Source() Source { return SourceAI }

// Resolve consults the matcher and gates the candidate on confidence. Any
// matcher failure is treated as a miss so the entry falls through to the
// next pass.
func (a aiPass) Resolve(ctx context.Context, entry *gforms.Entry, p *profile.Profile) (string, float64, bool) {
	field := &ai.FieldContext{
		Label:    entry.Name,
		Type:     entry.Type.String(),
		Required: entry.Required,
		Options:  entry.Options,
	}

	match, err := a.matcher.MatchField(ctx, field, p.Map())
	if err != nil {
		a.logger.Warn("treating entry as an ai miss",
			zap.String("field_label", entry.Name),
			zap.Error(fmt.Errorf("%w: %v", ai.ErrMatcherUnavailable, err)),
		)
		return "", 0, false
	}

	if match == nil || match.Value == "" {
		return "", 0, false
	}

	if match.Confidence < a.minConfidence {
		a.logger.Debug("ai match rejected by confidence gate",
			zap.String("field_label", entry.Name),
			zap.Float64("confidence", match.Confidence),
			zap.Float64("threshold", a.minConfidence),
		)
		return "", 0, false
	}

	return match.Value, match.Confidence, true
}

type fallbackPass struct{}

func (fallbackPass) Name() string   { return "fallback" }
func (fallbackPass) Source() Source { return SourceFallback }

// Resolve assigns the first profile attribute with any content. When the
// whole profile is empty the entry stays unresolved.
func (fallbackPass) Resolve(_ context.Context, _ *gforms.Entry, p *profile.Profile) (string, float64, bool) {
	for _, attr := range p.Attributes() {
		if attr.Value != "" {
			return attr.Value, fallbackConfidence, true
		}
	}

	return "", 0, false
}
