// Package resolver maps form entries to resume profile values through three
// ordered passes: rule-based keyword matching, an optional AI-assisted
// matcher behind a confidence gate, and a deterministic fallback. The first
// pass that produces a value for an entry wins; entries no pass can serve
// are tagged unresolved and excluded from submission by the caller.
package resolver

import (
	"context"

	"github.com/spigell/formfill/internal/ai"
	"github.com/spigell/formfill/internal/gforms"
	"github.com/spigell/formfill/internal/profile"
	"go.uber.org/zap"
)

const (
	// DefaultMinConfidence is the acceptance threshold for AI-assisted
	// matches.
	DefaultMinConfidence = 0.7

	// fallbackConfidence marks values assigned by the last-resort pass.
	fallbackConfidence = 0.25
)

// Config tunes the resolution process.
type Config struct {
	// MinConfidence overrides the AI acceptance threshold. Zero means
	// DefaultMinConfidence.
	MinConfidence float64
	// EnhanceAll also consults the matcher for entries already resolved by
	// rules. Those assessments are advisory and never override the rule
	// result.
	EnhanceAll bool
}

type Resolver struct {
	matcher ai.Matcher
	config  Config
	logger  *zap.Logger
}

// New builds a resolver. A nil matcher disables the AI pass entirely.
func New(matcher ai.Matcher, cfg *Config, logger *zap.Logger) *Resolver {
	config := Config{}
	if cfg != nil {
		config = *cfg
	}

	if config.MinConfidence <= 0 {
		config.MinConfidence = DefaultMinConfidence
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Resolver{
		matcher: matcher,
		config:  config,
		logger:  logger,
	}
}

// Resolve produces one mapping per schema entry, in schema order. The same
// profile attribute may serve multiple entries: duplicate semantically
// equivalent questions are common and both must be filled. Per-entry
// ambiguity never fails the whole resolution; the only hard failure is an
// invalid profile.
func (r *Resolver) Resolve(ctx context.Context, schema *gforms.Schema, p *profile.Profile) ([]Mapping, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	mappings := make([]Mapping, len(schema.Entries))
	for i, entry := range schema.Entries {
		mappings[i] = Mapping{
			EntryID: entry.ID,
			Label:   entry.Name,
			Source:  SourceUnresolved,
		}
	}

	passes := r.passes()
	for i, pass := range passes {
		info := r.runPass(ctx, pass, schema, p, mappings)

		r.logger.Debug("resolution pass",
			zap.String("name", pass.Name()),
			zap.Int("initial", info.Initial),
			zap.Int("resolved", info.Resolved),
			zap.Int("left", info.Left),
		)

		if info.Left == 0 && !r.advisoryRemaining(passes[i+1:]) {
			break
		}
	}

	return mappings, nil
}

// advisoryRemaining reports whether a later pass still has advisory work on
// already-resolved entries. With EnhanceAll the matcher must see every entry
// even when the rule pass resolved the whole schema.
func (r *Resolver) advisoryRemaining(rest []pass) bool {
	if !r.config.EnhanceAll {
		return false
	}

	for _, p := range rest {
		if p.Source() == SourceAI {
			return true
		}
	}

	return false
}

func (r *Resolver) passes() []pass {
	passes := []pass{rulePass{}}

	if r.matcher != nil {
		passes = append(passes, aiPass{
			matcher:       r.matcher,
			minConfidence: r.config.MinConfidence,
			logger:        r.logger,
		})
	}

	return append(passes, fallbackPass{})
}

func (r *Resolver) runPass(ctx context.Context, pass pass, schema *gforms.Schema, p *profile.Profile, mappings []Mapping) step {
	initial := unresolvedCount(mappings)
	resolved := 0

	for i := range schema.Entries {
		entry := &schema.Entries[i]

		if mappings[i].Source != SourceUnresolved {
			// An accepted result is never overridden. With EnhanceAll the
			// matcher still sees the entry so its assessment lands in the
			// debug log.
			if r.config.EnhanceAll && pass.Source() == SourceAI {
				pass.Resolve(ctx, entry, p)
			}
			continue
		}

		value, confidence, ok := pass.Resolve(ctx, entry, p)
		if !ok {
			continue
		}

		mappings[i].Value = value
		mappings[i].Source = pass.Source()
		mappings[i].Confidence = confidence
		resolved++
	}

	return step{
		Initial:  initial,
		Resolved: resolved,
		Left:     initial - resolved,
	}
}

func unresolvedCount(mappings []Mapping) int {
	count := 0
	for i := range mappings {
		if mappings[i].Source == SourceUnresolved {
			count++
		}
	}

	return count
}
