package ai

import (
	"context"
	"errors"
)

// ErrMatcherUnavailable tags matcher failures (transport, quota, malformed
// model output). It is always recovered locally: callers log it and treat
// the entry as a miss, never as a hard failure.
var ErrMatcherUnavailable = errors.New("ai matcher unavailable")

// FieldContext carries everything a matcher may use to pick a value for a
// single form entry.
type FieldContext struct {
	Label    string   `json:"label"`
	Type     string   `json:"type"`
	Required bool     `json:"required"`
	Options  []string `json:"options,omitempty"`
}

// FieldMatch is a candidate value proposed by a matcher together with its
// confidence. Value is empty when the matcher found nothing suitable.
type FieldMatch struct {
	Value      string
	Confidence float64
	Reason     string
	Raw        string
}

// Matcher proposes a profile value for a form entry. Implementations are
// advisory: callers gate acceptance on confidence and must treat any error
// as a miss rather than a hard failure.
type Matcher interface {
	MatchField(ctx context.Context, field *FieldContext, profile map[string]any) (*FieldMatch, error)
}
