// Package filler orchestrates a complete fill request: extract the form
// schema, resolve entries against the profile, submit the resolved values.
package filler

import (
	"context"
	"fmt"

	"github.com/spigell/formfill/internal/gforms"
	"github.com/spigell/formfill/internal/logger"
	"github.com/spigell/formfill/internal/profile"
	"github.com/spigell/formfill/internal/resolver"
	"go.uber.org/zap"
)

// valuePreviewLimit bounds how much of a filled value is echoed back to
// callers in FilledFields.
const valuePreviewLimit = 50

// Result is the structured outcome of a fill request. Submission failures
// land in Error instead of propagating as Go errors: callers always receive
// a renderable result.
type Result struct {
	Success      bool     `json:"success"`
	FilledCount  int      `json:"filled_count"`
	FilledFields []string `json:"filled_fields,omitempty"`
	Message      string   `json:"message,omitempty"`
	Error        string   `json:"error,omitempty"`
}

// FieldInfo is one entry of the analyze surface.
type FieldInfo struct {
	Type     string   `json:"type"`
	Label    string   `json:"label"`
	Required bool     `json:"required"`
	Options  []string `json:"options,omitempty"`
}

// FormInfo is the analyze surface: the form id plus its fillable fields in
// schema order.
type FormInfo struct {
	FormID string      `json:"form_id"`
	Fields []FieldInfo `json:"fields"`
}

type Filler struct {
	forms    *gforms.Client
	resolver *resolver.Resolver
	logger   *zap.Logger
}

func New(forms *gforms.Client, res *resolver.Resolver, log *zap.Logger) *Filler {
	return &Filler{
		forms:    forms,
		resolver: res,
		logger:   logger.WithFields(log),
	}
}

// Analyze extracts the schema and renders it in the external query shape.
func (f *Filler) Analyze(ctx context.Context, formURL string) (*FormInfo, error) {
	schema, err := f.forms.ExtractSchema(ctx, formURL)
	if err != nil {
		return nil, err
	}

	fields := make([]FieldInfo, 0, schema.Len())
	for _, entry := range schema.Entries {
		fields = append(fields, FieldInfo{
			Type:     entry.Type.String(),
			Label:    entry.Name,
			Required: entry.Required,
			Options:  entry.Options,
		})
	}

	return &FormInfo{FormID: schema.FormID, Fields: fields}, nil
}

// Resolve extracts the schema and maps every entry against the profile
// without submitting anything.
func (f *Filler) Resolve(ctx context.Context, formURL string, p *profile.Profile) (*gforms.Schema, []resolver.Mapping, error) {
	schema, err := f.forms.ExtractSchema(ctx, formURL)
	if err != nil {
		return nil, nil, err
	}

	mappings, err := f.resolver.Resolve(ctx, schema, p)
	if err != nil {
		return nil, nil, err
	}

	return schema, mappings, nil
}

// Fill runs the whole pipeline. Extraction and resolution failures propagate
// as typed errors since no usable result exists; a submission failure is
// reported inside the result.
func (f *Filler) Fill(ctx context.Context, formURL string, p *profile.Profile) (*Result, error) {
	_, mappings, err := f.Resolve(ctx, formURL, p)
	if err != nil {
		return nil, err
	}

	return f.Submit(ctx, formURL, mappings), nil
}

// Submit posts the resolved mappings. Unresolved entries are dropped here;
// the payload never carries an empty value.
func (f *Filler) Submit(ctx context.Context, formURL string, mappings []resolver.Mapping) *Result {
	values := make(map[int64]string)
	filled := make([]string, 0, len(mappings))
	for i := range mappings {
		m := &mappings[i]
		if !m.Resolved() {
			f.logger.Debug("leaving entry unfilled",
				zap.Int64("entry_id", m.EntryID),
				zap.String("label", m.Label),
			)
			continue
		}

		values[m.EntryID] = m.Value
		filled = append(filled, fmt.Sprintf("%s: %s", m.Label, logger.TruncateForLog(m.Value, valuePreviewLimit)))
	}

	if len(values) == 0 {
		return &Result{
			Success: false,
			Error:   "no form entries could be resolved from the profile",
		}
	}

	if err := f.forms.Submit(ctx, formURL, values); err != nil {
		f.logger.Warn("form submission failed", zap.Error(err))
		return &Result{
			Success:      false,
			FilledCount:  len(values),
			FilledFields: filled,
			Error:        err.Error(),
		}
	}

	return &Result{
		Success:      true,
		FilledCount:  len(values),
		FilledFields: filled,
		Message:      fmt.Sprintf("form submitted successfully with %d fields", len(values)),
	}
}
