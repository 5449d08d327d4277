// Package resume turns uploaded resume files into normalized candidate
// profiles. Text extraction is local (PDF, DOCX, plain text); structuring is
// AI-assisted when a generator is configured, with a regex/section heuristic
// as the offline fallback.
package resume

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/spigell/formfill/internal/logger"
	"github.com/spigell/formfill/internal/profile"
	"go.uber.org/zap"
)

//go:embed prompt.md
var structurePrompt string

// maxPromptText bounds how much resume text is sent to the model.
const maxPromptText = 4000

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Parser builds profiles from resume files.
type Parser struct {
	generator contentGenerator
	logger    *zap.Logger
}

// NewParser creates a parser. A nil generator disables AI structuring and
// leaves only the heuristic path.
func NewParser(generator contentGenerator, log *zap.Logger) *Parser {
	return &Parser{
		generator: generator,
		logger:    logger.WithFields(log),
	}
}

// ParseFile reads the file from disk and parses it.
func (p *Parser) ParseFile(ctx context.Context, path string) (*profile.Profile, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading resume file: %w", err)
	}

	return p.Parse(ctx, content, filepath.Base(path))
}

// Parse extracts text from the file and structures it into a profile. Any
// AI failure falls back to heuristic extraction; the returned profile always
// satisfies the minimum-content invariant or an error is returned.
func (p *Parser) Parse(ctx context.Context, content []byte, filename string) (*profile.Profile, error) {
	text, err := ExtractText(content, filename)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: resume %q contains no text", profile.ErrInvalidProfile, filename)
	}

	if p.generator != nil {
		structured, err := p.structureWithAI(ctx, text)
		if err == nil {
			return structured, nil
		}

		p.logger.Warn("ai resume structuring failed, falling back to heuristics",
			zap.String("filename", filename),
			zap.Error(err),
		)
	}

	heuristic := heuristicProfile(text)
	if err := heuristic.Validate(); err != nil {
		return nil, err
	}

	return heuristic, nil
}

func (p *Parser) structureWithAI(ctx context.Context, text string) (*profile.Profile, error) {
	if utf8.RuneCountInString(text) > maxPromptText {
		text = string([]rune(text)[:maxPromptText])
	}

	prompt := strings.ReplaceAll(structurePrompt, "{{RESUME_TEXT}}", text)

	raw, err := p.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, err
	}

	cleaned := stripFences(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse resume structuring response: %w", err)
	}

	return profile.FromMap(data)
}

func stripFences(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}

	return strings.TrimSpace(raw)
}
