package gforms

import (
	"encoding/json"
	"fmt"
	"strings"
)

// schemaVar is the script-scope variable Google Forms embeds into every
// public form page. It holds the authoritative entry identifiers needed
// for direct submission.
const schemaVar = "FB_PUBLIC_LOAD_DATA_"

// EntryType is the question type discriminant used inside the embedded
// schema payload.
type EntryType int

const (
	TypeShortText EntryType = 0
	TypeParagraph EntryType = 1
	TypeRadio     EntryType = 2
	TypeDropdown  EntryType = 3
	TypeCheckbox  EntryType = 4
	TypeScale     EntryType = 5
	// TypeMeta marks provider-internal session/page entries. They carry no
	// fillable field and are dropped during decoding.
	TypeMeta  EntryType = 8
	TypeOther EntryType = -1
)

func (t EntryType) String() string {
	switch t {
	case TypeShortText:
		return "short_text"
	case TypeParagraph:
		return "paragraph"
	case TypeRadio:
		return "radio"
	case TypeDropdown:
		return "dropdown"
	case TypeCheckbox:
		return "checkbox"
	case TypeScale:
		return "scale"
	case TypeMeta:
		return "meta"
	default:
		return "other"
	}
}

// Entry is a single fillable unit within a form. ID is the provider-assigned
// numeric identifier used as the submission key.
type Entry struct {
	ID       int64
	Name     string
	Type     EntryType
	Required bool
	Options  []string
}

// Schema is the ordered list of entries decoded from a form page. Order is
// preserved from the source payload.
type Schema struct {
	FormID  string
	Entries []Entry
}

func (s *Schema) Len() int {
	return len(s.Entries)
}

// FormID extracts the form identifier from a Google Forms URL. Both the
// published (/forms/d/e/<id>/) and the editor (/forms/d/<id>/) shapes are
// recognized.
func FormID(formURL string) (string, error) {
	for _, prefix := range []string{"/forms/d/e/", "/forms/d/"} {
		_, rest, found := strings.Cut(formURL, prefix)
		if !found {
			continue
		}

		id, _, _ := strings.Cut(rest, "/")
		if id == "" {
			break
		}

		return id, nil
	}

	return "", fmt.Errorf("%w: %s", ErrInvalidURL, formURL)
}

// extractScriptVar locates `var <name> = <json>;` inside the page HTML and
// returns the raw JSON value. Google serializes the whole array on a single
// line, so the value extent is found by walking brackets instead of trusting
// a non-greedy regexp to stop at the right semicolon.
func extractScriptVar(name, html string) (string, error) {
	marker := "var " + name + " = "
	start := strings.Index(html, marker)
	if start == -1 {
		return "", fmt.Errorf("%w: variable %s not present in page", ErrSchemaParse, name)
	}

	rest := html[start+len(marker):]
	if !strings.HasPrefix(rest, "[") {
		return "", fmt.Errorf("%w: variable %s is not an array", ErrSchemaParse, name)
	}

	depth := 0
	inString := false
	escaped := false
	for i, r := range rest {
		if inString {
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == '"':
				inString = false
			}
			continue
		}

		switch r {
		case '"':
			inString = true
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return rest[:i+1], nil
			}
		}
	}

	return "", fmt.Errorf("%w: unterminated %s array", ErrSchemaParse, name)
}

// decodeSchema turns the raw FB_PUBLIC_LOAD_DATA_ array into an ordered entry
// list. Questions live at data[1][1]; each question array holds its label at
// [1], the type discriminant at [3] and one or more sub-entries at [4]. A
// question can expose more than one field (grouped name parts for example),
// so every sub-entry becomes its own Entry carrying the parent label.
func decodeSchema(raw string) ([]Entry, error) {
	var data []any
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaParse, err)
	}

	form, ok := index(data, 1)
	if !ok {
		return nil, fmt.Errorf("%w: form section is missing", ErrSchemaParse)
	}

	questions, ok := index(form, 1)
	if !ok {
		return nil, fmt.Errorf("%w: question list is missing", ErrSchemaParse)
	}

	entries := make([]Entry, 0, len(questions))
	for _, q := range questions {
		question, ok := q.([]any)
		if !ok {
			continue
		}

		entryType := TypeOther
		if code, ok := number(question, 3); ok {
			entryType = EntryType(code)
		}

		if entryType == TypeMeta {
			continue
		}

		label := stringAt(question, 1)

		subEntries, ok := index(question, 4)
		if !ok {
			continue
		}

		for _, s := range subEntries {
			sub, ok := s.([]any)
			if !ok {
				continue
			}

			id, ok := number(sub, 0)
			if !ok {
				continue
			}

			required := false
			if flag, ok := number(sub, 2); ok {
				required = flag == 1
			}

			entries = append(entries, Entry{
				ID:       int64(id),
				Name:     label,
				Type:     entryType,
				Required: required,
				Options:  optionLabels(sub),
			})
		}
	}

	return entries, nil
}

// optionLabels reads the option list at sub[1]. Free-text entries carry null
// there, which decodes to nil and yields no options.
func optionLabels(sub []any) []string {
	options, ok := index(sub, 1)
	if !ok {
		return nil
	}

	labels := make([]string, 0, len(options))
	for _, o := range options {
		option, ok := o.([]any)
		if !ok || len(option) == 0 {
			continue
		}

		if label, ok := option[0].(string); ok {
			labels = append(labels, label)
		}
	}

	if len(labels) == 0 {
		return nil
	}

	return labels
}

func index(list []any, i int) ([]any, bool) {
	if i < 0 || i >= len(list) {
		return nil, false
	}

	value, ok := list[i].([]any)
	return value, ok
}

func number(list []any, i int) (float64, bool) {
	if i < 0 || i >= len(list) {
		return 0, false
	}

	value, ok := list[i].(float64)
	return value, ok
}

func stringAt(list []any, i int) string {
	if i < 0 || i >= len(list) {
		return ""
	}

	value, _ := list[i].(string)
	return value
}
