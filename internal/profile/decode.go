package profile

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// wireProfile mirrors the map shape produced by the resume-parsing
// collaborator. Composite attributes can arrive as free text, as a list of
// strings or as a list of objects, so they decode through `any` first.
type wireProfile struct {
	FullName   string `mapstructure:"Full Name"`
	Email      string `mapstructure:"Email"`
	Phone      string `mapstructure:"Phone Number"`
	Address    string `mapstructure:"Address"`
	Education  any    `mapstructure:"Education"`
	Experience any    `mapstructure:"Work Experience"`
	Skills     any    `mapstructure:"Skills"`
	Certs      any    `mapstructure:"Certifications"`
}

// FromMap builds a validated Profile from the collaborator wire shape.
// Absent keys stay empty.
func FromMap(data map[string]any) (*Profile, error) {
	var wire wireProfile
	if err := mapstructure.WeakDecode(data, &wire); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}

	p := &Profile{
		FullName: strings.TrimSpace(wire.FullName),
		Email:    strings.TrimSpace(wire.Email),
		Phone:    strings.TrimSpace(wire.Phone),
		Address:  strings.TrimSpace(wire.Address),
	}

	p.Education, p.EducationText = decodeItems[EducationItem](wire.Education)
	p.Experience, p.ExperienceText = decodeItems[ExperienceItem](wire.Experience)
	p.Skills, p.SkillsText = decodeStrings(wire.Skills)
	p.Certifications, p.CertificationsText = decodeStrings(wire.Certs)

	if err := p.Validate(); err != nil {
		return nil, err
	}

	return p, nil
}

// decodeItems accepts a list of structured records, a list of strings or a
// plain string. Structured records land in the typed slice; everything else
// is kept as free text.
func decodeItems[T any](value any) ([]T, string) {
	switch v := value.(type) {
	case nil:
		return nil, ""
	case string:
		return nil, strings.TrimSpace(v)
	case []any:
		var items []T
		if err := mapstructure.Decode(v, &items); err == nil && len(items) > 0 {
			return items, ""
		}

		texts, raw := decodeStrings(v)
		if raw != "" {
			return nil, raw
		}
		return nil, strings.Join(texts, "; ")
	default:
		return nil, strings.TrimSpace(fmt.Sprintf("%v", v))
	}
}

func decodeStrings(value any) ([]string, string) {
	switch v := value.(type) {
	case nil:
		return nil, ""
	case string:
		return nil, strings.TrimSpace(v)
	case []any:
		items := make([]string, 0, len(v))
		for _, item := range v {
			text := strings.TrimSpace(fmt.Sprintf("%v", item))
			if text != "" {
				items = append(items, text)
			}
		}
		if len(items) == 0 {
			return nil, ""
		}
		return items, ""
	case []string:
		return v, ""
	default:
		return nil, strings.TrimSpace(fmt.Sprintf("%v", v))
	}
}
