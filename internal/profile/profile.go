package profile

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidProfile indicates the profile does not carry the minimum content
// required to fill anything meaningful.
var ErrInvalidProfile = errors.New("invalid resume profile")

// EducationItem is a single education record.
type EducationItem struct {
	Degree      string `mapstructure:"degree" json:"degree"`
	Institution string `mapstructure:"institution" json:"institution"`
}

// ExperienceItem is a single work experience record.
type ExperienceItem struct {
	Position string `mapstructure:"position" json:"position"`
	Company  string `mapstructure:"company" json:"company"`
}

// Profile is the normalized candidate data consumed by the resolver. It is
// built once per request and treated as immutable afterwards. Absent
// attributes stay empty; placeholder text is never stored.
//
// Education, Experience, Skills and Certifications can arrive either as
// structured lists or as free text. When the structured list is empty the
// matching *Text field may carry the free-text variant.
type Profile struct {
	FullName string
	Email    string
	Phone    string
	Address  string

	Education     []EducationItem
	EducationText string

	Experience     []ExperienceItem
	ExperienceText string

	Skills     []string
	SkillsText string

	Certifications     []string
	CertificationsText string
}

// Validate enforces the minimum-content invariant: at least one of full
// name, email or phone must be present.
func (p *Profile) Validate() error {
	if p == nil {
		return fmt.Errorf("%w: profile is nil", ErrInvalidProfile)
	}

	for _, v := range []string{p.FullName, p.Email, p.Phone} {
		if strings.TrimSpace(v) != "" {
			return nil
		}
	}

	return fmt.Errorf("%w: at least one of full name, email or phone is required", ErrInvalidProfile)
}

// EducationString flattens the education records to a single string in the
// form "<degree> from <institution>", joined by "; ".
func (p *Profile) EducationString() string {
	if len(p.Education) == 0 {
		return strings.TrimSpace(p.EducationText)
	}

	parts := make([]string, 0, len(p.Education))
	for _, item := range p.Education {
		parts = append(parts, joinPair(item.Degree, "from", item.Institution))
	}

	return strings.Join(parts, "; ")
}

// ExperienceString flattens the experience records to a single string in the
// form "<position> at <company>", joined by "; ".
func (p *Profile) ExperienceString() string {
	if len(p.Experience) == 0 {
		return strings.TrimSpace(p.ExperienceText)
	}

	parts := make([]string, 0, len(p.Experience))
	for _, item := range p.Experience {
		parts = append(parts, joinPair(item.Position, "at", item.Company))
	}

	return strings.Join(parts, "; ")
}

func (p *Profile) SkillsString() string {
	if len(p.Skills) == 0 {
		return strings.TrimSpace(p.SkillsText)
	}

	return strings.Join(p.Skills, ", ")
}

func (p *Profile) CertificationsString() string {
	if len(p.Certifications) == 0 {
		return strings.TrimSpace(p.CertificationsText)
	}

	return strings.Join(p.Certifications, ", ")
}

func joinPair(left, sep, right string) string {
	left = strings.TrimSpace(left)
	right = strings.TrimSpace(right)

	switch {
	case left == "":
		return right
	case right == "":
		return left
	default:
		return left + " " + sep + " " + right
	}
}

// Attribute is a named, already-flattened profile value.
type Attribute struct {
	Name  string
	Value string
}

// Attributes returns all profile attributes in their canonical order. The
// resolver relies on this order both for rule categories and for the
// fallback pass.
func (p *Profile) Attributes() []Attribute {
	return []Attribute{
		{Name: AttrFullName, Value: p.FullName},
		{Name: AttrEmail, Value: p.Email},
		{Name: AttrPhone, Value: p.Phone},
		{Name: AttrAddress, Value: p.Address},
		{Name: AttrEducation, Value: p.EducationString()},
		{Name: AttrExperience, Value: p.ExperienceString()},
		{Name: AttrSkills, Value: p.SkillsString()},
		{Name: AttrCertifications, Value: p.CertificationsString()},
	}
}

// Attribute returns the flattened value for the given attribute name.
func (p *Profile) Attribute(name string) string {
	for _, attr := range p.Attributes() {
		if attr.Name == name {
			return attr.Value
		}
	}

	return ""
}

// Canonical attribute names. They double as the keys of the collaborator
// wire shape (see FromMap and Map).
const (
	AttrFullName       = "Full Name"
	AttrEmail          = "Email"
	AttrPhone          = "Phone Number"
	AttrAddress        = "Address"
	AttrEducation      = "Education"
	AttrExperience     = "Work Experience"
	AttrSkills         = "Skills"
	AttrCertifications = "Certifications"
)

// Map renders the profile back into the collaborator wire shape. Empty
// attributes are omitted.
func (p *Profile) Map() map[string]any {
	result := make(map[string]any)
	for _, attr := range p.Attributes() {
		if strings.TrimSpace(attr.Value) == "" {
			continue
		}
		result[attr.Name] = attr.Value
	}

	return result
}
