package resolver

import (
	"strings"

	"github.com/spigell/formfill/internal/profile"
)

// category binds a set of label keywords to a profile attribute. Categories
// are tested in order and the first keyword hit wins, so the more specific
// identity attributes sit on top.
type category struct {
	name      string
	keywords  []string
	attribute string
}

var categories = []category{
	{name: "name", keywords: []string{"name", "full name"}, attribute: profile.AttrFullName},
	{name: "email", keywords: []string{"email", "e-mail", "mail"}, attribute: profile.AttrEmail},
	{name: "phone", keywords: []string{"phone", "mobile", "contact"}, attribute: profile.AttrPhone},
	{name: "address", keywords: []string{"address", "location", "city"}, attribute: profile.AttrAddress},
	{name: "education", keywords: []string{"education", "degree", "school", "university"}, attribute: profile.AttrEducation},
	{name: "experience", keywords: []string{"experience", "work", "job", "employment"}, attribute: profile.AttrExperience},
	{name: "skills", keywords: []string{"skill", "technology", "abilities", "competencies"}, attribute: profile.AttrSkills},
	{name: "certification", keywords: []string{"certification", "certificate", "license"}, attribute: profile.AttrCertifications},
}

// matchCategory finds the first category whose keywords occur in the
// normalized entry label.
func matchCategory(label string) (category, bool) {
	label = strings.ToLower(strings.TrimSpace(label))
	if label == "" {
		return category{}, false
	}

	for _, c := range categories {
		for _, keyword := range c.keywords {
			if strings.Contains(label, keyword) {
				return c, true
			}
		}
	}

	return category{}, false
}
