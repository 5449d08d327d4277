package resume

import (
	"regexp"
	"strings"

	"github.com/spigell/formfill/internal/profile"
)

var (
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	phonePattern = regexp.MustCompile(`(\+?\d[\d\s\-().]{7,}\d)`)
)

// section headings recognized by the heuristic scanner, mapped to the
// profile attribute they fill.
var sectionHeadings = map[string]string{
	"skills":           profile.AttrSkills,
	"technical skills": profile.AttrSkills,
	"education":        profile.AttrEducation,
	"experience":       profile.AttrExperience,
	"work experience":  profile.AttrExperience,
	"employment":       profile.AttrExperience,
	"certifications":   profile.AttrCertifications,
	"certificates":     profile.AttrCertifications,
	"address":          profile.AttrAddress,
}

// heuristicProfile builds a best-effort profile from raw resume text without
// any AI assistance: regex scans for contact data, the first plausible line
// as the name and labeled sections for the composite attributes. Attributes
// that cannot be found stay empty.
func heuristicProfile(text string) *profile.Profile {
	p := &profile.Profile{
		Email: emailPattern.FindString(text),
		Phone: strings.TrimSpace(phonePattern.FindString(text)),
	}

	lines := strings.Split(text, "\n")
	p.FullName = guessName(lines)

	for attribute, body := range scanSections(lines) {
		switch attribute {
		case profile.AttrSkills:
			p.SkillsText = body
		case profile.AttrEducation:
			p.EducationText = body
		case profile.AttrExperience:
			p.ExperienceText = body
		case profile.AttrCertifications:
			p.CertificationsText = body
		case profile.AttrAddress:
			p.Address = body
		}
	}

	return p
}

// guessName takes the first non-empty line that does not look like contact
// data or a section heading.
func guessName(lines []string) string {
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		lower := strings.ToLower(line)
		if strings.ContainsAny(line, "@0123456789") {
			continue
		}
		if _, isHeading := sectionHeadings[strings.TrimRight(lower, ":")]; isHeading {
			continue
		}
		if len([]rune(line)) > 60 {
			continue
		}

		return line
	}

	return ""
}

// scanSections collects the text between a recognized heading and the next
// heading (or the end of the document).
func scanSections(lines []string) map[string]string {
	sections := make(map[string]string)

	current := ""
	var body []string

	flush := func() {
		if current == "" {
			return
		}
		text := strings.TrimSpace(strings.Join(body, "; "))
		if text != "" && sections[current] == "" {
			sections[current] = text
		}
	}

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		heading := strings.ToLower(strings.TrimRight(line, ":"))
		if attribute, ok := sectionHeadings[heading]; ok {
			flush()
			current = attribute
			body = body[:0]
			continue
		}

		if current != "" {
			body = append(body, line)
		}
	}
	flush()

	return sections
}
