package profile

import (
	"errors"
	"testing"
)

func TestFromMapStructured(t *testing.T) {
	data := map[string]any{
		"Full Name":    "Jane Smith",
		"Email":        "jane@example.com",
		"Phone Number": "+1 555 0100",
		"Address":      "742 Evergreen Terrace",
		"Education": []any{
			map[string]any{"degree": "BSc Computer Science", "institution": "MIT"},
			map[string]any{"degree": "MSc Computer Science", "institution": "Stanford"},
		},
		"Work Experience": []any{
			map[string]any{"position": "Backend Engineer", "company": "Acme"},
		},
		"Skills":         []any{"Go", "Kubernetes", "PostgreSQL"},
		"Certifications": []any{"CKA"},
	}

	p, err := FromMap(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if p.FullName != "Jane Smith" {
		t.Fatalf("unexpected full name: %s", p.FullName)
	}

	want := "BSc Computer Science from MIT; MSc Computer Science from Stanford"
	if got := p.EducationString(); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}

	if got := p.ExperienceString(); got != "Backend Engineer at Acme" {
		t.Fatalf("unexpected experience: %q", got)
	}

	if got := p.SkillsString(); got != "Go, Kubernetes, PostgreSQL" {
		t.Fatalf("unexpected skills: %q", got)
	}

	if got := p.CertificationsString(); got != "CKA" {
		t.Fatalf("unexpected certifications: %q", got)
	}
}

func TestFromMapFreeText(t *testing.T) {
	data := map[string]any{
		"Email":           "jane@example.com",
		"Education":       "Self-taught",
		"Work Experience": "10 years of plumbing",
		"Skills":          "pipes, wrenches",
	}

	p, err := FromMap(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := p.EducationString(); got != "Self-taught" {
		t.Fatalf("unexpected education: %q", got)
	}

	if got := p.ExperienceString(); got != "10 years of plumbing" {
		t.Fatalf("unexpected experience: %q", got)
	}

	if got := p.SkillsString(); got != "pipes, wrenches" {
		t.Fatalf("unexpected skills: %q", got)
	}
}

func TestFromMapListOfStringsForComposite(t *testing.T) {
	data := map[string]any{
		"Email":     "jane@example.com",
		"Education": []any{"BSc from MIT", "MSc from Stanford"},
	}

	p, err := FromMap(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := p.EducationString(); got != "BSc from MIT; MSc from Stanford" {
		t.Fatalf("unexpected education: %q", got)
	}
}

func TestFromMapInvalid(t *testing.T) {
	_, err := FromMap(map[string]any{"Skills": []any{"Go"}})
	if !errors.Is(err, ErrInvalidProfile) {
		t.Fatalf("expected ErrInvalidProfile, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		profile *Profile
		wantErr bool
	}{
		{name: "full name only", profile: &Profile{FullName: "Jane"}},
		{name: "email only", profile: &Profile{Email: "jane@example.com"}},
		{name: "phone only", profile: &Profile{Phone: "555"}},
		{name: "whitespace only", profile: &Profile{FullName: "  "}, wantErr: true},
		{name: "empty", profile: &Profile{Skills: []string{"Go"}}, wantErr: true},
		{name: "nil", profile: nil, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.profile.Validate()
			if tc.wantErr && !errors.Is(err, ErrInvalidProfile) {
				t.Fatalf("expected ErrInvalidProfile, got %v", err)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestJoinPairPartialRecords(t *testing.T) {
	p := &Profile{
		Email: "jane@example.com",
		Education: []EducationItem{
			{Degree: "BSc"},
			{Institution: "MIT"},
		},
	}

	if got := p.EducationString(); got != "BSc; MIT" {
		t.Fatalf("unexpected education: %q", got)
	}
}

func TestAttributesOrder(t *testing.T) {
	p := &Profile{FullName: "Jane", Email: "jane@example.com"}

	attrs := p.Attributes()
	wantOrder := []string{
		AttrFullName, AttrEmail, AttrPhone, AttrAddress,
		AttrEducation, AttrExperience, AttrSkills, AttrCertifications,
	}

	if len(attrs) != len(wantOrder) {
		t.Fatalf("expected %d attributes, got %d", len(wantOrder), len(attrs))
	}

	for i, name := range wantOrder {
		if attrs[i].Name != name {
			t.Fatalf("expected %s at position %d, got %s", name, i, attrs[i].Name)
		}
	}
}

func TestMapOmitsEmpty(t *testing.T) {
	p := &Profile{FullName: "Jane", Skills: []string{"Go"}}

	m := p.Map()
	if len(m) != 2 {
		t.Fatalf("expected 2 keys, got %d: %v", len(m), m)
	}

	if m[AttrFullName] != "Jane" || m[AttrSkills] != "Go" {
		t.Fatalf("unexpected map content: %v", m)
	}
}
