package gforms

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

// schemaFixture mirrors the relevant shape of a real form page payload:
// questions at [1][1], label at question[1], type at question[3] and
// sub-entries at question[4].
const schemaFixture = `[null,["Form description",[` +
	`[101,"Full Name",null,0,[[1000001,null,1]]],` +
	`[102,"Email Address",null,0,[[1000002,null,1]]],` +
	`[103,"Gender",null,2,[[1000003,[["Male"],["Female"],["Prefer not to say"]],0]]],` +
	`[104,null,null,8,[[1000099,null,0]]],` +
	`[105,"Emergency Contact",null,0,[[1000004,null,0],[1000005,null,0]]],` +
	`[106,"Tell us about yourself [with brackets]",null,1,[[1000006,null,0]]]` +
	`],"Job Application"],null,null,null,null,null,null,null,null,null,null,null,null,"formid123"]`

func formPage(schema string) string {
	return fmt.Sprintf(
		`<!DOCTYPE html><html><head><script type="text/javascript">var FB_PUBLIC_LOAD_DATA_ = %s;</script></head><body></body></html>`,
		schema,
	)
}

func TestExtractSchema(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, formPage(schemaFixture))
	}))
	defer ts.Close()

	client := New(zap.NewNop())

	schema, err := client.ExtractSchema(context.Background(), ts.URL+"/forms/d/e/abc123/viewform")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if schema.FormID != "abc123" {
		t.Fatalf("expected form id abc123, got %s", schema.FormID)
	}

	// The meta question is dropped, the grouped question expands into two
	// entries.
	if schema.Len() != 6 {
		t.Fatalf("expected 6 entries, got %d", schema.Len())
	}

	first := schema.Entries[0]
	if first.ID != 1000001 || first.Name != "Full Name" || !first.Required {
		t.Fatalf("unexpected first entry: %+v", first)
	}

	if first.Type != TypeShortText {
		t.Fatalf("expected short_text, got %s", first.Type)
	}

	gender := schema.Entries[2]
	if gender.Type != TypeRadio {
		t.Fatalf("expected radio, got %s", gender.Type)
	}

	if len(gender.Options) != 3 || gender.Options[0] != "Male" {
		t.Fatalf("unexpected options: %v", gender.Options)
	}

	if gender.Required {
		t.Fatalf("gender entry should not be required")
	}

	// Grouped sub-entries keep the parent label and stay in payload order.
	if schema.Entries[3].ID != 1000004 || schema.Entries[4].ID != 1000005 {
		t.Fatalf("unexpected grouped entry order: %+v", schema.Entries[3:5])
	}

	if schema.Entries[3].Name != "Emergency Contact" || schema.Entries[4].Name != "Emergency Contact" {
		t.Fatalf("grouped entries should carry the parent label")
	}

	last := schema.Entries[5]
	if last.Type != TypeParagraph || last.Name != "Tell us about yourself [with brackets]" {
		t.Fatalf("unexpected last entry: %+v", last)
	}
}

func TestExtractSchemaMissingVariable(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "<html><body>not a form</body></html>")
	}))
	defer ts.Close()

	client := New(zap.NewNop())

	_, err := client.ExtractSchema(context.Background(), ts.URL+"/forms/d/e/abc123/viewform")
	if !errors.Is(err, ErrSchemaParse) {
		t.Fatalf("expected ErrSchemaParse, got %v", err)
	}
}

func TestExtractSchemaPageNotFound(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	client := New(zap.NewNop())

	_, err := client.ExtractSchema(context.Background(), ts.URL+"/forms/d/e/abc123/viewform")
	if !errors.Is(err, ErrFormNotFound) {
		t.Fatalf("expected ErrFormNotFound, got %v", err)
	}
}

func TestFormID(t *testing.T) {
	cases := []struct {
		name    string
		url     string
		want    string
		wantErr bool
	}{
		{
			name: "published url",
			url:  "https://docs.google.com/forms/d/e/1FAIpQLSfx/viewform",
			want: "1FAIpQLSfx",
		},
		{
			name: "editor url",
			url:  "https://docs.google.com/forms/d/1aBcD/edit",
			want: "1aBcD",
		},
		{
			name: "no trailing path",
			url:  "https://docs.google.com/forms/d/e/1FAIpQLSfx",
			want: "1FAIpQLSfx",
		},
		{
			name:    "not a form url",
			url:     "https://example.com/something",
			wantErr: true,
		},
		{
			name:    "empty id",
			url:     "https://docs.google.com/forms/d/e//viewform",
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := FormID(tc.url)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidURL) {
					t.Fatalf("expected ErrInvalidURL, got %v", err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestExtractScriptVarBracketWalking(t *testing.T) {
	// Strings containing brackets and escaped quotes must not confuse the
	// extent detection, and trailing script content must be excluded.
	html := `var FB_PUBLIC_LOAD_DATA_ = [1,["a ] b","c \" ] d",[2,3]],null]; var OTHER_ = [4,5];`

	raw, err := extractScriptVar(schemaVar, html)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := `[1,["a ] b","c \" ] d",[2,3]],null]`
	if raw != want {
		t.Fatalf("expected %s, got %s", want, raw)
	}
}

func TestExtractScriptVarUnterminated(t *testing.T) {
	_, err := extractScriptVar(schemaVar, `var FB_PUBLIC_LOAD_DATA_ = [1,[2,3]`)
	if !errors.Is(err, ErrSchemaParse) {
		t.Fatalf("expected ErrSchemaParse, got %v", err)
	}
}

func TestDecodeSchemaMalformed(t *testing.T) {
	_, err := decodeSchema(`[null,null]`)
	if !errors.Is(err, ErrSchemaParse) {
		t.Fatalf("expected ErrSchemaParse, got %v", err)
	}
}
