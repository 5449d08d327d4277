package filler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spigell/formfill/internal/gforms"
	"github.com/spigell/formfill/internal/resolver"
	"go.uber.org/zap"
)

func testFiller() *Filler {
	log := zap.NewNop()
	return New(gforms.New(log), resolver.New(nil, nil, log), log)
}

func TestSubmitDropsUnresolvedEntries(t *testing.T) {
	var gotForm map[string][]string

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parsing form: %v", err)
		}
		gotForm = r.PostForm
	}))
	defer ts.Close()

	mappings := []resolver.Mapping{
		{EntryID: 1, Label: "Full Name", Value: "Jane", Source: resolver.SourceRule},
		{EntryID: 2, Label: "Unknown", Source: resolver.SourceUnresolved},
	}

	result := testFiller().Submit(context.Background(), ts.URL+"/forms/d/e/abc/viewform", mappings)

	if !result.Success {
		t.Fatalf("expected success, got %+v", result)
	}

	if result.FilledCount != 1 {
		t.Fatalf("expected 1 filled field, got %d", result.FilledCount)
	}

	if _, ok := gotForm["entry.2"]; ok {
		t.Fatalf("unresolved entry must not be submitted: %v", gotForm)
	}

	if got := gotForm["entry.1"]; len(got) != 1 || got[0] != "Jane" {
		t.Fatalf("unexpected payload: %v", gotForm)
	}
}

func TestSubmitNothingResolved(t *testing.T) {
	mappings := []resolver.Mapping{
		{EntryID: 1, Label: "Unknown", Source: resolver.SourceUnresolved},
	}

	result := testFiller().Submit(context.Background(), "https://docs.google.com/forms/d/e/abc/viewform", mappings)

	if result.Success {
		t.Fatalf("expected failure, got %+v", result)
	}

	if result.Error == "" {
		t.Fatalf("expected an error message")
	}
}

func TestSubmitFailureLandsInResult(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	mappings := []resolver.Mapping{
		{EntryID: 1, Label: "Full Name", Value: "Jane", Source: resolver.SourceRule},
	}

	result := testFiller().Submit(context.Background(), ts.URL+"/forms/d/e/abc/viewform", mappings)

	if result.Success {
		t.Fatalf("expected failure, got %+v", result)
	}

	if result.Error == "" {
		t.Fatalf("expected the submission error to be reported")
	}
}
