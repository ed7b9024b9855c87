package seeker

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHTTPProvider_Search(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "what is zero" {
			t.Errorf("query = %q, want %q", got, "what is zero")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[
			{"title":"Zero","description":"the absence of quantity"},
			{"title":"0","description":"a number"},
			{"title":"Null","description":"nothing"},
			{"title":"Extra","description":"beyond the cap"}
		]}`))
	}))
	defer srv.Close()

	p := NewHTTPProvider(srv.URL, "")
	results, err := p.Search(context.Background(), "what is zero")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != MaxResults {
		t.Fatalf("results = %d, want %d", len(results), MaxResults)
	}
	if results[0].Title != "Zero" || results[0].Snippet != "the absence of quantity" {
		t.Errorf("first result = %+v", results[0])
	}
}

func TestHTTPProvider_SendsBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer sekrit" {
			t.Errorf("authorization = %q", got)
		}
		w.Write([]byte(`{"results":[]}`))
	}))
	defer srv.Close()

	p := NewHTTPProvider(srv.URL, "sekrit")
	if _, err := p.Search(context.Background(), "anything"); err != nil {
		t.Fatalf("Search: %v", err)
	}
}

func TestHTTPProvider_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	p := NewHTTPProvider(srv.URL, "")
	if _, err := p.Search(context.Background(), "anything"); err == nil {
		t.Error("expected error for non-200 status")
	}
}

func TestHTTPProvider_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	p := NewHTTPProvider(srv.URL, "")
	if _, err := p.Search(context.Background(), "anything"); err == nil {
		t.Error("expected error for malformed body")
	}
}

func TestCompose(t *testing.T) {
	text := Compose("what is zero", []Result{
		{Title: "Zero", Snippet: "the absence of quantity"},
		{Title: "0", Snippet: "a number"},
	})

	if !strings.HasPrefix(text, "Sought: what is zero") {
		t.Errorf("text = %q", text)
	}
	if !strings.Contains(text, "Zero: the absence of quantity") {
		t.Errorf("missing result line in %q", text)
	}
	lines := strings.Split(text, "\n")
	if len(lines) != 3 {
		t.Errorf("lines = %d, want 3", len(lines))
	}
}

func TestCompose_NoResults(t *testing.T) {
	if got := Compose("anything", nil); got != "Sought: anything" {
		t.Errorf("Compose = %q", got)
	}
}
