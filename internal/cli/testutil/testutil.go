// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
)

// FakeOmni serves the model listing and combined YAML endpoints.
// Models are listed one per page, in the order they were added.
type FakeOmni struct {
	URL string

	mu      sync.Mutex
	models  []fakeModel
	cursors []string
}

type fakeModel struct {
	id, name, yaml string
}

// NewFakeOmni starts a fake API that is closed when the test ends.
func NewFakeOmni(t *testing.T) *FakeOmni {
	t.Helper()
	f := &FakeOmni{}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	f.URL = srv.URL
	return f
}

// AddModel registers a model and the combined YAML returned for it.
func (f *FakeOmni) AddModel(id, name, yaml string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.models = append(f.models, fakeModel{id: id, name: name, yaml: yaml})
}

// Cursors returns the cursor of every listing request, "" for the first page.
func (f *FakeOmni) Cursors() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.cursors...)
}

func (f *FakeOmni) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if r.Header.Get("Authorization") == "" {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}

	if r.URL.Path == "/api/unstable/models" {
		cursor := r.URL.Query().Get("cursor")
		f.cursors = append(f.cursors, cursor)
		f.writePage(w, cursor)
		return
	}

	rest, _ := strings.CutPrefix(r.URL.Path, "/api/unstable/models/")
	if id, ok := strings.CutSuffix(rest, "/yaml"); ok {
		for _, m := range f.models {
			if m.id == id {
				_, _ = w.Write([]byte(m.yaml))
				return
			}
		}
	}
	http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
}

// writePage writes the model at position cursor ("" is 0).
func (f *FakeOmni) writePage(w http.ResponseWriter, cursor string) {
	i := 0
	for i < len(f.models) && cursor != "" && f.models[i].id != cursor {
		i++
	}
	if i >= len(f.models) {
		_, _ = w.Write([]byte(`{"records":[],"pageInfo":{"hasNextPage":false}}`))
		return
	}
	m := f.models[i]
	page := `{"records":[{"id":"` + m.id + `","name":"` + m.name + `"}],"pageInfo":{"hasNextPage":false}}`
	if i+1 < len(f.models) {
		page = `{"records":[{"id":"` + m.id + `","name":"` + m.name + `"}],"pageInfo":{"hasNextPage":true,"nextCursor":"` + f.models[i+1].id + `"}}`
	}
	_, _ = w.Write([]byte(page))
}

// WriteConfig writes an omnicatalog.yaml into a temp dir and returns its path.
func WriteConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "omnicatalog.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}

// AssertValidMarkdown performs basic markdown validation.
// It checks for unclosed code fences and empty headings.
func AssertValidMarkdown(t *testing.T, md string) {
	t.Helper()

	fenceCount := strings.Count(md, "```")
	if fenceCount%2 != 0 {
		t.Errorf("unbalanced code fences in markdown: found %d occurrences", fenceCount)
	}

	for i, line := range strings.Split(md, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") && strings.TrimLeft(trimmed, "# ") == "" {
			t.Errorf("empty header at line %d: %q", i+1, line)
		}
	}
}
