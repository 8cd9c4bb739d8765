// File path: internal/docs/index_test.go
package docs

import (
	"os"
	"path/filepath"
	"testing"
)

func writeDoc(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write doc: %v", err)
	}
}

func TestIndexMissingDirectoryIsEmptyNotFatal(t *testing.T) {
	idx, err := NewIndex(filepath.Join(t.TempDir(), "does-not-exist"))
	if err != nil {
		t.Fatalf("missing directory must not be fatal: %v", err)
	}
	if idx.Size() != 0 {
		t.Fatalf("expected empty index, got %d chunks", idx.Size())
	}
	if results := idx.Search("anything", 3); len(results) != 0 {
		t.Fatalf("expected no results, got %d", len(results))
	}
}

func TestIndexSearchRanksRelevantDocFirst(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "prompting.md", "# Prompting Basics\n\nPrompting is how you steer the coding assistant. Good prompts state the goal and the constraints.")
	writeDoc(t, dir, "billing.md", "# Billing\n\nSubscriptions renew monthly. Invoices are emailed on the first of the month.")

	idx, err := NewIndex(dir)
	if err != nil {
		t.Fatalf("new index: %v", err)
	}
	if idx.Size() < 2 {
		t.Fatalf("expected at least 2 chunks, got %d", idx.Size())
	}
	results := idx.Search("how do I write good prompts", 2)
	if len(results) == 0 {
		t.Fatal("expected search results")
	}
	if results[0].Title != "Prompting Basics" {
		t.Fatalf("expected prompting doc first, got %q", results[0].Title)
	}
	if results[0].Score <= 0 {
		t.Fatalf("expected positive score, got %f", results[0].Score)
	}
}

func TestIndexIgnoresNonMarkdownFiles(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "guide.md", "# Guide\n\nSome guidance.")
	writeDoc(t, dir, "notes.txt", "plain text that should not be indexed")

	idx, err := NewIndex(dir)
	if err != nil {
		t.Fatalf("new index: %v", err)
	}
	for _, snippet := range idx.Search("plain text", 5) {
		if filepath.Ext(snippet.Path) == ".txt" {
			t.Fatalf("indexed a non-markdown file: %s", snippet.Path)
		}
	}
}

func TestSearchLimitAndEmptyQuery(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "a.md", "# A\n\nalpha beta gamma")
	writeDoc(t, dir, "b.md", "# B\n\nalpha beta delta")
	writeDoc(t, dir, "c.md", "# C\n\nalpha epsilon")

	idx, err := NewIndex(dir)
	if err != nil {
		t.Fatalf("new index: %v", err)
	}
	if results := idx.Search("alpha", 2); len(results) > 2 {
		t.Fatalf("limit not honored: %d results", len(results))
	}
	if results := idx.Search("   ", 3); len(results) != 0 {
		t.Fatalf("expected no results for empty query, got %d", len(results))
	}
}
