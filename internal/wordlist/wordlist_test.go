package wordlist

import (
	"os"
	"path/filepath"
	"testing"
)

func writeList(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadReadsLanguageFiles(t *testing.T) {
	dir := t.TempDir()
	writeList(t, dir, "en.txt", "The\nquick \n\nbrown\n")
	writeList(t, dir, "de.txt", "der\ndie\ndas\n")
	writeList(t, dir, "notes.md", "not a word list")

	lib, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	words, found := lib.Words("en")
	if !found {
		t.Fatal("en list not found")
	}
	want := []string{"the", "quick", "brown"}
	if len(words) != len(want) {
		t.Fatalf("en words = %v, want %v", words, want)
	}
	for i := range want {
		if words[i] != want[i] {
			t.Errorf("en[%d] = %q, want %q", i, words[i], want[i])
		}
	}

	if got := len(lib.Languages()); got != 2 {
		t.Errorf("loaded %d languages, want 2", got)
	}
}

func TestWordsFallsBackToDefault(t *testing.T) {
	dir := t.TempDir()
	writeList(t, dir, "en.txt", "alpha\nbeta\n")

	lib, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	words, found := lib.Words("xx")
	if found {
		t.Error("unknown language reported as found")
	}
	if len(words) != 2 {
		t.Errorf("fallback returned %d words, want the en list", len(words))
	}

	if _, found := lib.Words(" EN "); !found {
		t.Error("language lookup should ignore case and whitespace")
	}
}

func TestLoadEmptyDirFails(t *testing.T) {
	if _, err := Load(t.TempDir()); err == nil {
		t.Error("expected an error for a directory with no word lists")
	}
}

func TestLoadSkipsEmptyLists(t *testing.T) {
	dir := t.TempDir()
	writeList(t, dir, "en.txt", "alpha\n")
	writeList(t, dir, "empty.txt", "\n\n")

	lib, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, found := lib.Words("empty"); found {
		t.Error("an empty list must not be registered")
	}
}
