package wordlist

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// DefaultLanguage is used when a session request names no language.
const DefaultLanguage = "en"

// Library holds the per-language word lists used to generate typing-test
// sessions. Lists are loaded once at startup.
type Library struct {
	words map[string][]string
}

// Load reads every <language>.txt file in dir. A directory with no usable
// lists is an error; individual unreadable files only log a warning.
func Load(dir string) (*Library, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read word list dir: %w", err)
	}

	lib := &Library{words: make(map[string][]string)}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}
		lang := strings.TrimSuffix(entry.Name(), ".txt")
		words, err := loadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			log.Printf("Warning: failed to load word list %s: %v", entry.Name(), err)
			continue
		}
		if len(words) == 0 {
			log.Printf("Warning: word list %s is empty, skipping", entry.Name())
			continue
		}
		lib.words[lang] = words
		log.Printf("Loaded %d words for language %q", len(words), lang)
	}

	if len(lib.words) == 0 {
		return nil, fmt.Errorf("no word lists found in %s", dir)
	}
	return lib, nil
}

func loadFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var words []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		word := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if word != "" {
			words = append(words, word)
		}
	}
	return words, scanner.Err()
}

// Words returns the list for a language, falling back to DefaultLanguage.
// The second return reports whether the requested language was found.
func (l *Library) Words(language string) ([]string, bool) {
	lang := strings.ToLower(strings.TrimSpace(language))
	if lang == "" {
		lang = DefaultLanguage
	}
	if words, ok := l.words[lang]; ok {
		return words, true
	}
	return l.words[DefaultLanguage], false
}

// Languages lists the loaded language keys.
func (l *Library) Languages() []string {
	langs := make([]string, 0, len(l.words))
	for lang := range l.words {
		langs = append(langs, lang)
	}
	return langs
}
