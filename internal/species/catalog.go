// Package species maps the sequence-guess game's entity ids to their
// names. Validation compares a player's guesses against these names, never
// against anything the client sends.
package species

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Catalog struct {
	names map[int]string
	maxID int
}

// Load reads a catalog file with one "id name" pair per line. Blank lines
// and lines starting with # are skipped.
func Load(path string) (*Catalog, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open species catalog: %w", err)
	}
	defer file.Close()

	c := &Catalog{names: make(map[int]string)}
	scanner := bufio.NewScanner(file)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.SplitN(text, " ", 2)
		if len(fields) != 2 {
			return nil, fmt.Errorf("species catalog line %d: want \"id name\", got %q", line, text)
		}
		id, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("species catalog line %d: bad id %q", line, fields[0])
		}
		c.names[id] = strings.TrimSpace(fields[1])
		if id > c.maxID {
			c.maxID = id
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(c.names) == 0 {
		return nil, fmt.Errorf("species catalog %s is empty", path)
	}
	return c, nil
}

// FromMap builds a catalog directly; used by tests.
func FromMap(names map[int]string) *Catalog {
	c := &Catalog{names: make(map[int]string, len(names))}
	for id, name := range names {
		c.names[id] = name
		if id > c.maxID {
			c.maxID = id
		}
	}
	return c
}

// Name returns the entity name for an id.
func (c *Catalog) Name(id int) (string, bool) {
	name, ok := c.names[id]
	return name, ok
}

// Matches reports whether a guess names the entity, ignoring case and
// surrounding whitespace.
func (c *Catalog) Matches(id int, guess string) bool {
	name, ok := c.names[id]
	if !ok {
		return false
	}
	return strings.EqualFold(name, strings.TrimSpace(guess))
}

// MaxID is the upper bound of the id range sessions draw from.
func (c *Catalog) MaxID() int {
	return c.maxID
}

// Len returns the catalog size.
func (c *Catalog) Len() int {
	return len(c.names)
}
