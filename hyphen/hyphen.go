// Package hyphen provides Knuth-Liang pattern hyphenation for the drawing
// engine, backed by github.com/speedata/hyphenation. Pattern files are the
// standard TeX hyphenation pattern files (hyph-en-us.pat.txt and friends).
package hyphen

import (
	"io"
	"os"
	"strings"

	"github.com/speedata/hyphenation"
)

// Patterns is a loaded hyphenation pattern set. It implements the drawing
// engine's Hyphenator interface and is safe for concurrent use once
// loaded.
type Patterns struct {
	lang *hyphenation.Lang
}

// Load reads a TeX hyphenation pattern file.
func Load(r io.Reader) (*Patterns, error) {
	lang, err := hyphenation.New(r)
	if err != nil {
		return nil, err
	}
	return &Patterns{lang: lang}, nil
}

// LoadFile loads a pattern file from disk.
func LoadFile(path string) (*Patterns, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

// Breakpoints returns the rune indices within word after which a hyphen
// may be inserted. Patterns are case-insensitive.
func (p *Patterns) Breakpoints(word string) []int {
	return p.lang.Hyphenate(strings.ToLower(word))
}
