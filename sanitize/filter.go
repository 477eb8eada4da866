package sanitize

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"
)

// Filter decides the replacement for a single whitespace-delimited token.
// Tokens the filter does not recognise are returned unchanged.
type Filter interface {
	Replace(word string) string
}

// DefaultReplacements maps profanity to family-friendly alternatives.
var DefaultReplacements = map[string]string{
	"damn":    "darn",
	"hell":    "heck",
	"shit":    "poop",
	"fuck":    "fudge",
	"bitch":   "witch",
	"whore":   "witch",
	"asshole": "meanie",
	"bastard": "rascal",
}

// TableFilter replaces tokens by exact, case-insensitive lookup. It does no
// stemming and no substring matching, so "damn!" or "damnit" pass through.
type TableFilter struct {
	table map[string]string
}

// NewTableFilter builds a filter from a word -> replacement table. A table in
// which some replacement is itself a key is rejected, since replacing twice
// would then differ from replacing once.
func NewTableFilter(table map[string]string) (*TableFilter, error) {
	t := make(map[string]string, len(table))
	for word, repl := range table {
		w := strings.ToLower(strings.TrimSpace(word))
		if w == "" {
			continue
		}
		t[w] = repl
	}
	for word, repl := range t {
		if _, chained := t[strings.ToLower(repl)]; chained {
			return nil, fmt.Errorf("replacement %q for %q is itself filtered", repl, word)
		}
	}
	return &TableFilter{table: t}, nil
}

// Replace implements Filter.
func (f *TableFilter) Replace(word string) string {
	if repl, ok := f.table[strings.ToLower(word)]; ok {
		return repl
	}
	return word
}

// Len returns the number of filtered words.
func (f *TableFilter) Len() int { return len(f.table) }

// LoadWordList parses a word list. Each non-blank, non-comment line is either
// "word=replacement" or a bare "word", which is masked with asterisks.
func LoadWordList(r io.Reader) (map[string]string, error) {
	out := make(map[string]string)
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		word, repl, found := strings.Cut(text, "=")
		word = strings.ToLower(strings.TrimSpace(word))
		if word == "" || strings.ContainsAny(word, " \t") {
			return nil, fmt.Errorf("word list line %d: invalid entry %q", line, text)
		}
		if found {
			repl = strings.TrimSpace(repl)
			if repl == "" || strings.ContainsAny(repl, " \t") {
				return nil, fmt.Errorf("word list line %d: replacement must be a single word", line)
			}
		} else {
			repl = strings.Repeat("*", utf8.RuneCountInString(word))
		}
		out[word] = repl
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read word list: %w", err)
	}
	return out, nil
}

// NewFilterFromFile merges the word list at path over DefaultReplacements.
// An empty path or a missing file yields the default table.
func NewFilterFromFile(path string) (*TableFilter, error) {
	table := make(map[string]string, len(DefaultReplacements))
	for k, v := range DefaultReplacements {
		table[k] = v
	}
	if path == "" {
		return NewTableFilter(table)
	}

	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return NewTableFilter(table)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open word list: %w", err)
	}
	defer f.Close()

	extra, err := LoadWordList(f)
	if err != nil {
		return nil, err
	}
	for k, v := range extra {
		table[k] = v
	}
	return NewTableFilter(table)
}
