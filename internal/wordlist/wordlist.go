// Package wordlist loads and validates the vocabulary words are drawn from.
package wordlist

import (
	"bufio"
	"bytes"
	"embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed data/en.txt
var defaultFS embed.FS

// Vocabulary is an immutable set of distinct words.
type Vocabulary struct {
	words []string
}

// New validates words and builds a Vocabulary. Duplicates keep their first position.
func New(words []string) (*Vocabulary, error) {
	seen := make(map[string]struct{}, len(words))
	out := make([]string, 0, len(words))
	for i, word := range words {
		if err := validateWord(word); err != nil {
			return nil, fmt.Errorf("word %d: %w", i+1, err)
		}
		if _, ok := seen[word]; ok {
			continue
		}
		seen[word] = struct{}{}
		out = append(out, word)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("word list is empty")
	}
	return &Vocabulary{words: out}, nil
}

// Len returns the number of distinct words.
func (v *Vocabulary) Len() int {
	return len(v.words)
}

// Words returns a copy of the vocabulary.
func (v *Vocabulary) Words() []string {
	return append([]string(nil), v.words...)
}

// At returns the word at position i.
func (v *Vocabulary) At(i int) string {
	return v.words[i]
}

// Default returns the embedded English vocabulary.
func Default() (*Vocabulary, error) {
	data, err := defaultFS.ReadFile("data/en.txt")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded word list: %w", err)
	}
	words, err := readLines(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return New(words)
}

// LoadWords reads a vocabulary from a file. Plain text files hold one word per line;
// .yaml and .yml files hold a top-level "words" sequence.
func LoadWords(path string) (*Vocabulary, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only word list.
			_ = cerr
		}
	}()

	var words []string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		words, err = readYAML(file)
	default:
		words, err = readLines(file)
	}
	if err != nil {
		return nil, err
	}
	return New(words)
}

type yamlWordList struct {
	Words []string `yaml:"words"`
}

func readYAML(r io.Reader) ([]string, error) {
	var doc yamlWordList
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse yaml word list: %w", err)
	}
	return doc.Words, nil
}

func readLines(r io.Reader) ([]string, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := validateWord(line); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return words, nil
}

func validateWord(word string) error {
	if word == "" {
		return fmt.Errorf("empty word")
	}
	for i := 0; i < len(word); i++ {
		ch := word[i]
		if ch > 0x7e || ch <= ' ' {
			return fmt.Errorf("%q must be printable ASCII without whitespace", word)
		}
	}
	return nil
}
