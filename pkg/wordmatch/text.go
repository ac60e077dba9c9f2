package wordmatch

import (
	"fmt"
	"os"
	"strings"
	"unicode"
)

// ReadError reports a failed source read along with the path identifier
// that could not be resolved.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// ReadAll resolves one path identifier into its text content.
func ReadAll(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &ReadError{Path: path, Err: err}
	}
	return string(data), nil
}

// stopwords never leave the tokenizer; matching them is noise.
var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {},
	"by": {}, "for": {}, "from": {}, "has": {}, "he": {}, "in": {}, "is": {},
	"it": {}, "its": {}, "of": {}, "on": {}, "or": {}, "that": {}, "the": {},
	"this": {}, "to": {}, "was": {}, "were": {}, "will": {}, "with": {},
}

// Tokenize splits text into candidate words: lower-cased, separated on
// anything that is not a letter or digit, stopwords removed.
func Tokenize(text string) []string {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	candidates := make([]string, 0, len(words))
	for _, word := range words {
		if _, skip := stopwords[word]; skip {
			continue
		}
		candidates = append(candidates, word)
	}
	return candidates
}
