package wordmatch

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize_SplitsOnPunctuationAndSpace(t *testing.T) {
	t.Parallel()

	got := Tokenize("Helo, wrld! (draft-2)")
	assert.Equal(t, []string{"helo", "wrld", "draft", "2"}, got)
}

func TestTokenize_RemovesStopwords(t *testing.T) {
	t.Parallel()

	got := Tokenize("the helo and that wrld of it")
	assert.Equal(t, []string{"helo", "wrld"}, got)
}

func TestTokenize_Empty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, Tokenize(""))
	assert.Empty(t, Tokenize("...---..."))
	assert.Empty(t, Tokenize("the of and"))
}

func TestReadAll_ReturnsContent(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "input.txt")
	if err := os.WriteFile(path, []byte("helo wrld"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	text, err := ReadAll(path)
	assert.NoError(t, err)
	assert.Equal(t, "helo wrld", text)
}

func TestReadAll_MissingFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "absent.txt")

	_, err := ReadAll(path)
	if err == nil {
		t.Fatal("expected a read failure")
	}

	var readErr *ReadError
	if !errors.As(err, &readErr) {
		t.Fatalf("expected a ReadError, got: %v", err)
	}
	assert.Equal(t, path, readErr.Path)
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected the original cause to unwrap, got: %v", err)
	}
}
