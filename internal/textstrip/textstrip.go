// Package textstrip turns raw prose into the lowercase, letters-only text
// the cipher engines and analyzers expect.
package textstrip

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/net/html"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/RowanDark/cipherkit/internal/alphabet"
)

// Strip decomposes accented letters to their base letter, drops every
// character that is not an ASCII letter and lowercases the rest.
func Strip(s string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn))), s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if alphabet.IsLetter(r) {
			b.WriteRune(alphabet.ToLower(r))
		}
	}
	return b.String()
}

// StripHTML extracts the visible text of an HTML document and strips it.
// Script and style contents are ignored.
func StripHTML(r io.Reader) (string, error) {
	z := html.NewTokenizer(r)
	var text strings.Builder
	skip := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			if errors.Is(z.Err(), io.EOF) {
				return Strip(text.String()), nil
			}
			return "", fmt.Errorf("parse html: %w", z.Err())
		case html.StartTagToken:
			if hiddenTag(z) {
				skip++
			}
		case html.EndTagToken:
			if hiddenTag(z) && skip > 0 {
				skip--
			}
		case html.TextToken:
			if skip == 0 {
				text.Write(z.Text())
				text.WriteByte(' ')
			}
		}
	}
}

func hiddenTag(z *html.Tokenizer) bool {
	name, _ := z.TagName()
	return bytes.Equal(name, []byte("script")) || bytes.Equal(name, []byte("style"))
}

// Load reads path and strips its contents, parsing .html and .htm files as
// HTML.
func Load(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return StripHTML(bytes.NewReader(data))
	default:
		return Strip(string(data)), nil
	}
}
