// Package textclean turns raw article text into the canonical form the
// vectorizer was fitted on.
package textclean

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const urlPrefix = "http"

// Normalizer is implemented by anything that can canonicalize input text.
type Normalizer interface {
	Normalize(text string) string
}

// NormalizerFunc adapts a plain function to the Normalizer interface.
type NormalizerFunc func(text string) string

// Normalize calls f(text).
func (f NormalizerFunc) Normalize(text string) string { return f(text) }

// Default is the normalizer used by the prediction service.
var Default Normalizer = NormalizerFunc(Normalize)

// Normalize lowercases text, strips URL-like tokens, drops every rune that is
// not an ASCII lowercase letter or whitespace and trims the result.
//
// A URL-like token is "http" followed by at least one non-whitespace rune and
// runs to the next whitespace; it may start in the middle of a word. Internal
// whitespace is kept as-is.
func Normalize(text string) string {
	lowered := strings.ToLower(text)
	return strings.TrimFunc(stripDisallowed(stripURLs(lowered)), IsSpace)
}

// stripURLs removes every "http" + non-whitespace run, scanning left to right
// without re-examining what was already emitted.
func stripURLs(s string) string {
	if !strings.Contains(s, urlPrefix) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if strings.HasPrefix(s[i:], urlPrefix) {
			end := i + len(urlPrefix)
			for end < len(s) {
				r, size := utf8.DecodeRuneInString(s[end:])
				if IsSpace(r) {
					break
				}
				end += size
			}
			if end > i+len(urlPrefix) {
				i = end
				continue
			}
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			b.WriteByte(s[i])
		} else {
			b.WriteRune(r)
		}
		i += size
	}
	return b.String()
}

func stripDisallowed(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsSpace reports whether r counts as whitespace for normalization. Besides
// the Unicode white space set it includes the ASCII file, group, record and
// unit separators (0x1C-0x1F).
func IsSpace(r rune) bool {
	if r >= 0x1c && r <= 0x1f {
		return true
	}
	return unicode.IsSpace(r)
}
