package textclean

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"digits only", "12345", ""},
		{"case folding and punctuation", "BREAKING News!!!", "breaking news"},
		{"url in the middle", "Check http://example.com/path now", "check  now"},
		{"https url", "see https://t.co/abc123 here", "see  here"},
		{"url at start", "http://x.y/z rest", "rest"},
		{"url glued to a word", "readhttp://foo.bar/baz more", "read more"},
		{"bare http kept", "http is a protocol", "http is a protocol"},
		{"http at end kept", "plain http", "plain http"},
		{"uppercase url", "HTTP://EXAMPLE.COM ok", "ok"},
		{"internal whitespace preserved", "a\t\tb   c", "a\t\tb   c"},
		{"surrounding whitespace trimmed", "  \n hello world \r\n", "hello world"},
		{"non ascii letters removed", "Café naïve résumé", "caf nave rsum"},
		{"unicode whitespace kept inside", "a\u00a0b", "a\u00a0b"},
		{"unicode whitespace trimmed", "\u3000word\u2003", "word"},
		{"ascii separators count as whitespace", "a\x1fb", "a\x1fb"},
		{"url stops at separator", "httpfoo\x1dbar", "bar"},
		{"apostrophes and digits", "Don't panic: 42 reasons", "dont panic  reasons"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalize_OutputAlphabet(t *testing.T) {
	inputs := []string{
		"Hello, World! 2024 #news @user",
		"Visit https://news.example.org/a?b=c&d=e for MORE",
		"ÀÉÎÕÜ ñ ß ø æ",
		"tabs\tand\nnewlines\r\n",
		"emoji 🚀 rocket",
		"mixed123CASE_with-dashes",
		"\x00\x01control\x7f",
	}

	for _, in := range inputs {
		out := Normalize(in)
		for _, r := range out {
			ok := (r >= 'a' && r <= 'z') || IsSpace(r)
			assert.Truef(t, ok, "Normalize(%q) produced disallowed rune %q", in, r)
		}
		assert.Equal(t, strings.TrimFunc(out, IsSpace), out, "result must be trimmed")
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"BREAKING: Scientists discover water on Mars!!!",
		"Check http://example.com/path now",
		"The senator said (on Tuesday) that 3 bills would pass.",
		"  lots   of   spaces  ",
		"Read more at https://www.example.com/news/2024/01/story.html",
		"http only",
	}

	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestNormalize_URLRequiresTrailingCharacter(t *testing.T) {
	// "http" directly followed by whitespace or end of input is a word, not a URL.
	assert.Equal(t, "http", Normalize("http"))
	assert.Equal(t, "", Normalize("https"))
	assert.Equal(t, "xhttp y", Normalize("xhttp y"))
}

func TestDefaultNormalizer(t *testing.T) {
	assert.Equal(t, "breaking news", Default.Normalize("BREAKING News!!!"))
}

func BenchmarkNormalize(b *testing.B) {
	text := strings.Repeat("Officials CONFIRMED the report at https://example.com/a/b today, 2024! ", 50)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = Normalize(text)
	}
}
