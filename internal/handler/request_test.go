package handler

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/fake-news-api/internal/textclean"
)

func TestParsePredictRequest(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"string", `{"text": "some real news story"}`, "some real news story"},
		{"empty string", `{"text": ""}`, ""},
		{"extra fields ignored", `{"text": "x", "lang": "en"}`, "x"},
		{"escaped", `{"text": "line\nbreak é"}`, "line\nbreak é"},
		{"number coerced", `{"text": 12345}`, "12345"},
		{"null coerced", `{"text": null}`, "None"},
		{"bool coerced", `{"text": true}`, "True"},
		{"false coerced", `{"text": false}`, "False"},
		{"big int kept exact", `{"text": 123456789012345678901234567890}`, "123456789012345678901234567890"},
		{"float keeps decimal", `{"text": 1e5}`, "100000.0"},
		{"float shortest", `{"text": 0.1}`, "0.1"},
		{"float scientific", `{"text": 1e16}`, "1e+16"},
		{"float small scientific", `{"text": 0.000015}`, "1.5e-05"},
		{"float overflow", `{"text": 1e400}`, "inf"},
		{"array coerced", `{"text": [ "a", 1, null ]}`, `['a', 1, None]`},
		{"object coerced", `{"text": {"a": "b", "n": [true]}}`, `{'a': 'b', 'n': [True]}`},
		{"object key order", `{"text": {"z": 1, "a": 2, "z": 3}}`, `{'z': 3, 'a': 2}`},
		{"quote switch", `{"text": ["it's"]}`, `["it's"]`},
		{"escapes", `{"text": ["a\nb\u0001"]}`, `['a\nb\x01']`},
		{"empty containers", `{"text": [[], {}]}`, `[[], {}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := ParsePredictRequest(strings.NewReader(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.want, req.Text)
		})
	}
}

func TestParsePredictRequest_Invalid(t *testing.T) {
	bodies := []string{
		"",
		"   ",
		"{}",
		"null",
		"[]",
		`["text"]`,
		`"text"`,
		"{not json",
		`{"title": "x"}`,
	}

	for _, body := range bodies {
		_, err := ParsePredictRequest(strings.NewReader(body))
		assert.ErrorIs(t, err, ErrTextRequired, "body %q", body)
	}

	_, err := ParsePredictRequest(nil)
	assert.ErrorIs(t, err, ErrTextRequired)
}

func TestParsePredictRequest_CoercedTextNormalizes(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{`{"text": null}`, "none"},
		{`{"text": {"a": "b"}}`, "a b"},
		{`{"text": 1e5}`, ""},
		{`{"text": 1e16}`, "e"},
	}

	for _, tt := range tests {
		req, err := ParsePredictRequest(strings.NewReader(tt.body))
		require.NoError(t, err)
		assert.Equal(t, tt.want, textclean.Normalize(req.Text), "body %s", tt.body)
	}
}
