package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
)

// TextRequiredMessage is the error body /predict returns for any invalid input.
const TextRequiredMessage = "Text field is required"

// ErrTextRequired is the only client error /predict reports.
var ErrTextRequired = errors.New("text field is required")

// PredictRequest is the validated /predict body.
type PredictRequest struct {
	Text string
}

// ParsePredictRequest validates body as a JSON object carrying a "text"
// member. String values are taken verbatim; any other JSON value, null
// included, is coerced by coerceText. Every failure yields ErrTextRequired.
func ParsePredictRequest(r io.Reader) (PredictRequest, error) {
	if r == nil {
		return PredictRequest{}, ErrTextRequired
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return PredictRequest{}, err
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return PredictRequest{}, ErrTextRequired
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil || len(fields) == 0 {
		return PredictRequest{}, ErrTextRequired
	}
	raw, ok := fields["text"]
	if !ok {
		return PredictRequest{}, ErrTextRequired
	}

	text, err := coerceText(raw)
	if err != nil {
		return PredictRequest{}, ErrTextRequired
	}
	return PredictRequest{Text: text}, nil
}
