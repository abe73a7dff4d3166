// Package service wires the text normalizer and the loaded artifacts into a
// single prediction pipeline, and publishes prediction events.
package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/iliyamo/fake-news-api/internal/model"
	"github.com/iliyamo/fake-news-api/internal/textclean"
)

// Labels returned to callers.
const (
	LabelReal = "REAL"
	LabelFake = "FAKE"
)

// realClass is the classifier output that maps to LabelReal.
const realClass = 1

// ErrNilArtifact is returned by NewPredictor when an artifact is missing.
var ErrNilArtifact = errors.New("nil artifact")

// Prediction is the outcome for one document.
type Prediction struct {
	Label          string
	Class          int
	Confidence     Confidence
	NormalizedText string
}

// Confidence is a probability rounded to two decimals. It marshals like a
// Python float, so whole numbers keep a trailing ".0".
type Confidence float64

// MarshalJSON implements json.Marshaler.
func (c Confidence) MarshalJSON() ([]byte, error) {
	s := strconv.FormatFloat(float64(c), 'f', -1, 64)
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			return []byte(s), nil
		}
	}
	return []byte(s + ".0"), nil
}

// RoundConfidence rounds p to two decimals, half to even on the exact binary
// value of p.
func RoundConfidence(p float64) Confidence {
	r, err := strconv.ParseFloat(strconv.FormatFloat(p, 'f', 2, 64), 64)
	if err != nil {
		return Confidence(p)
	}
	return Confidence(r)
}

// Predictor runs normalize → vectorize → classify. It holds only read-only
// state and is safe for concurrent use.
type Predictor struct {
	normalizer textclean.Normalizer
	vectorizer model.Vectorizer
	classifier model.Classifier
}

// NewPredictor builds a Predictor over already loaded artifacts. A nil
// normalizer selects textclean.Default.
func NewPredictor(n textclean.Normalizer, v model.Vectorizer, c model.Classifier) (*Predictor, error) {
	if v == nil || c == nil {
		return nil, ErrNilArtifact
	}
	if n == nil {
		n = textclean.Default
	}
	return &Predictor{normalizer: n, vectorizer: v, classifier: c}, nil
}

// Predict classifies a single raw document.
func (p *Predictor) Predict(ctx context.Context, raw string) (Prediction, error) {
	if err := ctx.Err(); err != nil {
		return Prediction{}, err
	}
	cleaned := p.normalizer.Normalize(raw)

	x, err := p.vectorizer.Transform([]string{cleaned})
	if err != nil {
		return Prediction{}, fmt.Errorf("vectorize: %w", err)
	}
	classes, err := p.classifier.Predict(x)
	if err != nil {
		return Prediction{}, fmt.Errorf("predict: %w", err)
	}
	proba, err := p.classifier.PredictProba(x)
	if err != nil {
		return Prediction{}, fmt.Errorf("predict proba: %w", err)
	}
	if len(classes) == 0 || len(proba) == 0 || len(proba[0]) == 0 {
		return Prediction{}, fmt.Errorf("predict: %w: empty classifier output", model.ErrShapeMismatch)
	}

	best := proba[0][0]
	for _, q := range proba[0][1:] {
		if q > best {
			best = q
		}
	}

	label := LabelFake
	if classes[0] == realClass {
		label = LabelReal
	}
	return Prediction{
		Label:          label,
		Class:          classes[0],
		Confidence:     RoundConfidence(best),
		NormalizedText: cleaned,
	}, nil
}
