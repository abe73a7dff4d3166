package model

import (
	"fmt"
	"math"
)

// Multi-class strategies for LogisticRegression. Auto means sigmoid outputs
// for binary models and softmax otherwise.
const (
	MultiClassAuto        = "auto"
	MultiClassOVR         = "ovr"
	MultiClassMultinomial = "multinomial"
)

// LogisticConfig is the on-disk description of a fitted logistic regression.
// Binary models carry a single coefficient row that scores Classes[1].
type LogisticConfig struct {
	Classes    []int       `json:"classes"`
	Coef       [][]float64 `json:"coef"`
	Intercept  []float64   `json:"intercept"`
	MultiClass string      `json:"multi_class,omitempty"`
}

// LogisticRegression is a linear classifier with logistic or softmax outputs.
type LogisticRegression struct {
	classes    []int
	coef       [][]float64
	intercept  []float64
	multiClass string
	features   int
}

// NewLogisticRegression validates cfg and builds a classifier from it.
func NewLogisticRegression(cfg LogisticConfig) (*LogisticRegression, error) {
	if len(cfg.Classes) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 classes, got %d", ErrInvalidArtifact, len(cfg.Classes))
	}
	wantRows := len(cfg.Classes)
	if wantRows == 2 {
		wantRows = 1
	}
	if len(cfg.Coef) != wantRows {
		return nil, fmt.Errorf("%w: coef has %d rows, want %d for %d classes", ErrInvalidArtifact, len(cfg.Coef), wantRows, len(cfg.Classes))
	}
	if len(cfg.Intercept) != wantRows {
		return nil, fmt.Errorf("%w: intercept has %d values, want %d", ErrInvalidArtifact, len(cfg.Intercept), wantRows)
	}
	features := len(cfg.Coef[0])
	if features == 0 {
		return nil, fmt.Errorf("%w: empty coefficient row", ErrInvalidArtifact)
	}
	for i, row := range cfg.Coef {
		if len(row) != features {
			return nil, fmt.Errorf("%w: coef row %d has %d features, want %d", ErrInvalidArtifact, i, len(row), features)
		}
	}

	mc := cfg.MultiClass
	switch mc {
	case "":
		mc = MultiClassAuto
	case MultiClassAuto, MultiClassOVR, MultiClassMultinomial:
	default:
		return nil, fmt.Errorf("%w: unknown multi_class %q", ErrInvalidArtifact, cfg.MultiClass)
	}

	return &LogisticRegression{
		classes:    cfg.Classes,
		coef:       cfg.Coef,
		intercept:  cfg.Intercept,
		multiClass: mc,
		features:   features,
	}, nil
}

// Classes returns the class labels in column order of PredictProba.
func (lr *LogisticRegression) Classes() []int { return lr.classes }

// NumFeatures returns the dimensionality the model was fitted on.
func (lr *LogisticRegression) NumFeatures() int { return lr.features }

func (lr *LogisticRegression) decision(row Vector) []float64 {
	scores := make([]float64, len(lr.coef))
	for k, w := range lr.coef {
		scores[k] = row.Dot(w) + lr.intercept[k]
	}
	return scores
}

// Predict returns the predicted class label for every row of x.
func (lr *LogisticRegression) Predict(x *Matrix) ([]int, error) {
	if err := checkCols(x, lr.features); err != nil {
		return nil, err
	}
	out := make([]int, x.NumRows())
	for i, row := range x.Rows {
		scores := lr.decision(row)
		if len(scores) == 1 {
			if scores[0] > 0 {
				out[i] = lr.classes[1]
			} else {
				out[i] = lr.classes[0]
			}
			continue
		}
		out[i] = lr.classes[argmax(scores)]
	}
	return out, nil
}

// PredictProba returns per-class probabilities for every row of x, ordered as
// Classes().
func (lr *LogisticRegression) PredictProba(x *Matrix) ([][]float64, error) {
	if err := checkCols(x, lr.features); err != nil {
		return nil, err
	}
	out := make([][]float64, x.NumRows())
	for i, row := range x.Rows {
		scores := lr.decision(row)
		switch {
		case len(scores) == 1 && lr.multiClass == MultiClassMultinomial:
			out[i] = softmax([]float64{-scores[0], scores[0]})
		case len(scores) == 1:
			p := sigmoid(scores[0])
			out[i] = []float64{1 - p, p}
		case lr.multiClass == MultiClassOVR:
			out[i] = ovr(scores)
		default:
			out[i] = softmax(scores)
		}
	}
	return out, nil
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}

func ovr(scores []float64) []float64 {
	p := make([]float64, len(scores))
	var sum float64
	for k, s := range scores {
		p[k] = sigmoid(s)
		sum += p[k]
	}
	for k := range p {
		p[k] /= sum
	}
	return p
}

func softmax(scores []float64) []float64 {
	maxScore := scores[argmax(scores)]
	p := make([]float64, len(scores))
	var sum float64
	for k, s := range scores {
		p[k] = math.Exp(s - maxScore)
		sum += p[k]
	}
	for k := range p {
		p[k] /= sum
	}
	return p
}

// argmax returns the first index of the largest value.
func argmax(xs []float64) int {
	best := 0
	for i := 1; i < len(xs); i++ {
		if xs[i] > xs[best] {
			best = i
		}
	}
	return best
}
