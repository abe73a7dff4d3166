// Package model holds the fitted text-classification artifacts: a TF-IDF
// vectorizer and a logistic-regression classifier. Both are loaded once from
// disk and are read-only afterwards, so a single instance can serve any
// number of concurrent requests.
package model

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArtifact is returned when an artifact file decodes but its
	// contents are inconsistent (shape mismatches, empty vocabulary, ...).
	ErrInvalidArtifact = errors.New("invalid artifact")

	// ErrShapeMismatch is returned when a feature matrix does not match the
	// dimensionality the classifier was fitted on.
	ErrShapeMismatch = errors.New("feature shape mismatch")
)

// Vector is one sparse row: Indices[i] holds Values[i]. Indices are sorted
// ascending and unique.
type Vector struct {
	Indices []int
	Values  []float64
}

// Dot returns the inner product of v with the dense weights w.
func (v Vector) Dot(w []float64) float64 {
	var sum float64
	for i, idx := range v.Indices {
		sum += v.Values[i] * w[idx]
	}
	return sum
}

// Matrix is a sparse row matrix with a fixed column count.
type Matrix struct {
	Rows []Vector
	Cols int
}

// NumRows returns the number of rows.
func (m *Matrix) NumRows() int { return len(m.Rows) }

func checkCols(m *Matrix, want int) error {
	if m == nil {
		return fmt.Errorf("%w: nil matrix", ErrShapeMismatch)
	}
	if m.Cols != want {
		return fmt.Errorf("%w: matrix has %d features, classifier expects %d", ErrShapeMismatch, m.Cols, want)
	}
	return nil
}

// Vectorizer turns documents into feature rows.
type Vectorizer interface {
	Transform(docs []string) (*Matrix, error)
	NumFeatures() int
}

// Classifier maps feature rows to class labels and class probabilities.
type Classifier interface {
	Predict(x *Matrix) ([]int, error)
	PredictProba(x *Matrix) ([][]float64, error)
	Classes() []int
	NumFeatures() int
}

// CheckCompatible verifies that v produces the feature count c was fitted on.
func CheckCompatible(v Vectorizer, c Classifier) error {
	if v.NumFeatures() != c.NumFeatures() {
		return fmt.Errorf("%w: vectorizer yields %d features, classifier expects %d",
			ErrShapeMismatch, v.NumFeatures(), c.NumFeatures())
	}
	return nil
}
