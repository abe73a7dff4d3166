package model

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// LoadVectorizer reads a fitted TF-IDF vectorizer from a JSON artifact.
// Paths ending in ".gz" are decompressed first.
func LoadVectorizer(path string) (*TfidfVectorizer, error) {
	var cfg TfidfConfig
	if err := readArtifact(path, &cfg); err != nil {
		return nil, err
	}
	v, err := NewTfidfVectorizer(cfg)
	if err != nil {
		return nil, fmt.Errorf("vectorizer %s: %w", path, err)
	}
	return v, nil
}

// LoadClassifier reads a fitted logistic-regression classifier from a JSON
// artifact. Paths ending in ".gz" are decompressed first.
func LoadClassifier(path string) (*LogisticRegression, error) {
	var cfg LogisticConfig
	if err := readArtifact(path, &cfg); err != nil {
		return nil, err
	}
	c, err := NewLogisticRegression(cfg)
	if err != nil {
		return nil, fmt.Errorf("classifier %s: %w", path, err)
	}
	return c, nil
}

func readArtifact(path string, dst any) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open artifact: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		zr, err := gzip.NewReader(f)
		if err != nil {
			return fmt.Errorf("artifact %s: gzip: %w", path, err)
		}
		defer zr.Close()
		r = zr
	}

	dec := json.NewDecoder(r)
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("artifact %s: %w: %v", path, ErrInvalidArtifact, err)
	}
	return nil
}
