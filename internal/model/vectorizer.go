package model

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
)

// DefaultTokenPattern matches runs of two or more word characters.
const DefaultTokenPattern = `\b\w\w+\b`

// Row normalization applied after weighting.
const (
	NormL2   = "l2"
	NormL1   = "l1"
	NormNone = ""
)

// TfidfConfig is the on-disk description of a fitted TF-IDF vectorizer.
type TfidfConfig struct {
	Vocabulary   map[string]int `json:"vocabulary"`
	IDF          []float64      `json:"idf"`
	Lowercase    *bool          `json:"lowercase,omitempty"`
	TokenPattern string         `json:"token_pattern,omitempty"`
	NgramRange   [2]int         `json:"ngram_range"`
	StopWords    []string       `json:"stop_words,omitempty"`
	Norm         *string        `json:"norm,omitempty"`
	UseIDF       *bool          `json:"use_idf,omitempty"`
	SublinearTF  bool           `json:"sublinear_tf"`
	Binary       bool           `json:"binary"`
}

// TfidfVectorizer converts documents to TF-IDF weighted sparse rows. It is
// immutable after construction.
type TfidfVectorizer struct {
	vocabulary  map[string]int
	idf         []float64
	lowercase   bool
	token       *regexp.Regexp
	minN, maxN  int
	stopWords   map[string]struct{}
	norm        string
	useIDF      bool
	sublinearTF bool
	binary      bool
}

// NewTfidfVectorizer validates cfg and builds a vectorizer from it. Unset
// optional fields take the usual defaults: lowercase on, default token
// pattern, unigrams, l2 norm, idf weighting on.
func NewTfidfVectorizer(cfg TfidfConfig) (*TfidfVectorizer, error) {
	if len(cfg.Vocabulary) == 0 {
		return nil, fmt.Errorf("%w: empty vocabulary", ErrInvalidArtifact)
	}
	n := len(cfg.Vocabulary)
	seen := make([]bool, n)
	for term, idx := range cfg.Vocabulary {
		if idx < 0 || idx >= n || seen[idx] {
			return nil, fmt.Errorf("%w: vocabulary index %d for %q out of range or duplicated", ErrInvalidArtifact, idx, term)
		}
		seen[idx] = true
	}

	v := &TfidfVectorizer{
		vocabulary:  cfg.Vocabulary,
		lowercase:   boolOr(cfg.Lowercase, true),
		minN:        cfg.NgramRange[0],
		maxN:        cfg.NgramRange[1],
		norm:        NormL2,
		useIDF:      boolOr(cfg.UseIDF, true),
		sublinearTF: cfg.SublinearTF,
		binary:      cfg.Binary,
	}
	if v.minN == 0 && v.maxN == 0 {
		v.minN, v.maxN = 1, 1
	}
	if v.minN < 1 || v.maxN < v.minN {
		return nil, fmt.Errorf("%w: bad ngram_range [%d, %d]", ErrInvalidArtifact, cfg.NgramRange[0], cfg.NgramRange[1])
	}

	if cfg.Norm != nil {
		switch *cfg.Norm {
		case NormL1, NormL2, NormNone:
			v.norm = *cfg.Norm
		default:
			return nil, fmt.Errorf("%w: unknown norm %q", ErrInvalidArtifact, *cfg.Norm)
		}
	}

	if v.useIDF {
		if len(cfg.IDF) != n {
			return nil, fmt.Errorf("%w: idf has %d weights for %d terms", ErrInvalidArtifact, len(cfg.IDF), n)
		}
		v.idf = cfg.IDF
	}

	pattern := cfg.TokenPattern
	if pattern == "" {
		pattern = DefaultTokenPattern
	}
	// Go's RE2 has no (?u); \w and \b are ASCII, which is all normalized text holds.
	pattern = strings.TrimPrefix(pattern, "(?u)")
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: token_pattern: %v", ErrInvalidArtifact, err)
	}
	if re.NumSubexp() > 1 {
		return nil, fmt.Errorf("%w: token_pattern has %d capture groups, at most one allowed", ErrInvalidArtifact, re.NumSubexp())
	}
	v.token = re

	if len(cfg.StopWords) > 0 {
		v.stopWords = make(map[string]struct{}, len(cfg.StopWords))
		for _, w := range cfg.StopWords {
			v.stopWords[w] = struct{}{}
		}
	}
	return v, nil
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

// NumFeatures returns the vocabulary size.
func (v *TfidfVectorizer) NumFeatures() int { return len(v.vocabulary) }

// Transform returns one weighted row per document. Terms outside the
// vocabulary are ignored, so an empty document yields an all-zero row.
func (v *TfidfVectorizer) Transform(docs []string) (*Matrix, error) {
	m := &Matrix{Rows: make([]Vector, len(docs)), Cols: len(v.vocabulary)}
	for i, doc := range docs {
		m.Rows[i] = v.transformOne(doc)
	}
	return m, nil
}

func (v *TfidfVectorizer) transformOne(doc string) Vector {
	if v.lowercase {
		doc = strings.ToLower(doc)
	}
	counts := make(map[int]float64)
	for _, term := range v.analyze(doc) {
		if idx, ok := v.vocabulary[term]; ok {
			counts[idx]++
		}
	}

	row := Vector{
		Indices: make([]int, 0, len(counts)),
		Values:  make([]float64, 0, len(counts)),
	}
	for idx := range counts {
		row.Indices = append(row.Indices, idx)
	}
	sort.Ints(row.Indices)

	for _, idx := range row.Indices {
		tf := counts[idx]
		switch {
		case v.binary:
			tf = 1
		case v.sublinearTF:
			tf = math.Log(tf) + 1
		}
		if v.useIDF {
			tf *= v.idf[idx]
		}
		row.Values = append(row.Values, tf)
	}
	normalize(row.Values, v.norm)
	return row
}

// analyze tokenizes doc, drops stop words and expands word n-grams.
func (v *TfidfVectorizer) analyze(doc string) []string {
	var tokens []string
	if v.token.NumSubexp() == 1 {
		for _, m := range v.token.FindAllStringSubmatch(doc, -1) {
			tokens = append(tokens, m[1])
		}
	} else {
		tokens = v.token.FindAllString(doc, -1)
	}

	if v.stopWords != nil {
		kept := tokens[:0]
		for _, t := range tokens {
			if _, stop := v.stopWords[t]; !stop {
				kept = append(kept, t)
			}
		}
		tokens = kept
	}

	if v.maxN == 1 {
		return tokens
	}

	var out []string
	minN := v.minN
	if minN == 1 {
		out = append(out, tokens...)
		minN = 2
	}
	for n := minN; n <= v.maxN && n <= len(tokens); n++ {
		for i := 0; i+n <= len(tokens); i++ {
			out = append(out, strings.Join(tokens[i:i+n], " "))
		}
	}
	return out
}

func normalize(values []float64, norm string) {
	var total float64
	switch norm {
	case NormL2:
		for _, x := range values {
			total += x * x
		}
		total = math.Sqrt(total)
	case NormL1:
		for _, x := range values {
			total += math.Abs(x)
		}
	default:
		return
	}
	if total == 0 {
		return
	}
	for i := range values {
		values[i] /= total
	}
}
