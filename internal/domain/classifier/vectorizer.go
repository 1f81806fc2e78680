package classifier

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Vectorizer kinds.
const (
	VectorizerTFIDF = "tfidf"
	VectorizerCount = "count"
)

// Normalization modes.
const (
	NormNone = "none"
	NormL1   = "l1"
	NormL2   = "l2"
)

const defaultMinTokenLength = 2

// VectorizerSpec is the serialized form of a vectorizer.
type VectorizerSpec struct {
	Type           string         `json:"type"`
	Vocabulary     map[string]int `json:"vocabulary"`
	IDF            []float64      `json:"idf,omitempty"`
	NgramRange     [2]int         `json:"ngram_range"`
	MinTokenLength int            `json:"min_token_length,omitempty"`
	StopWords      []string       `json:"stop_words,omitempty"`
	Binary         bool           `json:"binary,omitempty"`
	SublinearTF    bool           `json:"sublinear_tf,omitempty"`
	Norm           string         `json:"norm,omitempty"`
}

// Vectorizer maps normalized text to a sparse term-weight vector. It is
// immutable and safe for concurrent use.
type Vectorizer struct {
	vocabulary  map[string]int
	idf         []float64
	minN, maxN  int
	minTokenLen int
	stopWords   map[string]struct{}
	binary      bool
	sublinearTF bool
	norm        string
}

// NewVectorizer validates spec and builds a Vectorizer.
func NewVectorizer(spec VectorizerSpec) (*Vectorizer, error) {
	kind := strings.ToLower(strings.TrimSpace(spec.Type))
	if kind == "" {
		kind = VectorizerTFIDF
	}
	if kind != VectorizerTFIDF && kind != VectorizerCount {
		return nil, fmt.Errorf("%w: unknown vectorizer type %q", ErrInvalidSpec, spec.Type)
	}

	n := len(spec.Vocabulary)
	if n == 0 {
		return nil, fmt.Errorf("%w: empty vocabulary", ErrInvalidSpec)
	}
	used := make([]bool, n)
	for term, idx := range spec.Vocabulary {
		if idx < 0 || idx >= n {
			return nil, fmt.Errorf("%w: vocabulary index %d for %q outside [0,%d)", ErrInvalidSpec, idx, term, n)
		}
		if used[idx] {
			return nil, fmt.Errorf("%w: vocabulary index %d used twice", ErrInvalidSpec, idx)
		}
		used[idx] = true
	}

	var idf []float64
	if kind == VectorizerTFIDF {
		if len(spec.IDF) != n {
			return nil, fmt.Errorf("%w: idf has %d weights for %d terms", ErrInvalidSpec, len(spec.IDF), n)
		}
		for i, w := range spec.IDF {
			if math.IsNaN(w) || math.IsInf(w, 0) {
				return nil, fmt.Errorf("%w: idf weight %d is not finite", ErrInvalidSpec, i)
			}
		}
		idf = append([]float64(nil), spec.IDF...)
	}

	minN, maxN := spec.NgramRange[0], spec.NgramRange[1]
	if minN == 0 && maxN == 0 {
		minN, maxN = 1, 1
	}
	if minN < 1 || maxN < minN {
		return nil, fmt.Errorf("%w: ngram range [%d,%d]", ErrInvalidSpec, minN, maxN)
	}

	norm := strings.ToLower(strings.TrimSpace(spec.Norm))
	switch norm {
	case "":
		norm = NormNone
		if kind == VectorizerTFIDF {
			norm = NormL2
		}
	case NormNone, NormL1, NormL2:
	default:
		return nil, fmt.Errorf("%w: unknown norm %q", ErrInvalidSpec, spec.Norm)
	}

	minTokenLen := spec.MinTokenLength
	if minTokenLen <= 0 {
		minTokenLen = defaultMinTokenLength
	}

	stop := make(map[string]struct{}, len(spec.StopWords))
	for _, w := range spec.StopWords {
		stop[w] = struct{}{}
	}

	vocab := make(map[string]int, n)
	for term, idx := range spec.Vocabulary {
		vocab[term] = idx
	}

	return &Vectorizer{
		vocabulary:  vocab,
		idf:         idf,
		minN:        minN,
		maxN:        maxN,
		minTokenLen: minTokenLen,
		stopWords:   stop,
		binary:      spec.Binary,
		sublinearTF: spec.SublinearTF,
		norm:        norm,
	}, nil
}

// NumFeatures returns the output dimension.
func (v *Vectorizer) NumFeatures() int {
	return len(v.vocabulary)
}

// Transform turns normalized text into a feature vector. Text with no known
// term yields an empty vector, never an error.
func (v *Vectorizer) Transform(text string) Vector {
	tokens := v.tokens(text)

	counts := make(map[int]float64)
	for n := v.minN; n <= v.maxN; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			term := tokens[i]
			if n > 1 {
				term = strings.Join(tokens[i:i+n], " ")
			}
			if idx, ok := v.vocabulary[term]; ok {
				counts[idx]++
			}
		}
	}

	out := Vector{Dim: len(v.vocabulary)}
	if len(counts) == 0 {
		return out
	}

	out.Indices = make([]int, 0, len(counts))
	for idx := range counts {
		out.Indices = append(out.Indices, idx)
	}
	sort.Ints(out.Indices)

	out.Values = make([]float64, len(out.Indices))
	for i, idx := range out.Indices {
		tf := counts[idx]
		switch {
		case v.binary:
			tf = 1
		case v.sublinearTF:
			tf = 1 + math.Log(tf)
		}
		if v.idf != nil {
			tf *= v.idf[idx]
		}
		out.Values[i] = tf
	}

	v.normalize(out.Values)
	return out
}

func (v *Vectorizer) tokens(text string) []string {
	fields := strings.Fields(text)
	tokens := fields[:0]
	for _, f := range fields {
		if len(f) < v.minTokenLen {
			continue
		}
		if _, stop := v.stopWords[f]; stop {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

func (v *Vectorizer) normalize(values []float64) {
	var total float64
	switch v.norm {
	case NormL1:
		for _, x := range values {
			total += math.Abs(x)
		}
	case NormL2:
		for _, x := range values {
			total += x * x
		}
		total = math.Sqrt(total)
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
