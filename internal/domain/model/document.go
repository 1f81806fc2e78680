// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"math"
	"time"
)

// Declared document types understood by the extractor.
const (
	TypePlainText = "text/plain"
	TypePDF       = "application/pdf"
	TypeDOCX      = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	TypeHTML      = "text/html"
	TypeUnknown   = "application/octet-stream"
)

// Document is one uploaded file. It only lives for the duration of a request.
type Document struct {
	Name string // original file name, may be empty
	Type string // declared MIME type
	Data []byte
}

// Prediction is the classifier output for one document.
type Prediction struct {
	Label string `json:"label"`
	// Confidence is a percentage in [0, 100].
	Confidence float64 `json:"confidence"`
	// ProbabilitySupported is false when Confidence is the configured fallback.
	ProbabilitySupported bool `json:"probability_supported"`
	// NoFeatures is set when the document produced an all-zero feature
	// vector; Label is empty and Confidence is 0 in that case.
	NoFeatures bool `json:"no_features"`
}

// ConfidenceString renders the confidence with two decimals.
func (p Prediction) ConfidenceString() string {
	return fmt.Sprintf("%.2f", p.Confidence)
}

// ClampConfidence bounds a percentage to [0, 100]. NaN maps to 0.
func ClampConfidence(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(100, v))
}

// SkillReport lists the vocabulary terms found in a document.
type SkillReport struct {
	// Matches maps each present term to 1.
	Matches map[string]int `json:"matches"`
	// Matched holds the present terms in vocabulary order.
	Matched        []string `json:"matched"`
	VocabularySize int      `json:"vocabulary_size"`
	// Percentage is 100 * len(Matched) / VocabularySize.
	Percentage float64 `json:"percentage"`
}

// Count returns the number of distinct matched terms.
func (r *SkillReport) Count() int {
	if r == nil {
		return 0
	}
	return len(r.Matched)
}

// Report is the end-to-end result for one document.
type Report struct {
	ID           string        `json:"id"`
	FileName     string        `json:"file_name,omitempty"`
	DocumentType string        `json:"document_type"`
	TextLength   int           `json:"text_length"`
	Prediction   Prediction    `json:"prediction"`
	Skills       *SkillReport  `json:"skills"`
	Elapsed      time.Duration `json:"elapsed_ns"`
}
