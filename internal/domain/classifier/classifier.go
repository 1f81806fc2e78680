// Package classifier runs pre-trained text classification models: a
// vectorizer turning normalized text into features and a classifier turning
// features into a role label with an optional probability estimate.
package classifier

import (
	"fmt"
	"math"
	"strings"
)

// Classifier kinds.
const (
	KindLogisticRegression = "logistic_regression"
	KindLinearSVC          = "linear_svc"
	KindMultinomialNB      = "multinomial_nb"
)

// Multi-class strategies for logistic regression.
const (
	MultiClassMultinomial = "multinomial"
	MultiClassOVR         = "ovr"
)

// Classifier maps a feature vector to one label.
type Classifier interface {
	// Classes returns the labels in model order.
	Classes() []string
	// NumFeatures returns the input width the model was trained on.
	NumFeatures() int
	// Decision returns one score per class, or a single score for binary
	// linear models where a positive value selects Classes()[1].
	Decision(x Vector) ([]float64, error)
}

// ProbabilityEstimator is implemented by classifiers that expose
// per-class probability estimates.
type ProbabilityEstimator interface {
	PredictProba(x Vector) ([]float64, error)
}

// ClassifierSpec is the serialized form of a classifier. Which fields are
// used depends on Type.
type ClassifierSpec struct {
	Type       string      `json:"type"`
	Classes    []string    `json:"classes"`
	Coef       [][]float64 `json:"coef,omitempty"`
	Intercept  []float64   `json:"intercept,omitempty"`
	MultiClass string      `json:"multi_class,omitempty"`

	ClassLogPrior  []float64   `json:"class_log_prior,omitempty"`
	FeatureLogProb [][]float64 `json:"feature_log_prob,omitempty"`
}

// NewClassifier validates spec and builds the matching Classifier.
func NewClassifier(spec ClassifierSpec) (Classifier, error) {
	if err := validateClasses(spec.Classes); err != nil {
		return nil, err
	}

	switch strings.ToLower(strings.TrimSpace(spec.Type)) {
	case KindLogisticRegression:
		return newLinear(spec, true)
	case KindLinearSVC:
		return newLinear(spec, false)
	case KindMultinomialNB:
		return newNaiveBayes(spec)
	default:
		return nil, fmt.Errorf("%w: unknown classifier type %q", ErrInvalidSpec, spec.Type)
	}
}

func validateClasses(classes []string) error {
	if len(classes) < 2 {
		return fmt.Errorf("%w: need at least two classes, got %d", ErrInvalidSpec, len(classes))
	}
	seen := make(map[string]struct{}, len(classes))
	for _, c := range classes {
		if strings.TrimSpace(c) == "" {
			return fmt.Errorf("%w: empty class label", ErrInvalidSpec)
		}
		if _, dup := seen[c]; dup {
			return fmt.Errorf("%w: duplicate class %q", ErrInvalidSpec, c)
		}
		seen[c] = struct{}{}
	}
	return nil
}

// validateMatrix checks that m has rows rows of equal, positive width with
// finite values (-Inf allowed when allowNegInf) and returns the width.
func validateMatrix(name string, m [][]float64, rows int, allowNegInf bool) (int, error) {
	if len(m) != rows {
		return 0, fmt.Errorf("%w: %s has %d rows, want %d", ErrInvalidSpec, name, len(m), rows)
	}
	width := len(m[0])
	if width == 0 {
		return 0, fmt.Errorf("%w: %s has no columns", ErrInvalidSpec, name)
	}
	for r, row := range m {
		if len(row) != width {
			return 0, fmt.Errorf("%w: %s row %d has %d columns, want %d", ErrInvalidSpec, name, r, len(row), width)
		}
		for c, x := range row {
			if math.IsNaN(x) || math.IsInf(x, 1) || (math.IsInf(x, -1) && !allowNegInf) {
				return 0, fmt.Errorf("%w: %s[%d][%d] is not finite", ErrInvalidSpec, name, r, c)
			}
		}
	}
	return width, nil
}

func checkWidth(x Vector, want int) error {
	if x.Dim != want {
		return fmt.Errorf("%w: vector has %d features, model expects %d", ErrShapeMismatch, x.Dim, want)
	}
	return nil
}

// argmax returns the index of the largest score; ties resolve to the lowest
// index.
func argmax(scores []float64) int {
	best := 0
	for i := 1; i < len(scores); i++ {
		if scores[i] > scores[best] {
			best = i
		}
	}
	return best
}

// softmax returns exp(s_i - logsumexp(s)).
func softmax(scores []float64) []float64 {
	maxScore := scores[argmax(scores)]
	out := make([]float64, len(scores))
	if math.IsInf(maxScore, -1) {
		for i := range out {
			out[i] = 1 / float64(len(out))
		}
		return out
	}
	var sum float64
	for i, s := range scores {
		out[i] = math.Exp(s - maxScore)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

func sigmoid(x float64) float64 {
	if x >= 0 {
		return 1 / (1 + math.Exp(-x))
	}
	e := math.Exp(x)
	return e / (1 + e)
}

func allFinite(values []float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func hasNaN(values []float64) bool {
	for _, v := range values {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}
