package classifier

import (
	"fmt"
	"strings"
)

// linear is a linear model: score_k = coef_k · x + intercept_k. Logistic
// regression exposes probabilities, a linear SVM does not.
type linear struct {
	classes    []string
	coef       [][]float64
	intercept  []float64
	width      int
	multiClass string
}

// linearSVC hides PredictProba so type assertions see no estimator.
type linearSVC struct{ *linear }

// logisticRegression exposes PredictProba.
type logisticRegression struct{ *linear }

func newLinear(spec ClassifierSpec, probabilistic bool) (Classifier, error) {
	rows := len(spec.Classes)
	if rows == 2 {
		rows = 1
	}
	width, err := validateMatrix("coef", spec.Coef, rows, false)
	if err != nil {
		return nil, err
	}

	intercept := spec.Intercept
	switch {
	case len(intercept) == 0:
		intercept = make([]float64, rows)
	case len(intercept) != rows:
		return nil, fmt.Errorf("%w: intercept has %d values, want %d", ErrInvalidSpec, len(intercept), rows)
	case !allFinite(intercept):
		return nil, fmt.Errorf("%w: intercept is not finite", ErrInvalidSpec)
	}

	multiClass := strings.ToLower(strings.TrimSpace(spec.MultiClass))
	switch multiClass {
	case "":
		multiClass = MultiClassMultinomial
	case MultiClassMultinomial, MultiClassOVR:
	default:
		return nil, fmt.Errorf("%w: unknown multi_class %q", ErrInvalidSpec, spec.MultiClass)
	}

	l := &linear{
		classes:    append([]string(nil), spec.Classes...),
		coef:       spec.Coef,
		intercept:  append([]float64(nil), intercept...),
		width:      width,
		multiClass: multiClass,
	}
	if probabilistic {
		return logisticRegression{l}, nil
	}
	return linearSVC{l}, nil
}

func (l *linear) Classes() []string { return append([]string(nil), l.classes...) }

func (l *linear) NumFeatures() int { return l.width }

func (l *linear) Decision(x Vector) ([]float64, error) {
	if err := checkWidth(x, l.width); err != nil {
		return nil, err
	}
	scores := make([]float64, len(l.coef))
	for k, row := range l.coef {
		scores[k] = x.Dot(row) + l.intercept[k]
	}
	if hasNaN(scores) {
		return nil, ErrNumeric
	}
	return scores, nil
}

// PredictProba follows the usual logistic regression conventions: a single
// sigmoid for binary models, softmax for multinomial models and normalized
// per-class sigmoids for one-vs-rest.
func (l logisticRegression) PredictProba(x Vector) ([]float64, error) {
	scores, err := l.Decision(x)
	if err != nil {
		return nil, err
	}
	if len(scores) == 1 {
		p := sigmoid(scores[0])
		return []float64{1 - p, p}, nil
	}
	if l.multiClass == MultiClassMultinomial {
		return softmax(scores), nil
	}

	probs := make([]float64, len(scores))
	var sum float64
	for i, s := range scores {
		probs[i] = sigmoid(s)
		sum += probs[i]
	}
	if sum == 0 {
		return softmax(scores), nil
	}
	for i := range probs {
		probs[i] /= sum
	}
	return probs, nil
}
