package classifier

import (
	"fmt"
	"math"
)

// naiveBayes is a multinomial naive Bayes model evaluated in log space.
type naiveBayes struct {
	classes        []string
	classLogPrior  []float64
	featureLogProb [][]float64
	width          int
}

func newNaiveBayes(spec ClassifierSpec) (Classifier, error) {
	rows := len(spec.Classes)
	if len(spec.ClassLogPrior) != rows {
		return nil, fmt.Errorf("%w: class_log_prior has %d values, want %d", ErrInvalidSpec, len(spec.ClassLogPrior), rows)
	}
	for i, p := range spec.ClassLogPrior {
		if math.IsNaN(p) || math.IsInf(p, 1) {
			return nil, fmt.Errorf("%w: class_log_prior[%d] is not a log probability", ErrInvalidSpec, i)
		}
	}
	width, err := validateMatrix("feature_log_prob", spec.FeatureLogProb, rows, true)
	if err != nil {
		return nil, err
	}
	return &naiveBayes{
		classes:        append([]string(nil), spec.Classes...),
		classLogPrior:  append([]float64(nil), spec.ClassLogPrior...),
		featureLogProb: spec.FeatureLogProb,
		width:          width,
	}, nil
}

func (nb *naiveBayes) Classes() []string { return append([]string(nil), nb.classes...) }

func (nb *naiveBayes) NumFeatures() int { return nb.width }

// Decision returns the joint log likelihood of each class.
func (nb *naiveBayes) Decision(x Vector) ([]float64, error) {
	if err := checkWidth(x, nb.width); err != nil {
		return nil, err
	}
	jll := make([]float64, len(nb.classes))
	for k, row := range nb.featureLogProb {
		jll[k] = x.Dot(row) + nb.classLogPrior[k]
	}
	if hasNaN(jll) {
		return nil, ErrNumeric
	}
	return jll, nil
}

func (nb *naiveBayes) PredictProba(x Vector) ([]float64, error) {
	jll, err := nb.Decision(x)
	if err != nil {
		return nil, err
	}
	return softmax(jll), nil
}
