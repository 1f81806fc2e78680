package classifier

import (
	"errors"
	"fmt"
	"math"

	"github.com/okian/cvrole/internal/domain/model"
)

// DefaultConfidenceFallback is reported when the classifier has no
// probability estimate.
const DefaultConfidenceFallback = 80.0

// Artifact is a loaded vectorizer and classifier pair. It is immutable after
// construction and shared by all requests.
type Artifact struct {
	Vectorizer *Vectorizer
	Classifier Classifier
}

// NewArtifact builds both halves from their serialized forms and checks that
// their widths agree.
func NewArtifact(vs VectorizerSpec, cs ClassifierSpec) (*Artifact, error) {
	vec, err := NewVectorizer(vs)
	if err != nil {
		return nil, fmt.Errorf("vectorizer: %w", err)
	}
	clf, err := NewClassifier(cs)
	if err != nil {
		return nil, fmt.Errorf("classifier: %w", err)
	}
	if vec.NumFeatures() != clf.NumFeatures() {
		return nil, fmt.Errorf("%w: vectorizer emits %d features, classifier expects %d",
			ErrInvalidSpec, vec.NumFeatures(), clf.NumFeatures())
	}
	return &Artifact{Vectorizer: vec, Classifier: clf}, nil
}

// SupportsProbability reports whether confidences come from the model.
func (a *Artifact) SupportsProbability() bool {
	_, ok := a.Classifier.(ProbabilityEstimator)
	return ok
}

// Predict classifies normalized text. The confidence is the maximum class
// probability times 100 when the classifier estimates probabilities, and
// fallback otherwise. Text without a single known feature yields a
// NoFeatures prediction rather than an error.
func Predict(text string, a *Artifact, fallback float64) (model.Prediction, error) {
	const op = "classifier.Predict"

	if a == nil || a.Vectorizer == nil || a.Classifier == nil {
		return model.Prediction{}, model.WrapKind(op, model.ErrClassification, errors.New("no model loaded"))
	}

	x := a.Vectorizer.Transform(text)
	if x.Empty() {
		return model.Prediction{NoFeatures: true}, nil
	}

	classes := a.Classifier.Classes()
	estimator, probabilistic := a.Classifier.(ProbabilityEstimator)
	if !probabilistic {
		scores, err := a.Classifier.Decision(x)
		if err != nil {
			return model.Prediction{}, model.WrapKind(op, model.ErrClassification, err)
		}
		return model.Prediction{
			Label:      classes[decisionIndex(scores)],
			Confidence: model.ClampConfidence(fallback),
		}, nil
	}

	probs, err := estimator.PredictProba(x)
	if err != nil {
		return model.Prediction{}, model.WrapKind(op, model.ErrClassification, err)
	}
	if len(probs) != len(classes) {
		return model.Prediction{}, model.WrapKind(op, model.ErrClassification,
			fmt.Errorf("%w: %d probabilities for %d classes", ErrShapeMismatch, len(probs), len(classes)))
	}
	if hasNaN(probs) {
		return model.Prediction{}, model.WrapKind(op, model.ErrClassification, ErrNumeric)
	}

	best := argmax(probs)
	return model.Prediction{
		Label:                classes[best],
		Confidence:           model.ClampConfidence(math.Round(probs[best]*10000) / 100),
		ProbabilitySupported: true,
	}, nil
}

// decisionIndex picks the winning class from raw decision scores. A single
// score is a binary margin.
func decisionIndex(scores []float64) int {
	if len(scores) == 1 {
		if scores[0] > 0 {
			return 1
		}
		return 0
	}
	return argmax(scores)
}
