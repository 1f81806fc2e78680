package classifier

import "errors"

// Sentinel kinds for artifact validation and inference failures.
var (
	// ErrInvalidSpec is returned when a vectorizer or classifier definition is
	// structurally unusable (wrong sizes, unknown type, duplicate classes).
	ErrInvalidSpec = errors.New("invalid model definition")
	// ErrShapeMismatch is returned when the feature vector width does not
	// match the classifier width.
	ErrShapeMismatch = errors.New("feature shape mismatch")
	// ErrNumeric is returned when inference produces NaN scores.
	ErrNumeric = errors.New("non-numeric model output")
)
