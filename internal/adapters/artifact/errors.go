package artifact

import "errors"

// Sentinel kinds for artifact sources.
var (
	// ErrNotFound is returned by a Source when no artifact exists at its location.
	ErrNotFound = errors.New("artifact not found")
	// ErrArity is returned when the container does not hold exactly two objects.
	ErrArity = errors.New("artifact must hold exactly a vectorizer and a classifier")
)
