package artifact

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/okian/cvrole/internal/domain/classifier"
)

// Decode parses the artifact container: a JSON array holding the vectorizer
// followed by the classifier.
func Decode(data []byte) (*classifier.Artifact, error) {
	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return nil, fmt.Errorf("decode container: %w", err)
	}
	if len(parts) != 2 {
		return nil, fmt.Errorf("%w: got %d objects", ErrArity, len(parts))
	}

	var vs classifier.VectorizerSpec
	if err := strictUnmarshal(parts[0], &vs); err != nil {
		return nil, fmt.Errorf("decode vectorizer: %w", err)
	}
	var cs classifier.ClassifierSpec
	if err := strictUnmarshal(parts[1], &cs); err != nil {
		return nil, fmt.Errorf("decode classifier: %w", err)
	}
	return classifier.NewArtifact(vs, cs)
}

func strictUnmarshal(raw json.RawMessage, v any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
