package model

import (
	"errors"
	"fmt"
)

// Sentinel error kinds. Every failure of the pipeline carries exactly one of
// them; callers test with errors.Is.
var (
	ErrDecode          = errors.New("document is not valid UTF-8 text")
	ErrExtraction      = errors.New("text extraction failed")
	ErrArtifactMissing = errors.New("model artifact missing")
	ErrArtifactCorrupt = errors.New("model artifact corrupt")
	ErrClassification  = errors.New("classification failed")
)

// Kind tags used at the presentation boundary.
const (
	KindDecode          = "decode_error"
	KindExtraction      = "extraction_failure"
	KindArtifactMissing = "artifact_missing"
	KindArtifactCorrupt = "artifact_corrupt"
	KindClassification  = "classification_error"
	KindInternal        = "internal_error"
)

// Error attaches an operation and a kind to an underlying cause.
type Error struct {
	Op   string
	Kind error
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

// Unwrap exposes both the kind and the cause to errors.Is/As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// NewKind returns an error of the given kind without a cause.
func NewKind(op string, kind error) error {
	return &Error{Op: op, Kind: kind}
}

// WrapKind returns err tagged with op and kind. A nil err yields nil.
func WrapKind(op string, kind, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Kind: kind, Err: err}
}

// KindOf maps err to its kind tag.
func KindOf(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrDecode):
		return KindDecode
	case errors.Is(err, ErrExtraction):
		return KindExtraction
	case errors.Is(err, ErrArtifactMissing):
		return KindArtifactMissing
	case errors.Is(err, ErrArtifactCorrupt):
		return KindArtifactCorrupt
	case errors.Is(err, ErrClassification):
		return KindClassification
	default:
		return KindInternal
	}
}

// UserMessage is the single message shown to an end user for err.
func UserMessage(err error) string {
	switch KindOf(err) {
	case "":
		return ""
	case KindDecode:
		return "The uploaded text file is not valid UTF-8. Please save it as UTF-8 and try again."
	case KindExtraction:
		return "We could not read text from this document. Please upload a text-based PDF, DOCX or plain text file."
	case KindArtifactMissing:
		return "The classification model is not installed on this server."
	case KindArtifactCorrupt:
		return "The classification model could not be loaded."
	case KindClassification:
		return "The document could not be classified."
	default:
		return "Something went wrong while processing the document."
	}
}
