package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrBadRequest  = errors.New("bad request")
	ErrTooLarge    = errors.New("upload too large")
	ErrMissingFile = errors.New("missing resume file")
)

// Error codes returned for request-level failures.
const (
	codeBadRequest       = "bad_request"
	codeTooLarge         = "too_large"
	codeMissingFile      = "missing_file"
	codeMethodNotAllowed = "method_not_allowed"
)
