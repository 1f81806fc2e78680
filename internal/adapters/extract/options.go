package extract

import "github.com/okian/cvrole/pkg/logger"

// Option applies a configuration option to the Extractor.
type Option func(*Extractor)

// WithLogger sets the logger used for per-page diagnostics.
func WithLogger(l logger.Logger) Option {
	return func(e *Extractor) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithMaxPages caps the number of PDF pages read. Zero reads every page.
func WithMaxPages(n int) Option {
	return func(e *Extractor) {
		if n >= 0 {
			e.maxPages = n
		}
	}
}
