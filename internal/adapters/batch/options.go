package batch

import "github.com/okian/cvrole/pkg/logger"

// Option applies a configuration option to the Pool.
type Option func(*Pool)

// WithWorkers sets the number of concurrent workers. Values below one are
// ignored.
func WithWorkers(n int) Option {
	return func(p *Pool) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithReadFile replaces the function used to read input paths.
func WithReadFile(fn func(string) ([]byte, error)) Option {
	return func(p *Pool) {
		if fn != nil {
			p.readFile = fn
		}
	}
}

// WithLogger sets a custom logger for the pool.
func WithLogger(l logger.Logger) Option {
	return func(p *Pool) {
		if l != nil {
			p.logger = l
		}
	}
}
