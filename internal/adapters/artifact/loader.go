package artifact

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/okian/cvrole/internal/domain/classifier"
	"github.com/okian/cvrole/internal/domain/model"
	"github.com/okian/cvrole/pkg/logger"
	"github.com/okian/cvrole/pkg/metrics"
)

// Loader reads the artifact from its Source at most once successfully. A
// failed load is not remembered, so the next call tries again.
type Loader struct {
	source Source
	logger logger.Logger

	mu       sync.Mutex
	artifact *classifier.Artifact
}

// Option applies a configuration option to the Loader.
type Option func(*Loader)

// WithLogger sets the loader logger.
func WithLogger(l logger.Logger) Option {
	return func(ld *Loader) {
		if l != nil {
			ld.logger = l
		}
	}
}

// NewLoader returns a Loader reading from source.
func NewLoader(source Source, opts ...Option) *Loader {
	ld := &Loader{
		source: source,
		logger: logger.Nop(),
	}
	for _, opt := range opts {
		opt(ld)
	}
	return ld
}

// Load returns the artifact, reading it from the source on first use.
// Concurrent callers wait for a single in-flight read.
func (l *Loader) Load(ctx context.Context) (*classifier.Artifact, error) {
	const op = "artifact.Load"

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.artifact != nil {
		return l.artifact, nil
	}
	if l.source == nil {
		return nil, model.NewKind(op, model.ErrArtifactMissing)
	}

	start := time.Now()
	a, err := l.read(ctx)
	elapsed := float64(time.Since(start).Microseconds()) / 1000

	if err != nil {
		metrics.RecordModelLoad(false, elapsed, 0, 0)
		l.logger.Error(ctx, "model artifact load failed",
			logger.String("source", l.source.String()),
			logger.String("kind", model.KindOf(err)),
			logger.Error(err))
		return nil, err
	}

	classes := len(a.Classifier.Classes())
	features := a.Vectorizer.NumFeatures()
	metrics.RecordModelLoad(true, elapsed, classes, features)
	l.logger.Info(ctx, "model artifact loaded",
		logger.String("source", l.source.String()),
		logger.Int("classes", classes),
		logger.Int("features", features),
		logger.Bool("probability", a.SupportsProbability()),
		logger.Float64("duration_ms", elapsed))

	l.artifact = a
	return a, nil
}

func (l *Loader) read(ctx context.Context) (*classifier.Artifact, error) {
	const op = "artifact.Load"

	data, err := l.source.Read(ctx)
	if errors.Is(err, ErrNotFound) {
		return nil, model.WrapKind(op, model.ErrArtifactMissing, err)
	}
	if err != nil {
		return nil, model.WrapKind(op, model.ErrArtifactCorrupt, err)
	}

	a, err := Decode(data)
	if err != nil {
		return nil, model.WrapKind(op, model.ErrArtifactCorrupt, err)
	}
	return a, nil
}

// Loaded reports whether an artifact is cached.
func (l *Loader) Loaded() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.artifact != nil
}

// Source returns a description of the artifact location.
func (l *Loader) Source() string {
	if l.source == nil {
		return ""
	}
	return l.source.String()
}
