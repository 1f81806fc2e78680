// Package service provides the core business service that implements
// the dependencies required by the HTTP API and the CLI.
package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/cvrole/internal/adapters/extract"
	"github.com/okian/cvrole/internal/domain/classifier"
	"github.com/okian/cvrole/internal/domain/model"
	"github.com/okian/cvrole/internal/domain/skills"
	"github.com/okian/cvrole/internal/domain/textnorm"
	"github.com/okian/cvrole/pkg/logger"
	"github.com/okian/cvrole/pkg/metrics"
)

// Pipeline stage names used for latency metrics.
const (
	stageExtract   = "extract"
	stageNormalize = "normalize"
	stageLoad      = "load_model"
	stageClassify  = "classify"
	stageSkills    = "match_skills"
)

// Extractor turns a document into raw text.
type Extractor interface {
	Extract(ctx context.Context, doc model.Document) (string, error)
}

// ModelLoader returns the shared model artifact, loading it on first use.
type ModelLoader interface {
	Load(ctx context.Context) (*classifier.Artifact, error)
	Loaded() bool
}

// Service runs the resume classification pipeline.
type Service struct {
	mu sync.RWMutex

	// Core components
	extractor Extractor
	loader    ModelLoader
	matcher   *skills.Matcher

	// Configuration
	confidenceFallback float64
	preload            bool
	modelSource        string

	// State
	started    bool
	processed  int64
	failed     int64
	noFeatures int64
	byLabel    map[string]int64
	byKind     map[string]int64

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithExtractor sets the document text extractor.
func WithExtractor(e Extractor) Option {
	return func(s *Service) {
		if e != nil {
			s.extractor = e
		}
	}
}

// WithModelLoader sets the artifact loader. source describes its location
// for statistics.
func WithModelLoader(l ModelLoader, source string) Option {
	return func(s *Service) {
		if l != nil {
			s.loader = l
			s.modelSource = source
		}
	}
}

// WithSkillMatcher sets the skill matcher.
func WithSkillMatcher(m *skills.Matcher) Option {
	return func(s *Service) {
		if m != nil {
			s.matcher = m
		}
	}
}

// WithConfidenceFallback sets the confidence reported by models without
// probability estimates.
func WithConfidenceFallback(v float64) Option {
	return func(s *Service) {
		if v >= 0 && v <= 100 {
			s.confidenceFallback = v
		}
	}
}

// WithPreload makes Start load the model artifact eagerly.
func WithPreload(enabled bool) Option {
	return func(s *Service) {
		s.preload = enabled
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		extractor:          extract.New(),
		matcher:            skills.NewMatcher(),
		confidenceFallback: classifier.DefaultConfidenceFallback,
		byLabel:            make(map[string]int64),
		byKind:             make(map[string]int64),
		logger:             logger.Nop(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start prepares the service. With preload enabled the model is loaded now;
// a failed preload is logged and retried by the first request.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return nil
	}
	s.started = true
	s.mu.Unlock()

	s.logger.Info(ctx, "classification service started",
		logger.String("model_source", s.modelSource),
		logger.Int("vocabulary_size", len(s.matcher.Vocabulary())),
		logger.Float64("confidence_fallback", s.confidenceFallback),
	)

	if s.preload && s.loader != nil {
		if _, err := s.loader.Load(ctx); err != nil {
			s.logger.Warn(ctx, "model preload failed; will retry on first request",
				logger.String("kind", model.KindOf(err)),
				logger.Error(err))
		}
	}
	return nil
}

// Stop marks the service stopped.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "classification service stopped")
}

// Classify runs the whole pipeline for one document. On failure the error
// carries exactly one kind from the model package and no partial report is
// returned.
func (s *Service) Classify(ctx context.Context, doc model.Document) (model.Report, error) {
	start := time.Now()
	report := model.Report{
		ID:           uuid.NewString(),
		FileName:     doc.Name,
		DocumentType: extract.ResolveType(doc.Name, doc.Type),
	}
	log := s.logger.With(
		logger.String("request_id", report.ID),
		logger.String("file_name", doc.Name),
		logger.String("document_type", report.DocumentType),
	)

	fail := func(err error) (model.Report, error) {
		kind := model.KindOf(err)
		s.recordFailure(kind)
		log.Warn(ctx, "classification failed",
			logger.String("kind", kind),
			logger.Duration("elapsed", time.Since(start)),
			logger.Error(err))
		return model.Report{}, err
	}

	var raw string
	err := timed(stageExtract, func() (err error) {
		raw, err = s.extractor.Extract(ctx, doc)
		return err
	})
	if err != nil {
		return fail(err)
	}
	report.TextLength = len([]rune(raw))
	metrics.RecordDocument(report.DocumentType, report.TextLength)

	var text string
	_ = timed(stageNormalize, func() error {
		text = textnorm.Normalize(raw)
		return nil
	})

	if s.loader == nil {
		return fail(model.NewKind("service.Classify", model.ErrArtifactMissing))
	}
	var artifact *classifier.Artifact
	if err := timed(stageLoad, func() (err error) {
		artifact, err = s.loader.Load(ctx)
		return err
	}); err != nil {
		return fail(err)
	}

	if err := timed(stageClassify, func() (err error) {
		report.Prediction, err = classifier.Predict(text, artifact, s.confidenceFallback)
		return err
	}); err != nil {
		return fail(err)
	}

	_ = timed(stageSkills, func() error {
		report.Skills = s.matcher.Match(text)
		return nil
	})

	report.Elapsed = time.Since(start)
	s.recordSuccess(report)

	log.Info(ctx, "document classified",
		logger.String("label", report.Prediction.Label),
		logger.String("confidence", report.Prediction.ConfidenceString()),
		logger.Bool("no_features", report.Prediction.NoFeatures),
		logger.Int("skills_matched", report.Skills.Count()),
		logger.Duration("elapsed", report.Elapsed),
	)
	return report, nil
}

func timed(stage string, fn func() error) error {
	start := time.Now()
	err := fn()
	metrics.RecordStageLatency(stage, float64(time.Since(start).Microseconds())/1000)
	return err
}

func (s *Service) recordSuccess(r model.Report) {
	s.mu.Lock()
	s.processed++
	if r.Prediction.NoFeatures {
		s.noFeatures++
	} else {
		s.byLabel[r.Prediction.Label]++
	}
	s.mu.Unlock()

	if r.Prediction.NoFeatures {
		metrics.RecordNoFeatures()
	} else {
		metrics.RecordClassification(r.Prediction.Label, r.Prediction.Confidence)
	}
	metrics.RecordSkillMatch(r.Skills.Percentage)
}

func (s *Service) recordFailure(kind string) {
	s.mu.Lock()
	s.failed++
	s.byKind[kind]++
	s.mu.Unlock()

	metrics.RecordClassificationError(kind)
}

// Vocabulary returns the skill vocabulary in match order.
func (s *Service) Vocabulary() []string {
	return s.matcher.Vocabulary()
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byLabel := make(map[string]int64, len(s.byLabel))
	for k, v := range s.byLabel {
		byLabel[k] = v
	}
	byKind := make(map[string]int64, len(s.byKind))
	for k, v := range s.byKind {
		byKind[k] = v
	}

	stats := map[string]interface{}{
		"started":            s.started,
		"processed":          s.processed,
		"failed":             s.failed,
		"noFeatures":         s.noFeatures,
		"byLabel":            byLabel,
		"errorsByKind":       byKind,
		"vocabularySize":     len(s.matcher.Vocabulary()),
		"confidenceFallback": s.confidenceFallback,
		"modelSource":        s.modelSource,
		"modelLoaded":        s.loader != nil && s.loader.Loaded(),
	}
	return stats
}
