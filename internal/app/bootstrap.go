package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/okian/cvrole/internal/adapters/artifact"
	"github.com/okian/cvrole/internal/adapters/extract"
	"github.com/okian/cvrole/internal/config"
	"github.com/okian/cvrole/internal/domain/skills"
	"github.com/okian/cvrole/pkg/logger"
)

// ErrNilConfig is returned when no configuration is supplied.
var ErrNilConfig = errors.New("nil config")

// ModelSource returns the artifact source selected by cfg: the S3 object
// when a bucket is configured, otherwise the local file.
func ModelSource(ctx context.Context, cfg *config.Config) (artifact.Source, error) {
	if !cfg.ModelFromS3() {
		return artifact.NewFileSource(cfg.ModelPath), nil
	}
	src, err := artifact.NewS3SourceFromConfig(ctx, artifact.S3Config{
		Bucket:      cfg.ModelS3Bucket,
		Key:         cfg.ModelS3Key,
		Region:      cfg.ModelS3Region,
		EndpointURL: cfg.ModelS3Endpoint,
		AccessKey:   cfg.ModelS3AccessKey,
		SecretKey:   cfg.ModelS3SecretKey,
	})
	if err != nil {
		return nil, fmt.Errorf("model source: %w", err)
	}
	return src, nil
}

// NewFromConfig wires a Service with the extractor, model loader and skill
// matcher described by cfg.
func NewFromConfig(ctx context.Context, cfg *config.Config, log logger.Logger) (*Service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if log == nil {
		log = logger.Nop()
	}

	src, err := ModelSource(ctx, cfg)
	if err != nil {
		return nil, err
	}
	loader := artifact.NewLoader(src, artifact.WithLogger(log.Named("artifact")))

	return New(
		WithLogger(log.Named("service")),
		WithExtractor(extract.New(
			extract.WithLogger(log.Named("extract")),
			extract.WithMaxPages(cfg.MaxPDFPages),
		)),
		WithModelLoader(loader, src.String()),
		WithSkillMatcher(skills.NewMatcher(skills.WithVocabulary(cfg.Skills))),
		WithConfidenceFallback(cfg.ConfidenceFallback),
		WithPreload(cfg.ModelPreload),
	), nil
}
