// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers a YAML file and environment variables on top of New().
// - External errors are wrapped with this package's sentinel kinds.
package config

// Default values.
const (
	DefaultAddr               = ":8080"
	DefaultMaxUploadBytes     = 10 << 20
	DefaultModelPath          = "models/role_model.json"
	DefaultConfidenceFallback = 80.0
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// MaxUploadBytes caps the size of one uploaded document.
	MaxUploadBytes int64 `koanf:"max_upload_bytes"`

	// MaxPDFPages caps the pages read from one PDF. Zero reads all pages.
	MaxPDFPages int `koanf:"max_pdf_pages"`

	// ModelPath is the local artifact file, used unless ModelS3Bucket is set.
	ModelPath string `koanf:"model_path"`

	// ModelPreload loads the artifact at startup instead of on first request.
	ModelPreload bool `koanf:"model_preload"`

	// S3 location of the artifact.
	ModelS3Bucket    string `koanf:"model_s3_bucket"`
	ModelS3Key       string `koanf:"model_s3_key"`
	ModelS3Region    string `koanf:"model_s3_region"`
	ModelS3Endpoint  string `koanf:"model_s3_endpoint"`
	ModelS3AccessKey string `koanf:"model_s3_access_key"`
	ModelS3SecretKey string `koanf:"model_s3_secret_key"`

	// ConfidenceFallback is reported when the model has no probabilities.
	ConfidenceFallback float64 `koanf:"confidence_fallback"`

	// Skills replaces the built-in skill vocabulary when non-empty.
	Skills []string `koanf:"skills"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		LogFormat:          "text",
		Addr:               DefaultAddr,
		MaxUploadBytes:     DefaultMaxUploadBytes,
		ModelPath:          DefaultModelPath,
		ModelPreload:       true,
		ModelS3Region:      "us-east-1",
		ConfidenceFallback: DefaultConfidenceFallback,
	}
}

// ModelFromS3 reports whether the artifact is read from object storage.
func (c *Config) ModelFromS3() bool {
	return c.ModelS3Bucket != ""
}
