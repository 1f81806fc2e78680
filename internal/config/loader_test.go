package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/cvrole/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.MaxUploadBytes, convey.ShouldEqual, 10<<20)
				convey.So(cfg.ModelPath, convey.ShouldEqual, "models/role_model.json")
				convey.So(cfg.ConfidenceFallback, convey.ShouldEqual, 80)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("CVROLE_ADDR", ":9090")
			_ = os.Setenv("CVROLE_MAX_UPLOAD_BYTES", "2048")
			_ = os.Setenv("CVROLE_MODEL_PATH", "/srv/model.json")
			_ = os.Setenv("CVROLE_MODEL_PRELOAD", "false")
			_ = os.Setenv("CVROLE_CONFIDENCE_FALLBACK", "72.5")
			_ = os.Setenv("CVROLE_SKILLS", "python, go ,sql,,")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.MaxUploadBytes, convey.ShouldEqual, 2048)
				convey.So(cfg.ModelPath, convey.ShouldEqual, "/srv/model.json")
				convey.So(cfg.ModelPreload, convey.ShouldBeFalse)
				convey.So(cfg.ConfidenceFallback, convey.ShouldEqual, 72.5)
				convey.So(cfg.Skills, convey.ShouldResemble, []string{"python", "go", "sql"})
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
addr: ":7070"
log_level: debug
log_format: json
max_pdf_pages: 20
model_s3_bucket: models
model_s3_key: role_model.json
model_s3_endpoint: http://localhost:9000
skills:
  - rust
  - go
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("CVROLE_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
				convey.So(cfg.MaxPDFPages, convey.ShouldEqual, 20)
				convey.So(cfg.ModelFromS3(), convey.ShouldBeTrue)
				convey.So(cfg.ModelS3Key, convey.ShouldEqual, "role_model.json")
				convey.So(cfg.ModelS3Region, convey.ShouldEqual, "us-east-1")
				convey.So(cfg.Skills, convey.ShouldResemble, []string{"rust", "go"})
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
addr: ":7070"
max_upload_bytes: 4096
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("CVROLE_CONFIG", tmpFile)
			_ = os.Setenv("CVROLE_ADDR", ":6060")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":6060")
				convey.So(cfg.MaxUploadBytes, convey.ShouldEqual, 4096)
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("CVROLE_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("CVROLE_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("CVROLE_MAX_UPLOAD_BYTES", "lots")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

func TestConfigValidation(t *testing.T) {
	convey.Convey("Given config validation", t, func() {
		ctx := context.Background()

		cases := []struct {
			name  string
			env   map[string]string
			match string
		}{
			{"empty addr", map[string]string{"CVROLE_ADDR": ""}, "addr must not be empty"},
			{"zero upload limit", map[string]string{"CVROLE_MAX_UPLOAD_BYTES": "0"}, "max_upload_bytes"},
			{"negative page cap", map[string]string{"CVROLE_MAX_PDF_PAGES": "-1"}, "max_pdf_pages"},
			{"fallback above 100", map[string]string{"CVROLE_CONFIDENCE_FALLBACK": "101"}, "confidence_fallback"},
			{"unknown log format", map[string]string{"CVROLE_LOG_FORMAT": "xml"}, "log_format"},
			{"bucket without key", map[string]string{"CVROLE_MODEL_S3_BUCKET": "models"}, "model_s3_key"},
			{"empty model path", map[string]string{"CVROLE_MODEL_PATH": " "}, "model_path"},
		}

		for _, tc := range cases {
			convey.Convey("When the config has "+tc.name, func() {
				for k, v := range tc.env {
					_ = os.Setenv(k, v)
				}
				defer clearConfigEnvVars()

				cfg, err := config.Load(ctx)

				convey.Convey("Then it should return a validation error", func() {
					convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
					convey.So(err.Error(), convey.ShouldContainSubstring, tc.match)
					convey.So(cfg, convey.ShouldBeNil)
				})
			})
		}
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"CVROLE_CONFIG",
		"CVROLE_ADDR",
		"CVROLE_LOG_FORMAT",
		"CVROLE_MAX_UPLOAD_BYTES",
		"CVROLE_MAX_PDF_PAGES",
		"CVROLE_MODEL_PATH",
		"CVROLE_MODEL_PRELOAD",
		"CVROLE_MODEL_S3_BUCKET",
		"CVROLE_CONFIDENCE_FALLBACK",
		"CVROLE_SKILLS",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "cvrole-config-*.yaml")
	if err != nil {
		panic(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}

	if err := tmpFile.Close(); err != nil {
		panic(err)
	}

	return tmpFile.Name()
}
