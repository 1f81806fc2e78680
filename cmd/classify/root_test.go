package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/cvrole/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

var bundledModel = filepath.Join("..", "..", "models", "role_model.json")

func writeFile(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(args ...string) (string, string, error) {
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestClassifyCommand(t *testing.T) {
	convey.Convey("Given the classify command and the bundled model", t, func() {
		resume := writeFile(t, "resume.txt", "Data scientist: Python, pandas, NumPy, machine learning and TensorFlow.")

		convey.Convey("When classifying a resume", func() {
			stdout, _, err := execute("--model", bundledModel, resume)

			convey.Convey("Then the role, confidence and skills should be printed", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(stdout, convey.ShouldContainSubstring, "Role:       Data Scientist")
				convey.So(stdout, convey.ShouldContainSubstring, "Confidence:")
				convey.So(stdout, convey.ShouldContainSubstring, "machine learning")
			})
		})

		convey.Convey("When asking for JSON output", func() {
			stdout, _, err := execute("--model", bundledModel, "--json", resume)

			convey.Convey("Then a report should be printed per line", func() {
				convey.So(err, convey.ShouldBeNil)
				var report model.Report
				convey.So(json.Unmarshal([]byte(stdout), &report), convey.ShouldBeNil)
				convey.So(report.FileName, convey.ShouldEqual, "resume.txt")
				convey.So(report.Prediction.Label, convey.ShouldEqual, "Data Scientist")
			})
		})

		convey.Convey("When a document has no known terms", func() {
			empty := writeFile(t, "hobbies.txt", "Gardening and cooking enthusiast")
			stdout, _, err := execute("--model", bundledModel, empty)

			convey.Convey("Then no role should be reported", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(stdout, convey.ShouldContainSubstring, "none (no known terms found)")
			})
		})

		convey.Convey("When one of the files cannot be classified", func() {
			bad := writeFile(t, "latin1.txt", "caf\xe9")
			stdout, stderr, err := execute("--model", bundledModel, resume, bad)

			convey.Convey("Then the others are still reported and the command fails", func() {
				convey.So(errors.Is(err, ErrDocumentsFailed), convey.ShouldBeTrue)
				convey.So(stdout, convey.ShouldContainSubstring, "Data Scientist")
				convey.So(stderr, convey.ShouldContainSubstring, model.KindDecode)
			})
		})

		convey.Convey("When the model is missing", func() {
			_, stderr, err := execute("--model", filepath.Join(t.TempDir(), "none.json"), resume)

			convey.Convey("Then the missing artifact should be reported", func() {
				convey.So(errors.Is(err, ErrDocumentsFailed), convey.ShouldBeTrue)
				convey.So(stderr, convey.ShouldContainSubstring, model.KindArtifactMissing)
			})
		})

		convey.Convey("When no file is given", func() {
			_, _, err := execute("--model", bundledModel)

			convey.Convey("Then the command should fail", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When the fallback is out of range", func() {
			_, _, err := execute("--model", bundledModel, "--fallback", "150", resume)

			convey.Convey("Then configuration validation should fail", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "confidence_fallback")
			})
		})
	})
}
