package model_test

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"testing"

	"github.com/okian/cvrole/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestErrorKinds(t *testing.T) {
	Convey("Given a wrapped domain error", t, func() {
		cause := fs.ErrNotExist
		err := model.WrapKind("artifact.load", model.ErrArtifactMissing, cause)

		Convey("Then both the kind and the cause should be matchable", func() {
			So(errors.Is(err, model.ErrArtifactMissing), ShouldBeTrue)
			So(errors.Is(err, fs.ErrNotExist), ShouldBeTrue)
			So(errors.Is(err, model.ErrArtifactCorrupt), ShouldBeFalse)
		})

		Convey("And the message should carry the operation", func() {
			So(err.Error(), ShouldStartWith, "artifact.load: model artifact missing")
		})

		Convey("And further wrapping should keep the kind", func() {
			outer := fmt.Errorf("classify: %w", err)
			So(model.KindOf(outer), ShouldEqual, model.KindArtifactMissing)
		})
	})

	Convey("Given kind-only and nil causes", t, func() {
		So(model.WrapKind("op", model.ErrDecode, nil), ShouldBeNil)
		So(model.KindOf(model.NewKind("op", model.ErrDecode)), ShouldEqual, model.KindDecode)
		So(model.KindOf(nil), ShouldEqual, "")
		So(model.KindOf(errors.New("other")), ShouldEqual, model.KindInternal)
	})

	Convey("Given every kind", t, func() {
		kinds := map[error]string{
			model.ErrDecode:          model.KindDecode,
			model.ErrExtraction:      model.KindExtraction,
			model.ErrArtifactMissing: model.KindArtifactMissing,
			model.ErrArtifactCorrupt: model.KindArtifactCorrupt,
			model.ErrClassification:  model.KindClassification,
		}
		for kind, tag := range kinds {
			err := model.WrapKind("op", kind, errors.New("cause"))
			So(model.KindOf(err), ShouldEqual, tag)
			So(model.UserMessage(err), ShouldNotBeEmpty)
		}
		So(model.UserMessage(nil), ShouldBeEmpty)
	})
}

func TestClampConfidence(t *testing.T) {
	Convey("Given out-of-range confidences", t, func() {
		So(model.ClampConfidence(-3), ShouldEqual, 0)
		So(model.ClampConfidence(150), ShouldEqual, 100)
		So(model.ClampConfidence(42.5), ShouldEqual, 42.5)
		So(model.ClampConfidence(math.NaN()), ShouldEqual, 0)
		So(model.ClampConfidence(math.Inf(1)), ShouldEqual, 100)
	})

	Convey("Given a prediction", t, func() {
		p := model.Prediction{Label: "Java Developer", Confidence: 80}
		So(p.ConfidenceString(), ShouldEqual, "80.00")
		p.Confidence = 66.666
		So(p.ConfidenceString(), ShouldEqual, "66.67")
	})

	Convey("Given a nil skill report", t, func() {
		var r *model.SkillReport
		So(r.Count(), ShouldEqual, 0)
	})
}
