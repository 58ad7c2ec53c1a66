package artifact_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/diabcheck/internal/adapters/artifact"
	"github.com/okian/diabcheck/internal/domain/features"
	"github.com/okian/diabcheck/internal/domain/inference"
	. "github.com/smartystreets/goconvey/convey"
)

// Profiles in column order; see features.Columns.
var (
	healthyProfile = []float64{1, 0, 0, 1, 1, 1, 1, 1, 1, 1, 1, 1, 0, 30, 65, 22, 4, 7, 4, 1, 1, 1, 0}
	riskyProfile   = []float64{5, 20, 2, 1, 0, 3, 0, 0, 0, 0, 1, 0, 1, 72, 68, 41, 1, 1, 1, 0, 1, 1, 1}
)

func writeJSON(t *testing.T, dir, name string, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal %s: %v", name, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func writeRaw(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func filled(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func identityScaler() map[string]any {
	return map[string]any{
		"kind":    "standard_scaler",
		"columns": features.Columns(),
		"mean":    filled(features.NumColumns, 0),
		"scale":   filled(features.NumColumns, 1),
	}
}

func mustRow(values []float64) features.Row {
	row, err := features.Assemble(values)
	if err != nil {
		panic(err)
	}
	return row
}

func TestLoadShippedArtifacts(t *testing.T) {
	Convey("Given the artifacts shipped in models/", t, func() {
		ctx := context.Background()
		a, err := artifact.Load(ctx,
			filepath.Join("..", "..", "..", "models", "transformer.json"),
			filepath.Join("..", "..", "..", "models", "classifier.json"),
		)

		Convey("Then they load into an adapter", func() {
			So(err, ShouldBeNil)
			So(a, ShouldNotBeNil)
		})

		Convey("And a low risk profile is predicted not diabetic", func() {
			label, err := a.Predict(ctx, mustRow(healthyProfile))
			So(err, ShouldBeNil)
			So(label, ShouldEqual, inference.NotDiabetic)
		})

		Convey("And a high risk profile is predicted diabetic", func() {
			label, err := a.Predict(ctx, mustRow(riskyProfile))
			So(err, ShouldBeNil)
			So(label, ShouldEqual, inference.Diabetic)
		})

		Convey("And predicting twice gives the same label", func() {
			first, _ := a.Predict(ctx, mustRow(riskyProfile))
			second, _ := a.Predict(ctx, mustRow(riskyProfile))
			So(second, ShouldEqual, first)
		})
	})
}

func TestLoadTransformer(t *testing.T) {
	ctx := context.Background()

	Convey("Given a valid scaler document", t, func() {
		dir := t.TempDir()
		doc := identityScaler()
		mean := filled(features.NumColumns, 1)
		scale := filled(features.NumColumns, 2)
		doc["mean"], doc["scale"] = mean, scale
		path := writeJSON(t, dir, "scaler.json", doc)

		s, err := artifact.LoadTransformer(ctx, path)
		So(err, ShouldBeNil)

		Convey("Then it standardizes each column", func() {
			out, err := s.Transform(ctx, mustRow(filled(features.NumColumns, 5)))
			So(err, ShouldBeNil)
			So(out, ShouldResemble, filled(features.NumColumns, 2))
			So(s.Columns(), ShouldResemble, features.Columns())
		})
	})

	Convey("Given malformed scaler documents", t, func() {
		dir := t.TempDir()
		cases := []struct {
			name   string
			mutate func(map[string]any)
		}{
			{"a wrong kind", func(d map[string]any) { d["kind"] = "min_max_scaler" }},
			{"no scale", func(d map[string]any) { delete(d, "scale") }},
			{"a short mean", func(d map[string]any) { d["mean"] = []float64{0} }},
			{"a zero scale", func(d map[string]any) { d["scale"] = filled(features.NumColumns, 0) }},
			{"an extra property", func(d map[string]any) { d["with_mean"] = true }},
			{"no columns", func(d map[string]any) { d["columns"] = []string{} }},
		}
		for _, c := range cases {
			Convey("When the document has "+c.name, func() {
				doc := identityScaler()
				c.mutate(doc)
				path := writeJSON(t, dir, "scaler.json", doc)

				_, err := artifact.LoadTransformer(ctx, path)
				So(errors.Is(err, inference.ErrArtifactLoad), ShouldBeTrue)
			})
		}
	})

	Convey("Given a file that is not JSON", t, func() {
		path := writeRaw(t, t.TempDir(), "scaler.json", "not json")
		_, err := artifact.LoadTransformer(ctx, path)
		So(errors.Is(err, inference.ErrArtifactLoad), ShouldBeTrue)
	})

	Convey("Given a missing file", t, func() {
		_, err := artifact.LoadTransformer(ctx, "/non/existent/scaler.json")
		So(errors.Is(err, inference.ErrArtifactLoad), ShouldBeTrue)
	})

	Convey("Given an empty path", t, func() {
		_, err := artifact.LoadTransformer(ctx, "")
		So(errors.Is(err, inference.ErrArtifactLoad), ShouldBeTrue)
	})
}

func TestLoadClassifier(t *testing.T) {
	ctx := context.Background()

	Convey("Given a classifier with one positive weight", t, func() {
		dir := t.TempDir()
		coef := filled(features.NumColumns, 0)
		coef[0] = 1
		path := writeJSON(t, dir, "clf.json", map[string]any{
			"kind":         "logistic_regression",
			"coefficients": coef,
			"intercept":    -3.0,
		})

		m, err := artifact.LoadClassifier(ctx, path)
		So(err, ShouldBeNil)
		So(m.Features(), ShouldEqual, features.NumColumns)

		Convey("Then the default threshold of 0.5 splits at w·x + b = 0", func() {
			x := filled(features.NumColumns, 0)
			x[0] = 2.9
			label, err := m.Classify(ctx, x)
			So(err, ShouldBeNil)
			So(label, ShouldEqual, inference.NotDiabetic)

			x[0] = 3.1
			label, err = m.Classify(ctx, x)
			So(err, ShouldBeNil)
			So(label, ShouldEqual, inference.Diabetic)
		})

		Convey("And a wrong input width fails with ErrInference", func() {
			_, err := m.Classify(ctx, []float64{1})
			So(errors.Is(err, inference.ErrInference), ShouldBeTrue)
		})
	})

	Convey("Given a custom threshold", t, func() {
		m, err := artifact.NewLogisticRegression([]float64{1}, 0, 0.9)
		So(err, ShouldBeNil)
		label, err := m.Classify(ctx, []float64{1}) // sigmoid(1) ~ 0.73
		So(err, ShouldBeNil)
		So(label, ShouldEqual, inference.NotDiabetic)
	})

	Convey("Given invalid classifier documents", t, func() {
		dir := t.TempDir()
		docs := []string{
			`{"kind":"logistic_regression","coefficients":[],"intercept":0}`,
			`{"kind":"logistic_regression","coefficients":[1,2]}`,
			`{"kind":"svm","coefficients":[1],"intercept":0}`,
			`{"kind":"logistic_regression","coefficients":[1],"intercept":0,"threshold":1.5}`,
			`{"kind":"logistic_regression","coefficients":["a"],"intercept":0}`,
		}
		for _, d := range docs {
			path := writeRaw(t, dir, "clf.json", d)
			_, err := artifact.LoadClassifier(ctx, path)
			So(errors.Is(err, inference.ErrArtifactLoad), ShouldBeTrue)
		}
	})
}

func TestLoadIncompatibleArtifacts(t *testing.T) {
	Convey("Given a scaler and a classifier of different widths", t, func() {
		dir := t.TempDir()
		scaler := writeJSON(t, dir, "scaler.json", identityScaler())
		clf := writeRaw(t, dir, "clf.json", `{"kind":"logistic_regression","coefficients":[1,2,3],"intercept":0}`)

		_, err := artifact.Load(context.Background(), scaler, clf)
		So(errors.Is(err, inference.ErrArtifactLoad), ShouldBeTrue)
	})

	Convey("Given a scaler fitted on a different column order", t, func() {
		dir := t.TempDir()
		doc := identityScaler()
		cols := features.Columns()
		cols[13], cols[14] = cols[14], cols[13]
		doc["columns"] = cols
		scaler := writeJSON(t, dir, "scaler.json", doc)
		clf := writeJSON(t, dir, "clf.json", map[string]any{
			"kind":         "logistic_regression",
			"coefficients": filled(features.NumColumns, 0.1),
			"intercept":    0.0,
		})

		a, err := artifact.Load(context.Background(), scaler, clf)
		So(err, ShouldBeNil)

		Convey("Then prediction fails with ErrTransform", func() {
			_, err := a.Predict(context.Background(), mustRow(healthyProfile))
			So(errors.Is(err, inference.ErrTransform), ShouldBeTrue)
		})
	})
}
