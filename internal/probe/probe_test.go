package probe

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/okian/diabcheck/internal/adapters/artifact"
	"github.com/okian/diabcheck/internal/adapters/http/api"
	service "github.com/okian/diabcheck/internal/app"
	"github.com/okian/diabcheck/internal/domain/features"
	"github.com/okian/diabcheck/internal/domain/inference"
	"github.com/okian/diabcheck/internal/domain/survey"
	"github.com/okian/diabcheck/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

const (
	transformerPath = "../../models/transformer.json"
	classifierPath  = "../../models/classifier.json"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// newTestServer runs the real API over the shipped artifacts.
func newTestServer() (*httptest.Server, *service.Service) {
	adapter, err := artifact.Load(context.Background(), transformerPath, classifierPath)
	So(err, ShouldBeNil)
	svc := service.New(service.WithPredictor(adapter))
	So(svc.Start(context.Background()), ShouldBeNil)

	mux := http.NewServeMux()
	api.NewServer(svc, svc).Register(mux)
	return httptest.NewServer(api.Chain(mux, nil)), svc
}

func writeFile(dir, name, content string) string {
	path := filepath.Join(dir, name)
	So(os.WriteFile(path, []byte(content), 0o600), ShouldBeNil)
	return path
}

func TestGenerateSession(t *testing.T) {
	Convey("Given the questionnaire", t, func() {
		questions := survey.Questions()

		Convey("When generating sessions", func() {
			sessions, err := generateSessions(context.Background(), questions, 50)
			So(err, ShouldBeNil)

			Convey("Then every session should encode without error", func() {
				So(len(sessions), ShouldEqual, 50)
				for _, s := range sessions {
					So(len(s), ShouldEqual, features.NumColumns)
					for key, v := range s {
						raw, err := survey.FromValue(v)
						So(err, ShouldBeNil)
						_, err = survey.Encode(key, raw)
						So(err, ShouldBeNil)
					}
				}
			})
		})

		Convey("When deriving malformed sessions", func() {
			base, err := generateSession(questions)
			So(err, ShouldBeNil)
			unknown := withUnknownOption(base, questions)
			short := withoutLast(base, questions)

			Convey("Then the base session should be left untouched", func() {
				So(len(base), ShouldEqual, features.NumColumns)
				So(base[questions[0].Key], ShouldNotEqual, "Prefer not to say")
				So(unknown[questions[0].Key], ShouldEqual, "Prefer not to say")
				So(len(short), ShouldEqual, features.NumColumns-1)
			})
		})

		Convey("When the context is already cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			_, err := generateSessions(ctx, questions, 5)

			Convey("Then generation should stop", func() {
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
			})
		})
	})
}

func TestRun(t *testing.T) {
	Convey("Given a running server", t, func() {
		srv, svc := newTestServer()
		defer srv.Close()
		defer svc.Stop()

		Convey("When running the probe", func() {
			var out bytes.Buffer
			stats, err := Run(context.Background(), &Config{
				BaseURL:  srv.URL,
				Sessions: 40,
				Workers:  4,
				Timeout:  5 * time.Second,
			}, &out)

			Convey("Then every valid session should be classified", func() {
				So(err, ShouldBeNil)
				So(stats.SessionsSubmitted, ShouldEqual, 40)
				So(stats.Diabetic+stats.NotDiabetic, ShouldEqual, 40)
				So(stats.Failed, ShouldEqual, 0)
			})

			Convey("And both rejections should be verified", func() {
				So(stats.RejectionsChecked, ShouldEqual, 2)
				So(out.String(), ShouldContainSubstring, "Rejections checked:  2")
			})

			Convey("And the server should have counted every request", func() {
				So(svc.GetStats()["requests"], ShouldEqual, int64(42))
			})
		})
	})

	Convey("Given no server", t, func() {
		Convey("When running the probe", func() {
			_, err := Run(context.Background(), &Config{
				BaseURL:  "http://127.0.0.1:1",
				Sessions: 1,
				Workers:  1,
				Timeout:  time.Second,
			}, &bytes.Buffer{})

			Convey("Then it should fail fetching the questions", func() {
				So(errors.Is(err, ErrServer), ShouldBeTrue)
			})
		})
	})
}

func TestReadAnswers(t *testing.T) {
	Convey("Given answers files", t, func() {
		dir := t.TempDir()

		Convey("When the YAML file nests answers", func() {
			path := writeFile(dir, "answers.yaml", `
answers:
  general_health: General Health is Excellent
  bmi: 24.5
  age: 41
`)
			answers, err := ReadAnswers(path)

			Convey("Then labels and numbers should be kept apart", func() {
				So(err, ShouldBeNil)
				So(len(answers), ShouldEqual, 3)
				So(answers["general_health"].String(), ShouldEqual, "General Health is Excellent")
				So(answers["bmi"].IsNumber(), ShouldBeTrue)
				So(answers["age"].IsNumber(), ShouldBeTrue)
			})
		})

		Convey("When the JSON file has answers at the top level", func() {
			path := writeFile(dir, "answers.json", `{"sex":"Female","height_inches":64}`)
			answers, err := ReadAnswers(path)

			Convey("Then it should be read the same way", func() {
				So(err, ShouldBeNil)
				So(answers["sex"].IsNumber(), ShouldBeFalse)
				So(answers["height_inches"].IsNumber(), ShouldBeTrue)
			})
		})

		Convey("When a numeric-looking choice label is unquoted", func() {
			path := writeFile(dir, "activity.yaml", "answers:\n  physical_activity_150min: 0\n  bmi: 31\n")
			answers, err := ReadAnswers(path)

			Convey("Then it should be read as the label", func() {
				So(err, ShouldBeNil)
				So(answers["physical_activity_150min"].IsNumber(), ShouldBeFalse)
				code, err := survey.Encode("physical_activity_150min", answers["physical_activity_150min"])
				So(err, ShouldBeNil)
				So(code, ShouldEqual, 3.0)
				So(answers["bmi"].IsNumber(), ShouldBeTrue)
			})
		})

		Convey("When an answer is neither a label nor a number", func() {
			path := writeFile(dir, "bad.yaml", "answers:\n  arthritis: true\n")
			_, err := ReadAnswers(path)

			Convey("Then it should be rejected", func() {
				So(errors.Is(err, ErrAnswersFile), ShouldBeTrue)
			})
		})

		Convey("When the file does not exist", func() {
			_, err := ReadAnswers(filepath.Join(dir, "missing.yaml"))

			Convey("Then it should be rejected", func() {
				So(errors.Is(err, ErrAnswersFile), ShouldBeTrue)
			})
		})
	})
}

func TestPredictFile(t *testing.T) {
	Convey("Given a complete answers file", t, func() {
		dir := t.TempDir()
		base, err := generateSession(survey.Questions())
		So(err, ShouldBeNil)

		var buf bytes.Buffer
		buf.WriteString("answers:\n")
		for _, q := range survey.Questions() {
			switch v := base[q.Key].(type) {
			case string:
				buf.WriteString("  " + q.Key + ": \"" + v + "\"\n")
			case float64:
				buf.WriteString("  " + q.Key + ": " + strconv.FormatFloat(v, 'f', -1, 64) + "\n")
			}
		}
		path := writeFile(dir, "answers.yaml", buf.String())

		Convey("When predicting offline", func() {
			out, err := PredictFile(context.Background(), transformerPath, classifierPath, path)

			Convey("Then a label and a full row should be returned", func() {
				So(err, ShouldBeNil)
				So(out.Label.Valid(), ShouldBeTrue)
				So(out.Message, ShouldEqual, out.Label.Message())
				So(out.Row.Len(), ShouldEqual, features.NumColumns)
			})
		})

		Convey("When the artifacts are missing", func() {
			_, err := PredictFile(context.Background(), filepath.Join(dir, "nope.json"), classifierPath, path)

			Convey("Then it should fail with an artifact load error", func() {
				So(errors.Is(err, inference.ErrArtifactLoad), ShouldBeTrue)
			})
		})
	})
}
