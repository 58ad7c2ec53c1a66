package metrics

import (
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

// familyNames gathers reg and returns the metric family names it exposes.
func familyNames(reg *prometheus.Registry) map[string]bool {
	families, err := reg.Gather()
	So(err, ShouldBeNil)
	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	return names
}

// counterValue sums the counter samples of family name whose labels include want.
func counterValue(reg *prometheus.Registry, name string, want map[string]string) float64 {
	families, err := reg.Gather()
	So(err, ShouldBeNil)
	var total float64
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
	metric:
		for _, m := range f.GetMetric() {
			labels := make(map[string]string)
			for _, lp := range m.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			for k, v := range want {
				if labels[k] != v {
					continue metric
				}
			}
			total += m.GetCounter().GetValue()
		}
	}
	return total
}

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))
			manager.RecordPrediction("0")

			Convey("Then it should use the diabcheck namespace", func() {
				So(manager, ShouldNotBeNil)
				So(familyNames(registry)["diabcheck_survey_predictions_total"], ShouldBeTrue)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test_namespace"),
				WithSubsystem("test_subsystem"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithConstLabels(map[string]string{"model_version": "v1"}),
				WithPrometheusRegistry(registry),
			)
			manager.RecordPrediction("1")
			manager.RecordInferenceLatency(0.3)

			Convey("Then names and const labels should follow the options", func() {
				names := familyNames(registry)
				So(names["test_namespace_test_subsystem_predictions_total"], ShouldBeTrue)
				So(names["test_namespace_test_subsystem_inference_latency_milliseconds"], ShouldBeTrue)
				So(counterValue(registry, "test_namespace_test_subsystem_predictions_total",
					map[string]string{"model_version": "v1", "label": "1"}), ShouldEqual, 1)
			})
		})

		Convey("When empty options are given", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithHistogramBuckets(nil),
				WithConstLabels(nil),
				WithPrometheusRegistry(registry),
			)
			manager.RecordPredictionError("unknown_option")

			Convey("Then defaults should be kept", func() {
				So(familyNames(registry)["diabcheck_survey_prediction_errors_total"], ShouldBeTrue)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given a manager on its own registry", t, func() {
		registry := prometheus.NewRegistry()
		manager := NewManager(WithPrometheusRegistry(registry))

		Convey("When recording predictions by label", func() {
			manager.RecordPrediction("0")
			manager.RecordPrediction("0")
			manager.RecordPrediction("1")

			Convey("Then each label should be counted separately", func() {
				So(counterValue(registry, "diabcheck_survey_predictions_total", map[string]string{"label": "0"}), ShouldEqual, 2)
				So(counterValue(registry, "diabcheck_survey_predictions_total", map[string]string{"label": "1"}), ShouldEqual, 1)
			})
		})

		Convey("When recording prediction errors by kind", func() {
			manager.RecordPredictionError("schema_mismatch")
			manager.RecordPredictionError("unknown_option")
			manager.RecordPredictionError("unknown_option")

			Convey("Then each kind should be counted separately", func() {
				So(counterValue(registry, "diabcheck_survey_prediction_errors_total", map[string]string{"kind": "unknown_option"}), ShouldEqual, 2)
				So(counterValue(registry, "diabcheck_survey_prediction_errors_total", map[string]string{"kind": "schema_mismatch"}), ShouldEqual, 1)
			})
		})

		Convey("When toggling the artifacts gauge", func() {
			manager.SetArtifactsLoaded(true)
			manager.SetArtifactsLoaded(false)
			manager.SetArtifactsLoaded(true)

			Convey("Then the gauge should be exposed", func() {
				So(familyNames(registry)["diabcheck_survey_artifacts_loaded"], ShouldBeTrue)
			})
		})
	})
}

func TestGlobalMetrics(t *testing.T) {
	Convey("Given the global registry", t, func() {
		Convey("When recording through the package functions", func() {
			RecordPrediction("1")
			RecordPredictionError("transform_error")
			RecordInferenceLatency(1.5)
			SetArtifactsLoaded(true)
			RecordHTTPRequest("/predict", "POST", "200")
			RecordHTTPRequestDuration("/predict", "POST", "200", 3.2)
			RecordErrorByEndpoint("/predict", "POST", "unknown_option")
			UpdateSystemMemoryUsage(1024)
			UpdateSystemGoroutineCount(8)
			RecordSystemGCPauseTime(0.2)

			Convey("Then every family should be gathered from GetRegistry", func() {
				names := familyNames(GetRegistry())
				for _, want := range []string{
					"predictions_total",
					"prediction_errors_total",
					"inference_latency_milliseconds",
					"artifacts_loaded",
					"http_requests_total",
					"http_request_duration_milliseconds",
					"errors_by_endpoint_total",
					"system_memory_usage_bytes",
					"system_goroutine_count",
					"system_gc_pause_time_milliseconds",
				} {
					So(names["diabcheck_survey_"+want], ShouldBeTrue)
				}
			})

			Convey("And no default Go collectors should be registered", func() {
				for name := range familyNames(GetRegistry()) {
					So(strings.HasPrefix(name, "go_"), ShouldBeFalse)
				}
			})
		})
	})
}

func TestMetricsConcurrency(t *testing.T) {
	Convey("Given concurrent recorders", t, func() {
		registry := prometheus.NewRegistry()
		manager := NewManager(WithPrometheusRegistry(registry))

		const goroutines, perGoroutine = 10, 100
		var wg sync.WaitGroup
		for i := 0; i < goroutines; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < perGoroutine; j++ {
					manager.RecordPrediction("0")
					manager.RecordInferenceLatency(float64(j) / 10)
				}
			}()
		}
		wg.Wait()

		Convey("Then no increment should be lost", func() {
			So(counterValue(registry, "diabcheck_survey_predictions_total", map[string]string{"label": "0"}),
				ShouldEqual, goroutines*perGoroutine)
		})
	})
}

func TestConfigure(t *testing.T) {
	Convey("Given the global metrics configured for a model version", t, func() {
		reg := Configure(
			WithNamespace("clinic"),
			WithHistogramBuckets([]float64{1, 10}),
			WithConstLabels(map[string]string{"model_version": "v7"}),
		)
		Reset(func() { Configure() })

		Convey("Then the global functions should record on the new registry", func() {
			So(GetRegistry(), ShouldEqual, reg)

			RecordPrediction("1")
			RecordInferenceLatency(3)
			So(counterValue(reg, "clinic_survey_predictions_total",
				map[string]string{"label": "1", "model_version": "v7"}), ShouldEqual, 1)
			So(familyNames(reg)["clinic_survey_inference_latency_milliseconds"], ShouldBeTrue)
			So(familyNames(reg)["diabcheck_survey_predictions_total"], ShouldBeFalse)
		})

		Convey("Then the latency histogram should use the configured buckets", func() {
			RecordInferenceLatency(3)
			families, err := reg.Gather()
			So(err, ShouldBeNil)
			var bounds []float64
			for _, f := range families {
				if f.GetName() != "clinic_survey_inference_latency_milliseconds" {
					continue
				}
				for _, b := range f.GetMetric()[0].GetHistogram().GetBucket() {
					bounds = append(bounds, b.GetUpperBound())
				}
			}
			So(bounds, ShouldResemble, []float64{1, 10})
		})
	})

	Convey("Given the global metrics configured without options", t, func() {
		reg := Configure()

		Convey("Then the default names should be restored", func() {
			SetArtifactsLoaded(true)
			So(familyNames(reg)["diabcheck_survey_artifacts_loaded"], ShouldBeTrue)
		})
	})
}
