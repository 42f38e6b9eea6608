package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with a private registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it registers under the floorwatch namespace", func() {
				So(manager, ShouldNotBeNil)
				manager.ticks.Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				names := make([]string, 0, len(families))
				for _, f := range families {
					names = append(names, f.GetName())
				}
				So(names, ShouldContain, "floorwatch_dashboard_ticks_total")
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("plant"),
				WithSubsystem("line1"),
				WithHistogramBuckets([]float64{1, 5, 10}),
				WithConstLabels(map[string]string{"site": "north"}),
				WithPrometheusRegistry(registry),
			)
			manager.sessionsOpened.Inc()

			Convey("Then the names and constant labels follow the options", func() {
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				var found bool
				for _, f := range families {
					if f.GetName() != "plant_line1_sessions_opened_total" {
						continue
					}
					found = true
					labels := f.GetMetric()[0].GetLabel()
					So(len(labels), ShouldEqual, 1)
					So(labels[0].GetName(), ShouldEqual, "site")
					So(labels[0].GetValue(), ShouldEqual, "north")
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("When registering twice on the same registry", func() {
			registry := prometheus.NewRegistry()
			NewManager(WithPrometheusRegistry(registry))

			Convey("Then promauto panics on the duplicate collectors", func() {
				So(func() { NewManager(WithPrometheusRegistry(registry)) }, ShouldPanic)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When sessions open and close", func() {
			opened := testutil.ToFloat64(globalManager.sessionsOpened)
			expired := testutil.ToFloat64(globalManager.sessionsClosed.WithLabelValues("expired"))

			RecordSessionOpened()
			RecordSessionOpened()
			RecordSessionClosed("expired")
			UpdateSessionsActive(1)

			So(testutil.ToFloat64(globalManager.sessionsOpened), ShouldEqual, opened+2)
			So(testutil.ToFloat64(globalManager.sessionsClosed.WithLabelValues("expired")), ShouldEqual, expired+1)
			So(testutil.ToFloat64(globalManager.sessionsActive), ShouldEqual, 1)
		})

		Convey("When ticks and toggles are recorded", func() {
			ticks := testutil.ToFloat64(globalManager.ticks)
			running := testutil.ToFloat64(globalManager.toggles.WithLabelValues("running"))
			stopped := testutil.ToFloat64(globalManager.toggles.WithLabelValues("stopped"))

			RecordTick(0.2)
			RecordToggle(true)
			RecordToggle(false)
			RecordToggle(false)

			So(testutil.ToFloat64(globalManager.ticks), ShouldEqual, ticks+1)
			So(testutil.ToFloat64(globalManager.toggles.WithLabelValues("running")), ShouldEqual, running+1)
			So(testutil.ToFloat64(globalManager.toggles.WithLabelValues("stopped")), ShouldEqual, stopped+2)
		})

		Convey("When batches are recorded", func() {
			annotated := testutil.ToFloat64(globalManager.batches.WithLabelValues("true"))
			empty := testutil.ToFloat64(globalManager.batches.WithLabelValues("false"))

			RecordBatch(true)
			RecordBatch(false)
			RecordBatchDuplicate()

			So(testutil.ToFloat64(globalManager.batches.WithLabelValues("true")), ShouldEqual, annotated+1)
			So(testutil.ToFloat64(globalManager.batches.WithLabelValues("false")), ShouldEqual, empty+1)
		})

		Convey("When readings are recorded", func() {
			before := testutil.ToFloat64(globalManager.productionVolume)

			UpdateReading("cycle_time", 4.5)
			RecordSafetyStatus("packing", "red")
			RecordProduction(0.75)
			RecordProduction(-1)
			RecordProduction(0)

			So(testutil.ToFloat64(globalManager.readings.WithLabelValues("cycle_time")), ShouldEqual, 4.5)
			So(testutil.ToFloat64(globalManager.productionVolume), ShouldEqual, before+0.75)
		})

		Convey("When queue, HTTP and system metrics are recorded", func() {
			full := testutil.ToFloat64(globalManager.queueRejected.WithLabelValues("commands", "full"))

			So(func() {
				RecordQueueEnqueue("commands")
				RecordQueueRejected("commands", "full")
				RecordHTTPRequest("/api/sessions", "POST", "201")
				RecordHTTPRequestDuration("/api/sessions", "POST", "201", 1.5)
				RecordErrorByEndpoint("/api/sessions/{id}", "GET", "not_found")
				RecordErrorByComponent("worker", "tick_error")
				RecordTickError()
				UpdateSystemMemoryUsage(1 << 20)
				UpdateSystemGoroutineCount(12)
				RecordSystemGCPauseTime(0.3)
			}, ShouldNotPanic)
			So(testutil.ToFloat64(globalManager.queueRejected.WithLabelValues("commands", "full")), ShouldEqual, full+1)
		})

		Convey("When asking for the registry", func() {
			So(GetRegistry(), ShouldNotBeNil)
			families, err := GetRegistry().Gather()
			So(err, ShouldBeNil)
			So(len(families), ShouldBeGreaterThan, 0)
		})
	})
}
