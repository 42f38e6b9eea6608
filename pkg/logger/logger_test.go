package logger

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoggerInit(t *testing.T) {
	Convey("Given an initialized logger", t, func() {
		So(Init(), ShouldBeNil)
		defer func() { So(Sync(), ShouldBeNil) }()

		Convey("Then Get returns a usable logger", func() {
			l := Get()
			So(l, ShouldNotBeNil)
			So(func() { l.Info(context.Background(), "test message", String("k", "v")) }, ShouldNotPanic)
		})

		Convey("And Named returns a child logger", func() {
			So(Named("test"), ShouldNotBeNil)
		})
	})
}

func TestLoggerOutput(t *testing.T) {
	Convey("Given a logger writing to a buffer", t, func() {
		var buf bytes.Buffer
		So(Init(WithWriter(&buf)), ShouldBeNil)
		ctx := context.Background()

		Convey("When logging with fields", func() {
			Named("worker").Info(ctx, "tick applied",
				Int("tick", 3),
				Float64("y", 1.5),
				Bool("running", true),
				Error(errors.New("boom")),
			)
			out := buf.String()

			Convey("Then the message, fields, component and source are present", func() {
				So(out, ShouldContainSubstring, "tick applied")
				So(out, ShouldContainSubstring, "tick=3")
				So(out, ShouldContainSubstring, "y=1.5")
				So(out, ShouldContainSubstring, "running=true")
				So(out, ShouldContainSubstring, "error=boom")
				So(out, ShouldContainSubstring, "component=worker")
				So(out, ShouldContainSubstring, "logger_test.go")
			})
		})

		Convey("When the level is raised to warn", func() {
			So(SetLevelString("warn"), ShouldBeNil)
			Get().Info(ctx, "hidden")
			Get().Warn(ctx, "shown")

			Convey("Then info records are dropped", func() {
				So(buf.String(), ShouldNotContainSubstring, "hidden")
				So(buf.String(), ShouldContainSubstring, "shown")
			})
		})

		Convey("When JSON output is enabled", func() {
			var jbuf bytes.Buffer
			So(Init(WithWriter(&jbuf), WithJSON(true)), ShouldBeNil)
			Get().Info(ctx, "json record", String("k", "v"))

			Convey("Then records are JSON lines", func() {
				So(strings.HasPrefix(jbuf.String(), "{"), ShouldBeTrue)
				So(jbuf.String(), ShouldContainSubstring, `"k":"v"`)
			})
		})
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("Given level strings", t, func() {
		for _, lvl := range []string{"debug", "info", "", "warn", "WARNING", " error "} {
			So(SetLevelString(lvl), ShouldBeNil)
		}

		Convey("Then unknown levels are rejected", func() {
			err := SetLevelString("verbose")
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "unknown log level")
		})
	})
}

func TestDiscard(t *testing.T) {
	Convey("Given a discard logger", t, func() {
		l := Discard()

		Convey("Then logging is a no-op", func() {
			So(func() { l.Named("x").Error(context.Background(), "dropped") }, ShouldNotPanic)
		})
	})
}
