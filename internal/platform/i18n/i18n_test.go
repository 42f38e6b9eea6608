package i18n

import (
	"net/http/httptest"
	"testing"

	"golang.org/x/text/language"

	. "github.com/smartystreets/goconvey/convey"
)

func TestResolveTag(t *testing.T) {
	Convey("Given requests with different locale hints", t, func() {
		Convey("When nothing is sent", func() {
			r := httptest.NewRequest("GET", "/", nil)
			So(ResolveTag(r), ShouldEqual, language.AmericanEnglish)
		})

		Convey("When Accept-Language prefers German", func() {
			r := httptest.NewRequest("GET", "/", nil)
			r.Header.Set("Accept-Language", "de-DE,de;q=0.9,en;q=0.5")
			So(ResolveTag(r), ShouldEqual, language.German)
		})

		Convey("When the lang parameter overrides the header", func() {
			r := httptest.NewRequest("GET", "/?lang=en-GB", nil)
			r.Header.Set("Accept-Language", "de")
			So(ResolveTag(r), ShouldEqual, language.BritishEnglish)
		})

		Convey("When the lang parameter is garbage", func() {
			r := httptest.NewRequest("GET", "/?lang=%21%21", nil)
			So(ResolveTag(r), ShouldEqual, language.AmericanEnglish)
		})

		Convey("When the request is nil", func() {
			So(ResolveTag(nil), ShouldEqual, Default())
		})
	})
}

func TestDatePattern(t *testing.T) {
	Convey("Given supported tags", t, func() {
		So(DatePattern(language.AmericanEnglish), ShouldEqual, "%D")
		So(DatePattern(language.German), ShouldEqual, "%d.%m.%y")
		So(DatePattern(language.BritishEnglish), ShouldEqual, "%d/%m/%y")

		Convey("Then every supported tag has a pattern", func() {
			for _, tag := range Supported() {
				So(DatePattern(tag), ShouldNotBeEmpty)
			}
		})
	})
}

func TestPrinter(t *testing.T) {
	Convey("Given an English printer", t, func() {
		p := Printer(language.AmericanEnglish)

		Convey("Then two-decimal values render with a dot", func() {
			So(p.Sprintf("%.2f", 6.5), ShouldEqual, "6.50")
		})
	})
}
