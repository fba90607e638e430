package util

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestQuantify(t *testing.T) {
	Convey("Quantify", t, func() {
		So(Quantify(1, "variant", "variants"), ShouldEqual, "1 variant")
		So(Quantify(2, "variant", "variants"), ShouldEqual, "2 variants")
		So(Quantify(0, "variant", "variants"), ShouldEqual, "0 variants")
	})
}

func TestFit(t *testing.T) {
	Convey("Fit", t, func() {
		So(Fit("short", 10), ShouldEqual, "short")
		So(Fit("[BTS] 2021 Muster Teaser", 10), ShouldEqual, "[BTS] 202…")
		So(Fit("anything", 0), ShouldEqual, "anything")
	})
}

func TestMax(t *testing.T) {
	Convey("Max", t, func() {
		So(Max(1, 5, 2), ShouldEqual, 5)
		So(Max(-3), ShouldEqual, -3)
		So(Max[int](), ShouldEqual, 0)
	})
}
