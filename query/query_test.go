package query

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/vlive-go/vlive/filesystem"
	"github.com/vlive-go/vlive/key"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestQuery(t *testing.T) {
	Convey("Given remembered queries", t, func() {
		viper.Set(key.SearchRememberQueries, true)

		So(Remember("BTS", 1), ShouldBeNil)
		So(Remember("  Black   Pink ", 10), ShouldBeNil)
		So(Remember("bts", 1), ShouldBeNil)

		Convey("Then suggestions are ranked by use", func() {
			So(SuggestMany("b"), ShouldResemble, []string{"black pink", "bts"})
			So(Suggest("bt").MustGet(), ShouldEqual, "bts")
		})

		Convey("Then unknown queries have no suggestion", func() {
			So(Suggest("zzz").IsAbsent(), ShouldBeTrue)
		})

		Convey("When remembering is disabled", func() {
			viper.Set(key.SearchRememberQueries, false)
			So(Remember("twice", 100), ShouldBeNil)
			So(SuggestMany("twice"), ShouldBeEmpty)

			viper.Set(key.SearchRememberQueries, true)
			So(SuggestMany("twice"), ShouldBeEmpty)
		})
	})
}

func TestSanitize(t *testing.T) {
	Convey("sanitize", t, func() {
		So(sanitize("  NCT   127 "), ShouldEqual, "nct 127")
		So(sanitize(""), ShouldEqual, "")
	})
}
