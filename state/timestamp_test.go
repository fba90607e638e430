package state

import (
	"encoding/json"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestTimestamp(t *testing.T) {
	Convey("Timestamp", t, func() {
		want := time.Date(2021, 2, 1, 11, 39, 0, 0, time.UTC)

		Convey("All encodings decode to the same instant", func() {
			for _, raw := range []string{`1612179540000`, `"1612179540000"`, `"2021-02-01 20:39:00"`, `"2021-02-01T20:39:00+09:00"`} {
				var ts Timestamp
				So(json.Unmarshal([]byte(raw), &ts), ShouldBeNil)
				So(ts.Equal(want), ShouldBeTrue)
				So(ts.Location(), ShouldEqual, time.UTC)
			}
		})

		Convey("Empty encodings decode to the zero value", func() {
			for _, raw := range []string{`null`, `""`, `0`, `"  "`} {
				ts := At(want)
				So(json.Unmarshal([]byte(raw), &ts), ShouldBeNil)
				So(ts.IsZero(), ShouldBeTrue)
			}
		})

		Convey("Garbage is rejected", func() {
			var ts Timestamp
			So(json.Unmarshal([]byte(`"01/02/2021"`), &ts), ShouldNotBeNil)
			So(json.Unmarshal([]byte(`true`), &ts), ShouldNotBeNil)
		})

		Convey("It encodes as RFC 3339", func() {
			b, err := json.Marshal(At(want))
			So(err, ShouldBeNil)
			So(string(b), ShouldEqual, `"2021-02-01T11:39:00Z"`)

			b, err = json.Marshal(Timestamp{})
			So(err, ShouldBeNil)
			So(string(b), ShouldEqual, `null`)
		})
	})
}
