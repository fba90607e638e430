package version

import (
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/vlive-go/vlive/filesystem"
	"github.com/vlive-go/vlive/network"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestCompare(t *testing.T) {
	Convey("Compare", t, func() {
		for _, c := range []struct {
			a, b string
			want int
		}{
			{"1.0.0", "1.0.0", 0},
			{"v1.2.0", "1.1.9", 1},
			{"0.3.0", "0.10.0", -1},
			{"2.0.0", "v1.99.99", 1},
		} {
			got, err := Compare(c.a, c.b)
			So(err, ShouldBeNil)
			So(got, ShouldEqual, c.want)
		}

		_, err := Compare("latest", "1.0.0")
		So(err, ShouldNotBeNil)
	})
}

func TestLatest(t *testing.T) {
	Convey("Latest", t, func() {
		calls := 0
		f := network.FetcherFunc(func(_ context.Context, req *network.Request) (*network.Response, error) {
			calls++
			So(req.URL, ShouldEqual, ReleasesURL)
			return &network.Response{Status: 200, Body: []byte(`{"tag_name":"v0.4.1"}`)}, nil
		})

		v, err := Latest(context.Background(), f)
		So(err, ShouldBeNil)
		So(v, ShouldEqual, "0.4.1")

		Convey("The tag is served from the cache afterwards", func() {
			v, err := Latest(context.Background(), f)
			So(err, ShouldBeNil)
			So(v, ShouldEqual, "0.4.1")
			So(calls, ShouldEqual, 1)
		})
	})
}
