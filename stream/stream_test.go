package stream

import (
	"context"
	"errors"
	"testing"

	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/vlive-go/vlive/config"
	"github.com/vlive-go/vlive/endpoint"
	"github.com/vlive-go/vlive/fault"
	"github.com/vlive-go/vlive/filesystem"
	"github.com/vlive-go/vlive/inkey"
	"github.com/vlive-go/vlive/internal/fixture"
	"github.com/vlive-go/vlive/network"
	"github.com/vlive-go/vlive/state"
)

func init() {
	filesystem.SetMemMapFs()
}

func respond(status int, body string) network.Fetcher {
	return network.FetcherFunc(func(context.Context, *network.Request) (*network.Response, error) {
		return &network.Response{Status: status, Body: []byte(body)}, nil
	})
}

func TestVOD(t *testing.T) {
	Convey("Given the upstream streaming metadata service", t, func() {
		So(config.Setup(), ShouldBeNil)

		up := fixture.NewUpstream()
		defer up.Close()

		a := NewAssembler(network.NewHTTPFetcher(up.Client()), endpoint.FromConfig().Rebase(up.URL))
		ctx := context.Background()

		Convey("When the metadata is requested with a valid key", func() {
			d, err := a.VOD(ctx, fixture.VODSeq, fixture.VodID, inkey.Key{Value: fixture.Inkey})

			Convey("Then a VOD descriptor with one 720p variant is built", func() {
				So(err, ShouldBeNil)
				So(d.Kind, ShouldEqual, state.VOD)
				So(d.VideoSeq, ShouldEqual, fixture.VODSeq)
				So(d.Progressive, ShouldHaveLength, 1)
				So(d.Progressive[0].Height, ShouldEqual, 720)
				So(d.Progressive[0].Name, ShouldEqual, "720P")
				So(d.Manifests, ShouldHaveLength, 1)
				So(d.Captions, ShouldHaveLength, 1)
				So(d.LiveResolutions, ShouldBeEmpty)
				So(d.Meta.MasterVideoID, ShouldEqual, "0DC15652502D637372BA3E18CECAAE499F65")
				So(d.Meta.Thumbnails, ShouldResemble, []Thumbnail{{Time: 0, Source: "https://video.phinf.naver.net/t0.jpg"}})
			})

			Convey("Then the manifest url carries its key", func() {
				So(d.Manifests[0].URL(), ShouldEqual, up.URL+"/global/read/hls/master.m3u8?__gda__=1517618848_c6b0e8d115c8e780999621c9b8b0dfe7")
			})

			Convey("Then the best rendition is the progressive file", func() {
				So(d.Best().OrEmpty(), ShouldEqual, d.Progressive[0].Source)
			})
		})

		Convey("When the key is wrong", func() {
			_, err := a.VOD(ctx, fixture.VODSeq, fixture.VodID, inkey.Key{Value: "stale"})

			Convey("Then the metadata is malformed and the key is not echoed", func() {
				So(errors.Is(err, fault.ErrMetadataMalformed), ShouldBeTrue)
				So(errors.Is(err, fault.ErrStreamResolution), ShouldBeTrue)
				So(fault.StageOf(err), ShouldEqual, fault.StageAssembling)
			})
		})
	})

	Convey("Given metadata of the wrong shape", t, func() {
		So(config.Setup(), ShouldBeNil)
		endpoints := endpoint.FromConfig()

		for name, f := range map[string]network.Fetcher{
			"html":           respond(200, "<html></html>"),
			"no renditions":  respond(200, `{"meta":{},"videos":{"list":[]},"streams":[]}`),
			"blank sources":  respond(200, `{"videos":{"list":[{"id":"a","source":""}]},"streams":[{"type":"HLS","source":""}]}`),
			"server failure": respond(502, "bad gateway"),
		} {
			Convey("Then "+name+" is malformed metadata", func() {
				_, err := NewAssembler(f, endpoints).VOD(context.Background(), 1, "v", inkey.Key{Value: "k"})
				So(errors.Is(err, fault.ErrMetadataMalformed), ShouldBeTrue)
			})
		}

		Convey("Then a manifest alone is enough", func() {
			f := respond(200, `{"streams":[{"type":"HLS","source":"https://cdn/master.m3u8"}]}`)
			d, err := NewAssembler(f, endpoints).VOD(context.Background(), 1, "v", inkey.Key{Value: "k"})
			So(err, ShouldBeNil)
			So(d.Progressive, ShouldBeEmpty)
			So(d.Best().OrEmpty(), ShouldEqual, "https://cdn/master.m3u8")
		})
	})

	Convey("Given a failing transport", t, func() {
		So(config.Setup(), ShouldBeNil)
		f := network.FetcherFunc(func(context.Context, *network.Request) (*network.Response, error) {
			return nil, context.Canceled
		})

		_, err := NewAssembler(f, endpoint.FromConfig()).VOD(context.Background(), 1, "v", inkey.Key{Value: "k"})
		So(errors.Is(err, fault.ErrTransport), ShouldBeTrue)
	})
}

func TestLive(t *testing.T) {
	Convey("Given a live video", t, func() {
		video := state.OfficialVideo{VideoSeq: fixture.LiveSeq, Type: state.LIVE, Title: "live"}

		Convey("Without a payload it is not currently live", func() {
			for _, info := range []mo.Option[string]{mo.None[string](), mo.Some(""), mo.Some("null"), mo.Some("  ")} {
				video.LiveStreamInfo = info
				_, err := Live(fixture.LiveSeq, video)
				So(errors.Is(err, fault.ErrNotCurrentlyLive), ShouldBeTrue)
				So(errors.Is(err, fault.ErrMalformedState), ShouldBeFalse)
			}
		})

		Convey("A payload that does not decode is malformed metadata", func() {
			video.LiveStreamInfo = mo.Some(`{"liveStatus":`)
			_, err := Live(fixture.LiveSeq, video)
			So(errors.Is(err, fault.ErrMetadataMalformed), ShouldBeTrue)
		})

		Convey("An ended broadcast is not currently live", func() {
			video.LiveStreamInfo = mo.Some(`{"liveStatus":"ENDED","resolutions":[{"name":"720p","cdnUrl":"https://cdn/720.m3u8"}]}`)
			_, err := Live(fixture.LiveSeq, video)
			So(errors.Is(err, fault.ErrNotCurrentlyLive), ShouldBeTrue)
		})

		Convey("A payload without resolutions is not currently live", func() {
			video.LiveStreamInfo = mo.Some(`{"liveStatus":"ON_AIR","resolutions":[]}`)
			_, err := Live(fixture.LiveSeq, video)
			So(errors.Is(err, fault.ErrNotCurrentlyLive), ShouldBeTrue)
		})

		Convey("An on-air payload yields a live descriptor", func() {
			video.LiveStreamInfo = mo.Some(fixture.OnAir("https://cdn"))
			d, err := Live(fixture.LiveSeq, video)
			So(err, ShouldBeNil)
			So(d.Kind, ShouldEqual, state.LIVE)
			So(d.LiveStatus, ShouldEqual, StatusOnAir)
			So(d.LiveResolutions, ShouldHaveLength, 2)
			So(d.Progressive, ShouldBeEmpty)
			So(d.Manifests, ShouldBeEmpty)
			So(d.Best().OrEmpty(), ShouldEqual, "https://cdn/live/720/playlist.m3u8")
		})
	})
}

func TestVariants(t *testing.T) {
	Convey("Given the upstream master playlist", t, func() {
		up := fixture.NewUpstream()
		defer up.Close()

		manifest := up.URL + "/global/read/hls/master.m3u8?__gda__=abc"
		variants, err := Variants(context.Background(), network.NewHTTPFetcher(up.Client()), manifest)

		Convey("Then variants are listed highest first with absolute keyed urls", func() {
			So(err, ShouldBeNil)
			So(variants, ShouldHaveLength, 2)
			So(variants[0].Height, ShouldEqual, 720)
			So(variants[0].Name, ShouldEqual, "720p")
			So(variants[0].Bandwidth, ShouldEqual, 2192000)
			So(variants[0].URL, ShouldEqual, up.URL+"/global/read/hls/720/index.m3u8?__gda__=abc")
			So(variants[1].Height, ShouldEqual, 360)
		})
	})

	Convey("Given a media playlist", t, func() {
		media := "#EXTM3U\n#EXT-X-TARGETDURATION:10\n#EXT-X-MEDIA-SEQUENCE:0\n#EXTINF:10.0,\nseg0.ts\n#EXT-X-ENDLIST\n"
		_, err := ParseMaster([]byte(media), "https://cdn/x.m3u8")
		So(err, ShouldNotBeNil)
	})
}
