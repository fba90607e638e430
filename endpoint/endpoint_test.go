package endpoint

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/vlive-go/vlive/config"
	"github.com/vlive-go/vlive/filesystem"
	"github.com/vlive-go/vlive/key"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSet(t *testing.T) {
	Convey("Endpoint set", t, func() {
		So(config.Setup(), ShouldBeNil)
		s := FromConfig()

		Convey("Defaults point at the live site", func() {
			So(s.VideoURL(232024), ShouldEqual, "https://www.vlive.tv/video/232024")
			So(s.InkeyURL(232024), ShouldEqual, "https://www.vlive.tv/globalv-web/vam-web/video/v1.0/vod/232024/inkey")
			So(s.VodPlayURL("abc123"), ShouldEqual, "https://apis.naver.com/rmcnmv/rmcnmv/vod/play/v2.0/abc123")
			So(s.APIURL("decodeChannelCode"), ShouldEqual, "https://api.vfan.vlive.tv/vproxy/channelplus/decodeChannelCode")
			So(s.ChannelURL("FE619"), ShouldEqual, "https://www.vlive.tv/channel/FE619")
			So(s.GroupedBoardsURL("FE619"), ShouldEqual, "https://www.vlive.tv/globalv-web/vam-web/board/v1.0/channel-FE619/groupedBoards")
			So(s.BoardURL(3469), ShouldEqual, "https://www.vlive.tv/globalv-web/vam-web/board/v1.0/board-3469")
			So(s.BoardPostsURL(3469), ShouldEqual, "https://www.vlive.tv/globalv-web/vam-web/post/v1.0/board-3469/posts")
			So(s.BoardPageURL("FE619", 3469), ShouldEqual, "https://www.vlive.tv/channel/FE619/board/3469")
		})

		Convey("A template without placeholder gets the value appended", func() {
			viper.Set(key.EndpointsVideo, "https://m.vlive.tv/video/")
			So(FromConfig().VideoURL(7), ShouldEqual, "https://m.vlive.tv/video/7")
			viper.Set(key.EndpointsVideo, config.Default[key.EndpointsVideo].Value)
		})

		Convey("Rebase swaps hosts but keeps paths and placeholders", func() {
			r := s.Rebase("http://127.0.0.1:9999")
			So(r.VideoURL(1), ShouldEqual, "http://127.0.0.1:9999/video/1")
			So(r.VodPlayURL("v"), ShouldEqual, "http://127.0.0.1:9999/rmcnmv/rmcnmv/vod/play/v2.0/v")
			So(r.BoardURL(1), ShouldEqual, "http://127.0.0.1:9999/globalv-web/vam-web/board/v1.0/board-1")
			So(r.AppID, ShouldEqual, s.AppID)
		})
	})
}
