package channel

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/vlive-go/vlive/config"
	"github.com/vlive-go/vlive/endpoint"
	"github.com/vlive-go/vlive/filesystem"
	"github.com/vlive-go/vlive/network"
	"github.com/vlive-go/vlive/state"
)

func init() {
	filesystem.SetMemMapFs()
}

const searchBody = `[
  {"name": "BTS", "icon": "https://v.phinf.naver.net/bts.png", "type": "BASIC", "code": "FE619"},
  {"name": "BTS+", "icon": "https://v.phinf.naver.net/btsplus.png", "type": "PREMIUM", "code": "F0C3A"},
  {"name": "BTOB", "icon": "https://v.phinf.naver.net/btob.png", "type": "BASIC", "code": "EDDB5"}
]`

const videosBody = `{"result": {
  "channelInfo": {"channelSeq": 13, "basicChannelSeq": 13, "channelCode": "FE619", "channelPlusType": "BASIC",
    "channelName": "BTS", "fanCount": "17,240,118", "bannerShowYn": "N", "upcomingShowYn": "Y"},
  "totalVideoCount": 724,
  "videoList": [
    {"videoSeq": 57788, "videoType": "VOD", "title": "Run BTS", "playCount": 46169, "likeCount": "1,387,373",
     "commentCount": 6179, "willStartAt": "2018-02-01 20:39:00", "willEndAt": "2099-12-31 23:59:59",
     "createdAt": null, "upcomingYn": "N", "specialLiveYn": "N", "liveThumbYn": "Y", "channelPlusPublicYn": "N",
     "productType": "NONE", "playTime": 199, "exposeStatus": "EXPOSED", "onAirStartAt": "2018-02-01 20:44:00"}
  ]
}}`

const groupedBoardsBody = `[
  {"groupTitle": "", "boards": [
    {"boardId": 3469, "title": "Notice", "boardType": "NOTICE", "useStarFilter": false, "payRequired": false,
     "expose": true, "openType": "PUBLIC", "lastUpdatedAt": 1612179540000, "channelCode": "FE619"}
  ]},
  {"groupTitle": "ARTIST", "boards": [
    {"boardId": 3468, "title": "BTS", "boardType": "STAR", "useStarFilter": true, "payRequired": false,
     "expose": true, "openType": "PUBLIC", "lastUpdatedAt": 1612179540000, "channelCode": "FE619"}
  ]}
]`

const postsBody = `{
  "paging": {"nextParams": {"limit": "20", "after": "1-20783092"}},
  "data": [
    {"postId": "1-20783092", "title": "2021 Muster Teaser", "url": "https://www.vlive.tv/post/1-20783092",
     "createdAt": 1612179540000, "availableActions": ["SHARE"], "commentCount": 4021, "writtenIn": "en",
     "emotionCount": 88112233, "isCommentEnabled": true, "isHiddenFromStar": false, "postVersion": "v2",
     "thumbnail": {"type": "VIDEO", "url": "https://phinf.pstatic.net/thumb.jpg"},
     "plainBody": "", "contentType": "VIDEO", "sharedPosts": [],
     "attachments": {"videoCount": 1, "photoCount": 1, "photo": {"p1": {"photoId": "p1",
       "url": "https://phinf.pstatic.net/p1.jpg", "width": 1280, "height": 720, "createdAt": 1612179540000}}},
     "author": {"memberId": "m1", "channelCode": "FE619", "joined": true, "nickname": "BTS",
       "profileImageUrl": "https://phinf.pstatic.net/bts.png", "officialProfileType": "OFFICIAL"},
     "channel": {"channelCode": "FE619", "channelName": "BTS"},
     "board": {"boardId": 3469, "title": "Notice", "boardType": "NOTICE", "payRequired": false},
     "officialVideo": {"videoSeq": 232024, "type": "VOD", "title": "2021 Muster Teaser"}}
  ]
}`

func boardHandler(body string, refererSuffix func(*http.Request) string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("appId") == "" || q.Get("fields") == "" || q.Get("gcc") == "" || q.Get("locale") == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if !strings.HasSuffix(r.Header.Get("Referer"), refererSuffix(r)) {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		_, _ = w.Write([]byte(body))
	}
}

func upstream() *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /search/auto/channels", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("query") == "" || r.URL.Query().Get("maxNumOfRows") == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if r.URL.Query().Get("query") == "bts" {
			_, _ = w.Write([]byte(searchBody))
			return
		}
		_, _ = w.Write([]byte(`[]`))
	})
	mux.HandleFunc("GET /vproxy/channelplus/decodeChannelCode", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("channelCode") != "FE619" {
			_, _ = w.Write([]byte(`{"result": null}`))
			return
		}
		_, _ = w.Write([]byte(`{"result": {"channelSeq": 13}}`))
	})
	mux.HandleFunc("GET /vproxy/channelplus/getChannelVideoList", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("app_id") == "" || r.URL.Query().Get("pageNo") != "1" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(videosBody))
	})
	mux.HandleFunc("GET /globalv-web/vam-web/board/v1.0/{channel}/groupedBoards",
		boardHandler(groupedBoardsBody, func(*http.Request) string { return "/channel/FE619" }))
	mux.HandleFunc("GET /globalv-web/vam-web/board/v1.0/{board}",
		boardHandler(`{"boardId": 3469, "title": "Notice", "boardType": "NOTICE", "payRequired": "N", "expose": "Y"}`,
			func(*http.Request) string { return "/channel/FE619/board/3469" }))
	mux.HandleFunc("GET /globalv-web/vam-web/post/v1.0/{board}/posts", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("sortType") != "LATEST" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if r.URL.Query().Get("after") != "" {
			_, _ = w.Write([]byte(`{"paging": {"nextParams": {}}, "data": []}`))
			return
		}
		boardHandler(postsBody, func(*http.Request) string { return "/channel/FE619/board/3469" })(w, r)
	})
	mux.HandleFunc("GET /vproxy/channelplus/getUpcomingVideoList", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"result": {"totalVideoCount": 0, "videoList": []}}`))
	})
	return httptest.NewServer(mux)
}

func TestClient(t *testing.T) {
	Convey("Given the channel endpoints", t, func() {
		So(config.Setup(), ShouldBeNil)

		srv := upstream()
		defer srv.Close()

		c := NewClient(network.NewHTTPFetcher(srv.Client()), endpoint.FromConfig().Rebase(srv.URL))
		ctx := context.Background()

		Convey("Search lists channels", func() {
			list, err := c.Search(ctx, "bts", 10)
			So(err, ShouldBeNil)
			So(list, ShouldHaveLength, 3)
			So(list[1].Type, ShouldEqual, Premium)
			So(list.Codes(), ShouldResemble, []string{"FE619", "F0C3A", "EDDB5"})
		})

		Convey("Find returns the closest name", func() {
			ch, err := c.Find(ctx, "  BTS ")
			So(err, ShouldBeNil)
			So(ch.Code, ShouldEqual, "FE619")
		})

		Convey("Find drops trailing words until something matches", func() {
			ch, err := c.Find(ctx, "bts official channel")
			So(err, ShouldBeNil)
			So(ch.Code, ShouldEqual, "FE619")
		})

		Convey("Find reports a miss", func() {
			_, err := c.Find(ctx, "nobody")
			So(errors.Is(err, ErrNotFound), ShouldBeTrue)
		})

		Convey("DecodeCode returns the seq", func() {
			seq, err := c.DecodeCode(ctx, "FE619")
			So(err, ShouldBeNil)
			So(seq, ShouldEqual, 13)

			_, err = c.DecodeCode(ctx, "ZZZZ")
			So(err, ShouldNotBeNil)
		})

		Convey("Videos decodes flags, counters and timestamps", func() {
			list, err := c.Videos(ctx, 13, 24, 0)
			So(err, ShouldBeNil)
			So(list.Total, ShouldEqual, 724)
			So(list.Channel.FanCount, ShouldEqual, 17240118)
			So(bool(list.Channel.UpcomingShown), ShouldBeTrue)
			So(list.Videos, ShouldHaveLength, 1)

			v := list.Videos[0]
			So(v.Type, ShouldEqual, state.VOD)
			So(v.LikeCount, ShouldEqual, 1387373)
			So(bool(v.LiveThumb), ShouldBeTrue)
			So(bool(v.Upcoming), ShouldBeFalse)
			So(v.CreatedAt.IsZero(), ShouldBeTrue)
			So(v.WillStartAt.Format("2006-01-02 15:04"), ShouldEqual, "2018-02-01 11:39")
		})

		Convey("Upcoming may be empty", func() {
			list, err := c.Upcoming(ctx, 13, 24, 1)
			So(err, ShouldBeNil)
			So(list.Videos, ShouldBeEmpty)
		})

		Convey("GroupedBoards lists every group", func() {
			groups, err := c.GroupedBoards(ctx, "FE619")
			So(err, ShouldBeNil)
			So(groups, ShouldHaveLength, 2)
			So(groups[1].Title, ShouldEqual, "ARTIST")

			boards := groups.Boards()
			So(boards, ShouldHaveLength, 2)
			So(boards[0].ID, ShouldEqual, 3469)
			So(boards[0].Type, ShouldEqual, NoticeBoard)
			So(bool(boards[1].UseStarFilter), ShouldBeTrue)
			So(boards[0].LastUpdatedAt.Format("2006-01-02 15:04"), ShouldEqual, "2021-02-01 11:39")
		})

		Convey("GroupedBoards sends the channel page as Referer", func() {
			_, err := c.GroupedBoards(ctx, "EDDB5")
			So(err, ShouldNotBeNil)
		})

		Convey("Board describes a single board", func() {
			b, err := c.Board(ctx, "FE619", 3469)
			So(err, ShouldBeNil)
			So(b.Title, ShouldEqual, "Notice")
			So(bool(b.Expose), ShouldBeTrue)
			So(bool(b.PayRequired), ShouldBeFalse)

			_, err = c.Board(ctx, "FE619", 1)
			So(err, ShouldNotBeNil)
		})

		Convey("BoardPosts decodes a page and its cursor", func() {
			posts, err := c.BoardPosts(ctx, "FE619", 3469, 20, "")
			So(err, ShouldBeNil)
			So(posts.HasNext(), ShouldBeTrue)
			So(posts.Paging.Next.After, ShouldEqual, "1-20783092")
			So(posts.Posts, ShouldHaveLength, 1)

			p := posts.Posts[0]
			So(p.Channel.Code, ShouldEqual, "FE619")
			So(p.Board.Type, ShouldEqual, NoticeBoard)
			So(p.EmotionCount, ShouldEqual, 88112233)
			So(p.Attachments.Photos["p1"].Width, ShouldEqual, 1280)
			So(bool(p.Author.Joined), ShouldBeTrue)
			So(p.OfficialVideo, ShouldNotBeNil)
			So(p.OfficialVideo.VideoSeq, ShouldEqual, 232024)

			next, err := c.BoardPosts(ctx, "FE619", 3469, 20, posts.Paging.Next.After)
			So(err, ShouldBeNil)
			So(next.Posts, ShouldBeEmpty)
			So(next.HasNext(), ShouldBeFalse)
		})
	})
}

func TestList(t *testing.T) {
	Convey("List", t, func() {
		list := List{
			{Name: "TWICE", Code: "EDBF"},
			{Name: "BTS", Code: "FE619"},
			{Name: "BTOB", Code: "EDDB5"},
		}

		Convey("Closest picks the smallest edit distance", func() {
			So(list.Closest("btob ").MustGet().Code, ShouldEqual, "EDDB5")
			So(List{}.Closest("x").IsAbsent(), ShouldBeTrue)
		})

		Convey("Filter keeps fuzzy matches", func() {
			So(list.Filter("bt").Codes(), ShouldResemble, []string{"FE619", "EDDB5"})
			So(list.Filter("zz"), ShouldBeEmpty)
		})
	})
}
