// Package fixture holds canned upstream pages and a fake upstream server for tests.
package fixture

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
)

const (
	VODSeq    uint64 = 232024
	LiveSeq   uint64 = 70738
	LegacySeq uint64 = 57788

	VodID = "abc123"
	Inkey = "xyz"
	AppID = "8c6cc7b45d2568fb668be6e05b6e5a3b"
)

// VODState is the current encoding: epoch millisecond timestamps.
func VODState() string {
	return `{
  "common": {"locale": "en_US", "gcc": "KR"},
  "postDetail": {
    "post": {
      "postId": "1-20783092",
      "title": "[BTS] 2021 Muster Teaser",
      "url": "https://www.vlive.tv/post/1-20783092",
      "createdAt": 1612179540000,
      "channel": {"channelCode": "FE619", "channelName": "BTS"},
      "officialVideo": {
        "videoSeq": 232024,
        "type": "VOD",
        "title": "[BTS] 2021 Muster Teaser",
        "vodId": "abc123",
        "playCount": 1043221,
        "likeCount": 88112233,
        "commentCount": 4021,
        "thumb": "https://phinf.pstatic.net/thumb.jpg",
        "playTime": 620,
        "createdAt": 1612179540000,
        "willStartAt": 1612180800000,
        "willEndAt": 1612184400000,
        "onAirStartAt": "1612180770000"
      }
    }
  },
  "channel": {"channel": {"channelCode": "FE619", "channelName": "BTS", "channelProfileImage": "https://phinf.pstatic.net/bts.png"}}
}`
}

// LegacyVODState carries the same video in the older encoding: KST date strings.
func LegacyVODState() string {
	return `{"postDetail":{"post":{"postId":"1-20783092","title":"[BTS] 2021 Muster Teaser",` +
		`"url":"https://www.vlive.tv/post/1-20783092","createdAt":"2021-02-01 20:39:00",` +
		`"channel":{"channelCode":"FE619","channelName":"BTS"},` +
		`"officialVideo":{"videoSeq":232024,"type":"VOD","title":"[BTS] 2021 Muster Teaser","vodId":"abc123",` +
		`"playCount":1043221,"likeCount":88112233,"commentCount":4021,"thumb":"https://phinf.pstatic.net/thumb.jpg",` +
		`"playTime":620,"createdAt":"2021-02-01 20:39:00","willStartAt":"2021-02-01 21:00:00",` +
		`"willEndAt":"2021-02-01 22:00:00","onAirStartAt":"2021-02-01 20:59:30","liveStreamInfo":null}}},` +
		`"channel":{"channel":{"channelCode":"FE619","channelName":"BTS","channelProfileImage":"https://phinf.pstatic.net/bts.png"}}}`
}

// LiveState is a live video. A nil payload leaves liveStreamInfo out entirely.
func LiveState(seq uint64, payload *string) string {
	info := ""
	if payload != nil {
		encoded, _ := json.Marshal(*payload)
		info = `,"liveStreamInfo":` + string(encoded)
	}

	return fmt.Sprintf(`{"postDetail":{"post":{"postId":"0-1","title":"live",`+
		`"channel":{"channelCode":"F001E5","channelName":"V LIVE"},`+
		`"officialVideo":{"videoSeq":%d,"type":"LIVE","title":"live","playCount":0,`+
		`"onAirStartAt":1612180770000%s}}},`+
		`"channel":{"channel":{"channelCode":"F001E5","channelName":"V LIVE"}}}`, seq, info)
}

// OnAir is a live payload with a single 720p resolution.
func OnAir(base string) string {
	return `{"liveStatus":"ON_AIR","resolutions":[` +
		`{"name":"360p","cdnUrl":"` + base + `/live/360/playlist.m3u8"},` +
		`{"name":"720p","cdnUrl":"` + base + `/live/720/playlist.m3u8"}]}`
}

// Page wraps a state object the way the current site embeds it.
func Page(state string) string {
	return document(`<script>window.__PRELOADED_STATE__=` + state +
		`,function(){var s;(s=document.currentScript||document.scripts[document.scripts.length-1]).parentNode.removeChild(s);}();</script>`)
}

// VideoInitPage is a page of the older generation, which handed the player the
// video type, its vod id and the access key as call arguments.
func VideoInitPage(kind, vodID, key string) string {
	return document("<script type=\"text/javascript\">\n" +
		"\tvlive.video.init(\"20180201\", \"0\",\n\t\t\"N\", \"" + kind + "\", \"ON_AIR\",\n" +
		"\t\t\"" + vodID + "\",\n\t\t\"" + key + "\"\n\t);\n</script>")
}

func document(script string) string {
	return `<!DOCTYPE html><html lang="en"><head><title>V LIVE</title>` +
		`<script>var config = {"a": "{not state}"};</script></head><body><div id="root"></div>` +
		script + `<script src="/static/main.js"></script></body></html>`
}

// VodPlay is the streaming metadata of VodID. Source URLs point at base.
func VodPlay(base string) string {
	return `{
  "meta": {
    "masterVideoId": "0DC15652502D637372BA3E18CECAAE499F65",
    "url": "https://www.vlive.tv/video/232024",
    "subject": "[BTS] 2021 Muster Teaser",
    "cover": {"type": "single", "source": "https://video.phinf.naver.net/cover.jpg"}
  },
  "videos": {
    "type": "video",
    "hasPreview": "false",
    "list": [
      {
        "id": "E49EC1F9611925347CFD30D5494F10929821",
        "useP2P": false,
        "duration": 620.538,
        "size": 92880198,
        "type": "avc1",
        "encodingOption": {"id": "720P_1280_2000_192", "name": "720P", "profile": "HIGH", "width": 1280, "height": 720},
        "bitrate": {"video": 2000.0, "audio": 192.0},
        "source": "` + base + `/global/read/720.mp4?__gda__=1517618848_e4d87e6279f0e75cd59d483e6523a0e9"
      }
    ]
  },
  "streams": [
    {
      "type": "HLS",
      "key": {"type": "param", "name": "__gda__", "value": "1517618848_c6b0e8d115c8e780999621c9b8b0dfe7"},
      "source": "` + base + `/global/read/hls/master.m3u8"
    }
  ],
  "captions": {
    "captionLang": "en_US",
    "list": [
      {"language": "en", "country": "US", "locale": "en_US", "label": "English", "source": "` + base + `/caption/en_US.vtt"}
    ]
  },
  "thumbnails": {"list": [{"time": 0.0, "source": "https://video.phinf.naver.net/t0.jpg"}]}
}`
}

// Master is an HLS master playlist with two variants.
const Master = `#EXTM3U
#EXT-X-VERSION:3
#EXT-X-STREAM-INF:BANDWIDTH=800000,RESOLUTION=640x360,CODECS="avc1.4d401e,mp4a.40.2"
360/index.m3u8
#EXT-X-STREAM-INF:BANDWIDTH=2192000,RESOLUTION=1280x720,CODECS="avc1.64001f,mp4a.40.2"
720/index.m3u8
`

// Upstream imitates the three upstream services on one server.
//
// The inkey endpoint rejects requests lacking the page Referer or a User-Agent
// with HTTP 500, like the real one does.
type Upstream struct {
	*httptest.Server

	Pages map[uint64]string

	InkeyCalls   atomic.Int32
	VodPlayCalls atomic.Int32
}

// NewUpstream starts an upstream serving the VOD and live fixtures.
func NewUpstream() *Upstream {
	u := &Upstream{Pages: make(map[uint64]string)}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /video/{seq}", u.page)
	mux.HandleFunc("GET /globalv-web/vam-web/video/v1.0/vod/{seq}/inkey", u.inkey)
	mux.HandleFunc("GET /rmcnmv/rmcnmv/vod/play/v2.0/{vodId}", u.vodPlay)
	mux.HandleFunc("GET /global/read/hls/master.m3u8", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/vnd.apple.mpegurl")
		_, _ = w.Write([]byte(Master))
	})

	u.Server = httptest.NewServer(mux)

	none := (*string)(nil)
	u.Pages[VODSeq] = Page(VODState())
	u.Pages[LiveSeq] = Page(LiveState(LiveSeq, none))
	u.Pages[LegacySeq] = VideoInitPage("VOD", VodID, Inkey)

	return u
}

func (u *Upstream) page(w http.ResponseWriter, r *http.Request) {
	seq, err := strconv.ParseUint(r.PathValue("seq"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	page, ok := u.Pages[seq]
	if !ok {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(page))
}

func (u *Upstream) inkey(w http.ResponseWriter, r *http.Request) {
	u.InkeyCalls.Add(1)

	seq := r.PathValue("seq")
	referer := r.Header.Get("Referer")
	if !strings.HasSuffix(referer, "/video/"+seq) || r.Header.Get("User-Agent") == "" {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"errorCode":"common_500","message":"Internal Server Error"}`))
		return
	}

	if r.URL.Query().Get("appId") != AppID {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"errorCode":"invalid_app"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"inkey":"` + Inkey + `"}`))
}

func (u *Upstream) vodPlay(w http.ResponseWriter, r *http.Request) {
	u.VodPlayCalls.Add(1)

	if r.URL.Query().Get("key") != Inkey {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"errorCode":"INVALID_KEY"}`))
		return
	}

	if r.PathValue("vodId") != VodID {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(VodPlay(u.URL)))
}
