// Package recent scrapes the list of recently published videos from the home page.
package recent

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/samber/mo"
	"github.com/vlive-go/vlive/channel"
	"github.com/vlive-go/vlive/endpoint"
	"github.com/vlive-go/vlive/log"
	"github.com/vlive-go/vlive/network"
	"github.com/vlive-go/vlive/state"
)

const liveThumbnail = "https://vlive-thumb.pstatic.net/live/%d/thumb?type=f1280_720"

// Video is one entry of the listing. Optional fields are missing for live videos
// and for some uploads.
type Video struct {
	Seq         uint64       `json:"videoSeq"`
	Title       string       `json:"title"`
	Type        state.Kind   `json:"type"`
	ChannelName string       `json:"channelName"`
	ChannelSeq  uint64       `json:"channelSeq"`
	ChannelCode string       `json:"channelCode"`
	ChannelType channel.Type `json:"channelType"`
	PostedAge   string       `json:"postedAge,omitempty"`

	Thumbnail mo.Option[string]        `json:"thumbnail"`
	Duration  mo.Option[time.Duration] `json:"duration"`
	Plays     mo.Option[uint64]        `json:"plays"`
	Likes     mo.Option[uint64]        `json:"likes"`
}

// ThumbnailURL returns the static thumbnail, or the live one if there is none.
func (v Video) ThumbnailURL() string {
	return v.Thumbnail.OrElse(v.LiveThumbnailURL())
}

// LiveThumbnailURL is a continuously updated frame of the video. For recorded
// videos it shows a frame near the end.
func (v Video) LiveThumbnailURL() string {
	return fmt.Sprintf(liveThumbnail, v.Seq)
}

type Client struct {
	fetcher   network.Fetcher
	endpoints endpoint.Set
}

func NewClient(fetcher network.Fetcher, endpoints endpoint.Set) *Client {
	return &Client{fetcher: fetcher, endpoints: endpoints}
}

// Fetch returns page pageNo of the listing.
func (c *Client) Fetch(ctx context.Context, pageSize, pageNo int) ([]Video, error) {
	req := network.Get(c.endpoints.Recent).
		WithQuery("pageNo", strconv.Itoa(pageNo)).
		WithQuery("pageSize", strconv.Itoa(pageSize))

	log.Infof("fetching recent videos, page %d", pageNo)
	resp, err := c.fetcher.Fetch(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("recent videos: %w", err)
	}
	if !resp.OK() {
		return nil, fmt.Errorf("recent videos: HTTP %d", resp.Status)
	}

	return Parse(resp.Body)
}

// Parse reads the listing fragment.
func Parse(html []byte) ([]Video, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("goquery parse: %w", err)
	}

	var (
		videos   []Video
		parseErr error
	)

	doc.Find("li").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		v, ok, err := parseItem(s)
		if err != nil {
			parseErr = err
			return false
		}
		if ok {
			videos = append(videos, v)
		}
		return true
	})

	if parseErr != nil {
		return nil, parseErr
	}

	return videos, nil
}

func parseItem(s *goquery.Selection) (Video, bool, error) {
	thumb := s.Find("a.thumb_area").First()
	rawSeq, ok := thumb.Attr("data-seq")
	if !ok {
		return Video{}, false, nil
	}

	seq, err := strconv.ParseUint(strings.TrimSpace(rawSeq), 10, 64)
	if err != nil {
		return Video{}, false, fmt.Errorf("video seq %q: %w", rawSeq, err)
	}

	v := Video{
		Seq:         seq,
		Title:       thumb.AttrOr("data-ga-name", ""),
		Type:        state.Kind(strings.ToUpper(thumb.AttrOr("data-ga-type", string(state.VOD)))),
		ChannelName: thumb.AttrOr("data-ga-cname", ""),
		ChannelType: channel.Type(thumb.AttrOr("data-ga-ctype", string(channel.Basic))),
		PostedAge:   strings.TrimSpace(s.Find("div.video_date > span.date").First().Text()),
	}

	if cseq, ok := thumb.Attr("data-ga-cseq"); ok {
		v.ChannelSeq, err = strconv.ParseUint(strings.TrimSpace(cseq), 10, 64)
		if err != nil {
			return Video{}, false, fmt.Errorf("channel seq %q: %w", cseq, err)
		}
	}

	if href, ok := s.Find("div.video_date > a.name").First().Attr("href"); ok {
		v.ChannelCode = strings.TrimPrefix(href, "/channel/")
	}

	if src, ok := s.Find("img").First().Attr("src"); ok && src != "" {
		v.Thumbnail = mo.Some(strings.TrimSuffix(src, "?type=f228_128_wp"))
	}

	if text := strings.TrimSpace(s.Find("span.time").First().Text()); text != "" {
		d, err := ParseDuration(text)
		if err != nil {
			return Video{}, false, err
		}
		v.Duration = mo.Some(d)
	}

	v.Plays = count(s.Find("div.video_info > span.play > span").First().Text())
	v.Likes = count(s.Find("div.video_info > span.like > span").First().Text())

	return v, true, nil
}

func count(text string) mo.Option[uint64] {
	n, err := channel.ParseCount(text)
	if err != nil {
		return mo.None[uint64]()
	}
	return mo.Some(n)
}

// ParseDuration reads "ss", "mm:ss", "h:mm:ss" and "d:hh:mm:ss".
func ParseDuration(s string) (time.Duration, error) {
	units := []time.Duration{time.Second, time.Minute, time.Hour, 24 * time.Hour}

	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) > len(units) {
		return 0, fmt.Errorf("invalid duration %q", s)
	}

	var total time.Duration
	for i := range parts {
		n, err := strconv.ParseUint(parts[len(parts)-1-i], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q", s)
		}
		total += time.Duration(n) * units[i]
	}

	return total, nil
}
