package channel

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/vlive-go/vlive/state"
)

// Type is the channel tier.
type Type string

const (
	Basic   Type = "BASIC"
	Premium Type = "PREMIUM"
)

// Flag decodes the "Y"/"N" booleans the listing API uses. Plain JSON booleans are accepted too.
type Flag bool

func (f *Flag) UnmarshalJSON(b []byte) error {
	switch strings.Trim(string(bytes.TrimSpace(b)), `"`) {
	case "Y", "y", "true":
		*f = true
	case "N", "n", "false", "", "null":
		*f = false
	default:
		return fmt.Errorf("invalid flag %s", b)
	}
	return nil
}

// Count decodes counters that may arrive as numbers or as "1,234" strings.
type Count uint64

func (c *Count) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(b)), `"`)
	if s == "" || s == "null" {
		*c = 0
		return nil
	}

	n, err := ParseCount(s)
	if err != nil {
		return err
	}
	*c = Count(n)
	return nil
}

// ParseCount parses a counter with optional thousands separators.
func ParseCount(s string) (uint64, error) {
	n, err := strconv.ParseUint(strings.ReplaceAll(strings.TrimSpace(s), ",", ""), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid count %q", s)
	}
	return n, nil
}

// Channel is a search result.
type Channel struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
	Type Type   `json:"type"`
	Code string `json:"code"`
}

// Info describes a channel in video listings.
type Info struct {
	Seq                 uint64 `json:"channelSeq"`
	BasicSeq            uint64 `json:"basicChannelSeq"`
	Code                string `json:"channelCode"`
	PlusType            Type   `json:"channelPlusType"`
	Name                string `json:"channelName"`
	RepresentativeColor string `json:"representativeColor"`
	ProfileImage        string `json:"channelProfileImage"`
	BackgroundColor     string `json:"backgroundColor"`
	CoverImage          string `json:"channelCoverImage"`
	FanCount            Count  `json:"fanCount"`
	Comment             string `json:"comment"`
	BannerShown         Flag   `json:"bannerShowYn"`
	UpcomingShown       Flag   `json:"upcomingShowYn"`
}

// Video is an entry of a channel video listing.
type Video struct {
	Seq               uint64          `json:"videoSeq"`
	Type              state.Kind      `json:"videoType"`
	Title             string          `json:"title"`
	PlayCount         Count           `json:"playCount"`
	LikeCount         Count           `json:"likeCount"`
	CommentCount      Count           `json:"commentCount"`
	Thumbnail         string          `json:"thumbnail"`
	ScreenOrientation string          `json:"screenOrientation"`
	WillStartAt       state.Timestamp `json:"willStartAt"`
	WillEndAt         state.Timestamp `json:"willEndAt"`
	CreatedAt         state.Timestamp `json:"createdAt"`
	OnAirStartAt      state.Timestamp `json:"onAirStartAt"`
	Upcoming          Flag            `json:"upcomingYn"`
	SpecialLive       Flag            `json:"specialLiveYn"`
	LiveThumb         Flag            `json:"liveThumbYn"`
	ChannelPlusPublic Flag            `json:"channelPlusPublicYn"`
	ProductType       string          `json:"productType"`
	PlayTime          uint64          `json:"playTime"`
	ExposeStatus      string          `json:"exposeStatus"`
}

// VideoList is one page of a channel's videos.
type VideoList struct {
	Channel Info    `json:"channelInfo"`
	Total   uint64  `json:"totalVideoCount"`
	Videos  []Video `json:"videoList"`
}

// UpcomingList is one page of a channel's scheduled videos.
type UpcomingList struct {
	Total  uint64  `json:"totalVideoCount"`
	Videos []Video `json:"videoList"`
}

// result is the envelope of every channel+ API response.
type result[T any] struct {
	Result *T `json:"result"`
}

func decodeResult[T any](body []byte) (*T, error) {
	var r result[T]
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, err
	}
	if r.Result == nil {
		return nil, fmt.Errorf("response has no result")
	}
	return r.Result, nil
}
