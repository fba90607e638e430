package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/samber/mo"
)

// Kind tells a recorded video from a live broadcast.
type Kind string

const (
	VOD  Kind = "VOD"
	LIVE Kind = "LIVE"
)

func (k *Kind) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}

	switch Kind(strings.ToUpper(s)) {
	case VOD:
		*k = VOD
	case LIVE:
		*k = LIVE
	default:
		return fmt.Errorf("unknown video type %q", s)
	}

	return nil
}

// VideoState is the client-side state a video page embeds.
type VideoState struct {
	PostDetail PostDetailVariant `json:"postDetail"`
	Channel    ChannelSection    `json:"channel"`
}

// Video is a shortcut for the official video of the post, whichever variant it came in.
func (v *VideoState) Video() OfficialVideo {
	return v.PostDetail.Detail().OfficialVideo
}

// PostDetailVariant holds either the post itself or an error envelope wrapping it.
// Pages of restricted videos use the latter but still carry the post data.
type PostDetailVariant struct {
	either mo.Either[PostDetail, ErrorDetail]
}

// Plain builds the common variant.
func Plain(p PostDetail) PostDetailVariant {
	return PostDetailVariant{either: mo.Left[PostDetail, ErrorDetail](p)}
}

// Errored builds the error-envelope variant.
func Errored(e ErrorDetail) PostDetailVariant {
	return PostDetailVariant{either: mo.Right[PostDetail, ErrorDetail](e)}
}

// Detail returns the post, looking through the error envelope if there is one.
func (p PostDetailVariant) Detail() PostDetail {
	if d, ok := p.either.Left(); ok {
		return d
	}
	return p.either.MustRight().Data
}

// Error returns the error envelope, if the page carried one.
func (p PostDetailVariant) Error() mo.Option[ErrorDetail] {
	if e, ok := p.either.Right(); ok {
		return mo.Some(e)
	}
	return mo.None[ErrorDetail]()
}

func (p PostDetailVariant) MarshalJSON() ([]byte, error) {
	if e, ok := p.Error().Get(); ok {
		return json.Marshal(struct {
			Error ErrorDetail `json:"error"`
		}{e})
	}
	return json.Marshal(struct {
		Post PostDetail `json:"post"`
	}{p.Detail()})
}

// ErrorDetail is the error envelope. Data carries the post the error refers to.
type ErrorDetail struct {
	Code    string     `json:"errorCode"`
	Message string     `json:"errorMessage"`
	Data    PostDetail `json:"data"`
}

type PostDetail struct {
	PostID        string        `json:"postId"`
	Title         string        `json:"title"`
	URL           string        `json:"url"`
	CreatedAt     Timestamp     `json:"createdAt"`
	Channel       ChannelInfo   `json:"channel"`
	OfficialVideo OfficialVideo `json:"officialVideo"`
}

// OfficialVideo describes the video attached to a post.
//
// VodID is present for recorded videos only and is the sole signal used to
// branch between recorded and live resolution. PageKey is the access key older
// pages carried inline; it is never serialised.
type OfficialVideo struct {
	VideoSeq       uint64            `json:"videoSeq"`
	Type           Kind              `json:"type"`
	Title          string            `json:"title"`
	VodID          mo.Option[string] `json:"vodId"`
	PlayCount      uint64            `json:"playCount"`
	LikeCount      uint64            `json:"likeCount"`
	CommentCount   uint64            `json:"commentCount"`
	Thumb          string            `json:"thumb"`
	PlayTime       uint64            `json:"playTime"`
	CreatedAt      Timestamp         `json:"createdAt"`
	WillStartAt    Timestamp         `json:"willStartAt"`
	WillEndAt      Timestamp         `json:"willEndAt"`
	OnAirStartAt   Timestamp         `json:"onAirStartAt"`
	LiveStreamInfo mo.Option[string] `json:"liveStreamInfo"`
	PageKey        mo.Option[string] `json:"-"`
}

// IsLive reports whether the video resolves through the live branch.
func (o OfficialVideo) IsLive() bool {
	return o.VodID.IsAbsent()
}

type ChannelSection struct {
	Channel ChannelInfo `json:"channel"`
}

type ChannelInfo struct {
	Code           string `json:"channelCode"`
	Name           string `json:"channelName"`
	ProfileImage   string `json:"channelProfileImage,omitempty"`
	Representative string `json:"representativeColor,omitempty"`
	MemberCount    uint64 `json:"memberCount,omitempty"`
}

// wire shapes

type rawState struct {
	PostDetail *rawPostDetail   `json:"postDetail"`
	Channel    *json.RawMessage `json:"channel"`
}

type rawPostDetail struct {
	Post  *rawPost `json:"post"`
	Error *struct {
		Code    string   `json:"errorCode"`
		Message string   `json:"errorMessage"`
		Data    *rawPost `json:"data"`
	} `json:"error"`
}

type rawPost struct {
	PostID        string            `json:"postId"`
	Title         string            `json:"title"`
	URL           string            `json:"url"`
	CreatedAt     Timestamp         `json:"createdAt"`
	Channel       ChannelInfo       `json:"channel"`
	OfficialVideo *rawOfficialVideo `json:"officialVideo"`
}

type rawOfficialVideo struct {
	VideoSeq       uint64    `json:"videoSeq"`
	Type           Kind      `json:"type"`
	Title          string    `json:"title"`
	VodID          *string   `json:"vodId"`
	PlayCount      uint64    `json:"playCount"`
	LikeCount      uint64    `json:"likeCount"`
	CommentCount   uint64    `json:"commentCount"`
	Thumb          string    `json:"thumb"`
	PlayTime       uint64    `json:"playTime"`
	CreatedAt      Timestamp `json:"createdAt"`
	WillStartAt    Timestamp `json:"willStartAt"`
	WillEndAt      Timestamp `json:"willEndAt"`
	OnAirStartAt   Timestamp `json:"onAirStartAt"`
	LiveStreamInfo *string   `json:"liveStreamInfo"`
}

// Decode parses the embedded state object and checks its shape.
func Decode(raw []byte) (*VideoState, error) {
	var r rawState
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, err
	}

	if r.PostDetail == nil {
		return nil, errors.New("post detail section is missing")
	}
	if r.Channel == nil {
		return nil, errors.New("channel section is missing")
	}

	var section ChannelSection
	if err := json.Unmarshal(*r.Channel, &section); err != nil {
		return nil, fmt.Errorf("channel section: %w", err)
	}

	var variant PostDetailVariant
	switch {
	case r.PostDetail.Post != nil:
		post, err := r.PostDetail.Post.build()
		if err != nil {
			return nil, err
		}
		variant = Plain(post)
	case r.PostDetail.Error != nil:
		e := r.PostDetail.Error
		if e.Data == nil {
			return nil, fmt.Errorf("error %q carries no post data", e.Code)
		}
		post, err := e.Data.build()
		if err != nil {
			return nil, err
		}
		variant = Errored(ErrorDetail{Code: e.Code, Message: e.Message, Data: post})
	default:
		return nil, errors.New("post detail holds neither a post nor an error")
	}

	return &VideoState{PostDetail: variant, Channel: section}, nil
}

func (p *rawPost) build() (PostDetail, error) {
	if p.OfficialVideo == nil {
		return PostDetail{}, errors.New("post has no official video")
	}

	video, err := p.OfficialVideo.build()
	if err != nil {
		return PostDetail{}, err
	}

	return PostDetail{
		PostID:        p.PostID,
		Title:         p.Title,
		URL:           p.URL,
		CreatedAt:     p.CreatedAt,
		Channel:       p.Channel,
		OfficialVideo: video,
	}, nil
}

func (o *rawOfficialVideo) build() (OfficialVideo, error) {
	if o.Type == "" {
		return OfficialVideo{}, errors.New("official video has no type")
	}

	vodID := optional(o.VodID)
	switch {
	case o.Type == VOD && vodID.IsAbsent():
		return OfficialVideo{}, fmt.Errorf("VOD %d has no vodId", o.VideoSeq)
	case o.Type == LIVE && vodID.IsPresent():
		return OfficialVideo{}, fmt.Errorf("LIVE %d carries a vodId", o.VideoSeq)
	}

	return OfficialVideo{
		VideoSeq:       o.VideoSeq,
		Type:           o.Type,
		Title:          o.Title,
		VodID:          vodID,
		PlayCount:      o.PlayCount,
		LikeCount:      o.LikeCount,
		CommentCount:   o.CommentCount,
		Thumb:          o.Thumb,
		PlayTime:       o.PlayTime,
		CreatedAt:      o.CreatedAt,
		WillStartAt:    o.WillStartAt,
		WillEndAt:      o.WillEndAt,
		OnAirStartAt:   o.OnAirStartAt,
		LiveStreamInfo: optional(o.LiveStreamInfo),
	}, nil
}

// optional treats null and blank strings alike.
func optional(s *string) mo.Option[string] {
	if s == nil || strings.TrimSpace(*s) == "" {
		return mo.None[string]()
	}
	return mo.Some(*s)
}
