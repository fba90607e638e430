package channel

import (
	"github.com/vlive-go/vlive/state"
)

// BoardType tells who may write to a board.
type BoardType string

const (
	NoticeBoard    BoardType = "NOTICE"
	StarBoard      BoardType = "STAR"
	CommonBoard    BoardType = "COMMON"
	VlivePlusBoard BoardType = "VLIVE_PLUS"
)

// Board is a channel board. Listing it does not include its posts, see Client.BoardPosts.
type Board struct {
	ID            uint64          `json:"boardId"`
	Title         string          `json:"title"`
	Type          BoardType       `json:"boardType"`
	OpenType      string          `json:"openType"`
	UseStarFilter Flag            `json:"useStarFilter"`
	PayRequired   Flag            `json:"payRequired"`
	Expose        Flag            `json:"expose"`
	ChannelCode   string          `json:"channelCode"`
	LastUpdatedAt state.Timestamp `json:"lastUpdatedAt"`
}

// BoardGroup is a titled group of boards as the channel page shows them.
type BoardGroup struct {
	Title  string  `json:"groupTitle"`
	Boards []Board `json:"boards"`
}

// BoardGroups is the board listing of a channel.
type BoardGroups []BoardGroup

// Boards flattens the groups.
func (g BoardGroups) Boards() []Board {
	var boards []Board
	for _, group := range g {
		boards = append(boards, group.Boards...)
	}
	return boards
}

// Post is an entry of a board.
type Post struct {
	ID               string          `json:"postId"`
	Title            string          `json:"title"`
	URL              string          `json:"url"`
	PlainBody        string          `json:"plainBody"`
	ContentType      string          `json:"contentType"`
	WrittenIn        string          `json:"writtenIn"`
	Version          string          `json:"postVersion"`
	CreatedAt        state.Timestamp `json:"createdAt"`
	CommentCount     Count           `json:"commentCount"`
	EmotionCount     Count           `json:"emotionCount"`
	CommentEnabled   Flag            `json:"isCommentEnabled"`
	HiddenFromStar   Flag            `json:"isHiddenFromStar"`
	AvailableActions []string        `json:"availableActions"`
	Thumbnail        PostThumbnail   `json:"thumbnail"`
	Attachments      Attachments     `json:"attachments"`
	Author           Author          `json:"author"`
	Channel          PostChannel     `json:"channel"`
	Board            PostBoard       `json:"board"`
	OfficialVideo    *PostVideo      `json:"officialVideo,omitempty"`
}

type PostThumbnail struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

type Attachments struct {
	VideoCount Count            `json:"videoCount"`
	PhotoCount Count            `json:"photoCount"`
	Photos     map[string]Photo `json:"photo"`
}

type Photo struct {
	ID        string          `json:"photoId"`
	URL       string          `json:"url"`
	Width     uint64          `json:"width"`
	Height    uint64          `json:"height"`
	CreatedAt state.Timestamp `json:"createdAt"`
}

type Author struct {
	MemberID            string `json:"memberId"`
	ChannelCode         string `json:"channelCode"`
	Joined              Flag   `json:"joined"`
	Nickname            string `json:"nickname"`
	ProfileImageURL     string `json:"profileImageUrl"`
	OfficialProfileType string `json:"officialProfileType"`
}

type PostChannel struct {
	Code string `json:"channelCode"`
	Name string `json:"channelName"`
}

type PostBoard struct {
	ID          uint64    `json:"boardId"`
	Title       string    `json:"title"`
	Type        BoardType `json:"boardType"`
	PayRequired Flag      `json:"payRequired"`
}

// PostVideo is the video attached to a video post.
type PostVideo struct {
	VideoSeq uint64     `json:"videoSeq"`
	Type     state.Kind `json:"type"`
	Title    string     `json:"title"`
}

// Posts is one page of a board. Next holds the cursor of the following page.
type Posts struct {
	Paging Paging `json:"paging"`
	Posts  []Post `json:"data"`
}

type Paging struct {
	Next NextParams `json:"nextParams"`
}

// NextParams is empty on the last page.
type NextParams struct {
	Limit string `json:"limit"`
	After string `json:"after"`
}

// HasNext reports whether another page follows.
func (p *Posts) HasNext() bool {
	return p.Paging.Next.After != ""
}
