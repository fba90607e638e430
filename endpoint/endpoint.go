// Package endpoint builds upstream URLs from configuration.
package endpoint

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"github.com/vlive-go/vlive/key"
)

// Set is a snapshot of every configured endpoint. Taking a snapshot keeps one
// resolution consistent even if configuration changes while it runs.
type Set struct {
	Video         string
	Inkey         string
	VodPlay       string
	API           string
	ChannelSearch string
	Recent        string
	Boards        string
	AppID         string
	GCC           string
	Locale        string
}

// FromConfig reads the current configuration.
func FromConfig() Set {
	return Set{
		Video:         viper.GetString(key.EndpointsVideo),
		Inkey:         viper.GetString(key.EndpointsInkey),
		VodPlay:       viper.GetString(key.EndpointsVodPlay),
		API:           viper.GetString(key.EndpointsAPI),
		ChannelSearch: viper.GetString(key.EndpointsChannelSearch),
		Recent:        viper.GetString(key.EndpointsRecent),
		Boards:        viper.GetString(key.EndpointsBoards),
		AppID:         viper.GetString(key.EndpointsAppID),
		GCC:           viper.GetString(key.EndpointsGCC),
		Locale:        viper.GetString(key.EndpointsLocale),
	}
}

// Rebase returns a copy of s with every host replaced by base. Used against fixture servers.
func (s Set) Rebase(base string) Set {
	swap := func(raw string) string {
		u, err := url.Parse(raw)
		if err != nil {
			return raw
		}
		b, err := url.Parse(base)
		if err != nil {
			return raw
		}
		u.Scheme, u.Host = b.Scheme, b.Host
		// {placeholders} are escaped by url.URL.String
		out, _ := url.PathUnescape(u.String())
		return out
	}

	s.Video = swap(s.Video)
	s.Inkey = swap(s.Inkey)
	s.VodPlay = swap(s.VodPlay)
	s.API = swap(s.API)
	s.ChannelSearch = swap(s.ChannelSearch)
	s.Recent = swap(s.Recent)
	s.Boards = swap(s.Boards)
	return s
}

// VideoURL is the canonical page URL of a video. It doubles as the Referer of the inkey request.
func (s Set) VideoURL(seq uint64) string {
	return expand(s.Video, "{seq}", strconv.FormatUint(seq, 10))
}

// InkeyURL is the access key endpoint for a video, without query parameters.
func (s Set) InkeyURL(seq uint64) string {
	return expand(s.Inkey, "{seq}", strconv.FormatUint(seq, 10))
}

// VodPlayURL is the streaming metadata endpoint for an internal video id.
func (s Set) VodPlayURL(vodID string) string {
	return expand(s.VodPlay, "{vodId}", url.PathEscape(vodID))
}

// APIURL joins a channel+ API method name onto the API base.
func (s Set) APIURL(method string) string {
	return strings.TrimRight(s.API, "/") + "/" + method
}

// ChannelURL is the page URL of a channel.
func (s Set) ChannelURL(code string) string {
	u, err := url.Parse(s.VideoURL(0))
	if err != nil {
		return "https://www.vlive.tv/channel/" + code
	}
	return u.Scheme + "://" + u.Host + "/channel/" + code
}

// GroupedBoardsURL lists the board groups of a channel.
func (s Set) GroupedBoardsURL(code string) string {
	return s.boards("board/v1.0/channel-" + url.PathEscape(code) + "/groupedBoards")
}

// BoardURL describes a single board.
func (s Set) BoardURL(boardID uint64) string {
	return s.boards("board/v1.0/board-" + strconv.FormatUint(boardID, 10))
}

// BoardPostsURL lists the posts of a board.
func (s Set) BoardPostsURL(boardID uint64) string {
	return s.boards("post/v1.0/board-" + strconv.FormatUint(boardID, 10) + "/posts")
}

// BoardPageURL is the page URL of a channel board. Board requests send it as Referer.
func (s Set) BoardPageURL(code string, boardID uint64) string {
	return s.ChannelURL(code) + "/board/" + strconv.FormatUint(boardID, 10)
}

func (s Set) boards(path string) string {
	return strings.TrimRight(s.Boards, "/") + "/" + path
}

func expand(template, placeholder, value string) string {
	if strings.Contains(template, placeholder) {
		return strings.ReplaceAll(template, placeholder, value)
	}
	return strings.TrimRight(template, "/") + "/" + value
}
