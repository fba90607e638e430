package state

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/samber/mo"
)

// Strategy recognises one historical way of embedding the state in a page.
//
// Object strategies find a JSON object assigned after pattern. Call strategies
// find a function call with a fixed number of quoted arguments and build the
// state from them.
type Strategy struct {
	Name    string
	pattern *regexp.Regexp
	call    *regexp.Regexp
	build   func(args []string) (*VideoState, error)
}

// Match is what a strategy found. Complete is false when the pattern matched
// but no balanced object (or no full argument list) followed it, e.g. on a truncated page.
type Match struct {
	Strategy string
	Raw      string
	Offset   int
	Complete bool
}

var scriptEnd = regexp.MustCompile(`(?i)</script\s*>`)

// NewStrategy compiles pattern, which must match everything up to the opening brace.
func NewStrategy(name, pattern string) Strategy {
	return Strategy{Name: name, pattern: regexp.MustCompile(pattern)}
}

// NewCallStrategy matches fn called with n quoted arguments, in any spacing.
func NewCallStrategy(name, fn string, n int, build func(args []string) (*VideoState, error)) Strategy {
	arg := `[\s,]*"([A-Za-z0-9_\-]*)"`
	return Strategy{
		Name:    name,
		pattern: regexp.MustCompile(regexp.QuoteMeta(fn) + `\s*\(`),
		call:    regexp.MustCompile(`^` + regexp.QuoteMeta(fn) + `\s*\(` + strings.Repeat(arg, n)),
		build:   build,
	}
}

// Strategies in priority order, newest format first.
var Strategies = []Strategy{
	NewStrategy("preloaded-state", `window\.__PRELOADED_STATE__\s*=`),
	NewCallStrategy("vlive-video-init", "vlive.video.init", 7, videoInit),
}

// Locate returns the first complete occurrence. If every occurrence is broken
// the first one is returned with Complete unset.
func (s Strategy) Locate(html string) mo.Option[Match] {
	if s.call != nil {
		return s.locateCall(html)
	}

	var partial mo.Option[Match]

	for _, loc := range s.pattern.FindAllStringIndex(html, -1) {
		rest := html[loc[1]:]
		if end := scriptEnd.FindStringIndex(rest); end != nil {
			rest = rest[:end[0]]
		}

		body := skipSpace(rest)
		offset := loc[1] + len(rest) - len(body)

		if n := objectEnd(body); n > 0 {
			return mo.Some(Match{Strategy: s.Name, Raw: body[:n], Offset: offset, Complete: true})
		}

		if partial.IsAbsent() {
			partial = mo.Some(Match{Strategy: s.Name, Raw: body, Offset: offset})
		}
	}

	return partial
}

func (s Strategy) locateCall(html string) mo.Option[Match] {
	var partial mo.Option[Match]

	for _, loc := range s.pattern.FindAllStringIndex(html, -1) {
		rest := html[loc[0]:]
		if end := scriptEnd.FindStringIndex(rest); end != nil {
			rest = rest[:end[0]]
		}

		if m := s.call.FindString(rest); m != "" {
			return mo.Some(Match{Strategy: s.Name, Raw: m, Offset: loc[0], Complete: true})
		}

		if partial.IsAbsent() {
			partial = mo.Some(Match{Strategy: s.Name, Raw: rest, Offset: loc[0]})
		}
	}

	return partial
}

// Decode turns a complete match into the state.
func (s Strategy) Decode(m Match) (*VideoState, error) {
	if s.call == nil {
		return Decode([]byte(m.Raw))
	}

	args := s.call.FindStringSubmatch(m.Raw)
	if args == nil {
		return nil, errors.New("argument list does not match")
	}
	return s.build(args[1:])
}

// videoInit builds the state of the older page generation, where the player was
// initialised with seven quoted arguments. The fourth is the video type, the
// sixth the vod id and the seventh its access key.
func videoInit(args []string) (*VideoState, error) {
	var (
		kind    = Kind(strings.ToUpper(args[3]))
		vodID   = optional(&args[5])
		pageKey = optional(&args[6])
	)

	switch kind {
	case VOD:
		if vodID.IsAbsent() {
			return nil, errors.New("video init call has no vod id")
		}
	case LIVE:
		// the call never carried a live payload
		vodID, pageKey = mo.None[string](), mo.None[string]()
	default:
		return nil, fmt.Errorf("unknown video type %q", args[3])
	}

	video := OfficialVideo{Type: kind, VodID: vodID, PageKey: pageKey}
	return &VideoState{PostDetail: Plain(PostDetail{OfficialVideo: video})}, nil
}
