// Package channel talks to the channel listing endpoints: search, channel code
// decoding, per-channel video lists and boards. Lists are fetched one page at a time.
package channel

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/vlive-go/vlive/endpoint"
	"github.com/vlive-go/vlive/log"
	"github.com/vlive-go/vlive/network"
	"github.com/vlive-go/vlive/util"
)

// ErrNotFound is returned by Find when no channel matches.
var ErrNotFound = errors.New("channel not found")

type Client struct {
	fetcher   network.Fetcher
	endpoints endpoint.Set
}

func NewClient(fetcher network.Fetcher, endpoints endpoint.Set) *Client {
	return &Client{fetcher: fetcher, endpoints: endpoints}
}

func (c *Client) get(ctx context.Context, req *network.Request) ([]byte, error) {
	target, _ := req.Encode()
	log.Info("GET " + target)

	resp, err := c.fetcher.Fetch(ctx, req)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, fmt.Errorf("GET %s: HTTP %d", req.URL, resp.Status)
	}
	return resp.Body, nil
}

func (c *Client) api(method string) *network.Request {
	return network.Get(c.endpoints.APIURL(method)).WithQuery("app_id", c.endpoints.AppID)
}

// Search returns at most maxRows channels matching query.
func (c *Client) Search(ctx context.Context, query string, maxRows int) (List, error) {
	req := network.Get(c.endpoints.ChannelSearch).
		WithQuery("query", query).
		WithQuery("maxNumOfRows", strconv.Itoa(maxRows))

	body, err := c.get(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("search channels: %w", err)
	}

	var list List
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("search channels: %w", err)
	}

	return list, nil
}

// Find searches for name and returns the closest channel. When nothing is found
// the trailing word is dropped and the search retried, up to three times.
func (c *Client) Find(ctx context.Context, name string) (Channel, error) {
	return c.find(ctx, normalizedName(name), 0, 3)
}

func (c *Client) find(ctx context.Context, name string, try, limit int) (Channel, error) {
	if try >= limit || name == "" {
		return Channel{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}

	list, err := c.Search(ctx, name, 10)
	if err != nil {
		return Channel{}, err
	}

	if closest, ok := list.Closest(name).Get(); ok {
		log.Info("Found closest match: " + closest.Name)
		return closest, nil
	}

	words := strings.Fields(name)
	if len(words) <= 1 {
		return Channel{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}

	shorter := strings.Join(words[:util.Max(len(words)-1, 1)], " ")
	log.Infof(`No channel found for "%s", trying "%s"`, name, shorter)
	return c.find(ctx, shorter, try+1, limit)
}

// DecodeCode turns a channel code such as "FE619" into its numeric seq.
func (c *Client) DecodeCode(ctx context.Context, code string) (uint64, error) {
	body, err := c.get(ctx, c.api("decodeChannelCode").WithQuery("channelCode", code))
	if err != nil {
		return 0, fmt.Errorf("decode channel code: %w", err)
	}

	r, err := decodeResult[struct {
		Seq uint64 `json:"channelSeq"`
	}](body)
	if err != nil {
		return 0, fmt.Errorf("decode channel code: %w", err)
	}

	return r.Seq, nil
}

// Videos returns one page of the channel's videos.
func (c *Client) Videos(ctx context.Context, seq uint64, maxRows, page int) (*VideoList, error) {
	body, err := c.get(ctx, c.paged("getChannelVideoList", seq, maxRows, page))
	if err != nil {
		return nil, fmt.Errorf("channel videos: %w", err)
	}

	list, err := decodeResult[VideoList](body)
	if err != nil {
		return nil, fmt.Errorf("channel videos: %w", err)
	}

	return list, nil
}

// Upcoming returns one page of the channel's scheduled videos.
func (c *Client) Upcoming(ctx context.Context, seq uint64, maxRows, page int) (*UpcomingList, error) {
	body, err := c.get(ctx, c.paged("getUpcomingVideoList", seq, maxRows, page))
	if err != nil {
		return nil, fmt.Errorf("upcoming videos: %w", err)
	}

	list, err := decodeResult[UpcomingList](body)
	if err != nil {
		return nil, fmt.Errorf("upcoming videos: %w", err)
	}

	return list, nil
}

func (c *Client) paged(method string, seq uint64, maxRows, page int) *network.Request {
	return c.api(method).
		WithQuery("channelSeq", strconv.FormatUint(seq, 10)).
		WithQuery("maxNumOfRows", strconv.Itoa(util.Max(maxRows, 1))).
		WithQuery("pageNo", strconv.Itoa(util.Max(page, 1)))
}

const (
	boardFields = "boardId,title,boardType,openType,allowedViewers,includedCountries,excludedCountries," +
		"useStarFilter,payRequired,expose,channelCode,lastUpdatedAt"
	postFields = "attachments,author,availableActions,board{boardId,title,boardType,payRequired,includedCountries,excludedCountries}," +
		"channel{channelName,channelCode},commentCount,contentType,createdAt,emotionCount,excludedCountries,includedCountries," +
		"isCommentEnabled,isHiddenFromStar,lastModifierMember,notice,officialVideo,plainBody,postId,postVersion,reservation," +
		"starReactions,targetMember,thumbnail,title,url,viewerEmotionId,writtenIn,sharedPosts,originPost"
)

// board builds a board API request. The upstream checks the Referer against the channel page.
func (c *Client) board(target, referer, fields string) *network.Request {
	return network.Get(target).
		WithHeader("Referer", referer).
		WithQuery("appId", c.endpoints.AppID).
		WithQuery("fields", fields).
		WithQuery("gcc", c.endpoints.GCC).
		WithQuery("locale", c.endpoints.Locale)
}

// GroupedBoards lists the boards of the channel with the given code.
func (c *Client) GroupedBoards(ctx context.Context, code string) (BoardGroups, error) {
	req := c.board(c.endpoints.GroupedBoardsURL(code), c.endpoints.ChannelURL(code), boardFields)

	body, err := c.get(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("channel boards: %w", err)
	}

	var groups BoardGroups
	if err := json.Unmarshal(body, &groups); err != nil {
		return nil, fmt.Errorf("channel boards: %w", err)
	}

	return groups, nil
}

// Board describes one board of the channel.
func (c *Client) Board(ctx context.Context, code string, boardID uint64) (*Board, error) {
	req := c.board(c.endpoints.BoardURL(boardID), c.endpoints.BoardPageURL(code, boardID), boardFields)

	body, err := c.get(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("board %d: %w", boardID, err)
	}

	var b Board
	if err := json.Unmarshal(body, &b); err != nil {
		return nil, fmt.Errorf("board %d: %w", boardID, err)
	}

	return &b, nil
}

// BoardPosts returns one page of a board, newest first. Pass the After cursor of
// the previous page to continue; a zero limit leaves the page size to the upstream.
func (c *Client) BoardPosts(ctx context.Context, code string, boardID uint64, limit int, after string) (*Posts, error) {
	req := c.board(c.endpoints.BoardPostsURL(boardID), c.endpoints.BoardPageURL(code, boardID), postFields).
		WithQuery("sortType", "LATEST")

	if limit > 0 {
		req = req.WithQuery("limit", strconv.Itoa(limit))
	}
	if after != "" {
		req = req.WithQuery("after", after)
	}

	body, err := c.get(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("board %d posts: %w", boardID, err)
	}

	var posts Posts
	if err := json.Unmarshal(body, &posts); err != nil {
		return nil, fmt.Errorf("board %d posts: %w", boardID, err)
	}

	return &posts, nil
}
