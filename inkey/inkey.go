// Package inkey exchanges a video seq for the short-lived access key the
// streaming metadata service requires.
package inkey

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/vlive-go/vlive/constant"
	"github.com/vlive-go/vlive/endpoint"
	"github.com/vlive-go/vlive/fault"
	"github.com/vlive-go/vlive/log"
	"github.com/vlive-go/vlive/network"
)

const op = "inkey"

// Key is an access key. It is valid for a single resolution and never cached.
type Key struct {
	Value string
}

// String hides the value so a key never ends up in logs.
func (k Key) String() string {
	if k.Value == "" {
		return "inkey()"
	}
	return "inkey([REDACTED])"
}

// Resolver requests access keys.
type Resolver struct {
	fetcher   network.Fetcher
	endpoints endpoint.Set
	userAgent string
}

// NewResolver returns a resolver. A blank userAgent falls back to constant.UserAgent,
// since the endpoint refuses requests without one.
func NewResolver(fetcher network.Fetcher, endpoints endpoint.Set, userAgent string) *Resolver {
	if strings.TrimSpace(userAgent) == "" {
		userAgent = constant.UserAgent
	}

	return &Resolver{
		fetcher:   fetcher,
		endpoints: endpoints,
		userAgent: userAgent,
	}
}

type response struct {
	Inkey string `json:"inkey"`
}

// Resolve fetches the key for seq. The request carries the video page as Referer;
// without it the upstream answers with HTTP 500.
func (r *Resolver) Resolve(ctx context.Context, seq uint64) (Key, error) {
	req := network.Get(r.endpoints.InkeyURL(seq)).
		WithHeader("Referer", r.endpoints.VideoURL(seq)).
		WithHeader("User-Agent", r.userAgent)

	for k, v := range map[string]string{
		"appId":  r.endpoints.AppID,
		"gcc":    r.endpoints.GCC,
		"locale": r.endpoints.Locale,
	} {
		if v != "" {
			req.WithQuery(k, v)
		}
	}

	resp, err := r.fetcher.Fetch(ctx, req)
	if err != nil {
		return Key{}, fault.Transport(fault.StageResolvingKey, op, err)
	}

	if !resp.OK() {
		log.Warnf("inkey for %d rejected with HTTP %d", seq, resp.Status)
		return Key{}, fault.Status(fault.ErrKeyResolution, fault.StageResolvingKey, op, resp.Status, resp.Body)
	}

	var body response
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return Key{}, fault.New(fault.ErrKeyResolution, fault.StageResolvingKey, op, err)
	}

	if body.Inkey == "" {
		return Key{}, fault.New(fault.ErrKeyResolution, fault.StageResolvingKey, op, errors.New("response carries no inkey"))
	}

	return Key{Value: body.Inkey}, nil
}
