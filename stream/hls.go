package stream

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/grafov/m3u8"
	"github.com/vlive-go/vlive/network"
)

// Variants fetches an HLS master playlist and lists its variants, highest first.
// Relative variant URIs are resolved against manifestURL.
func Variants(ctx context.Context, fetcher network.Fetcher, manifestURL string) ([]LiveResolution, error) {
	resp, err := fetcher.Fetch(ctx, network.Get(manifestURL))
	if err != nil {
		return nil, fmt.Errorf("fetch master playlist: %w", err)
	}
	if !resp.OK() {
		return nil, fmt.Errorf("fetch master playlist: HTTP %d", resp.Status)
	}

	return ParseMaster(resp.Body, manifestURL)
}

// ParseMaster decodes a master playlist.
func ParseMaster(body []byte, manifestURL string) ([]LiveResolution, error) {
	p, _, err := m3u8.DecodeFrom(bytes.NewReader(body), true)
	if err != nil {
		return nil, fmt.Errorf("decode master playlist: %w", err)
	}

	master, ok := p.(*m3u8.MasterPlaylist)
	if !ok {
		return nil, errors.New("expected master playlist, got media playlist")
	}

	base, err := url.Parse(manifestURL)
	if err != nil {
		return nil, fmt.Errorf("parse manifest url: %w", err)
	}

	// keep the key of the master on the variants
	query := base.RawQuery

	out := make([]LiveResolution, 0, len(master.Variants))
	for _, v := range master.Variants {
		if v == nil || v.URI == "" {
			continue
		}

		ref, err := url.Parse(v.URI)
		if err != nil {
			continue
		}
		abs := base.ResolveReference(ref)
		if abs.RawQuery == "" {
			abs.RawQuery = query
		}

		height := 0
		if _, h, ok := strings.Cut(v.Resolution, "x"); ok {
			height, _ = strconv.Atoi(h)
		}

		name := v.Name
		if name == "" && height > 0 {
			name = strconv.Itoa(height) + "p"
		}

		out = append(out, LiveResolution{
			Name:      name,
			Height:    height,
			Bandwidth: v.Bandwidth,
			URL:       abs.String(),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Height != out[j].Height {
			return out[i].Height > out[j].Height
		}
		return out[i].Bandwidth > out[j].Bandwidth
	})

	return out, nil
}
