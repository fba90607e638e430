package stream

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/samber/lo"
	"github.com/vlive-go/vlive/fault"
	"github.com/vlive-go/vlive/state"
)

const opLive = "live"

// StatusOnAir is the only live status that yields a descriptor.
const StatusOnAir = "ON_AIR"

type livePayload struct {
	Status      string `json:"liveStatus"`
	Resolutions []struct {
		Name string `json:"name"`
		URL  string `json:"cdnUrl"`
	} `json:"resolutions"`
}

// Live builds the descriptor of a live video from the payload embedded in its
// state. No request is made.
//
// A missing payload means the broadcast is not on air and yields
// fault.ErrNotCurrentlyLive; a payload that cannot be decoded is
// fault.ErrMetadataMalformed.
func Live(seq uint64, video state.OfficialVideo) (*Descriptor, error) {
	raw, ok := video.LiveStreamInfo.Get()
	if !ok || strings.TrimSpace(raw) == "" || strings.TrimSpace(raw) == "null" {
		return nil, fault.New(fault.ErrNotCurrentlyLive, fault.StageAssembling, opLive, nil)
	}

	var payload livePayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fault.New(fault.ErrMetadataMalformed, fault.StageAssembling, opLive, err)
	}

	if payload.Status != "" && payload.Status != StatusOnAir {
		return nil, fault.New(fault.ErrNotCurrentlyLive, fault.StageAssembling, opLive, errors.New("status "+payload.Status))
	}

	resolutions := make([]LiveResolution, 0, len(payload.Resolutions))
	for _, r := range payload.Resolutions {
		if r.URL == "" {
			continue
		}
		resolutions = append(resolutions, LiveResolution{
			Name:   r.Name,
			Height: heightOf(r.Name),
			URL:    r.URL,
		})
	}

	d, err := NewLive(seq, lo.Ternary(payload.Status == "", StatusOnAir, payload.Status), Meta{Subject: video.Title}, resolutions)
	if err != nil {
		return nil, fault.New(fault.ErrNotCurrentlyLive, fault.StageAssembling, opLive, err)
	}

	return d, nil
}
