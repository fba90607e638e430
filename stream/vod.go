package stream

import (
	"context"
	"encoding/json"

	"github.com/samber/lo"
	"github.com/vlive-go/vlive/endpoint"
	"github.com/vlive-go/vlive/fault"
	"github.com/vlive-go/vlive/inkey"
	"github.com/vlive-go/vlive/network"
)

const opVOD = "vod-play"

// Assembler requests streaming metadata for recorded videos.
type Assembler struct {
	fetcher   network.Fetcher
	endpoints endpoint.Set
}

func NewAssembler(fetcher network.Fetcher, endpoints endpoint.Set) *Assembler {
	return &Assembler{fetcher: fetcher, endpoints: endpoints}
}

type playResponse struct {
	Meta struct {
		MasterVideoID string `json:"masterVideoId"`
		Subject       string `json:"subject"`
		URL           string `json:"url"`
		Cover         struct {
			Source string `json:"source"`
		} `json:"cover"`
	} `json:"meta"`
	Videos struct {
		List []playVideo `json:"list"`
	} `json:"videos"`
	Streams  []playStream `json:"streams"`
	Captions struct {
		List []Caption `json:"list"`
	} `json:"captions"`
	Thumbnails struct {
		List []Thumbnail `json:"list"`
	} `json:"thumbnails"`
}

type playVideo struct {
	ID             string  `json:"id"`
	Duration       float64 `json:"duration"`
	Size           uint64  `json:"size"`
	EncodingOption struct {
		Name   string `json:"name"`
		Width  int    `json:"width"`
		Height int    `json:"height"`
	} `json:"encodingOption"`
	Bitrate struct {
		Video float64 `json:"video"`
		Audio float64 `json:"audio"`
	} `json:"bitrate"`
	Source string `json:"source"`
}

type playStream struct {
	Type string `json:"type"`
	Key  struct {
		Name  string `json:"name"`
		Value string `json:"value"`
	} `json:"key"`
	Source string `json:"source"`
}

// VOD fetches the metadata of vodID with key and builds the descriptor of seq.
func (a *Assembler) VOD(ctx context.Context, seq uint64, vodID string, key inkey.Key) (*Descriptor, error) {
	req := network.Get(a.endpoints.VodPlayURL(vodID)).WithQuery("key", key.Value)

	resp, err := a.fetcher.Fetch(ctx, req)
	if err != nil {
		return nil, fault.Transport(fault.StageAssembling, opVOD, err)
	}

	if !resp.OK() {
		return nil, fault.Status(fault.ErrMetadataMalformed, fault.StageAssembling, opVOD, resp.Status, resp.Body)
	}

	var play playResponse
	if err := json.Unmarshal(resp.Body, &play); err != nil {
		return nil, fault.New(fault.ErrMetadataMalformed, fault.StageAssembling, opVOD, err)
	}

	progressive := lo.FilterMap(play.Videos.List, func(v playVideo, _ int) (Progressive, bool) {
		return Progressive{
			ID:           v.ID,
			Name:         v.EncodingOption.Name,
			Width:        v.EncodingOption.Width,
			Height:       v.EncodingOption.Height,
			VideoBitrate: v.Bitrate.Video,
			AudioBitrate: v.Bitrate.Audio,
			Size:         v.Size,
			Duration:     v.Duration,
			Source:       v.Source,
		}, v.Source != ""
	})

	manifests := lo.FilterMap(play.Streams, func(s playStream, _ int) (Manifest, bool) {
		return Manifest{
			Type:     s.Type,
			Source:   s.Source,
			KeyName:  s.Key.Name,
			KeyValue: s.Key.Value,
		}, s.Source != ""
	})

	thumbnails := lo.Filter(play.Thumbnails.List, func(t Thumbnail, _ int) bool {
		return t.Source != ""
	})

	meta := Meta{
		MasterVideoID: play.Meta.MasterVideoID,
		Subject:       play.Meta.Subject,
		URL:           play.Meta.URL,
		Cover:         play.Meta.Cover.Source,
		Thumbnails:    thumbnails,
	}

	d, err := NewVOD(seq, meta, progressive, manifests, play.Captions.List)
	if err != nil {
		return nil, fault.New(fault.ErrMetadataMalformed, fault.StageAssembling, opVOD, err)
	}

	return d, nil
}
