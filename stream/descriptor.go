// Package stream turns streaming metadata into a playable stream descriptor.
package stream

import (
	"errors"
	"net/url"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/vlive-go/vlive/state"
)

// Descriptor is the result of a resolution. The VOD fields and the live fields
// are never both populated; use NewVOD or NewLive to build one.
type Descriptor struct {
	VideoSeq uint64     `json:"videoSeq"`
	Kind     state.Kind `json:"kind" jsonschema:"enum=VOD,enum=LIVE"`
	Meta     Meta       `json:"meta"`

	Progressive []Progressive `json:"progressive,omitempty"`
	Manifests   []Manifest    `json:"manifests,omitempty"`
	Captions    []Caption     `json:"captions,omitempty"`

	LiveStatus      string           `json:"liveStatus,omitempty"`
	LiveResolutions []LiveResolution `json:"liveResolutions,omitempty"`
}

type Meta struct {
	MasterVideoID string `json:"masterVideoId,omitempty"`
	Subject       string `json:"subject,omitempty"`
	URL           string `json:"url,omitempty"`
	Cover         string `json:"cover,omitempty"`

	Thumbnails []Thumbnail `json:"thumbnails,omitempty"`
}

// Thumbnail is a still frame taken Time seconds into the video.
type Thumbnail struct {
	Time   float64 `json:"time"`
	Source string  `json:"source"`
}

// Progressive is a single-file rendition.
type Progressive struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Width        int     `json:"width"`
	Height       int     `json:"height"`
	VideoBitrate float64 `json:"videoBitrate"`
	AudioBitrate float64 `json:"audioBitrate"`
	Size         uint64  `json:"size"`
	Duration     float64 `json:"duration" jsonschema:"description=seconds"`
	Source       string  `json:"source"`
}

// Manifest is an adaptive manifest. Its key, when present, must be sent as a query parameter.
type Manifest struct {
	Type     string `json:"type"`
	Source   string `json:"source"`
	KeyName  string `json:"keyName,omitempty"`
	KeyValue string `json:"keyValue,omitempty"`
}

// URL is Source with the key applied.
func (m Manifest) URL() string {
	if m.KeyName == "" {
		return m.Source
	}

	u, err := url.Parse(m.Source)
	if err != nil {
		return m.Source
	}

	q := u.Query()
	q.Set(m.KeyName, m.KeyValue)
	u.RawQuery = q.Encode()
	return u.String()
}

type Caption struct {
	Language string `json:"language"`
	Country  string `json:"country"`
	Locale   string `json:"locale"`
	Label    string `json:"label"`
	Source   string `json:"source"`
}

// LiveResolution is one rendition of a live broadcast, or one variant of an HLS master.
type LiveResolution struct {
	Name      string `json:"name"`
	Height    int    `json:"height"`
	Bandwidth uint32 `json:"bandwidth,omitempty"`
	URL       string `json:"url"`
}

var (
	errNoRenditions  = errors.New("no progressive variants and no manifests")
	errNoResolutions = errors.New("no live resolutions")
)

// NewVOD builds a recorded-video descriptor. At least one progressive variant or manifest is required.
func NewVOD(seq uint64, meta Meta, progressive []Progressive, manifests []Manifest, captions []Caption) (*Descriptor, error) {
	if len(progressive) == 0 && len(manifests) == 0 {
		return nil, errNoRenditions
	}

	return &Descriptor{
		VideoSeq:    seq,
		Kind:        state.VOD,
		Meta:        meta,
		Progressive: progressive,
		Manifests:   manifests,
		Captions:    captions,
	}, nil
}

// NewLive builds a live descriptor. At least one resolution is required.
func NewLive(seq uint64, status string, meta Meta, resolutions []LiveResolution) (*Descriptor, error) {
	if len(resolutions) == 0 {
		return nil, errNoResolutions
	}

	return &Descriptor{
		VideoSeq:        seq,
		Kind:            state.LIVE,
		Meta:            meta,
		LiveStatus:      status,
		LiveResolutions: resolutions,
	}, nil
}

// Best returns the URL of the highest rendition. Recorded videos prefer a
// progressive file and fall back to the first manifest.
func (d *Descriptor) Best() mo.Option[string] {
	if d.Kind == state.LIVE {
		if len(d.LiveResolutions) == 0 {
			return mo.None[string]()
		}
		best := lo.MaxBy(d.LiveResolutions, func(a, b LiveResolution) bool {
			return a.Height > b.Height
		})
		return mo.Some(best.URL)
	}

	if len(d.Progressive) > 0 {
		best := lo.MaxBy(d.Progressive, func(a, b Progressive) bool {
			if a.Height != b.Height {
				return a.Height > b.Height
			}
			return a.VideoBitrate > b.VideoBitrate
		})
		return mo.Some(best.Source)
	}

	if len(d.Manifests) > 0 {
		return mo.Some(d.Manifests[0].URL())
	}

	return mo.None[string]()
}

// heightOf reads "720p", "720P" or "1080p60" as a height.
func heightOf(name string) int {
	digits := strings.TrimLeft(name, " ")
	end := strings.IndexFunc(digits, func(r rune) bool { return r < '0' || r > '9' })
	if end >= 0 {
		digits = digits[:end]
	}
	h, _ := strconv.Atoi(digits)
	return h
}
