// Package pipeline resolves a video seq into a stream descriptor.
//
// A resolution is strictly sequential: the page is fetched, its embedded state
// extracted, and then either the access key and the streaming metadata are
// requested (recorded videos) or the live payload already in the state is
// decoded (live videos). Nothing is cached between resolutions.
package pipeline

import (
	"context"
	"time"

	"github.com/spf13/viper"
	"github.com/vlive-go/vlive/constant"
	"github.com/vlive-go/vlive/endpoint"
	"github.com/vlive-go/vlive/fault"
	"github.com/vlive-go/vlive/inkey"
	"github.com/vlive-go/vlive/key"
	"github.com/vlive-go/vlive/log"
	"github.com/vlive-go/vlive/network"
	"github.com/vlive-go/vlive/state"
	"github.com/vlive-go/vlive/stream"
)

const opPage = "page"

// Resolver runs resolutions. It holds no per-call state and is safe for concurrent use.
type Resolver struct {
	fetcher   network.Fetcher
	endpoints endpoint.Set
	userAgent string
}

type Option func(*Resolver)

// WithFetcher replaces the HTTP fetcher.
func WithFetcher(f network.Fetcher) Option {
	return func(r *Resolver) {
		r.fetcher = f
	}
}

// WithUserAgent overrides the configured user agent.
func WithUserAgent(ua string) Option {
	return func(r *Resolver) {
		r.userAgent = ua
	}
}

// WithEndpoints replaces the configured endpoints.
func WithEndpoints(s endpoint.Set) Option {
	return func(r *Resolver) {
		r.endpoints = s
	}
}

// New returns a resolver built from the current configuration.
func New(opts ...Option) *Resolver {
	r := &Resolver{
		endpoints: endpoint.FromConfig(),
		userAgent: viper.GetString(key.NetworkUserAgent),
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.fetcher == nil {
		timeout := time.Duration(viper.GetInt(key.NetworkTimeout)) * time.Second
		r.fetcher = network.NewHTTPFetcher(network.NewClient(timeout, viper.GetBool(key.NetworkTLSFingerprint)))
	}

	if r.userAgent == "" {
		r.userAgent = constant.UserAgent
	}

	return r
}

// State fetches the page of seq and returns its embedded state.
func (r *Resolver) State(ctx context.Context, seq uint64) (*state.VideoState, error) {
	return r.fetchState(ctx, seq, log.WithFields(log.Fields{"seq": seq}))
}

// Resolve returns the stream descriptor of seq.
//
// Every error is a *fault.Error; match it with errors.Is against the fault kinds.
func (r *Resolver) Resolve(ctx context.Context, seq uint64) (*stream.Descriptor, error) {
	entry := log.WithFields(log.Fields{"seq": seq})

	s, err := r.fetchState(ctx, seq, entry)
	if err != nil {
		return nil, err
	}

	video := s.Video()

	vodID, ok := video.VodID.Get()
	if !ok {
		entry.WithField("stage", fault.StageAssembling).Debug("live branch")
		d, err := stream.Live(seq, video)
		if err != nil {
			entry.WithError(err).Debug("live resolution failed")
			return nil, err
		}
		return d, nil
	}

	entry.WithField("stage", fault.StageResolvingKey).Debug("vod branch")
	k, err := r.key(ctx, seq, video)
	if err != nil {
		entry.WithError(err).Error("key resolution failed")
		return nil, err
	}

	entry.WithField("stage", fault.StageAssembling).Debug("requesting streaming metadata")
	d, err := stream.NewAssembler(r.fetcher, r.endpoints).VOD(ctx, seq, vodID, k)
	if err != nil {
		entry.WithError(err).Error("vod assembly failed")
		return nil, err
	}

	entry.WithField("stage", "done").Debugf("%d progressive, %d manifests", len(d.Progressive), len(d.Manifests))
	return d, nil
}

// key uses the access key carried by the page when there is one.
func (r *Resolver) key(ctx context.Context, seq uint64, video state.OfficialVideo) (inkey.Key, error) {
	if value, ok := video.PageKey.Get(); ok {
		return inkey.Key{Value: value}, nil
	}
	return inkey.NewResolver(r.fetcher, r.endpoints, r.userAgent).Resolve(ctx, seq)
}

func (r *Resolver) fetchState(ctx context.Context, seq uint64, entry *log.Entry) (*state.VideoState, error) {
	page := r.endpoints.VideoURL(seq)

	entry.WithField("stage", fault.StageFetching).Debug(page)
	resp, err := r.fetcher.Fetch(ctx, network.Get(page).WithHeader("User-Agent", r.userAgent))
	if err != nil {
		entry.WithError(err).Error("page fetch failed")
		return nil, fault.Transport(fault.StageFetching, opPage, err)
	}

	if !resp.OK() {
		entry.WithField("status", resp.Status).Error("page fetch rejected")
		return nil, fault.Status(fault.ErrTransport, fault.StageFetching, opPage, resp.Status, nil)
	}

	entry.WithField("stage", fault.StageExtracting).Debugf("%d bytes", len(resp.Body))
	s, err := state.Extract(string(resp.Body))
	if err != nil {
		entry.WithError(err).Error("extraction failed")
		return nil, err
	}

	return s, nil
}
