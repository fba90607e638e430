// Package query remembers channel search queries and suggests them back, most used first.
package query

import (
	"strings"
	"sync"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/metafates/gache"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/viper"
	"github.com/vlive-go/vlive/filesystem"
	"github.com/vlive-go/vlive/key"
	"github.com/vlive-go/vlive/where"
	"golang.org/x/exp/slices"
)

type record struct {
	Rank  int    `json:"rank"`
	Query string `json:"query"`
}

var (
	cacherOnce sync.Once
	cacher     *gache.Cache[map[string]*record]
)

// history is created lazily so that tests can swap the filesystem first.
func history() *gache.Cache[map[string]*record] {
	cacherOnce.Do(func() {
		cacher = filesystem.NewCache[map[string]*record](where.Queries(), 0)
	})
	return cacher
}

// Remember records q, or raises its rank by weight if it is already known.
func Remember(q string, weight int) error {
	if !viper.GetBool(key.SearchRememberQueries) {
		return nil
	}

	q = sanitize(q)
	if q == "" {
		return nil
	}

	cached, expired, err := history().Get()
	if expired || err != nil || cached == nil {
		cached = make(map[string]*record)
	}

	if r, ok := cached[q]; ok {
		r.Rank += weight
	} else {
		cached[q] = &record{Rank: weight, Query: q}
	}

	return history().Set(cached)
}

// Suggest returns the best remembered query matching q.
func Suggest(q string) mo.Option[string] {
	suggestions := SuggestMany(q)
	if len(suggestions) == 0 {
		return mo.None[string]()
	}
	return mo.Some(suggestions[0])
}

// SuggestMany returns every remembered query fuzzily matching q, highest rank first.
func SuggestMany(q string) []string {
	if !viper.GetBool(key.SearchRememberQueries) {
		return nil
	}

	cached, expired, err := history().Get()
	if err != nil || expired || cached == nil {
		return nil
	}

	q = sanitize(q)
	records := lo.Filter(lo.Values(cached), func(r *record, _ int) bool {
		return fuzzy.Match(q, r.Query)
	})

	slices.SortFunc(records, func(a, b *record) int {
		if a.Rank != b.Rank {
			return b.Rank - a.Rank
		}
		return strings.Compare(a.Query, b.Query)
	})

	return lo.Map(records, func(r *record, _ int) string {
		return r.Query
	})
}

func sanitize(q string) string {
	return strings.Join(strings.Fields(strings.ToLower(q)), " ")
}
