package channel

import (
	"sort"
	"strings"

	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// List is a channel search result.
type List []Channel

func normalizedName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Closest returns the channel whose name has the smallest edit distance to name.
func (l List) Closest(name string) mo.Option[Channel] {
	if len(l) == 0 {
		return mo.None[Channel]()
	}

	name = normalizedName(name)
	return mo.Some(lo.MinBy(l, func(a, b Channel) bool {
		return levenshtein.Distance(name, normalizedName(a.Name)) < levenshtein.Distance(name, normalizedName(b.Name))
	}))
}

// Filter keeps the channels whose name fuzzily contains query, best matches first.
func (l List) Filter(query string) List {
	names := lo.Map(l, func(c Channel, _ int) string {
		return c.Name
	})

	ranks := fuzzy.RankFindNormalizedFold(query, names)
	sort.Stable(ranks)

	return lo.Map(ranks, func(r fuzzy.Rank, _ int) Channel {
		return l[r.OriginalIndex]
	})
}

// Codes returns the channel codes in order.
func (l List) Codes() []string {
	return lo.Map(l, func(c Channel, _ int) string {
		return c.Code
	})
}
