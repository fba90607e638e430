// Package state locates the client-side state embedded in a video page and decodes it.
package state

import (
	"errors"

	"github.com/samber/mo"
	"github.com/vlive-go/vlive/fault"
)

// Extract decodes the state embedded in a video page using the default strategies.
func Extract(html string) (*VideoState, error) {
	return ExtractWith(html, Strategies)
}

// ExtractWith tries strategies in order and decodes the first complete match.
//
// A page none of them recognise fails with fault.ErrFormatNotFound. A page they
// recognise but cannot decode fails with fault.ErrMalformedState, naming the strategy.
func ExtractWith(html string, strategies []Strategy) (*VideoState, error) {
	var partial mo.Option[Match]

	for _, s := range strategies {
		m, ok := s.Locate(html).Get()
		if !ok {
			continue
		}

		if !m.Complete {
			if partial.IsAbsent() {
				partial = mo.Some(m)
			}
			continue
		}

		state, err := s.Decode(m)
		if err != nil {
			return nil, fault.New(fault.ErrMalformedState, fault.StageExtracting, m.Strategy, err)
		}

		return state, nil
	}

	if m, ok := partial.Get(); ok {
		return nil, fault.New(
			fault.ErrMalformedState,
			fault.StageExtracting,
			m.Strategy,
			errors.New("embedded state is truncated or unbalanced"),
		)
	}

	return nil, fault.New(fault.ErrFormatNotFound, fault.StageExtracting, "", nil)
}
