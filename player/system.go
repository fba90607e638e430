package player

import (
	"context"

	"github.com/vlive-go/vlive/open"
)

// System opens the URL with the default handler of the OS. Headers and title are ignored.
type System struct{}

func (System) Play(_ context.Context, media Media) error {
	target, err := sanitizeMediaTarget(media.URL)
	if err != nil {
		return err
	}
	return open.Run(target)
}
