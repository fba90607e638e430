package player

import (
	"context"
	"errors"
	"fmt"
	"runtime"
)

var errNotDarwin = errors.New("IINA is only supported on macOS")

// IINA plays through the macOS IINA app, which takes mpv options after --args.
type IINA struct {
	Extra []string
}

func (i *IINA) Play(ctx context.Context, media Media) error {
	if runtime.GOOS != "darwin" {
		return errNotDarwin
	}

	args, err := i.args(media)
	if err != nil {
		return err
	}
	return run(ctx, "open", args...)
}

func (i *IINA) args(media Media) ([]string, error) {
	target, err := sanitizeMediaTarget(media.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid media target: %w", err)
	}

	args := []string{"-W", "-a", "IINA", target, "--args"}
	if title := sanitizeTitle(media.Title); title != "" {
		args = append(args, "--mpv-force-media-title="+title)
	}
	if len(media.Headers) > 0 {
		args = append(args, "--mpv-http-header-fields="+headerFields(media.Headers))
	}

	return append(args, i.Extra...), nil
}
