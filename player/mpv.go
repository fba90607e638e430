package player

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// MPV plays through the mpv binary, leaving the user's mpv.conf in charge of
// video output and decoding.
type MPV struct {
	Binary string
	Extra  []string
}

func (m *MPV) Play(ctx context.Context, media Media) error {
	args, err := m.args(media)
	if err != nil {
		return err
	}
	return run(ctx, m.Binary, args...)
}

func (m *MPV) args(media Media) ([]string, error) {
	target, err := sanitizeMediaTarget(media.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid media target: %w", err)
	}

	args := []string{"--force-window=immediate"}
	if title := sanitizeTitle(media.Title); title != "" {
		args = append(args, "--force-media-title="+title)
	}
	if len(media.Headers) > 0 {
		args = append(args, "--http-header-fields="+headerFields(media.Headers))
	}

	args = append(args, m.Extra...)
	// end of options, so a target can never be read as a flag
	return append(args, "--", target), nil
}

// sanitizeMediaTarget accepts http(s) URLs and local paths.
func sanitizeMediaTarget(link string) (string, error) {
	l := strings.TrimSpace(link)
	if l == "" {
		return "", fmt.Errorf("empty URL")
	}

	if strings.ContainsAny(l, "\x00\n\r") {
		return "", fmt.Errorf("invalid control characters in URL")
	}

	if strings.HasPrefix(l, "-") {
		return "", fmt.Errorf("url must not start with '-'")
	}

	if !strings.Contains(l, "://") {
		return filepath.Clean(l), nil
	}

	u, err := url.Parse(l)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return l, nil
	default:
		return "", fmt.Errorf("unsupported URL scheme: %s", u.Scheme)
	}
}

func sanitizeTitle(title string) string {
	t := strings.NewReplacer("\n", " ", "\r", " ", "\t", " ", "\x00", "").Replace(title)
	return strings.TrimSpace(t)
}
