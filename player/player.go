// Package player hands a resolved stream to an external media player.
package player

import (
	"context"
	"fmt"
	"os/exec"
	"sort"
	"strings"

	"github.com/spf13/viper"
	"github.com/vlive-go/vlive/key"
	"github.com/vlive-go/vlive/log"
)

// Media is what gets played.
type Media struct {
	URL     string
	Title   string
	Headers map[string]string
}

// Player starts playback and blocks until the player exits or ctx is done.
type Player interface {
	Play(ctx context.Context, m Media) error
}

// Backends available through the player.name setting.
const (
	NameMPV    = "mpv"
	NameIINA   = "iina"
	NameSystem = "system"
)

// AvailableNames lists the supported backends.
func AvailableNames() []string {
	return []string{NameMPV, NameIINA, NameSystem}
}

// FromConfig returns the configured backend.
func FromConfig() (Player, error) {
	return New(viper.GetString(key.PlayerName), viper.GetStringSlice(key.PlayerArgs))
}

// New returns the backend called name. extra is passed to players that accept arguments.
func New(name string, extra []string) (Player, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case NameMPV, "":
		return &MPV{Binary: "mpv", Extra: extra}, nil
	case NameIINA:
		return &IINA{Extra: extra}, nil
	case NameSystem:
		return System{}, nil
	default:
		return nil, fmt.Errorf("unknown player %q, available: %s", name, strings.Join(AvailableNames(), ", "))
	}
}

// headerFields renders headers in the form mpv expects, sorted for stable argument lists.
func headerFields(headers map[string]string) string {
	fields := make([]string, 0, len(headers))
	for k, v := range headers {
		fields = append(fields, fmt.Sprintf("%s: %s", k, strings.ReplaceAll(v, ",", "%2C")))
	}
	sort.Strings(fields)
	return strings.Join(fields, ",")
}

func run(ctx context.Context, name string, args ...string) error {
	log.Infof("starting %s", name)

	cmd := exec.CommandContext(ctx, name, args...)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}
