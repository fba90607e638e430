// Package version provides application version tracking and update discovery.
package version

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/vlive-go/vlive/filesystem"
	"github.com/vlive-go/vlive/network"
	"github.com/vlive-go/vlive/where"
)

// ReleasesURL is the GitHub API endpoint describing the latest release.
var ReleasesURL = "https://api.github.com/repos/vlive-go/vlive/releases/latest"

// versionCacher keeps the latest release tag for two days so the check does not hit the GitHub rate limit.
var versionCacher = filesystem.NewCache[string](filepath.Join(where.Cache(), "version.json"), time.Hour*24*2)

// Latest returns the most recent release version, without the "v" prefix.
func Latest(ctx context.Context, fetcher network.Fetcher) (string, error) {
	ver, expired, err := versionCacher.Get()
	if err != nil {
		return "", err
	}

	if !expired && ver != "" {
		return ver, nil
	}

	resp, err := fetcher.Fetch(ctx, network.Get(ReleasesURL).WithHeader("Accept", "application/vnd.github+json"))
	if err != nil {
		return "", err
	}
	if !resp.OK() {
		return "", fmt.Errorf("latest release: HTTP %d", resp.Status)
	}

	var release struct {
		TagName string `json:"tag_name"`
	}

	if err := json.Unmarshal(resp.Body, &release); err != nil {
		return "", err
	}

	if release.TagName == "" {
		return "", errors.New("empty tag name")
	}

	version := strings.TrimPrefix(release.TagName, "v")
	_ = versionCacher.Set(version)
	return version, nil
}
