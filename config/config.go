// Package config loads settings from the built-in defaults, the VLIVE_*
// environment and vlive.toml, each overriding the previous one.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/viper"
	"github.com/vlive-go/vlive/constant"
	"github.com/vlive-go/vlive/filesystem"
	"github.com/vlive-go/vlive/key"
	"github.com/vlive-go/vlive/where"
)

// EnvKeyReplacer maps "endpoints.vod_play" to "endpoints_vod_play", so the variable is VLIVE_ENDPOINTS_VOD_PLAY.
var EnvKeyReplacer = strings.NewReplacer(".", "_")

// Setup loads the configuration. A missing config file is not an error.
func Setup() error {
	viper.SetFs(filesystem.API())
	viper.SetConfigName(constant.App)
	viper.SetConfigType("toml")
	viper.AddConfigPath(where.Config())

	viper.SetEnvPrefix(constant.App)
	viper.SetEnvKeyReplacer(EnvKeyReplacer)
	for _, env := range EnvExposed {
		viper.MustBindEnv(env)
	}

	viper.SetTypeByDefaultValue(true)
	for name, field := range Default {
		viper.SetDefault(name, field.Value)
	}

	err := viper.ReadInConfig()

	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		return nil
	}
	return err
}

// urlKeys must hold absolute URLs.
var urlKeys = []string{
	key.EndpointsVideo,
	key.EndpointsInkey,
	key.EndpointsVodPlay,
	key.EndpointsAPI,
	key.EndpointsChannelSearch,
	key.EndpointsRecent,
	key.EndpointsBoards,
}

// Validate checks the settings every upstream call depends on. It is separate
// from Setup so that a broken value can still be fixed with "config set".
func Validate() error {
	for _, k := range urlKeys {
		raw := viper.GetString(k)
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%s: %q is not an absolute URL", k, raw)
		}
	}

	if viper.GetString(key.EndpointsAppID) == "" {
		return fmt.Errorf("%s must not be empty", key.EndpointsAppID)
	}

	if t := viper.GetInt(key.NetworkTimeout); t <= 0 {
		return fmt.Errorf("%s must be positive, got %d", key.NetworkTimeout, t)
	}

	if n := viper.GetInt(key.ResolveConcurrency); n < 0 {
		return fmt.Errorf("%s must not be negative, got %d", key.ResolveConcurrency, n)
	}

	return nil
}
