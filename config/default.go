// Package config provides centralized management for application settings, defaults, and the Viper-based configuration engine.
package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"text/template"

	"github.com/samber/lo"
	"github.com/spf13/viper"
	"github.com/vlive-go/vlive/color"
	"github.com/vlive-go/vlive/constant"
	"github.com/vlive-go/vlive/key"
	"github.com/vlive-go/vlive/style"
)

// Field represents a configuration field definition.
type Field struct {
	Key         string
	Value       any
	Description string
}

// Pretty returns a colored string representation of the field for display.
func (f *Field) Pretty() string {
	var b strings.Builder
	lo.Must0(prettyTemplate.Execute(&b, f))
	return b.String()
}

// Env returns the environment variable name for this field.
func (f *Field) Env() string {
	env := strings.ToUpper(EnvKeyReplacer.Replace(f.Key))
	prefix := strings.ToUpper(constant.App + "_")
	if strings.HasPrefix(env, prefix) {
		return env
	}
	return prefix + env
}

// MarshalJSON customizes JSON output to include current and default values.
func (f *Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key         string `json:"key"`
		Value       any    `json:"value"`
		Default     any    `json:"default"`
		Description string `json:"description"`
		Type        string `json:"type"`
	}{
		Key:         f.Key,
		Value:       viper.Get(f.Key),
		Default:     f.Value,
		Description: f.Description,
		Type:        f.typeName(),
	})
}

func (f *Field) typeName() string {
	switch f.Value.(type) {
	case string:
		return "string"
	case int:
		return "int"
	case bool:
		return "bool"
	case []string:
		return "[]string"
	default:
		return "unknown"
	}
}

// Default holds the map of all configuration fields.
var Default = make(map[string]Field)

// EnvExposed holds keys that are bound to environment variables.
var EnvExposed []string

func init() {
	register := func(k string, v any, desc string) {
		if _, exists := Default[k]; exists {
			panic("Duplicate config key: " + k)
		}
		Default[k] = Field{Key: k, Value: v, Description: desc}
		EnvExposed = append(EnvExposed, k)
	}

	register(key.EndpointsVideo, "https://www.vlive.tv/video/{seq}", "Video page URL.\n{seq} is replaced with the video sequence number")
	register(key.EndpointsInkey, "https://www.vlive.tv/globalv-web/vam-web/video/v1.0/vod/{seq}/inkey", "Access key (inkey) endpoint.\n{seq} is replaced with the video sequence number")
	register(key.EndpointsVodPlay, "https://apis.naver.com/rmcnmv/rmcnmv/vod/play/v2.0/{vodId}", "Streaming metadata endpoint.\n{vodId} is replaced with the internal video id")
	register(key.EndpointsAPI, "https://api.vfan.vlive.tv/vproxy/channelplus/", "Base URL of the channel+ listing API")
	register(key.EndpointsChannelSearch, "https://www.vlive.tv/search/auto/channels", "Channel search endpoint")
	register(key.EndpointsRecent, "https://www.vlive.tv/home/video/more", "Recent videos HTML fragment endpoint")
	register(key.EndpointsBoards, "https://www.vlive.tv/globalv-web/vam-web", "Base URL of the board and post API")
	register(key.EndpointsAppID, "8c6cc7b45d2568fb668be6e05b6e5a3b", "Application id sent to the upstream API")
	register(key.EndpointsGCC, "KR", "Country code sent with access key requests")
	register(key.EndpointsLocale, "en_US", "Locale sent with access key requests")
	register(key.NetworkUserAgent, constant.UserAgent, "User-Agent header.\nThe access key endpoint rejects requests without one")
	register(key.NetworkTimeout, 30, "Timeout of a single request, in seconds")
	register(key.NetworkTLSFingerprint, false, "Mimic a desktop browser TLS fingerprint")
	register(key.ResolveConcurrency, 4, "How many videos to resolve at once when several are requested")
	register(key.SearchRememberQueries, true, "Remember channel search queries and suggest them in shell completion")
	register(key.PlayerName, "mpv", "Player used by video --play.\nAvailable options are: mpv, iina (macOS), system")
	register(key.PlayerArgs, []string{}, "Extra arguments passed to the player")
	register(key.IconsVariant, "plain", "Icons variant.\nAvailable options are: emoji, kaomoji, plain, squares, nerd (nerd-font required)")
	register(key.LogsWrite, false, "Write logs")
	register(key.LogsLevel, "info", "Available options are: (from less to most verbose)\npanic, fatal, error, warn, info, debug, trace")
	register(key.LogsJson, false, "Use json format for logs")
	register(key.CliColored, true, "Enable colored CLI output")
	register(key.CliVersionCheck, true, "Enable automatic version check")
}

var prettyTemplate = lo.Must(template.New("pretty").Funcs(template.FuncMap{
	"faint":    style.Faint,
	"bold":     style.Bold,
	"purple":   style.Fg(color.Purple),
	"blue":     style.Fg(color.Blue),
	"cyan":     style.Fg(color.Cyan),
	"value":    func(k string) any { return viper.Get(k) },
	"typename": func(v any) string { return reflect.TypeOf(v).String() },
	"hl": func(v any) string {
		switch value := v.(type) {
		case bool:
			b := strconv.FormatBool(value)
			if value {
				return style.Fg(color.Green)(b)
			}
			return style.Fg(color.Red)(b)
		case string:
			return style.Fg(color.Yellow)(value)
		default:
			return fmt.Sprint(value)
		}
	},
}).Parse(`{{ faint .Description }}
{{ blue "Key:" }}     {{ purple .Key }}
{{ blue "Env:" }}     {{ .Env }}
{{ blue "Value:" }}   {{ hl (value .Key) }}
{{ blue "Default:" }} {{ hl (.Value) }}
{{ blue "Type:" }}    {{ typename .Value }}`))
