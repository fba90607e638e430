// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Upstream Endpoints - these keys hold the URLs and fixed parameters of every upstream call.
// Paths are an upstream detail, so they are configuration rather than code.
const (
	EndpointsVideo         = "endpoints.video"
	EndpointsInkey         = "endpoints.inkey"
	EndpointsVodPlay       = "endpoints.vod_play"
	EndpointsAPI           = "endpoints.api"
	EndpointsChannelSearch = "endpoints.channel_search"
	EndpointsRecent        = "endpoints.recent"
	EndpointsBoards        = "endpoints.boards"
	EndpointsAppID         = "endpoints.app_id"
	EndpointsGCC           = "endpoints.gcc"
	EndpointsLocale        = "endpoints.locale"
)

// Network - these keys tune the HTTP client.
const (
	NetworkUserAgent      = "network.user_agent"
	NetworkTimeout        = "network.timeout"
	NetworkTLSFingerprint = "network.tls_fingerprint"
)

// Resolution - these keys govern batch stream resolution.
const (
	ResolveConcurrency = "resolve.concurrency"
)

// Search - these keys govern channel search.
const (
	SearchRememberQueries = "search.remember_queries"
)

// Playback - these keys choose the external player used by video --play.
const (
	PlayerName = "player.name"
	PlayerArgs = "player.args"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these settings govern terminal output.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
)
