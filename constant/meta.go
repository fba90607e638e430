// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

const (
	// App is the canonical application identifier used for filesystem paths and CLI branding.
	App = "vlive"

	// Version is the current application semantic version string.
	Version = "0.3.0"

	// UserAgent is sent when no user agent is configured. The inkey endpoint rejects requests without one.
	UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Build metadata, set with -ldflags at release time.
var (
	BuiltAt  string
	BuiltBy  string
	Revision string
)
