package config

import "time"

// Default constants for application configuration
const (
	DefaultLogLevel      = "info"
	DefaultJSONLog       = false
	DefaultConcurrency   = 4
	DefaultSiteTimeout   = 45 * time.Second
	DefaultGlobalTimeout = 3 * time.Minute

	DefaultHeadless  = true
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

	DefaultRateLimitRPS   = 1.0
	DefaultRateLimitBurst = 2

	DefaultSnapshotDir = ".scout/snapshots"

	DefaultMinMatchScore = 0.4
	DefaultEscalateLow   = 0.30
	DefaultEscalateHigh  = 0.60

	MaxConcurrency = 16
)
