package config

// Build information, overridden at link time:
//
//	-ldflags "-X github.com/trebuchet-org/bridge/internal/config.Version=v1.0.0"
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)
