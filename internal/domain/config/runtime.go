package config

import (
	"time"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// File locations
	ConfigPath   string
	DatabasePath string

	// Execution settings
	Debug          bool
	NonInteractive bool
	AssumeYes      bool          // Skip the deployment confirmation prompt
	Timeout        time.Duration // 0 means no timeout

	// Resolved configurations
	Bridge *BridgeConfig
}
