package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/bridge/internal/domain/config"
)

const (
	DefaultConfigPath   = "bridge.toml"
	DefaultDatabasePath = "bridge-db.toml"
)

// Provider creates RuntimeConfig for Wire dependency injection
func Provider(v *viper.Viper) (*config.RuntimeConfig, error) {
	configPath, err := absPath(v.GetString("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path: %w", err)
	}

	databasePath, err := absPath(v.GetString("database"))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve database path: %w", err)
	}

	return &config.RuntimeConfig{
		ConfigPath:     configPath,
		DatabasePath:   databasePath,
		Debug:          v.GetBool("debug"),
		NonInteractive: v.GetBool("non_interactive"),
		AssumeYes:      v.GetBool("yes"),
		Timeout:        v.GetDuration("timeout"),
	}, nil
}

// BridgeProvider loads the bridge configuration referenced by the runtime config
func BridgeProvider(cfg *config.RuntimeConfig) (*config.BridgeConfig, error) {
	if cfg.Bridge != nil {
		return cfg.Bridge, nil
	}

	bridge, err := LoadBridgeConfig(cfg.ConfigPath)
	if err != nil {
		return nil, err
	}
	cfg.Bridge = bridge

	return bridge, nil
}

// SetupViper creates and configures a viper instance
func SetupViper(flags *pflag.FlagSet) *viper.Viper {
	v := viper.New()

	// Set up environment variables
	v.SetEnvPrefix("BRIDGE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	// Set defaults
	v.SetDefault("config", DefaultConfigPath)
	v.SetDefault("database", DefaultDatabasePath)
	v.SetDefault("timeout", "0s")
	v.SetDefault("debug", false)
	v.SetDefault("non_interactive", false)
	v.SetDefault("yes", false)

	if flags != nil {
		flags.VisitAll(func(f *pflag.Flag) {
			// Only flags set on the command line override env and defaults
			if !f.Changed {
				return
			}
			if err := v.BindPFlag(strings.ReplaceAll(f.Name, "-", "_"), f); err != nil {
				panic(err)
			}
		})
	}

	return v
}

func absPath(path string) (string, error) {
	if path == "" || filepath.IsAbs(path) {
		return path, nil
	}
	return filepath.Abs(path)
}
