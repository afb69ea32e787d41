package config

import (
	"time"

	"github.com/spf13/viper"
)

type BuildType string

const (
	BuildTypeDebug   BuildType = "debug"   // Verbose logging (default)
	BuildTypeRelease BuildType = "release" // Info logging, JSON output
)

type (
	Config struct {
		HTTP
		Global
		Database
		Log
		Preferences
		WooCommerce
		Tasks
		Poller
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
		BuildType                BuildType
	}
	Database struct {
		Path string
	}
	Log struct {
		Level  string // Overrides the build type's level when set
		Format string // "json" or "console"; empty picks by build type
	}
	Preferences struct {
		SecretKey  string // Seals the API secret at rest; plaintext when empty
		LegacyPath string // Legacy preferences file imported on first start
	}
	WooCommerce struct {
		Timeout time.Duration
	}
	Tasks struct {
		Enabled         bool
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
	Poller struct {
		Enabled bool
	}
)

// IsRelease reports whether the process runs as a release build.
func (g Global) IsRelease() bool {
	return g.BuildType == BuildTypeRelease
}

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", DefaultPort)
	v.SetDefault("host", DefaultHost)
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("build_type", string(BuildTypeDebug))
	v.SetDefault("database_path", DefaultDatabasePath)

	// Logging defaults
	v.SetDefault("log_level", "")
	v.SetDefault("log_format", "")

	// Preference defaults
	v.SetDefault("preferences_secret_key", "")
	v.SetDefault("legacy_preferences_path", "")

	v.SetDefault("woocommerce_timeout", "15s")

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_release_after", "5m")
	v.SetDefault("task_cleanup_interval", "1h")

	v.SetDefault("poller_enabled", true)

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
			BuildType:                BuildType(v.GetString("BUILD_TYPE")),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Log: Log{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		Preferences: Preferences{
			SecretKey:  v.GetString("PREFERENCES_SECRET_KEY"),
			LegacyPath: v.GetString("LEGACY_PREFERENCES_PATH"),
		},
		WooCommerce: WooCommerce{
			Timeout: v.GetDuration("WOOCOMMERCE_TIMEOUT"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
		Poller: Poller{
			Enabled: v.GetBool("POLLER_ENABLED"),
		},
	}
}
