package config

const (
	// DefaultDatabasePath is the default path for the preferences database
	DefaultDatabasePath = "./wooauto.db"

	DefaultPort = 8190
	DefaultHost = "127.0.0.1"
)
