package http

import (
	"go.uber.org/zap"

	"github.com/mrlokans/wooauto/internal/siteurl"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Database    Pinger
	Preferences PreferenceStore
	Languages   LanguageManager

	// Site URL normalizer; the default rule set when nil
	Normalizer *siteurl.Normalizer

	// Connection testing; real WooCommerce clients when nil
	NewConnectionTester ConnectionTesterFactory

	// Order polling (optional, nil when the poller is disabled)
	Scheduler PollScheduler

	// Task status lookups (optional, nil when the task queue is disabled)
	Tasks TaskStatusSource

	// Application info
	Version string

	Logger *zap.Logger
}
