package http

import (
	"context"
	"time"

	"github.com/mrlokans/wooauto/internal/locale"
	"github.com/mrlokans/wooauto/internal/preferences"
	"github.com/mrlokans/wooauto/internal/woocommerce"
)

// Pinger checks storage connectivity. *database.Database implements it.
type Pinger interface {
	Ping() error
}

// PreferenceStore is the preference access the API needs. *preferences.Store implements it.
type PreferenceStore interface {
	Snapshot() (preferences.Snapshot, error)
	SetMany(values map[string]string) error
	Reset(name string) error
	WooCommerceConfig() (preferences.WooCommerceConfig, error)
	PollStatus() (preferences.PollStatus, error)
}

// LanguageManager reads and persists the UI language. *locale.Manager implements it.
type LanguageManager interface {
	Current() (string, error)
	Set(code string) (string, error)
	Supported() []locale.Language
}

// PollScheduler controls the order poller. *scheduler.OrderPollScheduler implements it.
type PollScheduler interface {
	Reschedule() error
	RunNow(ctx context.Context) (string, error)
	IsRunning() bool
	NextRun() *time.Time
}

// ConnectionTester verifies store credentials. *woocommerce.Client implements it.
type ConnectionTester interface {
	TestConnection(ctx context.Context) (*woocommerce.SystemStatus, error)
}

// ConnectionTesterFactory builds a tester for a set of connection settings.
type ConnectionTesterFactory func(cfg woocommerce.Config) ConnectionTester
