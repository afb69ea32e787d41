package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	gormlogger "gorm.io/gorm/logger"

	"github.com/mrlokans/wooauto/internal/crypto"
	"github.com/mrlokans/wooauto/internal/database"
	"github.com/mrlokans/wooauto/internal/database/settings"
	"github.com/mrlokans/wooauto/internal/http"
	"github.com/mrlokans/wooauto/internal/locale"
	"github.com/mrlokans/wooauto/internal/logging"
	"github.com/mrlokans/wooauto/internal/preferences"
	"github.com/mrlokans/wooauto/internal/scheduler"
	"github.com/mrlokans/wooauto/internal/tasks"
	"github.com/mrlokans/wooauto/internal/woocommerce"
)

// =============================================================================
// Data Access Layer
// =============================================================================

var _ preferences.Repository = (*settings.Repository)(nil)
var _ preferences.Sealer = (*crypto.SecretBox)(nil)
var _ http.Pinger = (*database.Database)(nil)
var _ gormlogger.Interface = (*logging.GormLogger)(nil)

// =============================================================================
// Preference Store Consumers
// =============================================================================

var _ http.PreferenceStore = (*preferences.Store)(nil)
var _ locale.Store = (*preferences.Store)(nil)
var _ scheduler.ConnectionSource = (*preferences.Store)(nil)
var _ tasks.PollStore = (*preferences.Store)(nil)

var _ http.LanguageManager = (*locale.Manager)(nil)

// =============================================================================
// Order Polling
// =============================================================================

var _ http.PollScheduler = (*scheduler.OrderPollScheduler)(nil)
var _ scheduler.Enqueuer = (*tasks.Client)(nil)
var _ http.TaskStatusSource = (*tasks.Client)(nil)

// =============================================================================
// External Services
// =============================================================================

var _ http.ConnectionTester = (*woocommerce.Client)(nil)
var _ tasks.OrderLister = (*woocommerce.Client)(nil)
