package entities

import (
	"time"
)

// Setting is one persisted preference. Values are stored as text; integers and
// booleans use their strconv forms.
type Setting struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Key       string    `gorm:"uniqueIndex;size:100" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Setting) TableName() string {
	return "settings"
}

// Known setting keys
const (
	// Store connection
	SettingKeyWebsiteURL      = "website_url"
	SettingKeyAPIKey          = "api_key"
	SettingKeyAPISecret       = "api_secret"
	SettingKeyPollingInterval = "polling_interval"
	SettingKeyOrderPlugin     = "order_plugin"

	// App
	SettingKeyLanguage           = "language"
	SettingKeyFirstLaunch        = "first_launch"
	SettingKeyPreferencesVersion = "preferences_version"

	// Notifications
	SettingKeySoundVolume                  = "sound_volume"
	SettingKeyPlayCount                    = "play_count"
	SettingKeyAutoCloseNotificationSeconds = "auto_close_notification_seconds"

	// Order polling status
	SettingKeyLastPollAt      = "last_poll_at"
	SettingKeyLastPollStatus  = "last_poll_status"
	SettingKeyLastPollMessage = "last_poll_message"
)
