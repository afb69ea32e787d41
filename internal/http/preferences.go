package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/wooauto/internal/entities"
	"github.com/mrlokans/wooauto/internal/preferences"
)

// PreferencesController exposes the preference store.
type PreferencesController struct {
	store     PreferenceStore
	scheduler PollScheduler
}

func NewPreferencesController(store PreferenceStore, scheduler PollScheduler) *PreferencesController {
	return &PreferencesController{store: store, scheduler: scheduler}
}

// PollerInfo reports the scheduler state.
type PollerInfo struct {
	Enabled   bool                   `json:"enabled"`
	IsRunning bool                   `json:"is_running"`
	NextRun   *time.Time             `json:"next_run,omitempty"`
	Status    preferences.PollStatus `json:"status"`
}

// PreferencesResponse is the response for GET /api/preferences
type PreferencesResponse struct {
	Preferences preferences.Snapshot `json:"preferences"`
	Poller      PollerInfo           `json:"poller"`
}

// UpdatePreferencesRequest is the request body for PUT /api/preferences.
// Omitted fields are left unchanged.
type UpdatePreferencesRequest struct {
	Language                     *string `json:"language"`
	APIKey                       *string `json:"api_key"`
	APISecret                    *string `json:"api_secret"`
	PollingInterval              *int    `json:"polling_interval"` // seconds
	WebsiteURL                   *string `json:"website_url"`
	OrderPlugin                  *string `json:"order_plugin"`
	SoundVolume                  *int    `json:"sound_volume"` // 0-100
	PlayCount                    *int    `json:"play_count"`
	AutoCloseNotificationSeconds *int    `json:"auto_close_notification_seconds"`
}

// connectionKeys are the preferences that require the poller to be rescheduled.
var connectionKeys = map[string]bool{
	entities.SettingKeyWebsiteURL:      true,
	entities.SettingKeyAPIKey:          true,
	entities.SettingKeyAPISecret:       true,
	entities.SettingKeyPollingInterval: true,
}

// GetPreferences returns every preference with secrets masked.
func (pc *PreferencesController) GetPreferences(c *gin.Context) {
	snapshot, err := pc.store.Snapshot()
	if err != nil {
		respondInternalError(c, err, "snapshot preferences")
		return
	}
	poller, err := pollerInfo(pc.store, pc.scheduler)
	if err != nil {
		respondInternalError(c, err, "poll status")
		return
	}
	c.JSON(http.StatusOK, PreferencesResponse{Preferences: snapshot, Poller: poller})
}

// UpdatePreferences validates and saves the provided fields in one transaction.
func (pc *PreferencesController) UpdatePreferences(c *gin.Context) {
	var req UpdatePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, CodeInvalidRequest, "invalid request: "+err.Error())
		return
	}

	values, err := req.values()
	if err != nil {
		respondBadRequest(c, CodeInvalidValue, err.Error())
		return
	}
	if len(values) == 0 {
		respondBadRequest(c, CodeInvalidRequest, "no preferences provided")
		return
	}

	if err := pc.store.SetMany(values); err != nil {
		if errors.Is(err, preferences.ErrInvalidValue) {
			respondBadRequest(c, CodeInvalidValue, err.Error())
			return
		}
		respondInternalError(c, err, "save preferences")
		return
	}

	if touchesConnection(values) && !pc.reschedule(c) {
		return
	}
	pc.GetPreferences(c)
}

// ResetPreference removes a stored value so its default applies again.
func (pc *PreferencesController) ResetPreference(c *gin.Context) {
	key := c.Param("key")
	if err := pc.store.Reset(key); err != nil {
		if errors.Is(err, preferences.ErrUnknownKey) {
			respondNotFound(c, "preference "+key)
			return
		}
		respondInternalError(c, err, "reset preference")
		return
	}

	if connectionKeys[key] && !pc.reschedule(c) {
		return
	}
	pc.GetPreferences(c)
}

// reschedule applies changed connection settings to the poller. It reports false
// after writing an error response.
func (pc *PreferencesController) reschedule(c *gin.Context) bool {
	if pc.scheduler == nil {
		return true
	}
	if err := pc.scheduler.Reschedule(); err != nil {
		respondError(c, http.StatusInternalServerError, CodeRescheduleFailed,
			"preferences saved but failed to reschedule poller: "+err.Error())
		return false
	}
	return true
}

func pollerInfo(store PreferenceStore, scheduler PollScheduler) (PollerInfo, error) {
	status, err := store.PollStatus()
	if err != nil {
		return PollerInfo{}, err
	}
	info := PollerInfo{Status: status}
	if scheduler != nil {
		info.Enabled = true
		info.IsRunning = scheduler.IsRunning()
		info.NextRun = scheduler.NextRun()
	}
	return info, nil
}

func touchesConnection(values map[string]string) bool {
	for key := range values {
		if connectionKeys[key] {
			return true
		}
	}
	return false
}

// values validates the request and returns it keyed by stored preference name.
func (r UpdatePreferencesRequest) values() (map[string]string, error) {
	raw := make(map[string]string)
	setString := func(name string, v *string) {
		if v != nil {
			raw[name] = *v
		}
	}
	setInt := func(name string, v *int) {
		if v != nil {
			raw[name] = strconv.Itoa(*v)
		}
	}

	setString(entities.SettingKeyLanguage, r.Language)
	setString(entities.SettingKeyAPIKey, r.APIKey)
	setString(entities.SettingKeyAPISecret, r.APISecret)
	setInt(entities.SettingKeyPollingInterval, r.PollingInterval)
	setString(entities.SettingKeyWebsiteURL, r.WebsiteURL)
	setString(entities.SettingKeyOrderPlugin, r.OrderPlugin)
	setInt(entities.SettingKeySoundVolume, r.SoundVolume)
	setInt(entities.SettingKeyPlayCount, r.PlayCount)
	setInt(entities.SettingKeyAutoCloseNotificationSeconds, r.AutoCloseNotificationSeconds)

	return preferences.ValidateMany(raw)
}
