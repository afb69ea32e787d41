package preferences

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mrlokans/wooauto/internal/siteurl"
)

// Poll outcomes recorded by RecordPoll.
const (
	PollStatusSuccess = "success"
	PollStatusFailed  = "failed"
	PollStatusSkipped = "skipped"
)

// PollStatus represents the outcome of the last order poll.
type PollStatus struct {
	LastPollAt *time.Time `json:"last_poll_at,omitempty"`
	Status     string     `json:"status,omitempty"`  // "success", "failed", "skipped", ""
	Message    string     `json:"message,omitempty"` // Error message or order count summary
}

// PollStatus returns the last recorded poll outcome. A zero value means no poll ran yet.
func (s *Store) PollStatus() (PollStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var status PollStatus
	at, _, err := s.readLocked(KeyLastPollAt)
	if err != nil {
		return status, err
	}
	if at != "" {
		parsed, err := time.Parse(time.RFC3339, at)
		if err != nil {
			s.log.Warn("stored poll time is malformed", zap.String("value", at))
		} else {
			status.LastPollAt = &parsed
		}
	}
	if status.Status, _, err = s.readLocked(KeyPollStatus); err != nil {
		return status, err
	}
	if status.Message, _, err = s.readLocked(KeyPollMessage); err != nil {
		return status, err
	}
	return status, nil
}

// RecordPoll stores the outcome of a poll in one transaction. A nil LastPollAt keeps
// the previously recorded time, so a failed poll does not move the window forward.
func (s *Store) RecordPoll(status PollStatus) error {
	rows := map[string]string{
		KeyPollStatus.Name:  status.Status,
		KeyPollMessage.Name: status.Message,
	}
	if status.LastPollAt != nil {
		rows[KeyLastPollAt.Name] = status.LastPollAt.UTC().Format(time.RFC3339)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.SetSettings(rows); err != nil {
		return fmt.Errorf("record poll status: %w", err)
	}
	return nil
}

// WooCommerceConfig is the store connection assembled from saved preferences.
type WooCommerceConfig struct {
	SiteURL         string        `json:"site_url"`
	APIBaseURL      string        `json:"api_base_url"`
	ConsumerKey     string        `json:"-"`
	ConsumerSecret  string        `json:"-"`
	PollingInterval time.Duration `json:"polling_interval"`
}

// IsConfigured reports whether the site URL and both credentials are present.
func (c WooCommerceConfig) IsConfigured() bool {
	return c.APIBaseURL != "" && c.ConsumerKey != "" && c.ConsumerSecret != ""
}

// WooCommerceConfig reads the connection settings under a single read lock.
func (s *Store) WooCommerceConfig() (WooCommerceConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var cfg WooCommerceConfig
	site, _, err := s.readLocked(KeyWebsiteURL)
	if err != nil {
		return cfg, err
	}
	result := siteurl.Normalize(site)
	cfg.SiteURL = result.SiteURL
	cfg.APIBaseURL = result.APIBaseURL

	if cfg.ConsumerKey, _, err = s.readLocked(KeyAPIKey); err != nil {
		return cfg, err
	}
	if cfg.ConsumerSecret, _, err = s.readLocked(KeyAPISecret); err != nil {
		return cfg, err
	}

	interval, _, err := s.readLocked(KeyPollingInterval)
	if err != nil {
		return cfg, err
	}
	cfg.PollingInterval = time.Duration(s.parseInt(KeyPollingInterval, interval)) * time.Second
	return cfg, nil
}
