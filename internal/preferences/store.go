// Package preferences is the typed, durable key-value store for the client's
// configuration: store credentials, polling interval, language and a handful of
// notification settings.
//
// Every getter falls back to the documented default when a key was never set.
// Every setter returns only after the row is committed. Storage failures are
// returned to the caller; a missing row is not a failure.
package preferences

import (
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mrlokans/wooauto/internal/entities"
	"github.com/mrlokans/wooauto/internal/siteurl"
)

var (
	ErrUnknownKey   = errors.New("unknown preference key")
	ErrInvalidValue = errors.New("invalid preference value")
)

// Repository is the persistence the store needs. *settings.Repository implements it.
type Repository interface {
	GetSetting(key string) (*entities.Setting, error)
	SetSetting(key, value string) error
	SetSettings(values map[string]string) error
	DeleteSetting(key string) error
}

// Sealer protects secret values at rest. *crypto.SecretBox implements it.
type Sealer interface {
	Seal(plaintext string) (string, error)
	Open(sealed string) (string, error)
}

// Store serializes access to the settings table: one writer at a time, readers
// share a read lock.
type Store struct {
	repo   Repository
	sealer Sealer
	log    *zap.Logger

	mu sync.RWMutex
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store's logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *Store) { s.log = log }
}

// WithSealer enables sealing of secret values.
func WithSealer(sealer Sealer) Option {
	return func(s *Store) { s.sealer = sealer }
}

func New(repo Repository, opts ...Option) *Store {
	s := &Store{repo: repo, log: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// --- Core preferences ---

func (s *Store) Language() (string, error) {
	return s.getString(KeyLanguage)
}

func (s *Store) SetLanguage(code string) error {
	return s.write(KeyLanguage, code)
}

func (s *Store) APIKey() (string, error) {
	return s.getString(KeyAPIKey)
}

func (s *Store) SetAPIKey(key string) error {
	return s.write(KeyAPIKey, key)
}

func (s *Store) APISecret() (string, error) {
	return s.getString(KeyAPISecret)
}

func (s *Store) SetAPISecret(secret string) error {
	return s.write(KeyAPISecret, secret)
}

// PollingIntervalSeconds returns the order polling interval in seconds.
func (s *Store) PollingIntervalSeconds() (int, error) {
	return s.getInt(KeyPollingInterval)
}

// PollingInterval returns the order polling interval as a duration.
func (s *Store) PollingInterval() (time.Duration, error) {
	seconds, err := s.PollingIntervalSeconds()
	if err != nil {
		return 0, err
	}
	return time.Duration(seconds) * time.Second, nil
}

func (s *Store) SetPollingInterval(seconds int) error {
	return s.write(KeyPollingInterval, strconv.Itoa(seconds))
}

// --- Store connection ---

func (s *Store) WebsiteURL() (string, error) {
	return s.getString(KeyWebsiteURL)
}

// SetWebsiteURL stores the sanitized form of url.
func (s *Store) SetWebsiteURL(url string) error {
	return s.write(KeyWebsiteURL, siteurl.Sanitize(url))
}

func (s *Store) OrderPlugin() (string, error) {
	return s.getString(KeyOrderPlugin)
}

func (s *Store) SetOrderPlugin(plugin string) error {
	return s.write(KeyOrderPlugin, plugin)
}

// --- Notifications ---

func (s *Store) SoundVolume() (int, error) {
	return s.getInt(KeySoundVolume)
}

func (s *Store) SetSoundVolume(percent int) error {
	return s.write(KeySoundVolume, strconv.Itoa(percent))
}

func (s *Store) PlayCount() (int, error) {
	return s.getInt(KeyPlayCount)
}

func (s *Store) SetPlayCount(count int) error {
	return s.write(KeyPlayCount, strconv.Itoa(count))
}

func (s *Store) AutoCloseNotificationSeconds() (int, error) {
	return s.getInt(KeyAutoClose)
}

func (s *Store) SetAutoCloseNotificationSeconds(seconds int) error {
	return s.write(KeyAutoClose, strconv.Itoa(seconds))
}

// --- App state ---

func (s *Store) IsFirstLaunch() (bool, error) {
	return s.getBool(KeyFirstLaunch)
}

func (s *Store) SetFirstLaunch(first bool) error {
	return s.write(KeyFirstLaunch, strconv.FormatBool(first))
}

// Version returns the preferences schema version (0 before any migration).
func (s *Store) Version() (int, error) {
	return s.getInt(KeyVersion)
}

// --- Generic access ---

// Get returns the effective value of a preference by its stored name.
func (s *Store) Get(name string) (string, error) {
	key, ok := LookupKey(name)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, name)
	}
	value, _, err := s.read(key)
	return value, err
}

// Lookup is Get that also reports whether the value was explicitly stored.
func (s *Store) Lookup(name string) (value string, isSet bool, err error) {
	key, ok := LookupKey(name)
	if !ok {
		return "", false, fmt.Errorf("%w: %s", ErrUnknownKey, name)
	}
	return s.read(key)
}

// Set coerces value to the key's type and stores it.
func (s *Store) Set(name, value string) error {
	key, ok := LookupKey(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKey, name)
	}
	coerced, err := key.coerce(value)
	if err != nil {
		return err
	}
	return s.write(key, coerced)
}

// SetMany coerces and stores several values in one transaction. Nothing is written
// when any name or value is rejected.
func (s *Store) SetMany(values map[string]string) error {
	rows := make(map[string]string, len(values))
	for name, value := range values {
		key, ok := LookupKey(name)
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownKey, name)
		}
		coerced, err := key.coerce(value)
		if err != nil {
			return err
		}
		if rows[name], err = s.seal(key, coerced); err != nil {
			return err
		}
	}
	if len(rows) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.SetSettings(rows); err != nil {
		return fmt.Errorf("write preferences: %w", err)
	}
	s.log.Debug("preferences saved", zap.Int("count", len(rows)))
	return nil
}

// Reset removes a stored value so the default applies again.
func (s *Store) Reset(name string) error {
	key, ok := LookupKey(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKey, name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.DeleteSetting(key.Name); err != nil {
		return fmt.Errorf("reset preference %s: %w", key.Name, err)
	}
	s.log.Debug("preference reset", zap.String("key", key.Name))
	return nil
}

// --- Internals ---

func (s *Store) getString(key Key) (string, error) {
	value, _, err := s.read(key)
	return value, err
}

func (s *Store) getInt(key Key) (int, error) {
	value, _, err := s.read(key)
	if err != nil {
		return 0, err
	}
	return s.parseInt(key, value), nil
}

func (s *Store) getBool(key Key) (bool, error) {
	value, _, err := s.read(key)
	if err != nil {
		return false, err
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		s.log.Warn("stored preference is not a boolean, using default",
			zap.String("key", key.Name), zap.String("value", value))
		b, _ = strconv.ParseBool(key.Default)
	}
	return b, nil
}

// parseInt falls back to the default for rows that do not hold an integer.
func (s *Store) parseInt(key Key, value string) int {
	n, err := strconv.Atoi(value)
	if err != nil {
		s.log.Warn("stored preference is not an integer, using default",
			zap.String("key", key.Name), zap.String("value", value))
		n, _ = strconv.Atoi(key.Default)
	}
	return n
}

func (s *Store) read(key Key) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.readLocked(key)
}

// readLocked returns the stored value, or the default with isSet=false. Callers hold mu.
func (s *Store) readLocked(key Key) (value string, isSet bool, err error) {
	setting, err := s.repo.GetSetting(key.Name)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return key.Default, false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read preference %s: %w", key.Name, err)
	}

	value = setting.Value
	if key.Secret && s.sealer != nil {
		value, err = s.sealer.Open(value)
		if err != nil {
			return "", false, fmt.Errorf("open preference %s: %w", key.Name, err)
		}
	}
	return value, true, nil
}

func (s *Store) write(key Key, value string) error {
	stored, err := s.seal(key, value)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.SetSetting(key.Name, stored); err != nil {
		return fmt.Errorf("write preference %s: %w", key.Name, err)
	}
	s.log.Debug("preference saved", zap.String("key", key.Name), zap.Bool("secret", key.Secret))
	return nil
}

func (s *Store) seal(key Key, value string) (string, error) {
	if !key.Secret || s.sealer == nil {
		return value, nil
	}
	sealed, err := s.sealer.Seal(value)
	if err != nil {
		return "", fmt.Errorf("seal preference %s: %w", key.Name, err)
	}
	return sealed, nil
}
