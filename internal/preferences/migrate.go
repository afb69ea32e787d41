package preferences

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// legacyKeys are copied from a legacy preferences file when present.
var legacyKeys = []Key{
	KeyWebsiteURL,
	KeyAPIKey,
	KeyAPISecret,
	KeyPollingInterval,
	KeyLanguage,
}

// MigrationResult describes what Migrate did.
type MigrationResult struct {
	FromVersion int      `json:"from_version"`
	ToVersion   int      `json:"to_version"`
	Imported    []string `json:"imported,omitempty"`
	Skipped     bool     `json:"skipped"` // Already at the current version
}

// Migrate brings the preferences schema up to CurrentVersion. Below version 1 it imports
// the known keys from the legacy file at legacyPath (JSON, YAML, TOML or properties). A
// missing or empty path still bumps the version. The legacy file is left in place.
func (s *Store) Migrate(legacyPath string) (MigrationResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, _, err := s.readLocked(KeyVersion)
	if err != nil {
		return MigrationResult{}, err
	}
	result := MigrationResult{FromVersion: s.parseInt(KeyVersion, raw), ToVersion: CurrentVersion}
	if result.FromVersion >= CurrentVersion {
		result.ToVersion = result.FromVersion
		result.Skipped = true
		return result, nil
	}

	values, err := s.readLegacy(legacyPath)
	if err != nil {
		return MigrationResult{}, err
	}

	rows := make(map[string]string, len(values)+1)
	for _, key := range legacyKeys {
		value, ok := values[key.Name]
		if !ok {
			continue
		}
		if rows[key.Name], err = s.seal(key, value); err != nil {
			return MigrationResult{}, err
		}
		result.Imported = append(result.Imported, key.Name)
	}
	rows[KeyVersion.Name] = strconv.Itoa(CurrentVersion)

	if err := s.repo.SetSettings(rows); err != nil {
		return MigrationResult{}, fmt.Errorf("migrate preferences: %w", err)
	}

	s.log.Info("preferences migrated",
		zap.Int("from", result.FromVersion),
		zap.Int("to", result.ToVersion),
		zap.Strings("imported", result.Imported))
	return result, nil
}

// readLegacy returns the coerced legacy values that are present in the file.
func (s *Store) readLegacy(path string) (map[string]string, error) {
	values := make(map[string]string)
	if path == "" {
		return values, nil
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.log.Info("no legacy preferences file", zap.String("path", path))
			return values, nil
		}
		return nil, fmt.Errorf("stat legacy preferences: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read legacy preferences %s: %w", path, err)
	}

	for _, key := range legacyKeys {
		if !v.IsSet(key.Name) {
			continue
		}
		value, err := key.coerce(v.GetString(key.Name))
		if err != nil {
			s.log.Warn("skipping legacy preference", zap.String("key", key.Name), zap.Error(err))
			continue
		}
		values[key.Name] = value
	}
	return values, nil
}
