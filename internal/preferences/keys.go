package preferences

import (
	"fmt"
	"strconv"

	"github.com/mrlokans/wooauto/internal/entities"
	"github.com/mrlokans/wooauto/internal/locale"
	"github.com/mrlokans/wooauto/internal/siteurl"
)

// Defaults for unset preferences.
const (
	DefaultLanguage                     = "en"
	DefaultPollingIntervalSeconds       = 60
	DefaultOrderPlugin                  = "woocommerce_food"
	DefaultSoundVolume                  = 80 // percent
	DefaultPlayCount                    = 3
	DefaultAutoCloseNotificationSeconds = 15

	// CurrentVersion is the preferences schema version written by Migrate.
	CurrentVersion = 1
)

// Kind is the primitive type a preference holds.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindBool:
		return "bool"
	default:
		return "string"
	}
}

// Key describes one preference: its stored name, type and default.
type Key struct {
	Name    string
	Kind    Kind
	Default string
	// Secret values are sealed at rest and masked in snapshots.
	Secret bool

	canonical func(string) string
	// check runs on the coerced value before user input is accepted.
	check func(string) (string, error)
}

var (
	KeyLanguage        = Key{Name: entities.SettingKeyLanguage, Kind: KindString, Default: DefaultLanguage, check: locale.Canonicalize}
	KeyAPIKey          = Key{Name: entities.SettingKeyAPIKey, Kind: KindString}
	KeyAPISecret       = Key{Name: entities.SettingKeyAPISecret, Kind: KindString, Secret: true}
	KeyPollingInterval = Key{Name: entities.SettingKeyPollingInterval, Kind: KindInt, Default: strconv.Itoa(DefaultPollingIntervalSeconds), check: atLeast(1, "a positive number of seconds")}

	KeyWebsiteURL  = Key{Name: entities.SettingKeyWebsiteURL, Kind: KindString, canonical: siteurl.Sanitize}
	KeyOrderPlugin = Key{Name: entities.SettingKeyOrderPlugin, Kind: KindString, Default: DefaultOrderPlugin}
	KeySoundVolume = Key{Name: entities.SettingKeySoundVolume, Kind: KindInt, Default: strconv.Itoa(DefaultSoundVolume), check: between(0, 100)}
	KeyPlayCount   = Key{Name: entities.SettingKeyPlayCount, Kind: KindInt, Default: strconv.Itoa(DefaultPlayCount), check: atLeast(1, "at least 1")}
	KeyAutoClose   = Key{Name: entities.SettingKeyAutoCloseNotificationSeconds, Kind: KindInt, Default: strconv.Itoa(DefaultAutoCloseNotificationSeconds), check: atLeast(0, "not negative")}
	KeyFirstLaunch = Key{Name: entities.SettingKeyFirstLaunch, Kind: KindBool, Default: "true"}
	KeyVersion     = Key{Name: entities.SettingKeyPreferencesVersion, Kind: KindInt, Default: "0"}
	KeyLastPollAt  = Key{Name: entities.SettingKeyLastPollAt, Kind: KindString}
	KeyPollStatus  = Key{Name: entities.SettingKeyLastPollStatus, Kind: KindString}
	KeyPollMessage = Key{Name: entities.SettingKeyLastPollMessage, Kind: KindString}
)

var allKeys = []Key{
	KeyLanguage,
	KeyAPIKey,
	KeyAPISecret,
	KeyPollingInterval,
	KeyWebsiteURL,
	KeyOrderPlugin,
	KeySoundVolume,
	KeyPlayCount,
	KeyAutoClose,
	KeyFirstLaunch,
	KeyVersion,
	KeyLastPollAt,
	KeyPollStatus,
	KeyPollMessage,
}

// Keys returns every known preference key.
func Keys() []Key {
	keys := make([]Key, len(allKeys))
	copy(keys, allKeys)
	return keys
}

// LookupKey finds a key by its stored name.
func LookupKey(name string) (Key, bool) {
	for _, k := range allKeys {
		if k.Name == name {
			return k, true
		}
	}
	return Key{}, false
}

// coerce converts raw into the key's canonical stored form.
func (k Key) coerce(raw string) (string, error) {
	switch k.Kind {
	case KindInt:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return "", fmt.Errorf("%w: %s expects an integer, got %q", ErrInvalidValue, k.Name, raw)
		}
		return strconv.Itoa(n), nil
	case KindBool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return "", fmt.Errorf("%w: %s expects a boolean, got %q", ErrInvalidValue, k.Name, raw)
		}
		return strconv.FormatBool(b), nil
	}
	if k.canonical != nil {
		return k.canonical(raw), nil
	}
	return raw, nil
}
