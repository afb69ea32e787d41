// Package locale resolves the UI language: the persisted choice when there is one,
// otherwise the language of the host environment.
package locale

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/mrlokans/wooauto/internal/entities"
)

const (
	English = "en"
	Chinese = "zh"

	Default = English
)

var ErrUnsupportedLanguage = errors.New("unsupported language")

var supportedTags = []language.Tag{language.English, language.Chinese}

var matcher = language.NewMatcher(supportedTags)

// Language is a selectable UI language.
type Language struct {
	Code        string `json:"code"`
	Name        string `json:"name"`         // Self-display name, e.g. "中文"
	EnglishName string `json:"english_name"` // e.g. "Chinese"
}

// Supported lists the selectable languages, default first.
func Supported() []Language {
	english := display.English.Languages()
	languages := make([]Language, 0, len(supportedTags))
	for _, tag := range supportedTags {
		base, _ := tag.Base()
		languages = append(languages, Language{
			Code:        base.String(),
			Name:        display.Self.Name(tag),
			EnglishName: english.Name(tag),
		})
	}
	return languages
}

// Canonicalize maps a language code or tag ("ZH", "zh-CN", "zh_TW") to a supported code.
func Canonicalize(code string) (string, error) {
	tag, err := parseLocale(code)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, code)
	}
	base, _ := tag.Base()
	for _, supported := range supportedTags {
		if b, _ := supported.Base(); b == base {
			return b.String(), nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, code)
}

// SystemLanguage returns the supported language closest to the environment's locale,
// read from LC_ALL, LC_MESSAGES and LANG in that order. getenv is usually os.Getenv.
func SystemLanguage(getenv func(string) string) string {
	for _, name := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		value := getenv(name)
		if value == "" {
			continue
		}
		if code, err := Canonicalize(value); err == nil {
			return code
		}
		tag, err := parseLocale(value)
		if err != nil {
			return Default
		}
		_, index, confidence := matcher.Match(tag)
		if confidence == language.No {
			return Default
		}
		base, _ := supportedTags[index].Base()
		return base.String()
	}
	return Default
}

// parseLocale accepts POSIX locale strings such as "zh_CN.UTF-8" or "en_US@euro".
func parseLocale(value string) (language.Tag, error) {
	value = strings.TrimSpace(value)
	if i := strings.IndexAny(value, ".@"); i >= 0 {
		value = value[:i]
	}
	value = strings.ReplaceAll(value, "_", "-")
	if value == "" || value == "C" || value == "POSIX" {
		return language.Und, errors.New("no language in locale")
	}
	return language.Parse(value)
}

// Store is the persistence the Manager needs. *preferences.Store implements it.
type Store interface {
	Lookup(name string) (value string, isSet bool, err error)
	SetLanguage(code string) error
}

// Manager reads and persists the UI language.
type Manager struct {
	store  Store
	getenv func(string) string
}

func NewManager(store Store, getenv func(string) string) *Manager {
	return &Manager{store: store, getenv: getenv}
}

// Current returns the stored language, or the system language when none is stored.
func (m *Manager) Current() (string, error) {
	value, isSet, err := m.store.Lookup(entities.SettingKeyLanguage)
	if err != nil {
		return "", err
	}
	if !isSet {
		return SystemLanguage(m.getenv), nil
	}
	code, err := Canonicalize(value)
	if err != nil {
		return Default, nil
	}
	return code, nil
}

// Set validates code and persists it. It returns the canonical code that was stored.
func (m *Manager) Set(code string) (string, error) {
	canonical, err := Canonicalize(code)
	if err != nil {
		return "", err
	}
	if err := m.store.SetLanguage(canonical); err != nil {
		return "", err
	}
	return canonical, nil
}

// Supported lists the selectable languages.
func (m *Manager) Supported() []Language {
	return Supported()
}
