package preferences

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestStore_ExportYAML(t *testing.T) {
	store, _ := setupTestStore(t)
	require.NoError(t, store.SetAPISecret("cs_abcdef123456"))
	require.NoError(t, store.SetWebsiteURL("shop.example.com"))
	_, err := store.Migrate("")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, store.ExportYAML(&buf))
	assert.NotContains(t, buf.String(), "cs_abcdef123456")

	var doc struct {
		Version     int `yaml:"preferences_version"`
		Preferences []struct {
			Key   string `yaml:"key"`
			Value string `yaml:"value"`
			IsSet bool   `yaml:"is_set"`
		} `yaml:"preferences"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, CurrentVersion, doc.Version)
	require.Len(t, doc.Preferences, len(Keys()))

	values := make(map[string]string, len(doc.Preferences))
	for _, p := range doc.Preferences {
		values[p.Key] = p.Value
	}
	assert.Equal(t, "https://shop.example.com", values["website_url"])
	assert.Equal(t, "cs_a****3456", values["api_secret"])
	assert.Equal(t, "en", values["language"])
}
