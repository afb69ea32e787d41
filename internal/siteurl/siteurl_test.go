package siteurl

import (
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"only spaces", "   ", ""},
		{"tabs and newlines", "\t\n ", ""},
		{"bare host gets https", "example.com", "https://example.com"},
		{"http kept", "http://example.com", "http://example.com"},
		{"uppercase scheme lowercased", "HTTPS://Example.com/index.php/", "https://Example.com"},
		{"wp-json api path", "https://example.com/wp-json/wc/v3", "https://example.com"},
		{"wp-json with trailing slash", "https://example.com/wp-json/wc/v3/", "https://example.com"},
		{"wp-json mixed case", "https://example.com/WP-JSON/wc/v3", "https://example.com"},
		{"index.php", "https://example.com/index.php", "https://example.com"},
		{"rest_route query", "https://example.com/?rest_route=/wc/v3/orders", "https://example.com"},
		{"index.php with rest_route", "https://example.com/index.php?rest_route=/wc/v3", "https://example.com"},
		{"trailing slashes", "https://example.com///", "https://example.com"},
		{"surrounding whitespace", "  https://example.com/  ", "https://example.com"},
		{"internal whitespace", "https://exa mple.com/ shop", "https://example.com/shop"},
		{"subdirectory install kept", "example.com/shop/wp-json", "https://example.com/shop"},
		{"host case preserved", "Shop.Example.COM", "https://Shop.Example.COM"},
		{"port preserved", "localhost:8080/wp-json/", "https://localhost:8080"},
		{"only a rest path", "/wp-json", ""},
		{"only a scheme", "https://", ""},
		{"wp-json host kept", "https://wp-json.example.com", "https://wp-json.example.com"},
		{"wp-json host without scheme", "wp-json.example.com/", "https://wp-json.example.com"},
		{"wp-json host with api path", "https://wp-json.example.com/wp-json/wc/v3", "https://wp-json.example.com"},
		{"wp-json subdomain and subdirectory", "http://WP-JSON.shop.io/store/wp-json/", "http://WP-JSON.shop.io/store"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Sanitize(tt.input))
		})
	}
}

func TestSanitize_Idempotent(t *testing.T) {
	inputs := []string{
		"example.com",
		"HTTPS://Example.com/index.php/",
		"http://example.com/wp-json/wc/v3/orders?per_page=1",
		"example.com/index.php?rest_route=/wc/v3//",
	}
	for _, in := range inputs {
		once := Sanitize(in)
		assert.Equal(t, once, Sanitize(once), "input %q", in)
	}
}

func TestBuildAPIBaseURL(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"example.com", "https://example.com/wp-json/wc/v3/"},
		{"https://example.com/wp-json/wc/v3/", "https://example.com/wp-json/wc/v3/"},
		{"http://shop.local/index.php", "http://shop.local/wp-json/wc/v3/"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, BuildAPIBaseURL(tt.input))
		})
	}
}

func TestNormalize(t *testing.T) {
	result := Normalize(" example.com/wp-json ")

	assert.Equal(t, "https://example.com", result.SiteURL)
	assert.Equal(t, "https://example.com/wp-json/wc/v3/", result.APIBaseURL)

	empty := Normalize("")
	assert.Empty(t, empty.SiteURL)
	assert.Empty(t, empty.APIBaseURL)
}

func TestDefaultRules_Order(t *testing.T) {
	var names []string
	for _, r := range DefaultRules() {
		names = append(names, r.Name)
	}

	want := []string{RuleWPJSON, RuleIndexPHP, RuleRestRoute, RuleTrailingSlash}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("rule order mismatch (-want +got):\n%s", diff)
	}
}

func TestDefaultRules_ReturnsCopy(t *testing.T) {
	rules := DefaultRules()
	rules[0] = rules[3]

	assert.Equal(t, RuleWPJSON, DefaultRules()[0].Name)
}

func TestRule_Apply(t *testing.T) {
	rules := make(map[string]Rule)
	for _, r := range DefaultRules() {
		rules[r.Name] = r
	}

	tests := []struct {
		rule     string
		input    string
		expected string
	}{
		{RuleWPJSON, "https://a.com/wp-json/wc/v3/orders", "https://a.com"},
		{RuleWPJSON, "https://a.com/Wp-Json", "https://a.com"},
		{RuleWPJSON, "https://a.com/shop", "https://a.com/shop"},
		{RuleWPJSON, "https://wp-json.a.com", "https://wp-json.a.com"},
		{RuleWPJSON, "https://wp-json.a.com/wp-json/wc", "https://wp-json.a.com"},
		{RuleWPJSON, "https://a.com/shop/wp-json/wc/v3", "https://a.com/shop"},
		{RuleIndexPHP, "https://a.com/index.php", "https://a.com"},
		{RuleIndexPHP, "https://a.com/INDEX.PHP", "https://a.com"},
		{RuleIndexPHP, "https://a.com/index.php/", "https://a.com/index.php/"},
		{RuleIndexPHP, "https://a.com/index.phpx", "https://a.com/index.phpx"},
		{RuleRestRoute, "https://a.com/?rest_route=/wc/v3", "https://a.com/"},
		{RuleRestRoute, "https://a.com/?REST_ROUTE=/", "https://a.com/"},
		{RuleRestRoute, "https://a.com/?page=1", "https://a.com/?page=1"},
		{RuleTrailingSlash, "https://a.com//", "https://a.com"},
		{RuleTrailingSlash, "https://a.com", "https://a.com"},
	}

	for _, tt := range tests {
		t.Run(tt.rule+" "+tt.input, func(t *testing.T) {
			r, ok := rules[tt.rule]
			require.True(t, ok)
			assert.Equal(t, tt.expected, r.Apply(tt.input))
			assert.Equal(t, tt.expected != tt.input, r.Matches(tt.input))
		})
	}
}

func TestNewRule(t *testing.T) {
	t.Run("compiles valid expression", func(t *testing.T) {
		r, err := NewRule("feed", `(?i)/feed/?$`)
		require.NoError(t, err)
		assert.Equal(t, "https://a.com", r.Apply("https://a.com/feed/"))
	})

	t.Run("rejects invalid expression", func(t *testing.T) {
		_, err := NewRule("broken", `(`)
		assert.Error(t, err)
	})
}

func TestNormalizer_CustomRules(t *testing.T) {
	feed, err := NewRule("feed", `(?i)/feed$`)
	require.NoError(t, err)

	n := New(append(DefaultRules(), feed)...)

	assert.Equal(t, "https://a.com", n.Sanitize("a.com/feed/"))
	assert.Equal(t, "https://a.com/feed", Sanitize("a.com/feed/"))
	assert.Len(t, n.Rules(), 5)
}

func TestNormalizer_Explain(t *testing.T) {
	n := New()

	site, steps := n.Explain("HTTPS://Example.com/index.php/")
	assert.Equal(t, "https://Example.com", site)

	var matched []string
	for _, s := range steps {
		if s.Matched {
			matched = append(matched, s.Rule)
		}
	}
	// The trailing slash has to go before index.php can match, which takes a second pass.
	assert.Equal(t, []string{RuleTrailingSlash, RuleIndexPHP}, matched)
	assert.Equal(t, 3, steps[len(steps)-1].Pass)

	_, steps = n.Explain("   ")
	assert.Empty(t, steps)
}

func TestSanitize_Concurrent(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				assert.Equal(t, "https://example.com", Sanitize("example.com/wp-json/"))
			}
		}()
	}
	wg.Wait()
}
