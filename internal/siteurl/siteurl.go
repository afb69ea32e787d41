// Package siteurl turns whatever a user typed into the "store address" field into
// the canonical site root URL and the WooCommerce REST v3 API base URL.
//
// Normalization never fails. Empty or hopeless input yields "".
//
//	siteurl.Sanitize(" example.com/wp-json/wc/v3 ") // "https://example.com"
//	siteurl.BuildAPIBaseURL("example.com")         // "https://example.com/wp-json/wc/v3/"
package siteurl

import (
	"regexp"
	"strings"
	"unicode"
)

// APIPath is appended to a sanitized site URL to address the WooCommerce REST v3 API.
const APIPath = "wp-json/wc/v3/"

const defaultScheme = "https://"

var schemePattern = regexp.MustCompile(`(?i)^https?://`)

// Step records one rule application during normalization.
type Step struct {
	Pass    int    `json:"pass"`
	Rule    string `json:"rule"`
	Before  string `json:"before"`
	After   string `json:"after"`
	Matched bool   `json:"matched"`
}

// Result bundles both forms of a normalized address.
type Result struct {
	SiteURL    string `json:"site_url"`
	APIBaseURL string `json:"api_base_url"`
}

// Normalizer applies an ordered list of stripping rules. It holds no mutable state
// and is safe for concurrent use.
type Normalizer struct {
	rules []Rule
}

// New creates a Normalizer. Without rules it uses DefaultRules.
func New(rules ...Rule) *Normalizer {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Normalizer{rules: rules}
}

var defaultNormalizer = New()

// Sanitize canonicalizes input with the default rules.
func Sanitize(input string) string {
	return defaultNormalizer.Sanitize(input)
}

// BuildAPIBaseURL returns the WooCommerce REST v3 base URL for siteURL using the default rules.
func BuildAPIBaseURL(siteURL string) string {
	return defaultNormalizer.BuildAPIBaseURL(siteURL)
}

// Normalize returns both the site URL and the API base URL for input.
func Normalize(input string) Result {
	return defaultNormalizer.Normalize(input)
}

// Rules returns the normalizer's rules in application order.
func (n *Normalizer) Rules() []Rule {
	rules := make([]Rule, len(n.rules))
	copy(rules, n.rules)
	return rules
}

// Sanitize trims and strips whitespace, makes sure a http(s) scheme is present
// (lowercased, https by default) and then removes REST suffixes and trailing
// slashes until none of the rules match anymore.
func (n *Normalizer) Sanitize(input string) string {
	s, _ := n.run(input, false)
	return s
}

// Explain sanitizes input and returns every rule application along the way.
func (n *Normalizer) Explain(input string) (string, []Step) {
	return n.run(input, true)
}

// BuildAPIBaseURL returns "{sanitized}/wp-json/wc/v3/", or "" when siteURL sanitizes to "".
func (n *Normalizer) BuildAPIBaseURL(siteURL string) string {
	return apiBaseURL(n.Sanitize(siteURL))
}

// Normalize returns both forms of input.
func (n *Normalizer) Normalize(input string) Result {
	site := n.Sanitize(input)
	return Result{SiteURL: site, APIBaseURL: apiBaseURL(site)}
}

func (n *Normalizer) run(input string, trace bool) (string, []Step) {
	s := strings.TrimSpace(input)
	if s == "" {
		return "", nil
	}
	s = withScheme(removeWhitespace(s))

	var steps []Step
	// Every rule only removes text, so the loop ends once a full pass changes nothing.
	for pass := 1; ; pass++ {
		changed := false
		for _, rule := range n.rules {
			out := rule.Apply(s)
			if trace {
				steps = append(steps, Step{
					Pass:    pass,
					Rule:    rule.Name,
					Before:  s,
					After:   out,
					Matched: out != s,
				})
			}
			if out != s {
				changed = true
				s = out
			}
		}
		if !changed {
			break
		}
	}

	// Nothing left after the scheme ("https:" once the slashes are gone).
	if !strings.Contains(s, "://") {
		return "", steps
	}
	return s, steps
}

func apiBaseURL(site string) string {
	if site == "" {
		return ""
	}
	return site + "/" + APIPath
}

func removeWhitespace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

func withScheme(s string) string {
	if scheme := schemePattern.FindString(s); scheme != "" {
		return strings.ToLower(scheme) + s[len(scheme):]
	}
	return defaultScheme + s
}
