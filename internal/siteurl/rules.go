package siteurl

import "regexp"

// Rule names, in application order.
const (
	RuleWPJSON        = "wp-json"
	RuleIndexPHP      = "index.php"
	RuleRestRoute     = "rest_route"
	RuleTrailingSlash = "trailing-slash"
)

// Rule strips one kind of suffix from a site URL. Patterns are anchored at the end
// of the string and only ever remove text.
type Rule struct {
	Name    string
	pattern *regexp.Regexp
	// keep is the replacement template; empty drops the whole match.
	keep string
}

// NewRule compiles a stripping rule. The expression must be anchored with `$`.
func NewRule(name, expr string) (Rule, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return Rule{}, err
	}
	return Rule{Name: name, pattern: re}, nil
}

func mustRule(name, expr string) Rule {
	r, err := NewRule(name, expr)
	if err != nil {
		panic(err)
	}
	return r
}

// wpJSONRule only strips /wp-json from the path, so a host such as
// wp-json.example.com survives.
var wpJSONRule = Rule{
	Name:    RuleWPJSON,
	pattern: regexp.MustCompile(`(?i)^((?:[a-z][a-z0-9+.-]*://[^/]*)?(?:/.*?)?)/wp-json.*$`),
	keep:    "${1}",
}

var defaultRules = []Rule{
	wpJSONRule,
	mustRule(RuleIndexPHP, `(?i)/index\.php$`),
	mustRule(RuleRestRoute, `(?i)\?rest_route=.*$`),
	mustRule(RuleTrailingSlash, `/+$`),
}

// DefaultRules returns the stripping rules in the order they are applied:
// wp-json, index.php, rest_route, trailing slash.
func DefaultRules() []Rule {
	rules := make([]Rule, len(defaultRules))
	copy(rules, defaultRules)
	return rules
}

// Matches reports whether applying the rule would change s.
func (r Rule) Matches(s string) bool {
	return r.pattern.MatchString(s)
}

// Apply removes the rule's suffix from s. Strings without the suffix come back unchanged.
func (r Rule) Apply(s string) string {
	if !r.pattern.MatchString(s) {
		return s
	}
	return r.pattern.ReplaceAllString(s, r.keep)
}
