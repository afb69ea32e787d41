package preferences

import (
	"fmt"
	"strconv"
)

// Validate checks a user-supplied value for the named preference and returns it in
// stored form. Range and language rules apply on top of type coercion.
func Validate(name, value string) (string, error) {
	key, ok := LookupKey(name)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, name)
	}
	coerced, err := key.coerce(value)
	if err != nil {
		return "", err
	}
	if key.check == nil {
		return coerced, nil
	}
	checked, err := key.check(coerced)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrInvalidValue, key.Name, err)
	}
	return checked, nil
}

// ValidateMany runs Validate over every entry and stops at the first rejection.
func ValidateMany(values map[string]string) (map[string]string, error) {
	out := make(map[string]string, len(values))
	for name, value := range values {
		v, err := Validate(name, value)
		if err != nil {
			return nil, err
		}
		out[name] = v
	}
	return out, nil
}

func atLeast(lo int, want string) func(string) (string, error) {
	return func(v string) (string, error) {
		n, _ := strconv.Atoi(v)
		if n < lo {
			return "", fmt.Errorf("must be %s, got %d", want, n)
		}
		return v, nil
	}
}

func between(lo, hi int) func(string) (string, error) {
	return func(v string) (string, error) {
		n, _ := strconv.Atoi(v)
		if n < lo || n > hi {
			return "", fmt.Errorf("must be between %d and %d, got %d", lo, hi, n)
		}
		return v, nil
	}
}
