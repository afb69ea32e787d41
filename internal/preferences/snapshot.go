package preferences

// Entry is one preference as reported by Snapshot.
type Entry struct {
	Key     string `json:"key" yaml:"key"`
	Kind    string `json:"kind" yaml:"kind"`
	Value   string `json:"value" yaml:"value"` // Masked for secrets
	Default string `json:"default" yaml:"default"`
	IsSet   bool   `json:"is_set" yaml:"is_set"`
	Secret  bool   `json:"secret,omitempty" yaml:"secret,omitempty"`
}

// Snapshot lists every known preference in key order.
type Snapshot []Entry

// Lookup returns the entry for name.
func (s Snapshot) Lookup(name string) (Entry, bool) {
	for _, e := range s {
		if e.Key == name {
			return e, true
		}
	}
	return Entry{}, false
}

// Snapshot returns the effective value of every preference. Secret values are masked.
func (s *Store) Snapshot() (Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := make(Snapshot, 0, len(allKeys))
	for _, key := range allKeys {
		value, isSet, err := s.readLocked(key)
		if err != nil {
			return nil, err
		}
		if key.Secret {
			value = maskSecret(value)
		}
		snapshot = append(snapshot, Entry{
			Key:     key.Name,
			Kind:    key.Kind.String(),
			Value:   value,
			Default: key.Default,
			IsSet:   isSet,
			Secret:  key.Secret,
		})
	}
	return snapshot, nil
}

// maskSecret shows only the first and last 4 characters of a secret.
func maskSecret(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 8 {
		return "****"
	}
	return secret[:4] + "****" + secret[len(secret)-4:]
}
