package preferences

import (
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"
)

type exportDocument struct {
	ExportedAt  time.Time `yaml:"exported_at"`
	Version     int       `yaml:"preferences_version"`
	Preferences Snapshot  `yaml:"preferences"`
}

// ExportYAML writes the current snapshot as a YAML document. Secrets stay masked.
func (s *Store) ExportYAML(w io.Writer) error {
	snapshot, err := s.Snapshot()
	if err != nil {
		return err
	}

	doc := exportDocument{
		ExportedAt:  time.Now().UTC().Truncate(time.Second),
		Preferences: snapshot,
	}
	if entry, ok := snapshot.Lookup(KeyVersion.Name); ok {
		doc.Version = s.parseInt(KeyVersion, entry.Value)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}
	return enc.Close()
}
