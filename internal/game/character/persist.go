package character

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Marshal serializes s as a YAML document.
//
// Postcondition: Unmarshal(Marshal(s)) reproduces every non-derived field.
func Marshal(s *Snapshot) ([]byte, error) {
	data, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshalling character %q: %w", s.Name, err)
	}
	return data, nil
}

// Unmarshal parses a YAML character document. Fields absent from the document
// keep the defaults of New(DefaultPowerLevel) and unknown fields are ignored,
// so documents written by older or newer versions still load.
//
// Postcondition: Returns a snapshot with non-nil trait maps, or a non-nil error.
func Unmarshal(data []byte) (*Snapshot, error) {
	s := New(DefaultPowerLevel)
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parsing character document: %w", err)
	}
	if s.PowerLevel <= 0 {
		s.PowerLevel = DefaultPowerLevel
	}
	if s.Abilities == nil {
		s.Abilities = make(map[string]int)
	}
	if s.Defenses == nil {
		s.Defenses = make(map[string]int)
	}
	if s.Skills == nil {
		s.Skills = make(map[string]int)
	}
	return s, nil
}
