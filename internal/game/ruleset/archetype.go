package ruleset

import "github.com/cory-johannsen/herocalc/internal/game/character"

// Archetype is a starter bundle of traits a new character can be built from.
// Power ids inside the template only serve as link targets; the engine
// reassigns every instance id when the archetype is instantiated.
//
// Precondition: ID, Name, and PowerLevel must be non-zero after loading.
type Archetype struct {
	ID            string                   `yaml:"id"`
	Name          string                   `yaml:"name"`
	Description   string                   `yaml:"description"`
	Concept       string                   `yaml:"concept"`
	PowerLevel    int                      `yaml:"power_level"`
	Abilities     map[string]int           `yaml:"abilities"`
	Defenses      map[string]int           `yaml:"defenses"`
	Skills        map[string]int           `yaml:"skills"`
	Advantages    []character.Advantage    `yaml:"advantages"`
	Powers        []character.Power        `yaml:"powers"`
	Equipment     []character.Equipment    `yaml:"equipment"`
	Complications []character.Complication `yaml:"complications"`
}

// Snapshot returns a deep copy of the template as a character snapshot at the
// archetype's power level. Instance ids are copied verbatim.
//
// Postcondition: the returned snapshot shares no memory with a.
func (a *Archetype) Snapshot() *character.Snapshot {
	s := character.New(a.PowerLevel)
	s.Name = a.Name
	s.Description = a.Description
	s.Concept = a.Concept
	for k, v := range a.Abilities {
		s.Abilities[k] = v
	}
	for k, v := range a.Defenses {
		s.Defenses[k] = v
	}
	for k, v := range a.Skills {
		s.Skills[k] = v
	}
	tmpl := &character.Snapshot{
		Advantages:    a.Advantages,
		Powers:        a.Powers,
		Equipment:     a.Equipment,
		Complications: a.Complications,
	}
	c := tmpl.Clone()
	s.Advantages = c.Advantages
	s.Powers = c.Powers
	s.Equipment = c.Equipment
	s.Complications = c.Complications
	return s
}
