package ruleset

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Table file names expected in a catalog directory.
const (
	FileAbilities       = "abilities.yaml"
	FileDefenses        = "defenses.yaml"
	FileSkills          = "skills.yaml"
	FileAdvantages      = "advantages.yaml"
	FileEffects         = "effects.yaml"
	FileModifiers       = "modifiers.yaml"
	FileSenses          = "senses.yaml"
	FileImmunities      = "immunities.yaml"
	FileEquipment       = "equipment.yaml"
	FileHQFeatures      = "hq_features.yaml"
	FileVehicleFeatures = "vehicle_features.yaml"
	FileMeasurements    = "measurements.yaml"
	FileArchetypes      = "archetypes.yaml"
)

// RequiredFiles lists every table a catalog directory must contain.
var RequiredFiles = []string{
	FileAbilities, FileDefenses, FileSkills, FileAdvantages, FileEffects,
	FileModifiers, FileSenses, FileImmunities, FileEquipment, FileHQFeatures,
	FileVehicleFeatures, FileMeasurements, FileArchetypes,
}

// RuleLoadError reports a missing or malformed rule table. A catalog that
// fails to load is never partially usable.
type RuleLoadError struct {
	Table string
	Path  string
	Err   error
}

func (e *RuleLoadError) Error() string {
	return fmt.Sprintf("loading rule table %s (%s): %v", e.Table, e.Path, e.Err)
}

func (e *RuleLoadError) Unwrap() error { return e.Err }

// LoadCatalog reads every required table from dir and builds an immutable
// Catalog.
//
// Precondition: dir must be a readable directory containing RequiredFiles.
// Postcondition: Returns a fully populated Catalog, or a *RuleLoadError
// describing the first table that is absent or malformed.
func LoadCatalog(dir string) (*Catalog, error) {
	var (
		c   Catalog
		err error
	)
	if c.abilities, err = loadTable(dir, FileAbilities, func(a *Ability) string { return a.ID }); err != nil {
		return nil, err
	}
	if c.defenses, err = loadTable(dir, FileDefenses, func(d *Defense) string { return d.ID }); err != nil {
		return nil, err
	}
	if c.skills, err = loadTable(dir, FileSkills, func(s *Skill) string { return s.ID }); err != nil {
		return nil, err
	}
	if c.advantages, err = loadTable(dir, FileAdvantages, func(a *Advantage) string { return a.ID }); err != nil {
		return nil, err
	}
	if c.effects, err = loadTable(dir, FileEffects, func(e *Effect) string { return e.ID }); err != nil {
		return nil, err
	}
	if c.modifiers, err = loadTable(dir, FileModifiers, func(m *Modifier) string { return m.ID }); err != nil {
		return nil, err
	}
	if c.senses, err = loadTable(dir, FileSenses, func(i *Item) string { return i.ID }); err != nil {
		return nil, err
	}
	if c.immunities, err = loadTable(dir, FileImmunities, func(i *Item) string { return i.ID }); err != nil {
		return nil, err
	}
	if c.equipment, err = loadTable(dir, FileEquipment, func(g *Gear) string { return g.ID }); err != nil {
		return nil, err
	}
	if c.hqFeatures, err = loadTable(dir, FileHQFeatures, func(g *Gear) string { return g.ID }); err != nil {
		return nil, err
	}
	if c.vehicleFeatures, err = loadTable(dir, FileVehicleFeatures, func(g *Gear) string { return g.ID }); err != nil {
		return nil, err
	}
	if c.archetypes, err = loadTable(dir, FileArchetypes, func(a *Archetype) string { return a.ID }); err != nil {
		return nil, err
	}
	if c.measurements, err = loadMeasurements(dir); err != nil {
		return nil, err
	}
	if err := c.checkReferences(dir); err != nil {
		return nil, err
	}
	return &c, nil
}

func decodeFile(dir, file string, out any) error {
	path := filepath.Join(dir, file)
	data, err := os.ReadFile(path)
	if err != nil {
		return &RuleLoadError{Table: file, Path: path, Err: err}
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("table is empty")
		}
		return &RuleLoadError{Table: file, Path: path, Err: err}
	}
	return nil
}

func loadTable[T any](dir, file string, id func(*T) string) (table[T], error) {
	var records []*T
	if err := decodeFile(dir, file, &records); err != nil {
		return table[T]{}, err
	}
	t := table[T]{order: make([]*T, 0, len(records)), byID: make(map[string]*T, len(records))}
	path := filepath.Join(dir, file)
	for i, r := range records {
		if r == nil {
			return table[T]{}, &RuleLoadError{Table: file, Path: path, Err: fmt.Errorf("record %d is null", i)}
		}
		key := id(r)
		if key == "" {
			return table[T]{}, &RuleLoadError{Table: file, Path: path, Err: fmt.Errorf("record %d has an empty id", i)}
		}
		if _, dup := t.byID[key]; dup {
			return table[T]{}, &RuleLoadError{Table: file, Path: path, Err: fmt.Errorf("duplicate id %q", key)}
		}
		t.byID[key] = r
		t.order = append(t.order, r)
	}
	return t, nil
}

func loadMeasurements(dir string) ([]MeasurementRow, error) {
	var rows []MeasurementRow
	if err := decodeFile(dir, FileMeasurements, &rows); err != nil {
		return nil, err
	}
	path := filepath.Join(dir, FileMeasurements)
	if len(rows) == 0 {
		return nil, &RuleLoadError{Table: FileMeasurements, Path: path, Err: errors.New("table has no rows")}
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Rank < rows[j].Rank })
	for i := 1; i < len(rows); i++ {
		if rows[i].Rank == rows[i-1].Rank {
			return nil, &RuleLoadError{Table: FileMeasurements, Path: path, Err: fmt.Errorf("duplicate rank %d", rows[i].Rank)}
		}
	}
	return rows, nil
}

// checkReferences normalizes effect shapes and rejects cross-table references
// the engine cannot degrade around.
func (c *Catalog) checkReferences(dir string) error {
	fail := func(file string, format string, args ...any) error {
		return &RuleLoadError{Table: file, Path: filepath.Join(dir, file), Err: fmt.Errorf(format, args...)}
	}
	for _, d := range c.defenses.order {
		if _, ok := c.abilities.get(d.Ability); !ok {
			return fail(FileDefenses, "defense %q references unknown ability %q", d.ID, d.Ability)
		}
	}
	for _, s := range c.skills.order {
		if _, ok := c.abilities.get(s.Ability); !ok {
			return fail(FileSkills, "skill %q references unknown ability %q", s.ID, s.Ability)
		}
	}
	for _, e := range c.effects.order {
		switch e.Shape {
		case "":
			e.Shape = ShapeStandard
		case ShapeStandard, ShapeSenses, ShapeImmunity, ShapeEnhancement, ShapeVariable, ShapeTransform, ShapeAlly:
		case ShapeFixedByRank:
			if len(e.FixedCosts) == 0 {
				return fail(FileEffects, "effect %q has shape %s but no fixed_costs", e.ID, e.Shape)
			}
		default:
			return fail(FileEffects, "effect %q has unknown shape %q", e.ID, e.Shape)
		}
	}
	for _, m := range c.modifiers.order {
		switch m.CostType {
		case CostPerRank, CostFlat, CostFlatPerRank:
		default:
			return fail(FileModifiers, "modifier %q has unknown cost_type %q", m.ID, m.CostType)
		}
	}
	for _, a := range c.advantages.order {
		if a.MaxRankAbility != "" {
			if _, ok := c.abilities.get(a.MaxRankAbility); !ok {
				return fail(FileAdvantages, "advantage %q caps rank by unknown ability %q", a.ID, a.MaxRankAbility)
			}
		}
	}
	for _, a := range c.archetypes.order {
		if a.PowerLevel <= 0 {
			return fail(FileArchetypes, "archetype %q must have a positive power_level", a.ID)
		}
	}
	return nil
}
