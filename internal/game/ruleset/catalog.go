// Package ruleset defines the immutable rule catalog: every reference table the
// cost engine, derived calculator, and validator read from.
package ruleset

import "strings"

// Ability defines one of the primary character abilities.
type Ability struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Abbrev      string `yaml:"abbrev"`
	Description string `yaml:"description"`
}

// Defense defines a defense and the ability that governs its base value.
type Defense struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Ability     string `yaml:"ability"`
	Description string `yaml:"description"`
}

// Skill defines a skill. Specialized skills accept compound identifiers of the
// form base_id + "_" + specialization.
type Skill struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Ability     string `yaml:"ability"`
	Specialized bool   `yaml:"specialized"`
	Untrained   bool   `yaml:"untrained"`
	Description string `yaml:"description"`
}

// AdvantageKind marks advantages that feed a derived attribute.
type AdvantageKind string

const (
	// AdvantageGeneral has no derived-attribute effect.
	AdvantageGeneral AdvantageKind = ""
	// AdvantageInitiative adds PerRank to initiative per rank.
	AdvantageInitiative AdvantageKind = "initiative"
	// AdvantageDefensiveRoll adds its rank, capped by CapAbility, to Defense.
	AdvantageDefensiveRoll AdvantageKind = "defensive_roll"
	// AdvantageLanguages grants PerRank languages per rank.
	AdvantageLanguages AdvantageKind = "languages"
	// AdvantageEquipment grants PerRank equipment points per rank.
	AdvantageEquipment AdvantageKind = "equipment"
	// AdvantageAllyPool grants PerRank points per rank to AllyPool.
	AdvantageAllyPool AdvantageKind = "ally_pool"
)

// Advantage defines a purchasable advantage.
//
// MaxRank of 0 means no explicit cap; MaxRankAbility, when set, caps the rank
// at that ability's rank instead.
type Advantage struct {
	ID             string        `yaml:"id"`
	Name           string        `yaml:"name"`
	Type           string        `yaml:"type"`
	Ranked         bool          `yaml:"ranked"`
	MaxRank        int           `yaml:"max_rank"`
	MaxRankAbility string        `yaml:"max_rank_ability"`
	CostPerRank    float64       `yaml:"cost_per_rank"`
	Kind           AdvantageKind `yaml:"kind"`
	PerRank        int           `yaml:"per_rank"`
	CapAbility     string        `yaml:"cap_ability"`
	Defense        string        `yaml:"defense"`
	AllyPool       string        `yaml:"ally_pool"`
	Params         []ParamSpec   `yaml:"params"`
	Description    string        `yaml:"description"`
}

// Cost returns the per-rank cost, defaulting to 1 when the table leaves it unset.
func (a *Advantage) Cost() float64 {
	if a.CostPerRank <= 0 {
		return 1
	}
	return a.CostPerRank
}

// EffectShape selects how a power built on an effect is costed.
type EffectShape string

const (
	ShapeStandard    EffectShape = "standard"
	ShapeSenses      EffectShape = "senses"
	ShapeImmunity    EffectShape = "immunity"
	ShapeFixedByRank EffectShape = "fixed_by_rank"
	ShapeEnhancement EffectShape = "enhancement"
	ShapeVariable    EffectShape = "variable"
	ShapeTransform   EffectShape = "transform"
	ShapeAlly        EffectShape = "ally"
)

// IsContainer reports whether the shape is a bundle or pool whose total is not
// clamped to a one point minimum.
func (s EffectShape) IsContainer() bool {
	switch s {
	case ShapeSenses, ShapeImmunity, ShapeVariable, ShapeAlly:
		return true
	}
	return false
}

// IgnoresRank reports whether rank carries no costing meaning for the shape.
func (s EffectShape) IgnoresRank() bool {
	return s == ShapeSenses || s == ShapeImmunity
}

// Scope is one selectable cost scope of a transform-style effect.
type Scope struct {
	ID          string  `yaml:"id"`
	Name        string  `yaml:"name"`
	CostPerRank float64 `yaml:"cost_per_rank"`
}

// Effect is the base template a power is built from.
type Effect struct {
	ID                  string      `yaml:"id"`
	Name                string      `yaml:"name"`
	Type                string      `yaml:"type"`
	CostPerRank         float64     `yaml:"cost_per_rank"`
	Shape               EffectShape `yaml:"shape"`
	Action              string      `yaml:"action"`
	Range               string      `yaml:"range"`
	Duration            string      `yaml:"duration"`
	Attack              bool        `yaml:"attack"`
	Resistance          string      `yaml:"resistance"`
	ResistanceBase      int         `yaml:"resistance_base"`
	DefenseBonus        string      `yaml:"defense_bonus"`
	FixedCosts          []int       `yaml:"fixed_costs"`
	Scopes              []Scope     `yaml:"scopes"`
	DefaultScope        string      `yaml:"default_scope"`
	VariableCostPerRank float64     `yaml:"variable_cost_per_rank"`
	AllyPool            string      `yaml:"ally_pool"`
	AllyPointsPerRank   int         `yaml:"ally_points_per_rank"`
	Movement            bool        `yaml:"movement"`
	MovementOffset      int         `yaml:"movement_offset"`
	Degrees             int         `yaml:"degrees"`
	Params              []ParamSpec `yaml:"params"`
	Description         string      `yaml:"description"`
}

// Scope returns the scope with the given id, falling back to DefaultScope and
// then to the first listed scope.
//
// Postcondition: ok is false only when the effect lists no scopes.
func (e *Effect) Scope(id string) (Scope, bool) {
	if len(e.Scopes) == 0 {
		return Scope{}, false
	}
	for _, want := range []string{id, e.DefaultScope} {
		if want == "" {
			continue
		}
		for _, s := range e.Scopes {
			if s.ID == want {
				return s, true
			}
		}
	}
	return e.Scopes[0], true
}

// ModifierCostType selects how a modifier's cost is folded into a power.
type ModifierCostType string

const (
	CostPerRank     ModifierCostType = "per_rank"
	CostFlat        ModifierCostType = "flat"
	CostFlatPerRank ModifierCostType = "flat_per_rank"
)

// Removable marks a flaw that discounts the whole power rather than its rate.
type Removable string

const (
	NotRemovable      Removable = ""
	RemovableStandard Removable = "standard"
	RemovableEasily   Removable = "easily"
)

// Factor is the number of points discounted per five points of cost.
func (r Removable) Factor() int {
	switch r {
	case RemovableStandard:
		return 1
	case RemovableEasily:
		return 2
	}
	return 0
}

// Modifier is an extra or flaw applied to a power. Cost is signed: flaws carry
// negative costs.
type Modifier struct {
	ID                 string           `yaml:"id"`
	Name               string           `yaml:"name"`
	Kind               string           `yaml:"kind"`
	CostType           ModifierCostType `yaml:"cost_type"`
	Cost               float64          `yaml:"cost"`
	Ranked             bool             `yaml:"ranked"`
	MaxRank            int              `yaml:"max_rank"`
	Removable          Removable        `yaml:"removable"`
	Area               bool             `yaml:"area"`
	SetsRange          string           `yaml:"sets_range"`
	SetsAction         string           `yaml:"sets_action"`
	SetsDuration       string           `yaml:"sets_duration"`
	SetsResistance     string           `yaml:"sets_resistance"`
	AttackBonusPerRank int              `yaml:"attack_bonus_per_rank"`
	Params             []ParamSpec      `yaml:"params"`
	Description        string           `yaml:"description"`
}

// Item is a flat-cost entry in the senses or immunities catalog.
type Item struct {
	ID          string  `yaml:"id"`
	Name        string  `yaml:"name"`
	Cost        float64 `yaml:"cost"`
	Description string  `yaml:"description"`
}

// Gear is an equipment, headquarters feature, or vehicle feature costed in
// equipment points.
type Gear struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Category    string `yaml:"category"`
	Cost        int    `yaml:"cost"`
	Ranked      bool   `yaml:"ranked"`
	Description string `yaml:"description"`
}

// Catalog holds every rule table indexed by id. It is built once by LoadCatalog
// and never mutated afterwards, so it may be shared across goroutines.
type Catalog struct {
	abilities       table[Ability]
	defenses        table[Defense]
	skills          table[Skill]
	advantages      table[Advantage]
	effects         table[Effect]
	modifiers       table[Modifier]
	senses          table[Item]
	immunities      table[Item]
	equipment       table[Gear]
	hqFeatures      table[Gear]
	vehicleFeatures table[Gear]
	archetypes      table[Archetype]
	measurements    []MeasurementRow
}

// table is an ordered, id-indexed sequence of records.
type table[T any] struct {
	order []*T
	byID  map[string]*T
}

func (t table[T]) get(id string) (*T, bool) {
	v, ok := t.byID[id]
	return v, ok
}

func (t table[T]) all() []*T {
	out := make([]*T, len(t.order))
	copy(out, t.order)
	return out
}

// Ability returns the ability with the given id.
func (c *Catalog) Ability(id string) (*Ability, bool) { return c.abilities.get(id) }

// Abilities returns all abilities in table order.
func (c *Catalog) Abilities() []*Ability { return c.abilities.all() }

// Defense returns the defense with the given id.
func (c *Catalog) Defense(id string) (*Defense, bool) { return c.defenses.get(id) }

// Defenses returns all defenses in table order.
func (c *Catalog) Defenses() []*Defense { return c.defenses.all() }

// Advantage returns the advantage with the given id.
func (c *Catalog) Advantage(id string) (*Advantage, bool) { return c.advantages.get(id) }

// Effect returns the effect with the given id.
func (c *Catalog) Effect(id string) (*Effect, bool) { return c.effects.get(id) }

// Modifier returns the modifier with the given id.
func (c *Catalog) Modifier(id string) (*Modifier, bool) { return c.modifiers.get(id) }

// Sense returns the sense with the given id.
func (c *Catalog) Sense(id string) (*Item, bool) { return c.senses.get(id) }

// Immunity returns the immunity with the given id.
func (c *Catalog) Immunity(id string) (*Item, bool) { return c.immunities.get(id) }

// Equipment returns the equipment entry with the given id.
func (c *Catalog) Equipment(id string) (*Gear, bool) { return c.equipment.get(id) }

// HQFeature returns the headquarters feature with the given id.
func (c *Catalog) HQFeature(id string) (*Gear, bool) { return c.hqFeatures.get(id) }

// VehicleFeature returns the vehicle feature with the given id.
func (c *Catalog) VehicleFeature(id string) (*Gear, bool) { return c.vehicleFeatures.get(id) }

// Archetype returns the archetype template with the given id.
func (c *Catalog) Archetype(id string) (*Archetype, bool) { return c.archetypes.get(id) }

// Archetypes returns all archetype templates in table order.
func (c *Catalog) Archetypes() []*Archetype { return c.archetypes.all() }

// Measurements returns the progression table sorted by ascending rank.
func (c *Catalog) Measurements() []MeasurementRow {
	out := make([]MeasurementRow, len(c.measurements))
	copy(out, c.measurements)
	return out
}

// Skill resolves a base or specialized compound skill id. For a compound id it
// returns the base skill and the specialization text.
//
// Postcondition: ok is false when no base skill matches; a compound id only
// matches a skill marked Specialized.
func (c *Catalog) Skill(id string) (skill *Skill, specialization string, ok bool) {
	if s, found := c.skills.get(id); found {
		return s, "", true
	}
	// Longest base prefix wins so "close_combat_unarmed" matches close_combat.
	var best *Skill
	for _, s := range c.skills.order {
		if !s.Specialized || !strings.HasPrefix(id, s.ID+"_") {
			continue
		}
		if best == nil || len(s.ID) > len(best.ID) {
			best = s
		}
	}
	if best == nil {
		return nil, "", false
	}
	return best, strings.TrimPrefix(id, best.ID+"_"), true
}

// Skills returns all base skills in table order.
func (c *Catalog) Skills() []*Skill { return c.skills.all() }
