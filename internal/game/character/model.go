// Package character defines the character snapshot: the single mutable
// aggregate a user edits, plus the derived fields the engine recomputes on
// every pass.
package character

// DefaultPowerLevel is the power level used when a document omits one.
const DefaultPowerLevel = 10

// PointsPerPowerLevel is the fixed ratio of character points to power level.
const PointsPerPowerLevel = 15

// Snapshot is one character under construction.
//
// Everything under Derived, and the Computed block of each Power, is output
// only: the engine overwrites it wholesale on every recalculation.
type Snapshot struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Concept     string `yaml:"concept"`
	PowerLevel  int    `yaml:"power_level"`

	Abilities map[string]int `yaml:"abilities"`
	Defenses  map[string]int `yaml:"defenses"`
	Skills    map[string]int `yaml:"skills"`

	Advantages    []Advantage    `yaml:"advantages"`
	Powers        []Power        `yaml:"powers"`
	Equipment     []Equipment    `yaml:"equipment"`
	Headquarters  []Headquarters `yaml:"headquarters"`
	Vehicles      []Vehicle      `yaml:"vehicles"`
	Allies        []Ally         `yaml:"allies"`
	Complications []Complication `yaml:"complications"`

	Derived Derived `yaml:"derived"`
}

// New returns a zeroed snapshot at the given power level.
//
// Postcondition: all maps are non-nil and PointsTotal == powerLevel * 15.
func New(powerLevel int) *Snapshot {
	return &Snapshot{
		PowerLevel: powerLevel,
		Abilities:  make(map[string]int),
		Defenses:   make(map[string]int),
		Skills:     make(map[string]int),
		Derived: Derived{
			PointsTotal: powerLevel * PointsPerPowerLevel,
		},
	}
}

// Power returns a pointer to the power with the given instance id.
func (s *Snapshot) Power(id string) (*Power, bool) {
	for i := range s.Powers {
		if s.Powers[i].ID == id {
			return &s.Powers[i], true
		}
	}
	return nil, false
}

// Advantage is one purchased advantage.
type Advantage struct {
	InstanceID string `yaml:"instance_id"`
	ID         string `yaml:"id"`
	Rank       int    `yaml:"rank"`
	Params     Params `yaml:"params,omitempty"`
}

// TraitCategory names the kind of trait an enhancement targets.
type TraitCategory string

const (
	TraitAbility   TraitCategory = "ability"
	TraitDefense   TraitCategory = "defense"
	TraitSkill     TraitCategory = "skill"
	TraitAdvantage TraitCategory = "advantage"
	TraitPowerRank TraitCategory = "power"
)

// Enhancement points an enhancement power at the trait it adds ranks to.
// For TraitPowerRank, Target is another power's instance id.
type Enhancement struct {
	Category TraitCategory `yaml:"category"`
	Target   string        `yaml:"target"`
}

// AppliedModifier is an extra or flaw attached to a power.
type AppliedModifier struct {
	InstanceID string `yaml:"instance_id"`
	ID         string `yaml:"id"`
	Rank       int    `yaml:"rank,omitempty"`
	Params     Params `yaml:"params,omitempty"`
}

// VariableConfig is one saved configuration of a variable-pool power.
type VariableConfig struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Points      int    `yaml:"points"`
}

// Power is one power instance. Links to other powers (AlternateOf,
// Enhancement targets) are stored as instance ids, never as pointers.
type Power struct {
	ID          string            `yaml:"id"`
	Name        string            `yaml:"name"`
	EffectID    string            `yaml:"effect"`
	Rank        int               `yaml:"rank"`
	Descriptors string            `yaml:"descriptors,omitempty"`
	Modifiers   []AppliedModifier `yaml:"modifiers,omitempty"`

	Senses            []string         `yaml:"senses,omitempty"`
	Immunities        []string         `yaml:"immunities,omitempty"`
	Configurations    []VariableConfig `yaml:"configurations,omitempty"`
	AfflictionDegrees []string         `yaml:"affliction_degrees,omitempty"`
	Enhancement       *Enhancement     `yaml:"enhancement,omitempty"`
	Scope             string           `yaml:"scope,omitempty"`
	Settings          Params           `yaml:"settings,omitempty"`

	ArrayID     string `yaml:"array_id,omitempty"`
	ArrayBase   bool   `yaml:"array_base,omitempty"`
	AlternateOf string `yaml:"alternate_of,omitempty"`
	Dynamic     bool   `yaml:"dynamic,omitempty"`

	Computed PowerComputed `yaml:"computed"`
}

// PowerComputed is the cached output of the last recalculation for a power.
// It is never authoritative between passes.
type PowerComputed struct {
	Cost          int       `yaml:"cost"`
	CostPerRank   Rate      `yaml:"cost_per_rank"`
	Breakdown     Breakdown `yaml:"breakdown"`
	EffectiveRank int       `yaml:"effective_rank"`
	Action        string    `yaml:"action,omitempty"`
	Range         string    `yaml:"range,omitempty"`
	Duration      string    `yaml:"duration,omitempty"`
	Attack        bool      `yaml:"attack"`
	AttackType    string    `yaml:"attack_type,omitempty"`
	AttackBonus   int       `yaml:"attack_bonus,omitempty"`
	Resistance    *DC       `yaml:"resistance,omitempty"`
	Movement      string    `yaml:"movement,omitempty"`
}

// DC is a resistance check a power forces on its target.
type DC struct {
	Kind        string `yaml:"kind"`
	Value       int    `yaml:"value"`
	HalfOnDodge *int   `yaml:"half_on_dodge,omitempty"`
}

// Breakdown itemizes how a power's cost was reached.
type Breakdown struct {
	BaseCostPerRank  float64  `yaml:"base_cost_per_rank"`
	ModifierPerRank  float64  `yaml:"modifier_per_rank"`
	FinalCostPerRank float64  `yaml:"final_cost_per_rank"`
	RankedCost       float64  `yaml:"ranked_cost"`
	FlatCost         float64  `yaml:"flat_cost"`
	ItemCost         float64  `yaml:"item_cost,omitempty"`
	Removable        string   `yaml:"removable,omitempty"`
	RemovableSavings int      `yaml:"removable_savings,omitempty"`
	CycleDetected    bool     `yaml:"cycle_detected,omitempty"`
	Unknown          []string `yaml:"unknown,omitempty"`
}

// Equipment is one piece of gear paid for with equipment points. Cost is the
// asserted cost used when CatalogID does not resolve.
type Equipment struct {
	InstanceID string `yaml:"instance_id"`
	CatalogID  string `yaml:"catalog_id,omitempty"`
	Name       string `yaml:"name"`
	Ranks      int    `yaml:"ranks,omitempty"`
	Cost       int    `yaml:"cost,omitempty"`
}

// Headquarters is a base bought with equipment points. Size and Toughness are
// ranks purchased above the baseline.
type Headquarters struct {
	InstanceID string   `yaml:"instance_id"`
	Name       string   `yaml:"name"`
	Size       int      `yaml:"size"`
	Toughness  int      `yaml:"toughness"`
	Features   []string `yaml:"features,omitempty"`
}

// Vehicle is a vehicle bought with equipment points. Trait values are ranks
// purchased above the baseline.
type Vehicle struct {
	InstanceID string   `yaml:"instance_id"`
	Name       string   `yaml:"name"`
	Size       int      `yaml:"size"`
	Strength   int      `yaml:"strength"`
	Speed      int      `yaml:"speed"`
	Defense    int      `yaml:"defense"`
	Toughness  int      `yaml:"toughness"`
	Features   []string `yaml:"features,omitempty"`
}

// Ally is a minion, sidekick, or summoned creature drawing on an ally pool.
type Ally struct {
	InstanceID string `yaml:"instance_id"`
	Name       string `yaml:"name"`
	Pool       string `yaml:"pool"`
	PowerLevel int    `yaml:"power_level,omitempty"`
	Cost       int    `yaml:"cost"`
}

// Complication is a narrative drawback.
type Complication struct {
	InstanceID  string `yaml:"instance_id"`
	Type        string `yaml:"type"`
	Description string `yaml:"description"`
}

// Pool is an available-versus-spent point pool.
type Pool struct {
	Total int `yaml:"total"`
	Spent int `yaml:"spent"`
}

// ArraySummary records how one power array was charged.
type ArraySummary struct {
	ID         string   `yaml:"id"`
	Base       string   `yaml:"base,omitempty"`
	Dynamic    bool     `yaml:"dynamic,omitempty"`
	Total      int      `yaml:"total"`
	Alternates []string `yaml:"alternates,omitempty"`
	Orphans    []string `yaml:"orphans,omitempty"`
}

// Derived holds every output-only field of a snapshot.
type Derived struct {
	PointsTotal     int `yaml:"points_total"`
	PointsSpent     int `yaml:"points_spent"`
	AbilityPoints   int `yaml:"ability_points"`
	DefensePoints   int `yaml:"defense_points"`
	SkillPoints     int `yaml:"skill_points"`
	AdvantagePoints int `yaml:"advantage_points"`
	PowerPoints     int `yaml:"power_points"`

	Initiative       int `yaml:"initiative"`
	DefensiveRoll    int `yaml:"defensive_roll"`
	LanguagesGranted int `yaml:"languages_granted"`
	LanguagesKnown   int `yaml:"languages_known"`

	EquipmentPointsTotal int             `yaml:"equipment_points_total"`
	EquipmentPointsSpent int             `yaml:"equipment_points_spent"`
	AllyPools            map[string]Pool `yaml:"ally_pools,omitempty"`

	Abilities  map[string]int `yaml:"abilities,omitempty"`
	Defenses   map[string]int `yaml:"defenses,omitempty"`
	Skills     map[string]int `yaml:"skills,omitempty"`
	Advantages map[string]int `yaml:"advantages,omitempty"`
	Lifting    string         `yaml:"lifting,omitempty"`
	Arrays     []ArraySummary `yaml:"arrays,omitempty"`

	Errors []string `yaml:"errors"`
}
