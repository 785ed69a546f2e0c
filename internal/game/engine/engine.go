// Package engine is the recalculation orchestrator: the single entry point
// that refreshes every cost, derived attribute, and validation message of a
// character snapshot in dependency order.
package engine

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/cory-johannsen/herocalc/internal/game/character"
	"github.com/cory-johannsen/herocalc/internal/game/cost"
	"github.com/cory-johannsen/herocalc/internal/game/derived"
	"github.com/cory-johannsen/herocalc/internal/game/measure"
	"github.com/cory-johannsen/herocalc/internal/game/ruleset"
	"github.com/cory-johannsen/herocalc/internal/game/validate"
)

// Engine recalculates snapshots against one catalog. It holds no per-snapshot
// state, so one Engine may serve concurrent recalculations of distinct
// snapshots.
type Engine struct {
	cat       *ruleset.Catalog
	calc      *cost.Calculator
	resolver  *measure.Resolver
	ids       character.IDGenerator
	logger    *zap.Logger
	variable  float64
	threshold float64
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine's logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithIDGenerator sets the instance id source. The default generates UUIDs.
func WithIDGenerator(g character.IDGenerator) Option {
	return func(e *Engine) {
		if g != nil {
			e.ids = g
		}
	}
}

// WithVariableCostPerRank overrides the default pool price of variable powers.
func WithVariableCostPerRank(v float64) Option {
	return func(e *Engine) { e.variable = v }
}

// WithMeasurementThreshold overrides the multiplicative-growth threshold used
// when extrapolating past the measurement table.
func WithMeasurementThreshold(t float64) Option {
	return func(e *Engine) { e.threshold = t }
}

// New returns an Engine over cat.
//
// Precondition: cat must be non-nil and fully loaded.
func New(cat *ruleset.Catalog, opts ...Option) *Engine {
	e := &Engine{
		cat:       cat,
		ids:       character.UUIDGenerator{},
		logger:    zap.NewNop(),
		variable:  cost.DefaultVariableCostPerRank,
		threshold: measure.DefaultThreshold,
	}
	for _, o := range opts {
		o(e)
	}
	e.calc = cost.NewCalculator(cat,
		cost.WithVariableCostPerRank(e.variable),
		cost.WithLogger(e.logger.Named("cost")),
	)
	e.resolver = measure.NewResolver(cat.Measurements(), measure.WithThreshold(e.threshold))
	return e
}

// Catalog returns the catalog the engine reads.
func (e *Engine) Catalog() *ruleset.Catalog { return e.cat }

// NewCharacter returns a recalculated blank character at powerLevel with every
// catalog ability and defense present at rank 0.
//
// Postcondition: Derived.PointsTotal == powerLevel * 15.
func (e *Engine) NewCharacter(powerLevel int) *character.Snapshot {
	s := character.New(powerLevel)
	for _, a := range e.cat.Abilities() {
		s.Abilities[a.ID] = 0
	}
	for _, d := range e.cat.Defenses() {
		s.Defenses[d.ID] = 0
	}
	return e.Recalculate(s)
}

// FromArchetype instantiates the archetype with the given id as a new,
// recalculated character with freshly generated instance ids.
func (e *Engine) FromArchetype(id string) (*character.Snapshot, error) {
	a, ok := e.cat.Archetype(id)
	if !ok {
		return nil, fmt.Errorf("archetype %q not found", id)
	}
	s := a.Snapshot()
	s.ReassignIDs(e.ids)
	return e.Recalculate(s), nil
}

// Measure resolves a rank on the measurement table.
func (e *Engine) Measure(rank int, kind string) measure.Result {
	return e.resolver.Lookup(rank, kind)
}

// Recalculate returns a copy of s with every derived field recomputed. s is
// never modified; callers must use the returned snapshot.
//
// Postcondition: Recalculate(Recalculate(s)) equals Recalculate(s);
// Derived.Errors is non-nil.
func (e *Engine) Recalculate(s *character.Snapshot) *character.Snapshot {
	var out *character.Snapshot
	if s == nil {
		out = character.New(character.DefaultPowerLevel)
	} else {
		out = s.Clone()
	}
	e.normalize(out)

	sheet := derived.NewSheet(e.cat, out)
	idx := cost.NewIndex(out.Powers)
	costs := make(map[string]int, len(out.Powers))
	for i := range out.Powers {
		p := &out.Powers[i]
		res := e.calc.PowerCost(p, idx, cost.NewGuard())
		if _, dup := costs[p.ID]; !dup {
			costs[p.ID] = res.Total
		}
		p.Computed = e.annotate(sheet, p, res)
	}
	arrays := cost.ResolveArrays(out.Powers, costs)

	d := character.Derived{
		PointsTotal:     out.PowerLevel * character.PointsPerPowerLevel,
		AbilityPoints:   e.abilityPoints(out),
		DefensePoints:   e.defensePoints(out),
		SkillPoints:     e.skillPoints(out),
		AdvantagePoints: e.advantagePoints(out),
		PowerPoints:     arrays.Total,
	}
	d.PointsSpent = d.AbilityPoints + d.DefensePoints + d.SkillPoints + d.AdvantagePoints + d.PowerPoints
	sheet.Fill(&d, e.resolver)
	for _, a := range arrays.Arrays {
		d.Arrays = append(d.Arrays, a.Summary())
	}
	out.Derived = d
	out.Derived.Errors = validate.Validate(e.cat, out)

	e.logger.Debug("recalculated character",
		zap.String("name", out.Name),
		zap.Int("power_level", out.PowerLevel),
		zap.Int("points_spent", d.PointsSpent),
		zap.Int("points_total", d.PointsTotal),
		zap.Int("powers", len(out.Powers)),
		zap.Int("arrays", len(d.Arrays)),
		zap.Int("errors", len(out.Derived.Errors)),
	)
	return out
}

// normalize repairs the input fields a pass depends on: nil maps, missing
// or duplicate instance ids, unranked advantages listed without a rank, and
// ranks on shapes that ignore them.
func (e *Engine) normalize(s *character.Snapshot) {
	if s.PowerLevel <= 0 {
		s.PowerLevel = character.DefaultPowerLevel
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
	s.AssignMissingIDs(e.ids)
	for i := range s.Advantages {
		a := &s.Advantages[i]
		if def, ok := e.cat.Advantage(a.ID); ok && !def.Ranked && a.Rank < 1 {
			a.Rank = 1
		}
	}
	for i := range s.Powers {
		if eff, ok := e.cat.Effect(s.Powers[i].EffectID); ok && eff.Shape.IgnoresRank() {
			s.Powers[i].Rank = 0
		}
	}
}

func (e *Engine) annotate(sheet *derived.Sheet, p *character.Power, res cost.Result) character.PowerComputed {
	pr := sheet.Profile(p)
	return character.PowerComputed{
		Cost:          res.Total,
		CostPerRank:   res.Rate,
		Breakdown:     res.Breakdown,
		EffectiveRank: sheet.PowerRank(p.ID),
		Action:        pr.Action,
		Range:         pr.Range,
		Duration:      pr.Duration,
		Attack:        pr.Attack,
		AttackType:    pr.AttackType,
		AttackBonus:   sheet.AttackBonus(p),
		Resistance:    sheet.ResistanceDC(p),
		Movement:      sheet.Movement(p, e.resolver),
	}
}

func (e *Engine) abilityPoints(s *character.Snapshot) int {
	total := 0
	for _, r := range s.Abilities {
		total += r
	}
	return int(cost.AbilityCostPerRank) * total
}

func (e *Engine) defensePoints(s *character.Snapshot) int {
	total := 0
	for _, r := range s.Defenses {
		total += r
	}
	return int(cost.DefenseCostPerRank) * total
}

// skillPoints charges half a point per bought rank, rounded up on the total.
func (e *Engine) skillPoints(s *character.Snapshot) int {
	ranks := 0
	for _, r := range s.Skills {
		ranks += r
	}
	return int(math.Ceil(float64(ranks) * cost.SkillCostPerRank))
}

func (e *Engine) advantagePoints(s *character.Snapshot) int {
	var total float64
	for _, a := range s.Advantages {
		rate := 1.0
		if def, ok := e.cat.Advantage(a.ID); ok {
			rate = def.Cost()
		}
		total += float64(a.Rank) * rate
	}
	return int(math.Ceil(total))
}
