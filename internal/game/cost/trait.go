// Package cost prices traits and powers and resolves power arrays.
package cost

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/herocalc/internal/game/character"
	"github.com/cory-johannsen/herocalc/internal/game/ruleset"
)

// Fixed per-rank prices of the primitive trait categories.
const (
	AbilityCostPerRank = 2.0
	DefenseCostPerRank = 1.0
	SkillCostPerRank   = 0.5
)

// DefaultVariableCostPerRank is the pool price of a variable power when
// neither the effect nor the calculator overrides it.
const DefaultVariableCostPerRank = 7.0

// fallbackRate is used whenever a rate cannot be determined numerically.
const fallbackRate = 1.0

// Index is the arena of a character's powers keyed by instance id.
type Index map[string]*character.Power

// NewIndex indexes powers by id. Later duplicates of an id are ignored.
//
// Postcondition: every value points into powers.
func NewIndex(powers []character.Power) Index {
	idx := make(Index, len(powers))
	for i := range powers {
		if _, dup := idx[powers[i].ID]; !dup {
			idx[powers[i].ID] = &powers[i]
		}
	}
	return idx
}

// Guard is the set of power ids on the current enhancement descent. It is
// seeded fresh for each top-level power costing and only grows during it.
type Guard map[string]struct{}

// NewGuard returns an empty guard.
func NewGuard() Guard { return make(Guard) }

func (g Guard) has(id string) bool {
	_, ok := g[id]
	return ok
}

// Calculator prices traits and powers against a catalog.
type Calculator struct {
	cat          *ruleset.Catalog
	variableRate float64
	logger       *zap.Logger
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithVariableCostPerRank overrides DefaultVariableCostPerRank.
func WithVariableCostPerRank(v float64) Option {
	return func(c *Calculator) {
		if v > 0 {
			c.variableRate = v
		}
	}
}

// WithLogger attaches a logger for degraded lookups.
func WithLogger(l *zap.Logger) Option {
	return func(c *Calculator) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewCalculator returns a Calculator reading cat.
//
// Precondition: cat must be non-nil.
func NewCalculator(cat *ruleset.Catalog, opts ...Option) *Calculator {
	c := &Calculator{cat: cat, variableRate: DefaultVariableCostPerRank, logger: zap.NewNop()}
	for _, o := range opts {
		o(c)
	}
	return c
}

// TraitCostPerRank returns the price of one rank of the given trait. For
// TraitPowerRank the target power is costed recursively; a target already on
// the guard's descent short-circuits to 1 and reports the cycle.
//
// Postcondition: the returned rate is always > 0.
func (c *Calculator) TraitCostPerRank(category character.TraitCategory, traitID string, powers Index, guard Guard) (rate float64, cycle bool) {
	switch category {
	case character.TraitAbility:
		return AbilityCostPerRank, false
	case character.TraitDefense:
		return DefenseCostPerRank, false
	case character.TraitSkill:
		return SkillCostPerRank, false
	case character.TraitAdvantage:
		if a, ok := c.cat.Advantage(traitID); ok {
			return a.Cost(), false
		}
		return fallbackRate, false
	case character.TraitPowerRank:
		if guard.has(traitID) {
			c.logger.Debug("enhancement cycle", zap.String("power", traitID))
			return fallbackRate, true
		}
		target, ok := powers[traitID]
		if !ok {
			return fallbackRate, false
		}
		res := c.PowerCost(target, powers, guard)
		cycle := res.Breakdown.CycleDetected
		if !res.Rate.Numeric() || res.Rate.Value <= 0 {
			return fallbackRate, cycle
		}
		return res.Rate.Value, cycle
	}
	return fallbackRate, false
}
