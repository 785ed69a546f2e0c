package cost

import (
	"math"

	"go.uber.org/zap"

	"github.com/cory-johannsen/herocalc/internal/game/character"
	"github.com/cory-johannsen/herocalc/internal/game/ruleset"
)

// epsilon absorbs float noise from summing fractional modifier costs so that
// 2.0000000001 does not round up to 3.
const epsilon = 1e-9

func ceil(x float64) float64  { return math.Ceil(x - epsilon) }
func floor(x float64) float64 { return math.Floor(x + epsilon) }

// Result is the valuation of one power.
type Result struct {
	Total     int
	Rate      character.Rate
	Breakdown character.Breakdown
}

type folded struct {
	perRank   float64
	flat      float64
	removable ruleset.Removable
	unknown   []string
}

// PowerCost values p. A nil guard is replaced with a fresh one; p's id is
// added to the guard before any enhancement target is descended into.
//
// Postcondition: Total >= 0; Total >= 1 when p.Rank > 0 and the effect is not
// a container shape. Unknown effects cost 0 with an "unknown" rate.
func (c *Calculator) PowerCost(p *character.Power, powers Index, guard Guard) Result {
	if guard == nil {
		guard = NewGuard()
	}
	guard[p.ID] = struct{}{}

	eff, ok := c.cat.Effect(p.EffectID)
	if !ok {
		c.logger.Warn("power references unknown effect",
			zap.String("power", p.ID),
			zap.String("effect", p.EffectID),
		)
		return Result{
			Rate:      character.TaggedRate(character.RateUnknown),
			Breakdown: character.Breakdown{Unknown: []string{"effect:" + p.EffectID}},
		}
	}

	mods := c.foldModifiers(p)
	b := character.Breakdown{
		ModifierPerRank: mods.perRank,
		FlatCost:        mods.flat,
		Removable:       string(mods.removable),
		Unknown:         mods.unknown,
	}

	switch {
	case eff.Shape == ruleset.ShapeSenses:
		return c.packageCost(p.Senses, c.cat.Sense, "sense:", mods, b)
	case eff.Shape == ruleset.ShapeImmunity:
		return c.packageCost(p.Immunities, c.cat.Immunity, "immunity:", mods, b)
	case eff.Shape == ruleset.ShapeFixedByRank:
		base := fixedCost(eff.FixedCosts, p.Rank)
		b.BaseCostPerRank = float64(base)
		b.RankedCost = float64(base) + mods.perRank*float64(p.Rank)
		total := clamp(int(ceil(b.RankedCost+mods.flat)), p.Rank, eff.Shape)
		return Result{Total: total, Rate: character.TaggedRate(character.RateFixed), Breakdown: b}
	}

	base := c.baseRate(p, eff, powers, guard, &b)
	rate := base + mods.perRank
	b.BaseCostPerRank = base
	b.FinalCostPerRank = rate

	if p.Rank <= 0 {
		total := int(ceil(mods.flat))
		if total < 0 {
			total = 0
		}
		return Result{Total: total, Rate: character.NumericRate(rate), Breakdown: b}
	}

	b.RankedCost = rankedCost(rate, p.Rank)
	total := b.RankedCost + mods.flat
	if factor := mods.removable.Factor(); factor > 0 {
		pre := math.Max(1, ceil(total))
		savings := int(floor(pre/5)) * factor
		b.RemovableSavings = savings
		total = pre - float64(savings)
	}
	return Result{
		Total:     clamp(int(ceil(total)), p.Rank, eff.Shape),
		Rate:      character.NumericRate(rate),
		Breakdown: b,
	}
}

func clamp(total, rank int, shape ruleset.EffectShape) int {
	least := 0
	if rank > 0 && !shape.IsContainer() {
		least = 1
	}
	if total < least {
		return least
	}
	return total
}

// rankedCost applies rate to rank before flat costs. Rates below 1 buy ranks
// in blocks: 1/2 is one point per two ranks. Rates of zero or less follow the
// rulebook progression 0 -> 1 per 2, -1 -> 1 per 3, and so on.
func rankedCost(rate float64, rank int) float64 {
	r := float64(rank)
	var ranksPerPoint float64
	switch {
	case rate >= 1-epsilon:
		return rate * r
	case rate > epsilon:
		ranksPerPoint = ceil(1 / rate)
	default:
		ranksPerPoint = ceil(2 - rate)
	}
	return ceil(r / ranksPerPoint)
}

func fixedCost(costs []int, rank int) int {
	switch {
	case rank <= 0 || len(costs) == 0:
		return 0
	case rank > len(costs):
		return costs[len(costs)-1]
	}
	return costs[rank-1]
}

func (c *Calculator) packageCost(ids []string, lookup func(string) (*ruleset.Item, bool), prefix string, mods folded, b character.Breakdown) Result {
	var items float64
	for _, id := range ids {
		it, ok := lookup(id)
		if !ok {
			b.Unknown = append(b.Unknown, prefix+id)
			continue
		}
		items += it.Cost
	}
	b.ItemCost = items
	total := int(ceil(items + mods.flat))
	if total < 0 {
		total = 0
	}
	return Result{Total: total, Rate: character.TaggedRate(character.RatePackage), Breakdown: b}
}

func (c *Calculator) baseRate(p *character.Power, eff *ruleset.Effect, powers Index, guard Guard, b *character.Breakdown) float64 {
	switch eff.Shape {
	case ruleset.ShapeEnhancement:
		if p.Enhancement == nil || p.Enhancement.Target == "" {
			if eff.CostPerRank > 0 {
				return eff.CostPerRank
			}
			return fallbackRate
		}
		rate, cycle := c.TraitCostPerRank(p.Enhancement.Category, p.Enhancement.Target, powers, guard)
		if cycle {
			b.CycleDetected = true
		}
		return rate
	case ruleset.ShapeVariable:
		if eff.VariableCostPerRank > 0 {
			return eff.VariableCostPerRank
		}
		return c.variableRate
	case ruleset.ShapeTransform:
		if s, ok := eff.Scope(p.Scope); ok {
			return s.CostPerRank
		}
	}
	return eff.CostPerRank
}

func (c *Calculator) foldModifiers(p *character.Power) folded {
	var f folded
	for _, m := range p.Modifiers {
		def, ok := c.cat.Modifier(m.ID)
		if !ok {
			f.unknown = append(f.unknown, "modifier:"+m.ID)
			continue
		}
		if def.Removable != ruleset.NotRemovable {
			if def.Removable.Factor() > f.removable.Factor() {
				f.removable = def.Removable
			}
			continue
		}
		amount := def.Cost + OptionDelta(def.Params, m.Params)
		ranks := 1.0
		if def.Ranked && m.Rank > 1 {
			ranks = float64(m.Rank)
		}
		switch def.CostType {
		case ruleset.CostPerRank:
			f.perRank += amount * ranks
		case ruleset.CostFlat:
			f.flat += amount
		case ruleset.CostFlatPerRank:
			f.flat += amount * ranks
		}
	}
	return f
}

// OptionDelta sums the cost adjustments of every enumerated option chosen in
// values.
func OptionDelta(specs []ruleset.ParamSpec, values character.Params) float64 {
	var delta float64
	for _, spec := range specs {
		if !spec.Enumerated() {
			continue
		}
		v, ok := values.String(spec.Name)
		if !ok {
			continue
		}
		if o, ok := spec.Option(v); ok {
			delta += o.CostDelta
		}
	}
	return delta
}
