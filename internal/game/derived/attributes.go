package derived

import (
	"fmt"
	"sort"

	"github.com/cory-johannsen/herocalc/internal/game/character"
	"github.com/cory-johannsen/herocalc/internal/game/measure"
	"github.com/cory-johannsen/herocalc/internal/game/ruleset"
)

// hqFeatureFallbackCost is charged for features missing from the catalog.
const hqFeatureFallbackCost = 1

// Languages returns how many languages the character's advantages grant and
// how many the user has listed.
func (sh *Sheet) Languages() (granted, known int) {
	for _, a := range sh.s.Advantages {
		def, ok := sh.cat.Advantage(a.ID)
		if !ok || def.Kind != ruleset.AdvantageLanguages {
			continue
		}
		granted += a.Rank * def.PerRank
		known += len(LanguageList(def, a))
	}
	return granted, known
}

// LanguageList returns the languages listed on a language advantage: the value
// of its first list-kind parameter.
func LanguageList(def *ruleset.Advantage, a character.Advantage) []string {
	for _, spec := range def.Params {
		if spec.Kind == character.ParamList {
			l, _ := a.Params.List(spec.Name)
			return l
		}
	}
	return nil
}

// EquipmentPoints returns equipment points available from advantages and
// spent on equipment, headquarters, and vehicles.
func (sh *Sheet) EquipmentPoints() (total, spent int) {
	for _, def := range sh.advantageDefs(ruleset.AdvantageEquipment) {
		total += sh.Advantage(def.ID) * def.PerRank
	}
	for _, e := range sh.s.Equipment {
		spent += sh.equipmentCost(e)
	}
	for _, h := range sh.s.Headquarters {
		spent += max(h.Size, 0) + max(h.Toughness, 0)
		spent += sh.featureCost(h.Features, sh.cat.HQFeature)
	}
	for _, v := range sh.s.Vehicles {
		for _, r := range []int{v.Size, v.Strength, v.Speed, v.Defense, v.Toughness} {
			spent += max(r, 0)
		}
		spent += sh.featureCost(v.Features, sh.cat.VehicleFeature)
	}
	return total, spent
}

func (sh *Sheet) equipmentCost(e character.Equipment) int {
	g, ok := sh.cat.Equipment(e.CatalogID)
	if !ok {
		return max(e.Cost, 0)
	}
	if g.Ranked {
		return g.Cost * max(e.Ranks, 1)
	}
	return g.Cost
}

func (sh *Sheet) featureCost(ids []string, lookup func(string) (*ruleset.Gear, bool)) int {
	total := 0
	for _, id := range ids {
		if g, ok := lookup(id); ok {
			total += g.Cost
		} else {
			total += hqFeatureFallbackCost
		}
	}
	return total
}

// AllyPools returns every ally point pool: points granted by advantages and
// ally-creating powers against points asserted on ally records.
func (sh *Sheet) AllyPools() map[string]character.Pool {
	pools := make(map[string]character.Pool)
	for _, def := range sh.advantageDefs(ruleset.AdvantageAllyPool) {
		name := def.AllyPool
		if name == "" {
			name = def.ID
		}
		p := pools[name]
		p.Total += sh.Advantage(def.ID) * def.PerRank
		pools[name] = p
	}
	for i := range sh.s.Powers {
		pw := &sh.s.Powers[i]
		eff, ok := sh.cat.Effect(pw.EffectID)
		if !ok || eff.Shape != ruleset.ShapeAlly {
			continue
		}
		name := eff.AllyPool
		if name == "" {
			name = eff.ID
		}
		p := pools[name]
		p.Total += max(sh.PowerRank(pw.ID), 0) * eff.AllyPointsPerRank
		pools[name] = p
	}
	for _, a := range sh.s.Allies {
		p := pools[a.Pool]
		p.Spent += a.Cost
		pools[a.Pool] = p
	}
	return pools
}

// Movement returns the distance a movement power covers per move action, or
// "" for non-movement powers.
func (sh *Sheet) Movement(p *character.Power, r *measure.Resolver) string {
	eff, ok := sh.cat.Effect(p.EffectID)
	if !ok || !eff.Movement || r == nil {
		return ""
	}
	return fmt.Sprintf("%s per move action", r.Resolve(sh.PowerRank(p.ID)+eff.MovementOffset, ruleset.QuantityDistance))
}

// Fill writes every derived attribute into d. Point totals and errors are
// left to the caller.
func (sh *Sheet) Fill(d *character.Derived, r *measure.Resolver) {
	d.Initiative = sh.Initiative()
	d.DefensiveRoll, _ = sh.DefensiveRoll()
	d.LanguagesGranted, d.LanguagesKnown = sh.Languages()
	d.EquipmentPointsTotal, d.EquipmentPointsSpent = sh.EquipmentPoints()
	d.AllyPools = sh.AllyPools()

	d.Abilities = make(map[string]int)
	for _, a := range sh.cat.Abilities() {
		d.Abilities[a.ID] = sh.Ability(a.ID)
	}
	for id := range sh.abilities {
		d.Abilities[id] = sh.Ability(id)
	}
	d.Defenses = make(map[string]int)
	for _, def := range sh.cat.Defenses() {
		d.Defenses[def.ID] = sh.Defense(def.ID)
	}
	d.Skills = make(map[string]int)
	for id := range sh.skills {
		d.Skills[id] = sh.Skill(id)
	}
	d.Advantages = make(map[string]int)
	for id, rank := range sh.advantages {
		d.Advantages[id] = rank
	}
	if r != nil {
		d.Lifting = r.Resolve(sh.Ability(AbilityStrength), ruleset.QuantityMass)
	}
}

// SortedKeys returns the keys of m in ascending order.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
