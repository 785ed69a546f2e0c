// Package derived computes secondary statistics that depend on several
// primitive traits at once, and exposes the query surface report consumers
// read instead of re-deriving values themselves.
package derived

import (
	"github.com/cory-johannsen/herocalc/internal/game/character"
	"github.com/cory-johannsen/herocalc/internal/game/ruleset"
)

// Ability and defense ids the derived rules are keyed on.
const (
	AbilityStrength  = "strength"
	AbilityAgility   = "agility"
	AbilityFighting  = "fighting"
	AbilityDexterity = "dexterity"

	DefenseDodge     = "dodge"
	DefenseParry     = "parry"
	DefenseToughness = "toughness"
	DefenseFortitude = "fortitude"
	DefenseWill      = "will"
)

// Attack types reported on attack powers.
const (
	AttackClose      = "close"
	AttackRanged     = "ranged"
	AttackPerception = "perception"
	AttackArea       = "area"
)

// Range values with special meaning to attack classification.
const (
	RangeRanged     = "ranged"
	RangePerception = "perception"
)

// defaultResistanceBase is the DC base when an effect leaves it unset.
const defaultResistanceBase = 10

// Sheet is the enhanced, read-only view of a snapshot. Enhancement powers are
// applied to effective values here; the snapshot's bought ranks are never
// modified.
type Sheet struct {
	cat *ruleset.Catalog
	s   *character.Snapshot

	abilities  map[string]int
	defenses   map[string]int
	skills     map[string]int
	advantages map[string]int
	powerRanks map[string]int
	powers     map[string]*character.Power
}

// NewSheet applies every enhancement power in s to an effective trait view.
//
// Precondition: cat and s must be non-nil.
func NewSheet(cat *ruleset.Catalog, s *character.Snapshot) *Sheet {
	sh := &Sheet{
		cat:        cat,
		s:          s,
		abilities:  make(map[string]int, len(s.Abilities)),
		defenses:   make(map[string]int, len(s.Defenses)),
		skills:     make(map[string]int, len(s.Skills)),
		advantages: make(map[string]int, len(s.Advantages)),
		powerRanks: make(map[string]int, len(s.Powers)),
		powers:     make(map[string]*character.Power, len(s.Powers)),
	}
	for k, v := range s.Abilities {
		sh.abilities[k] = v
	}
	for k, v := range s.Defenses {
		sh.defenses[k] = v
	}
	for k, v := range s.Skills {
		sh.skills[k] = v
	}
	for _, a := range s.Advantages {
		sh.advantages[a.ID] += a.Rank
	}
	for i := range s.Powers {
		p := &s.Powers[i]
		if _, dup := sh.powers[p.ID]; !dup {
			sh.powers[p.ID] = p
			sh.powerRanks[p.ID] = p.Rank
		}
	}
	for i := range s.Powers {
		p := &s.Powers[i]
		eff, ok := cat.Effect(p.EffectID)
		if !ok || eff.Shape != ruleset.ShapeEnhancement || p.Enhancement == nil || p.Rank <= 0 {
			continue
		}
		target := p.Enhancement.Target
		switch p.Enhancement.Category {
		case character.TraitAbility:
			sh.abilities[target] += p.Rank
		case character.TraitDefense:
			sh.defenses[target] += p.Rank
		case character.TraitSkill:
			sh.skills[target] += p.Rank
		case character.TraitAdvantage:
			sh.advantages[target] += p.Rank
		case character.TraitPowerRank:
			if _, ok := sh.powerRanks[target]; ok && target != p.ID {
				sh.powerRanks[target] += p.Rank
			}
		}
	}
	return sh
}

// Ability returns the effective rank of an ability. In this ruleset an
// ability's rank doubles as its modifier.
func (sh *Sheet) Ability(id string) int { return sh.abilities[id] }

// Advantage returns the effective rank of an advantage summed across instances.
func (sh *Sheet) Advantage(id string) int { return sh.advantages[id] }

// PowerRank returns a power's rank including power-rank enhancements.
func (sh *Sheet) PowerRank(id string) int { return sh.powerRanks[id] }

// SkillRanks returns the bought plus enhanced ranks of a skill, without ability.
func (sh *Sheet) SkillRanks(id string) int { return sh.skills[id] }

// Skill returns a skill's total bonus: governing ability plus effective ranks.
// Unknown skills return their ranks alone.
func (sh *Sheet) Skill(id string) int {
	total := sh.skills[id]
	if sk, _, ok := sh.cat.Skill(id); ok {
		total += sh.Ability(sk.Ability)
	}
	return total
}

// Defense returns a defense's total: governing ability, bought and enhanced
// ranks, flat defense bonuses from powers, and any defensive roll bonus.
func (sh *Sheet) Defense(id string) int {
	total := sh.defenses[id]
	if d, ok := sh.cat.Defense(id); ok {
		total += sh.Ability(d.Ability)
	}
	for i := range sh.s.Powers {
		p := &sh.s.Powers[i]
		if eff, ok := sh.cat.Effect(p.EffectID); ok && eff.DefenseBonus == id {
			total += sh.PowerRank(p.ID)
		}
	}
	bonus, defense := sh.DefensiveRoll()
	if defense == id {
		total += bonus
	}
	return total
}

// DefensiveRoll returns the defensive roll bonus and the defense it applies
// to. The bonus is the advantage rank capped at the governing ability's rank.
//
// Postcondition: bonus >= 0.
func (sh *Sheet) DefensiveRoll() (bonus int, defense string) {
	for _, a := range sh.advantageDefs(ruleset.AdvantageDefensiveRoll) {
		rank := sh.Advantage(a.ID)
		if a.CapAbility != "" {
			rank = min(rank, sh.Ability(a.CapAbility))
		}
		if rank < 0 {
			rank = 0
		}
		bonus += rank
		defense = a.Defense
		if defense == "" {
			defense = DefenseToughness
		}
	}
	return bonus, defense
}

// Initiative returns agility plus every initiative advantage's bonus.
func (sh *Sheet) Initiative() int {
	total := sh.Ability(AbilityAgility)
	for _, a := range sh.advantageDefs(ruleset.AdvantageInitiative) {
		total += sh.Advantage(a.ID) * a.PerRank
	}
	return total
}

// advantageDefs returns the distinct catalog definitions of the given kind
// among the character's advantages, in purchase order.
func (sh *Sheet) advantageDefs(kind ruleset.AdvantageKind) []*ruleset.Advantage {
	var out []*ruleset.Advantage
	seen := make(map[string]bool)
	for _, a := range sh.s.Advantages {
		def, ok := sh.cat.Advantage(a.ID)
		if !ok || def.Kind != kind || seen[def.ID] {
			continue
		}
		seen[def.ID] = true
		out = append(out, def)
	}
	return out
}

// Profile is the action, range, duration, and attack classification of a
// power after modifiers.
type Profile struct {
	Action      string
	Range       string
	Duration    string
	Attack      bool
	AttackType  string
	Area        bool
	Resistance  string
	AccuracyMod int
}

// Profile derives p's profile from its effect defaults and modifiers.
func (sh *Sheet) Profile(p *character.Power) Profile {
	eff, ok := sh.cat.Effect(p.EffectID)
	if !ok {
		return Profile{}
	}
	pr := Profile{
		Action:     eff.Action,
		Range:      eff.Range,
		Duration:   eff.Duration,
		Attack:     eff.Attack,
		Resistance: eff.Resistance,
	}
	for _, m := range p.Modifiers {
		def, ok := sh.cat.Modifier(m.ID)
		if !ok {
			continue
		}
		if def.SetsRange != "" {
			pr.Range = def.SetsRange
		}
		for _, spec := range def.Params {
			if v, ok := m.Params.String(spec.Name); ok {
				if o, ok := spec.Option(v); ok && o.SetsRange != "" {
					pr.Range = o.SetsRange
				}
			}
		}
		if def.SetsAction != "" {
			pr.Action = def.SetsAction
		}
		if def.SetsDuration != "" {
			pr.Duration = def.SetsDuration
		}
		if def.SetsResistance != "" {
			pr.Resistance = def.SetsResistance
		}
		if def.Area {
			pr.Area = true
		}
		if def.AttackBonusPerRank != 0 {
			pr.AccuracyMod += def.AttackBonusPerRank * max(m.Rank, 1)
		}
	}
	if pr.Attack {
		switch {
		case pr.Area:
			pr.AttackType = AttackArea
		case pr.Range == RangePerception:
			pr.AttackType = AttackPerception
		case pr.Range == RangeRanged:
			pr.AttackType = AttackRanged
		default:
			pr.AttackType = AttackClose
		}
	}
	return pr
}

// AttackBonus returns the attack check bonus of p. Area and perception
// attacks make no attack check and return 0, as do non-attacks.
//
// The attack skill is read from the power's "attack_skill" setting.
func (sh *Sheet) AttackBonus(p *character.Power) int {
	pr := sh.Profile(p)
	var ability string
	switch pr.AttackType {
	case AttackClose:
		ability = AbilityFighting
	case AttackRanged:
		ability = AbilityDexterity
	default:
		return 0
	}
	total := sh.Ability(ability) + pr.AccuracyMod
	if skill, ok := p.Settings.String("attack_skill"); ok {
		total += sh.SkillRanks(skill)
	}
	return total
}

// ResistanceDC returns the resistance check p forces, or nil when the power
// allows none. Area powers also report the Dodge DC to take half effect.
func (sh *Sheet) ResistanceDC(p *character.Power) *character.DC {
	eff, ok := sh.cat.Effect(p.EffectID)
	if !ok {
		return nil
	}
	pr := sh.Profile(p)
	if pr.Resistance == "" {
		return nil
	}
	base := eff.ResistanceBase
	if base == 0 {
		base = defaultResistanceBase
	}
	rank := sh.PowerRank(p.ID)
	dc := &character.DC{Kind: sh.defenseName(pr.Resistance), Value: base + rank}
	if pr.Area {
		half := defaultResistanceBase + rank
		dc.HalfOnDodge = &half
	}
	return dc
}

func (sh *Sheet) defenseName(id string) string {
	if d, ok := sh.cat.Defense(id); ok {
		return d.Name
	}
	return id
}

// TotalDefense returns the total of defense id for s.
func TotalDefense(cat *ruleset.Catalog, s *character.Snapshot, id string) int {
	return NewSheet(cat, s).Defense(id)
}

// AttackBonus returns the attack check bonus of p within s.
func AttackBonus(cat *ruleset.Catalog, s *character.Snapshot, p *character.Power) int {
	return NewSheet(cat, s).AttackBonus(p)
}

// ResistanceDC returns the resistance check p forces within s.
func ResistanceDC(cat *ruleset.Catalog, s *character.Snapshot, p *character.Power) *character.DC {
	return NewSheet(cat, s).ResistanceDC(p)
}
