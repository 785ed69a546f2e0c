// Package validate checks a recalculated character against the rule-book
// ceilings and reports every violation as a human-readable string.
package validate

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/cory-johannsen/herocalc/internal/game/character"
	"github.com/cory-johannsen/herocalc/internal/game/derived"
	"github.com/cory-johannsen/herocalc/internal/game/ruleset"
)

const (
	// SkillRankAllowance is how far a skill's bought rank may exceed power level.
	SkillRankAllowance = 5
	// SkillTotalAllowance is how far a skill's total bonus may exceed power level.
	SkillTotalAllowance = 10
	// MinComplications is the fewest complications a finished character lists.
	MinComplications = 2
	// VariablePointsPerRank is the size of a variable pool per rank.
	VariablePointsPerRank = 5
)

// pairedDefenses are the defense pairs whose sum may not exceed twice the
// power level.
var pairedDefenses = [][2]string{
	{derived.DefenseDodge, derived.DefenseToughness},
	{derived.DefenseParry, derived.DefenseToughness},
	{derived.DefenseFortitude, derived.DefenseWill},
}

// titled renders an id fragment for display. A Caser is stateful, so one is
// built per call.
func titled(id string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(id, "_", " "))
}

// checker accumulates violations for one snapshot.
type checker struct {
	cat  *ruleset.Catalog
	s    *character.Snapshot
	sh   *derived.Sheet
	errs []string
}

func (c *checker) addf(format string, args ...any) {
	c.errs = append(c.errs, fmt.Sprintf(format, args...))
}

// Validate returns every rule violation in s. Checks are independent and run
// in a fixed order, so the same snapshot always yields the same list. Point
// totals and pools are read from s.Derived, which must already be computed.
//
// Precondition: cat and s must be non-nil.
// Postcondition: the returned slice is non-nil.
func Validate(cat *ruleset.Catalog, s *character.Snapshot) []string {
	c := &checker{cat: cat, s: s, sh: derived.NewSheet(cat, s), errs: []string{}}
	c.points()
	c.defenses()
	c.skills()
	c.attacks()
	c.complications()
	c.pools()
	c.advantages()
	c.references()
	c.powers()
	return c.errs
}

func (c *checker) points() {
	d := c.s.Derived
	if d.PointsSpent > d.PointsTotal {
		c.addf("Power points spent (%d) exceed the %d available.", d.PointsSpent, d.PointsTotal)
	}
}

func (c *checker) defenses() {
	limit := 2 * c.s.PowerLevel
	for _, pair := range pairedDefenses {
		a, b := c.sh.Defense(pair[0]), c.sh.Defense(pair[1])
		if a+b > limit {
			c.addf("%s %d + %s %d = %d exceeds the power level limit of %d.",
				c.defenseName(pair[0]), a, c.defenseName(pair[1]), b, a+b, limit)
		}
	}
}

func (c *checker) defenseName(id string) string {
	if d, ok := c.cat.Defense(id); ok {
		return d.Name
	}
	return id
}

func (c *checker) skills() {
	rankLimit := c.s.PowerLevel + SkillRankAllowance
	totalLimit := c.s.PowerLevel + SkillTotalAllowance
	for _, id := range derived.SortedKeys(c.s.Skills) {
		rank := c.s.Skills[id]
		name := c.skillName(id)
		if rank > rankLimit {
			c.addf("Skill %s rank %d exceeds the limit of %d.", name, rank, rankLimit)
		}
		if total := c.sh.Skill(id); total > totalLimit {
			c.addf("Skill %s total bonus %d exceeds the limit of %d.", name, total, totalLimit)
		}
	}
}

// skillName renders a skill id for display, titling the specialization of a
// compound id: expertise_magic becomes "Expertise (Magic)".
func (c *checker) skillName(id string) string {
	sk, spec, ok := c.cat.Skill(id)
	if !ok {
		return id
	}
	if spec == "" {
		return sk.Name
	}
	return fmt.Sprintf("%s (%s)", sk.Name, titled(spec))
}

func (c *checker) attacks() {
	for i := range c.s.Powers {
		p := &c.s.Powers[i]
		pr := c.sh.Profile(p)
		if !pr.Attack {
			continue
		}
		rank := c.sh.PowerRank(p.ID)
		switch pr.AttackType {
		case derived.AttackArea, derived.AttackPerception:
			if rank > c.s.PowerLevel {
				c.addf("Power %s rank %d exceeds the power level limit of %d.", powerName(p), rank, c.s.PowerLevel)
			}
		default:
			limit := 2 * c.s.PowerLevel
			bonus := c.sh.AttackBonus(p)
			if bonus+rank > limit {
				c.addf("Power %s attack bonus %d + rank %d = %d exceeds the power level limit of %d.",
					powerName(p), bonus, rank, bonus+rank, limit)
			}
		}
	}
}

func powerName(p *character.Power) string {
	if p.Name != "" {
		return p.Name
	}
	return p.ID
}

func (c *checker) complications() {
	if n := len(c.s.Complications); n < MinComplications {
		c.addf("At least %d complications are expected, %d listed.", MinComplications, n)
	}
}

func (c *checker) pools() {
	d := c.s.Derived
	if d.EquipmentPointsSpent > d.EquipmentPointsTotal {
		c.addf("Equipment points spent (%d) exceed the %d available.", d.EquipmentPointsSpent, d.EquipmentPointsTotal)
	}
	for _, name := range derived.SortedKeys(d.AllyPools) {
		p := d.AllyPools[name]
		if p.Spent > p.Total {
			c.addf("%s points spent (%d) exceed the %d available.", titled(name), p.Spent, p.Total)
		}
	}
}

func (c *checker) advantages() {
	for _, a := range c.s.Advantages {
		def, ok := c.cat.Advantage(a.ID)
		if !ok {
			continue
		}
		if a.Rank < 1 {
			c.addf("Advantage %s rank must be at least 1, has %d.", def.Name, a.Rank)
		}
		if !def.Ranked && a.Rank > 1 {
			c.addf("Advantage %s is not ranked but has rank %d.", def.Name, a.Rank)
		}
		if def.MaxRank > 0 && a.Rank > def.MaxRank {
			c.addf("Advantage %s rank %d exceeds its maximum of %d.", def.Name, a.Rank, def.MaxRank)
		}
		if def.MaxRankAbility != "" {
			if limit := c.sh.Ability(def.MaxRankAbility); a.Rank > limit {
				c.addf("Advantage %s rank %d exceeds its %s rank of %d.", def.Name, a.Rank, c.abilityName(def.MaxRankAbility), limit)
			}
		}
		c.params("Advantage "+def.Name, def.Params, a.Params)
		if def.Kind == ruleset.AdvantageLanguages {
			want := a.Rank * def.PerRank
			got := len(derived.LanguageList(def, a))
			switch {
			case got < want:
				c.addf("Advantage %s grants %d languages but only %d are listed.", def.Name, want, got)
			case got > want:
				c.addf("Advantage %s grants %d languages but %d are listed.", def.Name, want, got)
			}
		}
	}
}

func (c *checker) abilityName(id string) string {
	if a, ok := c.cat.Ability(id); ok {
		return a.Name
	}
	return id
}

// references reports every id in s the catalog does not define.
func (c *checker) references() {
	for _, id := range derived.SortedKeys(c.s.Abilities) {
		if _, ok := c.cat.Ability(id); !ok {
			c.addf("Unknown ability %q.", id)
		}
	}
	for _, id := range derived.SortedKeys(c.s.Defenses) {
		if _, ok := c.cat.Defense(id); !ok {
			c.addf("Unknown defense %q.", id)
		}
	}
	for _, id := range derived.SortedKeys(c.s.Skills) {
		if _, _, ok := c.cat.Skill(id); !ok {
			c.addf("Unknown skill %q.", id)
		}
	}
	for _, a := range c.s.Advantages {
		if _, ok := c.cat.Advantage(a.ID); !ok {
			c.addf("Unknown advantage %q.", a.ID)
		}
	}
	for i := range c.s.Powers {
		p := &c.s.Powers[i]
		if _, ok := c.cat.Effect(p.EffectID); !ok {
			c.addf("Power %s uses unknown effect %q.", powerName(p), p.EffectID)
			continue
		}
		for _, m := range p.Modifiers {
			if _, ok := c.cat.Modifier(m.ID); !ok {
				c.addf("Power %s uses unknown modifier %q.", powerName(p), m.ID)
			}
		}
		for _, id := range p.Senses {
			if _, ok := c.cat.Sense(id); !ok {
				c.addf("Power %s lists unknown sense %q.", powerName(p), id)
			}
		}
		for _, id := range p.Immunities {
			if _, ok := c.cat.Immunity(id); !ok {
				c.addf("Power %s lists unknown immunity %q.", powerName(p), id)
			}
		}
	}
}

// powers checks per-power constraints that depend on the effect shape.
func (c *checker) powers() {
	for i := range c.s.Powers {
		p := &c.s.Powers[i]
		eff, ok := c.cat.Effect(p.EffectID)
		if !ok {
			continue
		}
		name := powerName(p)
		if p.Computed.Breakdown.CycleDetected {
			c.addf("Power %s is part of an enhancement cycle; the repeated link was costed at 1 per rank.", name)
		}
		if eff.Shape == ruleset.ShapeEnhancement && (p.Enhancement == nil || p.Enhancement.Target == "") {
			c.addf("Power %s does not name a trait to enhance.", name)
		}
		if eff.Shape == ruleset.ShapeVariable {
			pool := max(p.Rank, 0) * VariablePointsPerRank
			for _, cfg := range p.Configurations {
				if cfg.Points > pool {
					c.addf("Power %s configuration %q uses %d points but the pool holds %d.", name, cfg.Name, cfg.Points, pool)
				}
			}
		}
		if eff.Degrees > 0 {
			named := 0
			for _, d := range p.AfflictionDegrees {
				if strings.TrimSpace(d) != "" {
					named++
				}
			}
			if named < eff.Degrees {
				c.addf("Power %s names %d of %d affliction degrees.", name, named, eff.Degrees)
			}
		}
		c.params("Power "+name, eff.Params, p.Settings)
		for _, m := range p.Modifiers {
			def, ok := c.cat.Modifier(m.ID)
			if !ok {
				continue
			}
			if def.Ranked && def.MaxRank > 0 && m.Rank > def.MaxRank {
				c.addf("Power %s modifier %s rank %d exceeds its maximum of %d.", name, def.Name, m.Rank, def.MaxRank)
			}
			c.params(fmt.Sprintf("Power %s modifier %s", name, def.Name), def.Params, m.Params)
		}
	}
}
