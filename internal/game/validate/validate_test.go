package validate_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/herocalc/internal/game/character"
	"github.com/cory-johannsen/herocalc/internal/game/ruleset"
	"github.com/cory-johannsen/herocalc/internal/game/validate"
	"github.com/cory-johannsen/herocalc/internal/testutil"
)

// legal returns a PL10 character that breaks no rule.
func legal() *character.Snapshot {
	s := character.New(10)
	s.Abilities = map[string]int{
		"strength": 4, "stamina": 4, "agility": 2, "dexterity": 3,
		"fighting": 6, "intellect": 1, "awareness": 3, "presence": 0,
	}
	s.Defenses = map[string]int{"dodge": 6, "parry": 2, "will": 5}
	s.Skills = map[string]int{"perception": 4, "expertise_magic": 6}
	s.Powers = []character.Power{{ID: "punch", Name: "Punch", EffectID: "damage", Rank: 8}}
	s.Complications = []character.Complication{
		{Type: "motivation", Description: "Justice"},
		{Type: "enemy", Description: "Doctor Null"},
	}
	s.Derived.PointsSpent = 120
	return s
}

func check(t *testing.T, s *character.Snapshot) []string {
	t.Helper()
	return validate.Validate(testutil.LoadCatalog(t), s)
}

func TestValidate_LegalCharacter(t *testing.T) {
	errs := check(t, legal())
	require.NotNil(t, errs)
	assert.Empty(t, errs)
}

func TestValidate_PointsOverspent(t *testing.T) {
	s := legal()
	s.Derived.PointsSpent = 160
	assert.Equal(t, []string{"Power points spent (160) exceed the 150 available."}, check(t, s))
}

func TestValidate_DefensePairReportsBothValues(t *testing.T) {
	s := legal()
	s.Defenses["dodge"] = 10
	s.Defenses["toughness"] = 6

	assert.Equal(t, []string{"Dodge 12 + Toughness 10 = 22 exceeds the power level limit of 20."}, check(t, s))
}

func TestValidate_DefensePairCountsDefensiveRoll(t *testing.T) {
	s := legal()
	s.Defenses["dodge"] = 10
	s.Defenses["toughness"] = 4
	s.Advantages = []character.Advantage{{ID: "defensive_roll", Rank: 2}}

	assert.Equal(t, []string{"Dodge 12 + Toughness 10 = 22 exceeds the power level limit of 20."}, check(t, s))
}

func TestValidate_SkillLimits(t *testing.T) {
	s := legal()
	s.Skills["expertise_magic"] = 16
	s.Skills["perception"] = 15
	s.Abilities["awareness"] = 6
	s.Defenses["will"] = 2

	assert.Equal(t, []string{
		"Skill Expertise (Magic) rank 16 exceeds the limit of 15.",
		"Skill Perception total bonus 21 exceeds the limit of 20.",
	}, check(t, s))
}

func TestValidate_AttackLimits(t *testing.T) {
	s := legal()
	s.Powers = []character.Power{
		{ID: "punch", Name: "Punch", EffectID: "damage", Rank: 15},
		{ID: "boom", Name: "Boom", EffectID: "damage", Rank: 11, Modifiers: []character.AppliedModifier{
			{ID: "area", Params: character.Params{"shape": character.ChoiceParam("burst")}},
		}},
		{ID: "stare", Name: "Stare", EffectID: "affliction", Rank: 10,
			AfflictionDegrees: []string{"dazed", "stunned", "incapacitated"},
			Modifiers: []character.AppliedModifier{
				{ID: "increased_range", Params: character.Params{"range": character.ChoiceParam("perception")}},
			}},
	}

	assert.Equal(t, []string{
		"Power Punch attack bonus 6 + rank 15 = 21 exceeds the power level limit of 20.",
		"Power Boom rank 11 exceeds the power level limit of 10.",
	}, check(t, s))
}

func TestValidate_Complications(t *testing.T) {
	s := legal()
	s.Complications = s.Complications[:1]
	assert.Equal(t, []string{"At least 2 complications are expected, 1 listed."}, check(t, s))
}

func TestValidate_Pools(t *testing.T) {
	s := legal()
	s.Derived.EquipmentPointsTotal = 10
	s.Derived.EquipmentPointsSpent = 12
	s.Derived.AllyPools = map[string]character.Pool{
		"sidekick": {Total: 5, Spent: 5},
		"minion":   {Total: 15, Spent: 20},
	}

	assert.Equal(t, []string{
		"Equipment points spent (12) exceed the 10 available.",
		"Minion points spent (20) exceed the 15 available.",
	}, check(t, s))
}

func TestValidate_AdvantageRanks(t *testing.T) {
	s := legal()
	s.Advantages = []character.Advantage{
		{ID: "power_attack", Rank: 2},
		{ID: "evasion", Rank: 3},
		{ID: "tireless_training", Rank: 5},
	}

	assert.Equal(t, []string{
		"Advantage Power Attack is not ranked but has rank 2.",
		"Advantage Evasion rank 3 exceeds its maximum of 2.",
		"Advantage Tireless Training rank 5 exceeds its Stamina rank of 4.",
	}, check(t, s))
}

func TestValidate_AdvantageRankAtLeastOne(t *testing.T) {
	s := legal()
	s.Advantages = []character.Advantage{{ID: "improved_initiative"}}

	assert.Equal(t, []string{"Advantage Improved Initiative rank must be at least 1, has 0."}, check(t, s))
}

func TestValidate_AdvantageCapsCheckedIndependently(t *testing.T) {
	shipped, err := os.ReadFile(filepath.Join(testutil.RulesDir(t), ruleset.FileAdvantages))
	require.NoError(t, err)
	cat := testutil.CatalogWith(t, map[string]string{ruleset.FileAdvantages: string(shipped) + `
- id: tumbling
  name: Tumbling
  type: combat
  ranked: true
  max_rank: 5
  max_rank_ability: agility
`})

	s := legal()
	s.Advantages = []character.Advantage{{ID: "tumbling", Rank: 3}}
	assert.Equal(t, []string{"Advantage Tumbling rank 3 exceeds its Agility rank of 2."}, validate.Validate(cat, s))

	s.Advantages[0].Rank = 6
	assert.Equal(t, []string{
		"Advantage Tumbling rank 6 exceeds its maximum of 5.",
		"Advantage Tumbling rank 6 exceeds its Agility rank of 2.",
	}, validate.Validate(cat, s))
}

func TestValidate_Languages(t *testing.T) {
	cases := []struct {
		name  string
		rank  int
		langs character.ListParam
		want  string
	}{
		{"too few", 2, character.ListParam{"Latin"}, "Advantage Languages grants 2 languages but only 1 are listed."},
		{"too many", 1, character.ListParam{"Latin", "Greek", "Sanskrit"}, "Advantage Languages grants 1 languages but 3 are listed."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := legal()
			s.Advantages = []character.Advantage{{ID: "languages", Rank: tc.rank,
				Params: character.Params{"languages": tc.langs}}}
			assert.Equal(t, []string{tc.want}, check(t, s))
		})
	}

	s := legal()
	s.Advantages = []character.Advantage{{ID: "languages", Rank: 2,
		Params: character.Params{"languages": character.ListParam{"Latin", "Greek"}}}}
	assert.Empty(t, check(t, s))
}

func TestValidate_AdvantageParams(t *testing.T) {
	s := legal()
	s.Advantages = []character.Advantage{
		{ID: "favored_environment", Rank: 1},
		{ID: "skill_mastery", Rank: 1, Params: character.Params{"skill": character.SkillParam("basket_weaving")}},
		{ID: "benefit", Rank: 1, Params: character.Params{"benefit": character.BoolParam(true)}},
	}

	errs := check(t, s)
	assert.Contains(t, errs, `Advantage Favored Environment is missing required parameter "environment".`)
	assert.Contains(t, errs, `Advantage Skill Mastery parameter "skill" names unknown skill "basket_weaving".`)
	assert.Contains(t, errs, `Advantage Benefit parameter "benefit" should be text, got bool.`)
}

func TestValidate_UnknownReferences(t *testing.T) {
	s := legal()
	s.Abilities["luck"] = 2
	s.Skills["juggling"] = 1
	s.Advantages = []character.Advantage{{ID: "ninja_reflexes", Rank: 1}}
	s.Powers = append(s.Powers,
		character.Power{ID: "x", Name: "Mystery", EffectID: "hyperspace", Rank: 1},
		character.Power{ID: "eyes", Name: "Eyes", EffectID: "senses", Senses: []string{"darkvision", "x_ray_smell"}},
		character.Power{ID: "hide", Name: "Hide", EffectID: "immunity", Immunities: []string{"boredom"}},
		character.Power{ID: "glow", Name: "Glow", EffectID: "feature", Rank: 1,
			Settings:  character.Params{"description": character.TextParam("glows")},
			Modifiers: []character.AppliedModifier{{ID: "sparkly"}}},
	)

	errs := check(t, s)
	assert.Contains(t, errs, `Unknown ability "luck".`)
	assert.Contains(t, errs, `Unknown skill "juggling".`)
	assert.Contains(t, errs, `Unknown advantage "ninja_reflexes".`)
	assert.Contains(t, errs, `Power Mystery uses unknown effect "hyperspace".`)
	assert.Contains(t, errs, `Power Eyes lists unknown sense "x_ray_smell".`)
	assert.Contains(t, errs, `Power Hide lists unknown immunity "boredom".`)
	assert.Contains(t, errs, `Power Glow uses unknown modifier "sparkly".`)
}

func TestValidate_PowerShapes(t *testing.T) {
	s := legal()
	s.Powers = append(s.Powers,
		character.Power{ID: "shift", Name: "Shift", EffectID: "variable", Rank: 2,
			Settings:       character.Params{"traits": character.TextParam("animal forms")},
			Configurations: []character.VariableConfig{{Name: "Wolf", Points: 8}, {Name: "Dragon", Points: 11}}},
		character.Power{ID: "hex", Name: "Hex", EffectID: "affliction", Rank: 6, AfflictionDegrees: []string{"dazed", " "}},
		character.Power{ID: "boost", Name: "Boost", EffectID: "enhanced_trait", Rank: 2},
		character.Power{ID: "loop", Name: "Loop", EffectID: "enhanced_trait", Rank: 1,
			Enhancement: &character.Enhancement{Category: character.TraitPowerRank, Target: "loop"},
			Computed:    character.PowerComputed{Breakdown: character.Breakdown{CycleDetected: true}}},
	)

	errs := check(t, s)
	assert.Contains(t, errs, `Power Shift configuration "Dragon" uses 11 points but the pool holds 10.`)
	assert.NotContains(t, errs, `Power Shift configuration "Wolf" uses 8 points but the pool holds 10.`)
	assert.Contains(t, errs, "Power Hex names 1 of 3 affliction degrees.")
	assert.Contains(t, errs, "Power Boost does not name a trait to enhance.")
	assert.Contains(t, errs, "Power Loop is part of an enhancement cycle; the repeated link was costed at 1 per rank.")
}

func TestValidate_ModifierChecks(t *testing.T) {
	s := legal()
	s.Powers = []character.Power{
		{ID: "a", Name: "Sphere", EffectID: "damage", Rank: 5, Modifiers: []character.AppliedModifier{
			{ID: "area", Params: character.Params{"shape": character.ChoiceParam("sphere")}},
		}},
		{ID: "b", Name: "Shapeless", EffectID: "damage", Rank: 5, Modifiers: []character.AppliedModifier{
			{ID: "area"},
		}},
		{ID: "c", Name: "Ghost Punch", EffectID: "damage", Rank: 5, Modifiers: []character.AppliedModifier{
			{ID: "affects_insubstantial", Rank: 3},
		}},
		{ID: "d", Name: "Wordy", EffectID: "damage", Rank: 5, Modifiers: []character.AppliedModifier{
			{ID: "area", Params: character.Params{"shape": character.TextParam("burst")}},
		}},
		{ID: "e", Name: "Talk", EffectID: "communication", Rank: 2},
	}

	errs := check(t, s)
	assert.Contains(t, errs, `Power Sphere modifier Area parameter "shape" has "sphere", which is not one of: burst, cloud, cone, cylinder, line, perception.`)
	assert.Contains(t, errs, `Power Shapeless modifier Area is missing required parameter "shape".`)
	assert.Contains(t, errs, "Power Ghost Punch modifier Affects Insubstantial rank 3 exceeds its maximum of 2.")
	assert.Contains(t, errs, `Power Wordy modifier Area parameter "shape" should be choice, got text.`)
	assert.Contains(t, errs, `Power Talk is missing required parameter "medium".`)
}

func TestValidate_PowerParamMustResolve(t *testing.T) {
	cat := testutil.CatalogWith(t, map[string]string{ruleset.FileModifiers: `
- id: linked
  name: Linked
  kind: extra
  cost_type: flat
  cost: 0
  params:
    - name: with
      kind: power
      required: true
`})
	s := legal()
	s.Powers = append(s.Powers, character.Power{ID: "bolt", Name: "Bolt", EffectID: "damage", Rank: 4,
		Modifiers: []character.AppliedModifier{{ID: "linked", Params: character.Params{"with": character.PowerParam("nowhere")}}}})

	errs := validate.Validate(cat, s)
	assert.Equal(t, []string{`Power Bolt modifier Linked parameter "with" names unknown power "nowhere".`}, errs)

	s.Powers[1].Modifiers[0].Params["with"] = character.PowerParam("punch")
	assert.Empty(t, validate.Validate(cat, s))
}

// Property: validation is deterministic and never returns nil.
func TestPropertyValidateDeterministic(t *testing.T) {
	cat := testutil.LoadCatalog(t)

	rapid.Check(t, func(t *rapid.T) {
		s := legal()
		s.PowerLevel = rapid.IntRange(1, 20).Draw(t, "pl")
		s.Derived.PointsTotal = s.PowerLevel * character.PointsPerPowerLevel
		s.Defenses["dodge"] = rapid.IntRange(0, 20).Draw(t, "dodge")
		s.Skills["perception"] = rapid.IntRange(0, 25).Draw(t, "perception")
		s.Powers[0].Rank = rapid.IntRange(0, 25).Draw(t, "rank")

		first := validate.Validate(cat, s)
		second := validate.Validate(cat, s)
		if first == nil {
			t.Fatalf("nil error list")
		}
		if len(first) != len(second) {
			t.Fatalf("runs disagree: %v vs %v", first, second)
		}
		for i := range first {
			if first[i] != second[i] {
				t.Fatalf("runs disagree at %d: %q vs %q", i, first[i], second[i])
			}
		}
	})
}
