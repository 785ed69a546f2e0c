package ruleset_test

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/herocalc/internal/game/character"
	"github.com/cory-johannsen/herocalc/internal/game/ruleset"
	"github.com/cory-johannsen/herocalc/internal/testutil"
)

func TestLoadCatalog_ActualContent(t *testing.T) {
	cat := testutil.LoadCatalog(t)

	assert.Len(t, cat.Abilities(), 8)
	assert.Len(t, cat.Defenses(), 5)
	assert.NotEmpty(t, cat.Skills())
	assert.NotEmpty(t, cat.Archetypes())

	str, ok := cat.Ability("strength")
	require.True(t, ok)
	assert.Equal(t, "STR", str.Abbrev)

	tough, ok := cat.Defense("toughness")
	require.True(t, ok)
	assert.Equal(t, "stamina", tough.Ability)

	rows := cat.Measurements()
	require.NotEmpty(t, rows)
	for i := 1; i < len(rows); i++ {
		assert.Less(t, rows[i-1].Rank, rows[i].Rank, "measurement rows must be sorted by rank")
	}
}

func TestLoadCatalog_EffectShapesNormalized(t *testing.T) {
	cat := testutil.LoadCatalog(t)

	dmg, ok := cat.Effect("damage")
	require.True(t, ok)
	assert.Equal(t, ruleset.ShapeStandard, dmg.Shape, "effects without a shape default to standard")

	senses, ok := cat.Effect("senses")
	require.True(t, ok)
	assert.True(t, senses.Shape.IsContainer())
	assert.True(t, senses.Shape.IgnoresRank())

	tr, ok := cat.Effect("transform")
	require.True(t, ok)
	scope, ok := tr.Scope("")
	require.True(t, ok)
	assert.Equal(t, "one_to_one", scope.ID)
	scope, ok = tr.Scope("any_to_any")
	require.True(t, ok)
	assert.Equal(t, 5.0, scope.CostPerRank)
	scope, ok = tr.Scope("no_such_scope")
	require.True(t, ok)
	assert.Equal(t, "one_to_one", scope.ID, "unknown scopes fall back to the default")
}

func TestLoadCatalog_AdvantageDefaults(t *testing.T) {
	cat := testutil.LoadCatalog(t)

	a, ok := cat.Advantage("power_attack")
	require.True(t, ok)
	assert.Equal(t, 1.0, a.Cost())
	assert.Equal(t, ruleset.AdvantageGeneral, a.Kind)

	langs, ok := cat.Advantage("languages")
	require.True(t, ok)
	assert.Equal(t, ruleset.AdvantageLanguages, langs.Kind)
	require.Len(t, langs.Params, 1)
	assert.Equal(t, character.ParamList, langs.Params[0].Kind)
}

func TestLoadCatalog_ModifierOptions(t *testing.T) {
	cat := testutil.LoadCatalog(t)

	area, ok := cat.Modifier("area")
	require.True(t, ok)
	require.Len(t, area.Params, 1)
	assert.True(t, area.Params[0].Enumerated())

	opt, ok := area.Params[0].Option("perception")
	require.True(t, ok)
	assert.Equal(t, 1.0, opt.CostDelta)
	assert.Equal(t, "perception", opt.SetsRange)

	_, ok = area.Params[0].Option("sphere")
	assert.False(t, ok)

	rem, ok := cat.Modifier("easily_removable")
	require.True(t, ok)
	assert.Equal(t, 2, rem.Removable.Factor())
}

func TestCatalogSkill_Specialized(t *testing.T) {
	cat := testutil.LoadCatalog(t)

	sk, spec, ok := cat.Skill("expertise_magic")
	require.True(t, ok)
	assert.Equal(t, "expertise", sk.ID)
	assert.Equal(t, "magic", spec)

	sk, spec, ok = cat.Skill("close_combat_unarmed")
	require.True(t, ok)
	assert.Equal(t, "close_combat", sk.ID)
	assert.Equal(t, "unarmed", spec)

	sk, spec, ok = cat.Skill("perception")
	require.True(t, ok)
	assert.Equal(t, "perception", sk.ID)
	assert.Empty(t, spec)

	_, _, ok = cat.Skill("perception_smell")
	assert.False(t, ok, "only specialized skills accept compound ids")

	_, _, ok = cat.Skill("juggling")
	assert.False(t, ok)
}

func TestArchetypeSnapshot_IsDeepCopy(t *testing.T) {
	cat := testutil.LoadCatalog(t)
	a, ok := cat.Archetype("mystic")
	require.True(t, ok)

	s := a.Snapshot()
	assert.Equal(t, a.PowerLevel, s.PowerLevel)
	assert.Equal(t, a.PowerLevel*character.PointsPerPowerLevel, s.Derived.PointsTotal)
	require.NotEmpty(t, s.Powers)

	s.Abilities["awareness"] = 99
	s.Powers[0].Rank = 99
	s.Powers[0].Modifiers[0].Params["range"] = character.ChoiceParam("perception")

	assert.Equal(t, 6, a.Abilities["awareness"])
	assert.NotEqual(t, 99, a.Powers[0].Rank)
	v, _ := a.Powers[0].Modifiers[0].Params.String("range")
	assert.Equal(t, "ranged", v)
}

func TestLoadCatalog_MissingTable(t *testing.T) {
	dir := testutil.CopyRules(t, map[string]string{ruleset.FileModifiers: ""})

	_, err := ruleset.LoadCatalog(dir)
	require.Error(t, err)
	var rle *ruleset.RuleLoadError
	require.True(t, errors.As(err, &rle))
	assert.Equal(t, ruleset.FileModifiers, rle.Table)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoadCatalog_InvalidYAML(t *testing.T) {
	dir := testutil.CopyRules(t, map[string]string{ruleset.FileSenses: "- id: [unterminated"})

	_, err := ruleset.LoadCatalog(dir)
	var rle *ruleset.RuleLoadError
	require.True(t, errors.As(err, &rle))
	assert.Equal(t, ruleset.FileSenses, rle.Table)
}

func TestLoadCatalog_UnknownField(t *testing.T) {
	dir := testutil.CopyRules(t, map[string]string{ruleset.FileAbilities: `
- id: strength
  name: Strength
  colour: red
`})
	_, err := ruleset.LoadCatalog(dir)
	var rle *ruleset.RuleLoadError
	require.True(t, errors.As(err, &rle))
	assert.Equal(t, ruleset.FileAbilities, rle.Table)
}

func TestLoadCatalog_EmptyTable(t *testing.T) {
	dir := testutil.CopyRules(t, nil)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ruleset.FileImmunities), nil, 0644))

	_, err := ruleset.LoadCatalog(dir)
	var rle *ruleset.RuleLoadError
	require.True(t, errors.As(err, &rle))
	assert.Contains(t, rle.Error(), "empty")
}

func TestLoadCatalog_DuplicateID(t *testing.T) {
	dir := testutil.CopyRules(t, map[string]string{ruleset.FileSenses: `
- {id: acute, name: Acute, cost: 1}
- {id: acute, name: Acute Again, cost: 1}
`})
	_, err := ruleset.LoadCatalog(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `duplicate id "acute"`)
}

func TestLoadCatalog_EmptyID(t *testing.T) {
	dir := testutil.CopyRules(t, map[string]string{ruleset.FileSenses: `
- {id: "", name: Nameless, cost: 1}
`})
	_, err := ruleset.LoadCatalog(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty id")
}

func TestLoadCatalog_UnknownShape(t *testing.T) {
	dir := testutil.CopyRules(t, map[string]string{ruleset.FileEffects: `
- id: odd
  name: Odd
  shape: hexagonal
`})
	_, err := ruleset.LoadCatalog(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown shape")
}

func TestLoadCatalog_FixedShapeNeedsCosts(t *testing.T) {
	dir := testutil.CopyRules(t, map[string]string{ruleset.FileEffects: `
- id: insubstantial
  name: Insubstantial
  shape: fixed_by_rank
`})
	_, err := ruleset.LoadCatalog(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fixed_costs")
}

func TestLoadCatalog_UnknownCostType(t *testing.T) {
	dir := testutil.CopyRules(t, map[string]string{ruleset.FileModifiers: `
- id: odd
  name: Odd
  cost_type: per_fortnight
`})
	_, err := ruleset.LoadCatalog(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cost_type")
}

func TestLoadCatalog_DefenseUnknownAbility(t *testing.T) {
	dir := testutil.CopyRules(t, map[string]string{ruleset.FileDefenses: `
- id: luck
  name: Luck
  ability: charisma
`})
	_, err := ruleset.LoadCatalog(dir)
	var rle *ruleset.RuleLoadError
	require.True(t, errors.As(err, &rle))
	assert.Equal(t, ruleset.FileDefenses, rle.Table)
}

func TestLoadCatalog_DuplicateMeasurementRank(t *testing.T) {
	dir := testutil.CopyRules(t, map[string]string{ruleset.FileMeasurements: `
- {rank: 0, mass: 50 lb}
- {rank: 0, mass: 60 lb}
`})
	_, err := ruleset.LoadCatalog(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate rank 0")
}

func TestMeasurementRow_Value(t *testing.T) {
	row := ruleset.MeasurementRow{Rank: 0, Mass: "50 lb", Distance: "30 feet"}

	v, ok := row.Value(ruleset.QuantityMass)
	assert.True(t, ok)
	assert.Equal(t, "50 lb", v)

	_, ok = row.Value(ruleset.QuantityTime)
	assert.False(t, ok, "empty cells are absent")

	_, ok = row.Value("temperature")
	assert.False(t, ok)
}

// Property: any set of unique sense ids loads and every id resolves.
func TestPropertyLoadCatalog_UniqueSensesResolve(t *testing.T) {
	base := testutil.RulesDir(t)
	rapid.Check(t, func(rt *rapid.T) {
		ids := rapid.SliceOfNDistinct(rapid.StringMatching(`[a-z]{3,12}`), 1, 20, rapid.ID[string]).Draw(rt, "ids")
		content := ""
		for i, id := range ids {
			content += fmt.Sprintf("- {id: \"%s\", name: Sense %d, cost: %d}\n", id, i, i%4+1)
		}
		dir, err := os.MkdirTemp("", "rules")
		if err != nil {
			rt.Fatalf("creating temp dir: %v", err)
		}
		defer os.RemoveAll(dir)
		for _, name := range ruleset.RequiredFiles {
			data, err := os.ReadFile(filepath.Join(base, name))
			if err != nil {
				rt.Fatalf("reading %s: %v", name, err)
			}
			if name == ruleset.FileSenses {
				data = []byte(content)
			}
			if err := os.WriteFile(filepath.Join(dir, name), data, 0644); err != nil {
				rt.Fatalf("writing %s: %v", name, err)
			}
		}

		cat, err := ruleset.LoadCatalog(dir)
		if err != nil {
			rt.Fatalf("unique ids rejected: %v", err)
		}
		for i, id := range ids {
			s, ok := cat.Sense(id)
			if !ok {
				rt.Fatalf("sense %q missing", id)
			}
			if s.Cost != float64(i%4+1) {
				rt.Fatalf("sense %q cost %v, want %d", id, s.Cost, i%4+1)
			}
		}
	})
}
