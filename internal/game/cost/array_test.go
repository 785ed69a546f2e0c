package cost_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/herocalc/internal/game/character"
	"github.com/cory-johannsen/herocalc/internal/game/cost"
)

func TestResolveArrays_BaseAndAlternates(t *testing.T) {
	powers := []character.Power{
		{ID: "blast", ArrayID: "a", ArrayBase: true},
		{ID: "bonds", ArrayID: "a", AlternateOf: "blast"},
		{ID: "wall", ArrayID: "a"},
		{ID: "flight"},
	}
	costs := map[string]int{"blast": 12, "bonds": 10, "wall": 9, "flight": 8}

	totals := cost.ResolveArrays(powers, costs)
	require.Len(t, totals.Arrays, 1)
	a := totals.Arrays[0]
	assert.Equal(t, "blast", a.BaseID)
	assert.Equal(t, 14, a.Total)
	assert.Equal(t, 8, totals.Loose)
	assert.Equal(t, 22, totals.Total)

	s := a.Summary()
	assert.Equal(t, []string{"bonds", "wall"}, s.Alternates)
	assert.Empty(t, s.Orphans)
}

func TestResolveArrays_DynamicSurcharge(t *testing.T) {
	powers := []character.Power{
		{ID: "blast", ArrayID: "a", ArrayBase: true, Dynamic: true},
		{ID: "bonds", ArrayID: "a", AlternateOf: "blast", Dynamic: true},
	}
	totals := cost.ResolveArrays(powers, map[string]int{"blast": 12, "bonds": 10})
	require.Len(t, totals.Arrays, 1)
	assert.True(t, totals.Arrays[0].Dynamic)
	assert.Equal(t, 14, totals.Total)
}

func TestResolveArrays_BaseIsMostExpensiveUnlinked(t *testing.T) {
	powers := []character.Power{
		{ID: "cheap", ArrayID: "a"},
		{ID: "pricey_alt", ArrayID: "a", AlternateOf: "cheap"},
		{ID: "mid", ArrayID: "a"},
	}
	costs := map[string]int{"cheap": 4, "pricey_alt": 30, "mid": 9}

	a := cost.ResolveArrays(powers, costs).Arrays[0]
	assert.Equal(t, "mid", a.BaseID, "linked alternates never become the base")
	assert.Equal(t, 11, a.Total)
}

func TestResolveArrays_ImplicitChain(t *testing.T) {
	powers := []character.Power{
		{ID: "root"},
		{ID: "child", AlternateOf: "root"},
		{ID: "grandchild", AlternateOf: "child"},
	}
	totals := cost.ResolveArrays(powers, map[string]int{"root": 10, "child": 8, "grandchild": 6})

	require.Len(t, totals.Arrays, 1)
	assert.Equal(t, "~root", totals.Arrays[0].ID)
	assert.Equal(t, "root", totals.Arrays[0].BaseID)
	assert.Equal(t, 12, totals.Total)
	assert.Zero(t, totals.Loose)
}

func TestResolveArrays_OrphanPaysFull(t *testing.T) {
	powers := []character.Power{
		{ID: "blast", ArrayID: "a", ArrayBase: true},
		{ID: "stray", ArrayID: "a", AlternateOf: "elsewhere"},
		{ID: "elsewhere", ArrayID: "b"},
	}
	totals := cost.ResolveArrays(powers, map[string]int{"blast": 10, "stray": 7, "elsewhere": 5})

	require.Len(t, totals.Arrays, 2)
	a := totals.Arrays[0]
	assert.Equal(t, 17, a.Total)
	assert.Equal(t, []string{"stray"}, a.Summary().Orphans)
	assert.Equal(t, 22, totals.Total)
}

func TestResolveArrays_NoBaseChargesEveryoneInFull(t *testing.T) {
	powers := []character.Power{
		{ID: "x", ArrayID: "a", AlternateOf: "y"},
		{ID: "y", ArrayID: "a", AlternateOf: "x"},
	}
	totals := cost.ResolveArrays(powers, map[string]int{"x": 6, "y": 5})
	require.Len(t, totals.Arrays, 1)
	assert.Empty(t, totals.Arrays[0].BaseID)
	assert.Equal(t, 11, totals.Total)
}

func TestResolveArrays_BrokenLinkIsLoose(t *testing.T) {
	powers := []character.Power{
		{ID: "lonely", AlternateOf: "missing"},
		{ID: "loop", AlternateOf: "loop"},
	}
	totals := cost.ResolveArrays(powers, map[string]int{"lonely": 5, "loop": 3})
	assert.Empty(t, totals.Arrays)
	assert.Equal(t, 8, totals.Loose)
	assert.Equal(t, 8, totals.Total)
}

// Property: the total is always the loose spend plus every array total, and
// an array never costs more than its members bought separately.
func TestPropertyArrayTotals(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 12).Draw(t, "n")
		powers := make([]character.Power, n)
		costs := make(map[string]int, n)
		full := 0
		for i := range powers {
			id := fmt.Sprintf("p%d", i)
			powers[i] = character.Power{
				ID:      id,
				ArrayID: rapid.SampledFrom([]string{"", "a", "b"}).Draw(t, "array"),
				Dynamic: rapid.Bool().Draw(t, "dynamic"),
			}
			if i > 0 && rapid.Bool().Draw(t, "linked") {
				powers[i].AlternateOf = fmt.Sprintf("p%d", rapid.IntRange(0, n-1).Draw(t, "target"))
			}
			c := rapid.IntRange(3, 40).Draw(t, "cost")
			costs[id] = c
			full += c
		}

		totals := cost.ResolveArrays(powers, costs)
		sum := totals.Loose
		for _, a := range totals.Arrays {
			sum += a.Total
		}
		if sum != totals.Total {
			t.Fatalf("total %d != loose %d + arrays = %d", totals.Total, totals.Loose, sum)
		}
		if totals.Total > full {
			t.Fatalf("arrays charged %d, more than buying everything (%d)", totals.Total, full)
		}
	})
}
