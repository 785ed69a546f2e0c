package cost

import (
	"strings"

	"github.com/cory-johannsen/herocalc/internal/game/character"
)

// Surcharges for alternate effects.
const (
	AlternateCost        = 1
	DynamicAlternateCost = 2
)

// implicitArrayPrefix keys arrays formed only by alternate-effect links.
const implicitArrayPrefix = "~"

// Role is how a power was charged within its array.
type Role string

const (
	RoleBase      Role = "base"
	RoleAlternate Role = "alternate"
	RoleOrphan    Role = "orphan"
)

// Member is one power's charge within an array.
type Member struct {
	PowerID string
	Role    Role
	Charged int
}

// Array is the resolution of one group of powers sharing a point cost.
type Array struct {
	ID      string
	BaseID  string
	Dynamic bool
	Total   int
	Members []Member
}

// Summary converts the array into its snapshot form.
func (a Array) Summary() character.ArraySummary {
	s := character.ArraySummary{ID: a.ID, Base: a.BaseID, Dynamic: a.Dynamic, Total: a.Total}
	for _, m := range a.Members {
		switch m.Role {
		case RoleAlternate:
			s.Alternates = append(s.Alternates, m.PowerID)
		case RoleOrphan:
			s.Orphans = append(s.Orphans, m.PowerID)
		}
	}
	return s
}

// Totals is the power-point spend of a whole character.
type Totals struct {
	Arrays []Array
	Loose  int
	Total  int
}

// ResolveArrays groups powers into arrays and totals the power-point spend.
// costs maps power id to its individually computed cost.
//
// Within an array the base is the power flagged ArrayBase, else the most
// expensive member not linked as an alternate. Alternates linked to the base
// (or to another member, or unlinked) pay a flat surcharge; members linked to
// a power outside the array are orphans and pay full cost. An array with no
// resolvable base charges every member in full.
//
// Postcondition: Total == Loose + sum of every Array.Total.
func ResolveArrays(powers []character.Power, costs map[string]int) Totals {
	byID := make(map[string]*character.Power, len(powers))
	for i := range powers {
		if _, dup := byID[powers[i].ID]; !dup {
			byID[powers[i].ID] = &powers[i]
		}
	}

	keys := make([]string, len(powers))
	roots := make(map[string]bool)
	for i := range powers {
		keys[i] = arrayKey(&powers[i], byID)
		if root, ok := strings.CutPrefix(keys[i], implicitArrayPrefix); ok {
			roots[root] = true
		}
	}
	for i := range powers {
		if keys[i] == "" && roots[powers[i].ID] {
			keys[i] = implicitArrayPrefix + powers[i].ID
		}
	}

	var (
		order  []string
		groups = make(map[string][]*character.Power)
		totals Totals
	)
	for i := range powers {
		k := keys[i]
		if k == "" {
			totals.Loose += costs[powers[i].ID]
			continue
		}
		if _, seen := groups[k]; !seen {
			order = append(order, k)
		}
		groups[k] = append(groups[k], &powers[i])
	}
	for _, k := range order {
		a := resolveArray(k, groups[k], costs)
		totals.Arrays = append(totals.Arrays, a)
		totals.Total += a.Total
	}
	totals.Total += totals.Loose
	return totals
}

// arrayKey follows alternate-effect links until it reaches a power with an
// explicit array id or a chain root. Broken or cyclic chains yield "".
func arrayKey(p *character.Power, byID map[string]*character.Power) string {
	visited := make(map[string]bool)
	cur := p
	for {
		if cur.ArrayID != "" {
			return cur.ArrayID
		}
		if cur.AlternateOf == "" {
			if cur == p {
				return ""
			}
			return implicitArrayPrefix + cur.ID
		}
		if visited[cur.ID] {
			return ""
		}
		visited[cur.ID] = true
		next, ok := byID[cur.AlternateOf]
		if !ok || next == cur {
			return ""
		}
		cur = next
	}
}

func resolveArray(id string, members []*character.Power, costs map[string]int) Array {
	a := Array{ID: id}
	inArray := make(map[string]bool, len(members))
	for _, m := range members {
		inArray[m.ID] = true
		if m.Dynamic {
			a.Dynamic = true
		}
	}

	var base *character.Power
	for _, m := range members {
		if m.ArrayBase {
			base = m
			break
		}
	}
	if base == nil {
		for _, m := range members {
			if m.AlternateOf != "" {
				continue
			}
			if base == nil || costs[m.ID] > costs[base.ID] {
				base = m
			}
		}
	}

	surcharge := AlternateCost
	if a.Dynamic {
		surcharge = DynamicAlternateCost
	}
	for _, m := range members {
		var charge Member
		switch {
		case base == nil:
			charge = Member{PowerID: m.ID, Role: RoleOrphan, Charged: costs[m.ID]}
		case m == base:
			a.BaseID = m.ID
			charge = Member{PowerID: m.ID, Role: RoleBase, Charged: costs[m.ID]}
		case m.AlternateOf == "" || (inArray[m.AlternateOf] && m.AlternateOf != m.ID):
			charge = Member{PowerID: m.ID, Role: RoleAlternate, Charged: surcharge}
		default:
			charge = Member{PowerID: m.ID, Role: RoleOrphan, Charged: costs[m.ID]}
		}
		a.Members = append(a.Members, charge)
		a.Total += charge.Charged
	}
	return a
}
