package character

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDGenerator produces instance ids that are never reused.
type IDGenerator interface {
	Generate() string
}

// UUIDGenerator generates random v4 UUIDs.
type UUIDGenerator struct{}

// Generate returns a new UUID string.
func (UUIDGenerator) Generate() string {
	return uuid.NewString()
}

// SequentialGenerator generates predictable ids for tests.
type SequentialGenerator struct {
	prefix  string
	counter uint64
}

// NewSequential returns a generator producing prefix_1, prefix_2, ...
func NewSequential(prefix string) *SequentialGenerator {
	return &SequentialGenerator{prefix: prefix}
}

// Generate returns the next id in sequence.
func (g *SequentialGenerator) Generate() string {
	n := atomic.AddUint64(&g.counter, 1)
	return fmt.Sprintf("%s_%d", g.prefix, n)
}

// AssignMissingIDs gives every list entry lacking an instance id, or sharing
// one with an earlier entry, a fresh id. Existing unique ids are left alone.
// Power ids are claimed first: other entries are renamed on a collision, so
// links between powers keep pointing at the same power. A duplicated power id
// keeps its first holder, which is the power links already resolve to.
//
// Postcondition: every instance id in s is non-empty and unique.
func (s *Snapshot) AssignMissingIDs(gen IDGenerator) {
	seen := make(map[string]bool)
	fix := func(id *string) {
		for *id == "" || seen[*id] {
			*id = gen.Generate()
		}
		seen[*id] = true
	}
	for i := range s.Powers {
		fix(&s.Powers[i].ID)
	}
	for i := range s.Powers {
		for j := range s.Powers[i].Modifiers {
			fix(&s.Powers[i].Modifiers[j].InstanceID)
		}
	}
	for i := range s.Advantages {
		fix(&s.Advantages[i].InstanceID)
	}
	for i := range s.Equipment {
		fix(&s.Equipment[i].InstanceID)
	}
	for i := range s.Headquarters {
		fix(&s.Headquarters[i].InstanceID)
	}
	for i := range s.Vehicles {
		fix(&s.Vehicles[i].InstanceID)
	}
	for i := range s.Allies {
		fix(&s.Allies[i].InstanceID)
	}
	for i := range s.Complications {
		fix(&s.Complications[i].InstanceID)
	}
}

// ReassignIDs replaces every instance id with a fresh one and rewrites the
// links between powers (alternate-effect links, power-rank enhancement
// targets, power-reference params) to follow.
//
// Postcondition: no instance id from before the call remains in s.
func (s *Snapshot) ReassignIDs(gen IDGenerator) {
	renamed := make(map[string]string, len(s.Powers))
	for i := range s.Powers {
		next := gen.Generate()
		if old := s.Powers[i].ID; old != "" {
			if _, dup := renamed[old]; !dup {
				renamed[old] = next
			}
		}
		s.Powers[i].ID = next
	}
	relink := func(id string) string {
		if n, ok := renamed[id]; ok {
			return n
		}
		return id
	}
	relinkParams := func(p Params) {
		for k, v := range p {
			if ref, ok := v.(PowerParam); ok {
				p[k] = PowerParam(relink(string(ref)))
			}
		}
	}
	for i := range s.Powers {
		p := &s.Powers[i]
		p.AlternateOf = relink(p.AlternateOf)
		if p.Enhancement != nil && p.Enhancement.Category == TraitPowerRank {
			p.Enhancement.Target = relink(p.Enhancement.Target)
		}
		relinkParams(p.Settings)
		for j := range p.Modifiers {
			p.Modifiers[j].InstanceID = gen.Generate()
			relinkParams(p.Modifiers[j].Params)
		}
	}
	for i := range s.Advantages {
		s.Advantages[i].InstanceID = gen.Generate()
		relinkParams(s.Advantages[i].Params)
	}
	for i := range s.Equipment {
		s.Equipment[i].InstanceID = gen.Generate()
	}
	for i := range s.Headquarters {
		s.Headquarters[i].InstanceID = gen.Generate()
	}
	for i := range s.Vehicles {
		s.Vehicles[i].InstanceID = gen.Generate()
	}
	for i := range s.Allies {
		s.Allies[i].InstanceID = gen.Generate()
	}
	for i := range s.Complications {
		s.Complications[i].InstanceID = gen.Generate()
	}
}
