package character

func cloneInts(m map[string]int) map[string]int {
	if m == nil {
		return nil
	}
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}

// Clone returns a deep copy of s. No slice, map, or pointer is shared between
// the copy and the original.
func (s *Snapshot) Clone() *Snapshot {
	out := *s
	out.Abilities = cloneInts(s.Abilities)
	out.Defenses = cloneInts(s.Defenses)
	out.Skills = cloneInts(s.Skills)

	if s.Advantages != nil {
		out.Advantages = make([]Advantage, len(s.Advantages))
		for i, a := range s.Advantages {
			a.Params = a.Params.Clone()
			out.Advantages[i] = a
		}
	}
	if s.Powers != nil {
		out.Powers = make([]Power, len(s.Powers))
		for i := range s.Powers {
			out.Powers[i] = s.Powers[i].Clone()
		}
	}
	if s.Equipment != nil {
		out.Equipment = append([]Equipment(nil), s.Equipment...)
	}
	if s.Headquarters != nil {
		out.Headquarters = make([]Headquarters, len(s.Headquarters))
		for i, h := range s.Headquarters {
			h.Features = cloneStrings(h.Features)
			out.Headquarters[i] = h
		}
	}
	if s.Vehicles != nil {
		out.Vehicles = make([]Vehicle, len(s.Vehicles))
		for i, v := range s.Vehicles {
			v.Features = cloneStrings(v.Features)
			out.Vehicles[i] = v
		}
	}
	if s.Allies != nil {
		out.Allies = append([]Ally(nil), s.Allies...)
	}
	if s.Complications != nil {
		out.Complications = append([]Complication(nil), s.Complications...)
	}
	out.Derived = s.Derived.Clone()
	return &out
}

// Clone returns a deep copy of p.
func (p Power) Clone() Power {
	out := p
	if p.Modifiers != nil {
		out.Modifiers = make([]AppliedModifier, len(p.Modifiers))
		for i, m := range p.Modifiers {
			m.Params = m.Params.Clone()
			out.Modifiers[i] = m
		}
	}
	out.Senses = cloneStrings(p.Senses)
	out.Immunities = cloneStrings(p.Immunities)
	if p.Configurations != nil {
		out.Configurations = append([]VariableConfig(nil), p.Configurations...)
	}
	out.AfflictionDegrees = cloneStrings(p.AfflictionDegrees)
	if p.Enhancement != nil {
		e := *p.Enhancement
		out.Enhancement = &e
	}
	out.Settings = p.Settings.Clone()
	out.Computed.Breakdown.Unknown = cloneStrings(p.Computed.Breakdown.Unknown)
	if p.Computed.Resistance != nil {
		dc := *p.Computed.Resistance
		if dc.HalfOnDodge != nil {
			h := *dc.HalfOnDodge
			dc.HalfOnDodge = &h
		}
		out.Computed.Resistance = &dc
	}
	return out
}

// Clone returns a deep copy of d.
func (d Derived) Clone() Derived {
	out := d
	if d.AllyPools != nil {
		out.AllyPools = make(map[string]Pool, len(d.AllyPools))
		for k, v := range d.AllyPools {
			out.AllyPools[k] = v
		}
	}
	out.Abilities = cloneInts(d.Abilities)
	out.Defenses = cloneInts(d.Defenses)
	out.Skills = cloneInts(d.Skills)
	out.Advantages = cloneInts(d.Advantages)
	if d.Arrays != nil {
		out.Arrays = make([]ArraySummary, len(d.Arrays))
		for i, a := range d.Arrays {
			a.Alternates = cloneStrings(a.Alternates)
			a.Orphans = cloneStrings(a.Orphans)
			out.Arrays[i] = a
		}
	}
	out.Errors = cloneStrings(d.Errors)
	return out
}
