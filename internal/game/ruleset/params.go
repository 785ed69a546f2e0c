package ruleset

import "github.com/cory-johannsen/herocalc/internal/game/character"

// Option is one member of an enumerated parameter. CostDelta adjusts the
// owning modifier's cost when the option is chosen; SetsRange overrides the
// power's range.
type Option struct {
	Value     string  `yaml:"value"`
	CostDelta float64 `yaml:"cost_delta"`
	SetsRange string  `yaml:"sets_range"`
}

// ParamSpec declares one parameter an advantage, modifier, or effect accepts.
type ParamSpec struct {
	Name     string              `yaml:"name"`
	Kind     character.ParamKind `yaml:"kind"`
	Required bool                `yaml:"required"`
	Options  []Option            `yaml:"options"`
}

// Option returns the option whose value matches v.
func (p ParamSpec) Option(v string) (Option, bool) {
	for _, o := range p.Options {
		if o.Value == v {
			return o, true
		}
	}
	return Option{}, false
}

// Enumerated reports whether the parameter restricts values to Options.
func (p ParamSpec) Enumerated() bool {
	return len(p.Options) > 0
}
