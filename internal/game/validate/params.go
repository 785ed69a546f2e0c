package validate

import (
	"strings"

	"github.com/cory-johannsen/herocalc/internal/game/character"
	"github.com/cory-johannsen/herocalc/internal/game/ruleset"
)

// params checks values against the declared schema: required params are
// present, each value has the declared kind, enumerated values belong to the
// option set, and skill and power references resolve.
func (c *checker) params(owner string, specs []ruleset.ParamSpec, values character.Params) {
	for _, spec := range specs {
		v, ok := values[spec.Name]
		if !ok || v == nil {
			if spec.Required {
				c.addf("%s is missing required parameter %q.", owner, spec.Name)
			}
			continue
		}
		if spec.Kind != "" && v.Kind() != spec.Kind {
			c.addf("%s parameter %q should be %s, got %s.", owner, spec.Name, spec.Kind, v.Kind())
			continue
		}
		switch p := v.(type) {
		case character.TextParam:
			if spec.Required && strings.TrimSpace(string(p)) == "" {
				c.addf("%s is missing required parameter %q.", owner, spec.Name)
			}
		case character.ChoiceParam:
			if spec.Enumerated() {
				if _, ok := spec.Option(string(p)); !ok {
					c.addf("%s parameter %q has %q, which is not one of: %s.", owner, spec.Name, string(p), optionList(spec))
				}
			}
		case character.SkillParam:
			if _, _, ok := c.cat.Skill(string(p)); !ok {
				c.addf("%s parameter %q names unknown skill %q.", owner, spec.Name, string(p))
			}
		case character.PowerParam:
			if _, ok := c.s.Power(string(p)); !ok {
				c.addf("%s parameter %q names unknown power %q.", owner, spec.Name, string(p))
			}
		case character.ListParam:
			if spec.Required && len(p) == 0 {
				c.addf("%s is missing required parameter %q.", owner, spec.Name)
			}
		case character.BoolParam:
		}
	}
}

func optionList(spec ruleset.ParamSpec) string {
	vals := make([]string, len(spec.Options))
	for i, o := range spec.Options {
		vals[i] = o.Value
	}
	return strings.Join(vals, ", ")
}
