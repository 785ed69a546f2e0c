package character

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// ParamKind tags the variant held by a Param.
type ParamKind string

const (
	ParamText   ParamKind = "text"
	ParamChoice ParamKind = "choice"
	ParamSkill  ParamKind = "skill"
	ParamPower  ParamKind = "power"
	ParamList   ParamKind = "list"
	ParamBool   ParamKind = "bool"
)

// Param is a parameter value attached to an advantage, modifier, or power.
// The interface is sealed: the six variants below are the only
// implementations, so a type switch over them is exhaustive.
type Param interface {
	Kind() ParamKind
	sealed()
}

// TextParam is free text.
type TextParam string

// ChoiceParam is one member of an enumerated option set.
type ChoiceParam string

// SkillParam references a base or specialized skill id.
type SkillParam string

// PowerParam references a power instance id.
type PowerParam string

// ListParam is a list of free-text entries, such as known languages.
type ListParam []string

// BoolParam is a flag.
type BoolParam bool

func (TextParam) Kind() ParamKind   { return ParamText }
func (ChoiceParam) Kind() ParamKind { return ParamChoice }
func (SkillParam) Kind() ParamKind  { return ParamSkill }
func (PowerParam) Kind() ParamKind  { return ParamPower }
func (ListParam) Kind() ParamKind   { return ParamList }
func (BoolParam) Kind() ParamKind   { return ParamBool }

func (TextParam) sealed()   {}
func (ChoiceParam) sealed() {}
func (SkillParam) sealed()  {}
func (PowerParam) sealed()  {}
func (ListParam) sealed()   {}
func (BoolParam) sealed()   {}

// Params is a named parameter bag.
type Params map[string]Param

// String returns the scalar value of a text, choice, skill, or power param.
func (p Params) String(name string) (string, bool) {
	switch v := p[name].(type) {
	case TextParam:
		return string(v), true
	case ChoiceParam:
		return string(v), true
	case SkillParam:
		return string(v), true
	case PowerParam:
		return string(v), true
	}
	return "", false
}

// List returns the entries of a list param.
func (p Params) List(name string) ([]string, bool) {
	v, ok := p[name].(ListParam)
	return []string(v), ok
}

// Clone returns a deep copy.
func (p Params) Clone() Params {
	if p == nil {
		return nil
	}
	out := make(Params, len(p))
	for k, v := range p {
		if l, ok := v.(ListParam); ok {
			v = append(ListParam(nil), l...)
		}
		out[k] = v
	}
	return out
}

type paramDoc struct {
	Kind  ParamKind `yaml:"kind"`
	Value yaml.Node `yaml:"value"`
}

// MarshalYAML writes each param as a {kind, value} document.
func (p Params) MarshalYAML() (any, error) {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := &yaml.Node{Kind: yaml.MappingNode}
	for _, k := range keys {
		var value any
		switch v := p[k].(type) {
		case TextParam:
			value = string(v)
		case ChoiceParam:
			value = string(v)
		case SkillParam:
			value = string(v)
		case PowerParam:
			value = string(v)
		case ListParam:
			value = []string(v)
		case BoolParam:
			value = bool(v)
		default:
			return nil, fmt.Errorf("param %q has unsupported type %T", k, v)
		}
		var doc yaml.Node
		if err := doc.Encode(map[string]any{"kind": p[k].Kind(), "value": value}); err != nil {
			return nil, fmt.Errorf("encoding param %q: %w", k, err)
		}
		out.Content = append(out.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: k}, &doc)
	}
	return out, nil
}

// UnmarshalYAML reads {kind, value} documents back into their variants.
func (p *Params) UnmarshalYAML(node *yaml.Node) error {
	var docs map[string]paramDoc
	if err := node.Decode(&docs); err != nil {
		return err
	}
	out := make(Params, len(docs))
	for name, d := range docs {
		v, err := decodeParam(d)
		if err != nil {
			return fmt.Errorf("param %q: %w", name, err)
		}
		out[name] = v
	}
	*p = out
	return nil
}

func decodeParam(d paramDoc) (Param, error) {
	switch d.Kind {
	case ParamList:
		var l []string
		if err := d.Value.Decode(&l); err != nil {
			return nil, err
		}
		return ListParam(l), nil
	case ParamBool:
		var b bool
		if err := d.Value.Decode(&b); err != nil {
			return nil, err
		}
		return BoolParam(b), nil
	}
	var s string
	if err := d.Value.Decode(&s); err != nil {
		return nil, err
	}
	switch d.Kind {
	case ParamText:
		return TextParam(s), nil
	case ParamChoice:
		return ChoiceParam(s), nil
	case ParamSkill:
		return SkillParam(s), nil
	case ParamPower:
		return PowerParam(s), nil
	}
	return nil, fmt.Errorf("unknown param kind %q", d.Kind)
}
