package character

import (
	"fmt"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Rate tags reported instead of a numeric cost per rank.
const (
	RatePackage = "package"
	RateFixed   = "fixed"
	RateUnknown = "unknown"
)

// Rate is a power's effective cost per rank: either a number or a tag for
// shapes where a per-rank figure has no meaning.
type Rate struct {
	Value float64
	Tag   string
}

// NumericRate returns an untagged rate.
func NumericRate(v float64) Rate { return Rate{Value: v} }

// TaggedRate returns a non-numeric rate.
func TaggedRate(tag string) Rate { return Rate{Tag: tag} }

// Numeric reports whether the rate carries a usable number.
func (r Rate) Numeric() bool { return r.Tag == "" }

// String renders the rate the way a character sheet prints it: "2", "1 per 3"
// for fractional rates, or the tag.
func (r Rate) String() string {
	if !r.Numeric() {
		return r.Tag
	}
	if r.Value > 0 && r.Value < 1 {
		return fmt.Sprintf("1 per %d", int(math.Ceil(1/r.Value-1e-9)))
	}
	return strconv.FormatFloat(r.Value, 'f', -1, 64)
}

// MarshalYAML writes numeric rates as numbers and tagged rates as strings.
func (r Rate) MarshalYAML() (any, error) {
	if !r.Numeric() {
		return r.Tag, nil
	}
	return r.Value, nil
}

// UnmarshalYAML accepts either a number or a tag string.
func (r *Rate) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: cost_per_rank must be a scalar", node.Line)
	}
	if v, err := strconv.ParseFloat(node.Value, 64); err == nil {
		*r = NumericRate(v)
		return nil
	}
	*r = TaggedRate(node.Value)
	return nil
}
