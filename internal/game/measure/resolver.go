// Package measure converts abstract ranks into real-world quantities using the
// sparse measurement progression table.
package measure

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/cory-johannsen/herocalc/internal/game/ruleset"
)

// DefaultThreshold is the share of the previous row's value a step must exceed
// for growth to be treated as multiplicative rather than additive.
const DefaultThreshold = 0.5

// ResultKind classifies how a lookup was answered.
type ResultKind int

const (
	// Exact means the table lists the requested rank.
	Exact ResultKind = iota
	// Between means the rank falls in a gap and the lower row was used.
	Between
	// Below means the rank is under the smallest listed rank.
	Below
	// Extrapolated means the value was projected past the largest listed rank.
	Extrapolated
	// Beyond means the rank is past the table and could not be projected.
	Beyond
	// Unknown means no row lists the requested quantity kind.
	Unknown
)

// Result is a resolved measurement.
type Result struct {
	Text        string
	Kind        ResultKind
	Magnitude   float64
	Unit        string
	Approximate bool
}

// Resolver answers rank-to-quantity lookups. It is immutable and safe for
// concurrent use.
type Resolver struct {
	rows      []ruleset.MeasurementRow
	threshold float64
	printer   *message.Printer
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithThreshold overrides DefaultThreshold.
func WithThreshold(t float64) Option {
	return func(r *Resolver) {
		if t > 0 {
			r.threshold = t
		}
	}
}

// NewResolver builds a resolver over rows.
//
// Precondition: rows must be sorted by ascending rank (as Catalog.Measurements returns them).
func NewResolver(rows []ruleset.MeasurementRow, opts ...Option) *Resolver {
	r := &Resolver{
		rows:      rows,
		threshold: DefaultThreshold,
		printer:   message.NewPrinter(language.English),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Resolve returns the display text for rank in the given quantity kind. It
// never fails: out-of-table ranks degrade to approximate or bounding text.
func (r *Resolver) Resolve(rank int, kind string) string {
	return r.Lookup(rank, kind).Text
}

type point struct {
	rank  int
	value string
}

// Lookup resolves rank with full detail about how the answer was reached.
func (r *Resolver) Lookup(rank int, kind string) Result {
	var pts []point
	for _, row := range r.rows {
		if v, ok := row.Value(kind); ok {
			pts = append(pts, point{rank: row.Rank, value: v})
		}
	}
	if len(pts) == 0 {
		return Result{Text: fmt.Sprintf("[no %s measurement]", kind), Kind: Unknown}
	}
	first, last := pts[0], pts[len(pts)-1]
	switch {
	case rank < first.rank:
		return Result{Text: "less than " + first.value, Kind: Below, Approximate: true}
	case rank > last.rank:
		return r.extrapolate(rank, pts)
	}
	lower := first
	for _, p := range pts {
		if p.rank == rank {
			return withMagnitude(Result{Text: p.value, Kind: Exact}, p.value)
		}
		if p.rank > rank {
			break
		}
		lower = p
	}
	return withMagnitude(Result{
		Text:        fmt.Sprintf("%s (approx. for rank %d)", lower.value, rank),
		Kind:        Between,
		Approximate: true,
	}, lower.value)
}

func withMagnitude(res Result, value string) Result {
	if m, unit, err := ParseMagnitude(value); err == nil {
		res.Magnitude = m
		res.Unit = unit
	}
	return res
}

func (r *Resolver) extrapolate(rank int, pts []point) Result {
	last := pts[len(pts)-1]
	beyond := Result{Text: "more than " + last.value, Kind: Beyond, Approximate: true}
	if len(pts) < 2 {
		return beyond
	}
	prev := pts[len(pts)-2]
	v1, _, err1 := ParseMagnitude(prev.value)
	v2, unit, err2 := ParseMagnitude(last.value)
	if err1 != nil || err2 != nil {
		return beyond
	}
	step := float64(last.rank - prev.rank)
	beyondBy := float64(rank - last.rank)

	var projected float64
	if math.Abs(v2-v1) > r.threshold*(v1*step) {
		if v1 <= 0 || v2 <= 0 {
			return beyond
		}
		growth := math.Pow(v2/v1, 1/step)
		projected = v2 * math.Pow(growth, beyondBy)
	} else {
		projected = v2 + (v2-v1)/step*beyondBy
	}
	if math.IsNaN(projected) || math.IsInf(projected, 0) {
		return beyond
	}
	text := "~" + r.format(projected)
	if unit != "" {
		text += " " + unit
	}
	return Result{
		Text:        text + " (approx.)",
		Kind:        Extrapolated,
		Magnitude:   projected,
		Unit:        unit,
		Approximate: true,
	}
}

func (r *Resolver) format(v float64) string {
	switch {
	case math.Abs(v) >= 1e15:
		return strconv.FormatFloat(v, 'g', 3, 64)
	case math.Abs(v) >= 10:
		return r.printer.Sprintf("%d", int64(math.Round(v)))
	default:
		return r.printer.Sprintf("%.1f", v)
	}
}

// ErrNotNumeric is returned by ParseMagnitude for qualitative values.
var ErrNotNumeric = errors.New("measurement value is not numeric")

// ParseMagnitude splits a table value such as "1/2 mile", "25 tons" or
// "1,000 cft" into its numeric magnitude and trailing unit text.
//
// Postcondition: err wraps ErrNotNumeric when the leading token is not an
// integer, decimal, or a/b fraction.
func ParseMagnitude(value string) (float64, string, error) {
	fields := strings.Fields(value)
	if len(fields) == 0 {
		return 0, "", ErrNotNumeric
	}
	token := strings.ReplaceAll(fields[0], ",", "")
	unit := strings.Join(fields[1:], " ")
	if num, den, ok := strings.Cut(token, "/"); ok {
		a, errA := strconv.ParseFloat(num, 64)
		b, errB := strconv.ParseFloat(den, 64)
		if errA != nil || errB != nil || b == 0 {
			return 0, "", fmt.Errorf("%q: %w", value, ErrNotNumeric)
		}
		return a / b, unit, nil
	}
	v, err := strconv.ParseFloat(token, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, "", fmt.Errorf("%q: %w", value, ErrNotNumeric)
	}
	return v, unit, nil
}
