package ruleset

// Quantity kinds available in the measurement progression table.
const (
	QuantityMass     = "mass"
	QuantityTime     = "time"
	QuantityDistance = "distance"
	QuantityVolume   = "volume"
)

// MeasurementRow is one rank of the measurement progression table. Values are
// free text such as "1/2 mile", "25 tons" or "Planetary".
type MeasurementRow struct {
	Rank     int    `yaml:"rank"`
	Mass     string `yaml:"mass"`
	Time     string `yaml:"time"`
	Distance string `yaml:"distance"`
	Volume   string `yaml:"volume"`
}

// Value returns the row's value for kind.
//
// Postcondition: ok is false for an unknown kind or an empty cell.
func (r MeasurementRow) Value(kind string) (string, bool) {
	var v string
	switch kind {
	case QuantityMass:
		v = r.Mass
	case QuantityTime:
		v = r.Time
	case QuantityDistance:
		v = r.Distance
	case QuantityVolume:
		v = r.Volume
	}
	return v, v != ""
}
