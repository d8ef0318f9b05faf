package domain

// Virtual column names the scan exposes to the surrounding query engine.
const (
	ColRunDate      = "run_date"
	ColRunHour      = "run_hour"
	ColForecastHour = "forecast_hour"
	ColVariable     = "variable"
	ColLevel        = "level"
	ColLatitude     = "latitude"
	ColLongitude    = "longitude"
)

// CompareOp is the comparison operator of an Equality or Range filter.
type CompareOp int

const (
	OpEqual CompareOp = iota
	OpGreater
	OpGreaterEqual
	OpLess
	OpLessEqual
)

// Filter is a closed set of relational filter shapes the translator can
// inspect: equality against a constant, membership in a constant list, and
// one-sided range comparison. Anything else stays with the caller.
type Filter interface {
	FilterColumn() string
	isFilter()
}

// Equality is `column = constant`. The constant keeps its source type
// (string, int64, float64, time.Time); the translator type-switches on it.
type Equality struct {
	Column string
	Value  any
}

// Membership is `column IN (constants...)`. Consumed atomically: if any
// element fails to normalize the whole filter is left un-pushed.
type Membership struct {
	Column string
	Values []any
}

// Range is a one-sided numeric comparison, used for the bounding box.
type Range struct {
	Column string
	Op     CompareOp
	Value  float64
}

func (f Equality) FilterColumn() string   { return f.Column }
func (f Membership) FilterColumn() string { return f.Column }
func (f Range) FilterColumn() string      { return f.Column }

func (Equality) isFilter()   {}
func (Membership) isFilter() {}
func (Range) isFilter()      {}
