package domain

import (
	"fmt"
	"time"
)

// FilterBinding is the resolved scan configuration built up during planning.
// It is mutated only by the predicate translator and the limit-pushdown
// rewrite; once execution starts it must be treated as frozen.
type FilterBinding struct {
	RunDate       string // YYYYMMDD
	RunHour       int32
	ForecastHours []int32
	Variables     []string // canonical API names (TMP, RH, ...), empty = defaults
	Levels        []string // canonical API names (2_m_above_ground, ...), empty = defaults

	// Bounding box in the remote API's native convention (lon 0..360).
	LatMin  float64
	LatMax  float64
	LonMin  float64
	LonMax  float64
	HasBBox bool

	// MaxResults caps cumulative emitted rows; 0 means unlimited.
	MaxResults int64
}

// NewFilterBinding returns a binding with the bind-time defaults: today's
// run at hour 00, forecast hour 0, the full grid, no limit.
func NewFilterBinding(now time.Time) *FilterBinding {
	return &FilterBinding{
		RunDate:       now.UTC().Format("20060102"),
		RunHour:       0,
		ForecastHours: []int32{0},
		LatMin:        -90,
		LatMax:        90,
		LonMin:        0,
		LonMax:        360,
	}
}

// Clone returns a deep copy so executing scans can hold a frozen snapshot.
func (b *FilterBinding) Clone() *FilterBinding {
	c := *b
	c.ForecastHours = append([]int32(nil), b.ForecastHours...)
	c.Variables = append([]string(nil), b.Variables...)
	c.Levels = append([]string(nil), b.Levels...)
	return &c
}

// ResourceDescriptor identifies one concrete remote fetch target. The list
// of descriptors for a scan is fully determined before the first fetch and
// never mutated afterwards.
type ResourceDescriptor struct {
	RunDate      string
	RunHour      int32
	ForecastHour int32
	URL          string
}

func (d ResourceDescriptor) String() string {
	return fmt.Sprintf("gfs %s t%02dz f%03d", d.RunDate, d.RunHour, d.ForecastHour)
}
