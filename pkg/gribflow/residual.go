package gribflow

import (
	"strings"

	"github.com/onnimonni/gribflow/internal/domain"
)

// applyResidual re-checks un-pushed filters against projected rows. This
// is what a surrounding query engine would do after the scan; the exporter
// has no engine above it, so it plays that role itself. In particular the
// bounding-box ranges are always re-checked: the remote API's subregion
// parameters are integer-truncated and not guaranteed exact.
func applyResidual(rows []Row, residual []Filter) []Row {
	if len(residual) == 0 {
		return rows
	}

	out := rows[:0]
	for _, r := range rows {
		keep := true
		for _, f := range residual {
			if !matchFilter(r, f) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, r)
		}
	}
	return out
}

// matchFilter evaluates one filter against one row. Filters over columns
// or shapes it cannot evaluate pass the row through: residual enforcement
// must never drop rows it cannot judge.
func matchFilter(r Row, f Filter) bool {
	switch f := f.(type) {
	case domain.Range:
		v, ok := numericColumn(r, f.Column)
		if !ok {
			return true
		}
		switch f.Op {
		case domain.OpGreater:
			return v > f.Value
		case domain.OpGreaterEqual:
			return v >= f.Value
		case domain.OpLess:
			return v < f.Value
		case domain.OpLessEqual:
			return v <= f.Value
		}
		return true

	case domain.Equality:
		return matchEquality(r, f.Column, f.Value)

	case domain.Membership:
		for _, v := range f.Values {
			if matchEquality(r, f.Column, v) {
				return true
			}
		}
		return false

	default:
		return true
	}
}

func matchEquality(r Row, column string, value any) bool {
	switch column {
	case domain.ColVariable:
		s, ok := value.(string)
		if !ok {
			return true
		}
		return strings.EqualFold(r.Variable, s)
	case domain.ColLevel:
		s, ok := value.(string)
		if !ok {
			return true
		}
		return strings.EqualFold(r.Level, s)
	case domain.ColRunDate:
		s, ok := value.(string)
		if !ok {
			return true
		}
		return r.RunDate == strings.ReplaceAll(s, "-", "")
	case domain.ColRunHour:
		n, ok := intFilterValue(value)
		if !ok {
			return true
		}
		return r.RunHour == n
	case domain.ColForecastHour:
		n, ok := intFilterValue(value)
		if !ok {
			return true
		}
		return r.ForecastHour == n
	case domain.ColLatitude:
		v, ok := floatFilterValue(value)
		if !ok {
			return true
		}
		return r.Latitude == v
	case domain.ColLongitude:
		v, ok := floatFilterValue(value)
		if !ok {
			return true
		}
		return r.Longitude == v
	}
	return true
}

func numericColumn(r Row, column string) (float64, bool) {
	switch column {
	case domain.ColLatitude:
		return r.Latitude, true
	case domain.ColLongitude:
		return r.Longitude, true
	case domain.ColForecastHour:
		return float64(r.ForecastHour), true
	case domain.ColRunHour:
		return float64(r.RunHour), true
	}
	return 0, false
}

func intFilterValue(v any) (int32, bool) {
	switch n := v.(type) {
	case int:
		return int32(n), true
	case int32:
		return n, true
	case int64:
		return int32(n), true
	}
	return 0, false
}

func floatFilterValue(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	}
	return 0, false
}
