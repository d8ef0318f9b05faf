// Package translate converts supported relational filter shapes into scan
// configuration, removing from the filter list only what it fully consumed.
// Translation never fails: an unrecognized name or shape simply leaves the
// filter with the caller and the binding untouched.
package translate

import (
	"strings"
	"time"

	"github.com/onnimonni/gribflow/internal/adapters/nomads"
	"github.com/onnimonni/gribflow/internal/domain"
)

// Pushdown folds every filter it understands into the binding and returns
// the residual list. Later equality filters on the same column overwrite
// earlier ones. Bounding-box range filters are captured but never removed:
// the remote API does not guarantee exact subregion semantics, so the
// surrounding engine must keep re-checking them.
func Pushdown(b *domain.FilterBinding, filters []domain.Filter) []domain.Filter {
	residual := make([]domain.Filter, 0, len(filters))

	for _, f := range filters {
		if pushOne(b, f) {
			continue
		}
		residual = append(residual, f)
	}
	return residual
}

// pushOne reports whether the filter was fully consumed.
func pushOne(b *domain.FilterBinding, f domain.Filter) bool {
	switch f := f.(type) {
	case domain.Equality:
		return pushEquality(b, f)
	case domain.Membership:
		return pushMembership(b, f)
	case domain.Range:
		pushRange(b, f)
		// Captured or not, range filters stay in the residual list.
		return false
	default:
		return false
	}
}

func pushEquality(b *domain.FilterBinding, f domain.Equality) bool {
	switch f.Column {
	case domain.ColRunDate:
		date, ok := dateString(f.Value)
		if !ok {
			return false
		}
		b.RunDate = date
		return true

	case domain.ColRunHour:
		h, ok := intValue(f.Value)
		if !ok {
			return false
		}
		b.RunHour = h
		return true

	case domain.ColForecastHour:
		h, ok := intValue(f.Value)
		if !ok {
			return false
		}
		b.ForecastHours = []int32{h}
		return true

	case domain.ColVariable:
		s, ok := f.Value.(string)
		if !ok {
			return false
		}
		v := nomads.NormalizeVariable(s)
		if v == "" {
			return false
		}
		b.Variables = []string{v}
		return true

	case domain.ColLevel:
		s, ok := f.Value.(string)
		if !ok {
			return false
		}
		l := nomads.NormalizeLevel(s)
		if l == "" {
			return false
		}
		b.Levels = []string{l}
		return true
	}
	return false
}

func pushMembership(b *domain.FilterBinding, f domain.Membership) bool {
	if len(f.Values) == 0 {
		return false
	}

	switch f.Column {
	case domain.ColVariable:
		vars := make([]string, 0, len(f.Values))
		for _, raw := range f.Values {
			s, ok := raw.(string)
			if !ok {
				return false
			}
			v := nomads.NormalizeVariable(s)
			if v == "" {
				return false
			}
			vars = append(vars, v)
		}
		b.Variables = vars
		return true

	case domain.ColLevel:
		levs := make([]string, 0, len(f.Values))
		for _, raw := range f.Values {
			s, ok := raw.(string)
			if !ok {
				return false
			}
			l := nomads.NormalizeLevel(s)
			if l == "" {
				return false
			}
			levs = append(levs, l)
		}
		b.Levels = levs
		return true

	case domain.ColForecastHour:
		hours := make([]int32, 0, len(f.Values))
		for _, raw := range f.Values {
			h, ok := intValue(raw)
			if !ok {
				return false
			}
			hours = append(hours, h)
		}
		b.ForecastHours = hours
		return true
	}
	return false
}

func pushRange(b *domain.FilterBinding, f domain.Range) {
	switch f.Column {
	case domain.ColLatitude:
		switch f.Op {
		case domain.OpGreater, domain.OpGreaterEqual:
			b.LatMin = f.Value
			b.HasBBox = true
		case domain.OpLess, domain.OpLessEqual:
			b.LatMax = f.Value
			b.HasBBox = true
		}

	case domain.ColLongitude:
		// The API speaks [0, 360); western-hemisphere bounds shift up.
		val := f.Value
		if val < 0 {
			val += 360
		}
		switch f.Op {
		case domain.OpGreater, domain.OpGreaterEqual:
			b.LonMin = val
			b.HasBBox = true
		case domain.OpLess, domain.OpLessEqual:
			b.LonMax = val
			b.HasBBox = true
		}
	}
}

func intValue(v any) (int32, bool) {
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

func dateString(v any) (string, bool) {
	switch d := v.(type) {
	case string:
		if d == "" {
			return "", false
		}
		return strings.ReplaceAll(d, "-", ""), true
	case time.Time:
		return d.UTC().Format("20060102"), true
	}
	return "", false
}
