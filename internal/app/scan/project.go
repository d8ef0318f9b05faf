package scan

import (
	"database/sql"
	"fmt"

	"github.com/onnimonni/gribflow/internal/domain"
)

// ParameterName resolves a GRIB2 (discipline, category, number) triple to
// the human-readable variable name of the output schema. Combinations the
// table does not know map to "unknown", never to an error.
func ParameterName(discipline, category, number uint8) string {
	if discipline != 0 { // only meteorological products are mapped
		return "unknown"
	}
	switch category {
	case 0: // temperature
		if number == 0 {
			return "temperature"
		}
	case 1: // moisture
		switch number {
		case 1:
			return "humidity"
		case 8:
			return "precipitation"
		}
	case 2: // momentum
		switch number {
		case 2:
			return "wind_u"
		case 3:
			return "wind_v"
		case 22:
			return "gust"
		}
	case 3: // mass
		if number == 1 {
			return "pressure"
		}
	case 6: // cloud
		if number == 1 {
			return "clouds"
		}
	}
	return "unknown"
}

// LevelLabel resolves a GRIB2 (surface-type, surface-value) pair to the
// canonical level label, falling back to a numeric height or pressure
// rendering when no named bucket matches.
func LevelLabel(surfaceType uint8, surfaceValue float64) string {
	switch surfaceType {
	case 1:
		return "surface"
	case 10:
		return "atmosphere"
	case 100:
		return fmt.Sprintf("%dhPa", int(surfaceValue/100))
	case 101:
		return "msl"
	case 103:
		switch surfaceValue {
		case 2:
			return "2m"
		case 10:
			return "10m"
		}
		return fmt.Sprintf("%dm", int(surfaceValue))
	default:
		return "unknown"
	}
}

// VariableUnit returns the physical unit for a variable name. The zero
// value (invalid NullString) stands for a relational NULL: unknown units
// are never rendered as an empty string.
func VariableUnit(variable string) sql.NullString {
	var unit string
	switch variable {
	case "temperature":
		unit = "K"
	case "humidity", "clouds":
		unit = "%"
	case "wind_u", "wind_v", "gust":
		unit = "m/s"
	case "pressure":
		unit = "Pa"
	case "precipitation":
		unit = "kg/m^2"
	default:
		return sql.NullString{}
	}
	return sql.NullString{String: unit, Valid: true}
}

// NormalizeLongitude rebases a longitude from the API's [0, 360) convention
// to (-180, 180]. Values already in that range pass through unchanged.
func NormalizeLongitude(lon float64) float64 {
	if lon > 180 {
		return lon - 360
	}
	return lon
}

// ProjectSample maps one decoded sample plus its resource metadata into an
// output row. Exactly one row per sample; no fan-out.
func ProjectSample(s domain.Sample, res domain.ResourceDescriptor) domain.Row {
	variable := ParameterName(s.Discipline, s.ParameterCategory, s.ParameterNumber)

	return domain.Row{
		Latitude:     s.Latitude,
		Longitude:    NormalizeLongitude(s.Longitude),
		Value:        s.Value,
		Unit:         VariableUnit(variable),
		Variable:     variable,
		Level:        LevelLabel(s.SurfaceType, s.SurfaceValue),
		ForecastHour: res.ForecastHour,
		RunDate:      res.RunDate,
		RunHour:      res.RunHour,
	}
}
