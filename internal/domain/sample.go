package domain

import "database/sql"

// Sample is one raw grid point as produced by the GRIB2 decoder, before any
// projection into the relational output schema.
type Sample struct {
	Latitude  float64
	Longitude float64
	Value     float64

	// GRIB2 parameter identity.
	Discipline        uint8
	ParameterCategory uint8
	ParameterNumber   uint8

	// Vertical level identity.
	SurfaceType  uint8
	SurfaceValue float64

	// Index of the GRIB message this point came from.
	MessageIndex uint32
}

// Row is one schema-conformant output row: a projected sample plus the
// metadata of the resource it came from. Column order of the declared
// schema is part of the compatibility contract; see Columns.
type Row struct {
	Latitude     float64
	Longitude    float64 // rebased to (-180, 180]
	Value        float64
	Unit         sql.NullString // NULL when the variable has no known unit
	Variable     string
	Level        string
	ForecastHour int32
	RunDate      string // YYYYMMDD
	RunHour      int32
}

// Columns lists the output schema in declared order.
func Columns() []string {
	return []string{
		"latitude", "longitude", "value", "unit", "variable",
		"level", "forecast_hour", "run_date", "run_hour",
	}
}
