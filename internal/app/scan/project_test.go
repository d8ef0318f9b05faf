package scan

import (
	"testing"

	"github.com/onnimonni/gribflow/internal/domain"
)

func TestParameterName(t *testing.T) {
	cases := []struct {
		d, c, n uint8
		want    string
	}{
		{0, 0, 0, "temperature"},
		{0, 1, 1, "humidity"},
		{0, 1, 8, "precipitation"},
		{0, 2, 2, "wind_u"},
		{0, 2, 3, "wind_v"},
		{0, 2, 22, "gust"},
		{0, 3, 1, "pressure"},
		{0, 6, 1, "clouds"},
		{0, 0, 99, "unknown"},
		{1, 0, 0, "unknown"}, // non-meteorological discipline
	}

	for _, tc := range cases {
		if got := ParameterName(tc.d, tc.c, tc.n); got != tc.want {
			t.Errorf("ParameterName(%d,%d,%d) = %q, want %q", tc.d, tc.c, tc.n, got, tc.want)
		}
	}
}

func TestLevelLabel(t *testing.T) {
	cases := []struct {
		code  uint8
		value float64
		want  string
	}{
		{1, 0, "surface"},
		{10, 0, "atmosphere"},
		{100, 85000, "850hPa"},
		{101, 0, "msl"},
		{103, 2, "2m"},
		{103, 10, "10m"},
		{103, 80, "80m"},
		{200, 0, "unknown"},
	}

	for _, tc := range cases {
		if got := LevelLabel(tc.code, tc.value); got != tc.want {
			t.Errorf("LevelLabel(%d, %v) = %q, want %q", tc.code, tc.value, got, tc.want)
		}
	}
}

func TestVariableUnit(t *testing.T) {
	if u := VariableUnit("wind_u"); !u.Valid || u.String != "m/s" {
		t.Errorf("wind_u unit = %+v, want m/s", u)
	}
	if u := VariableUnit("temperature"); !u.Valid || u.String != "K" {
		t.Errorf("temperature unit = %+v, want K", u)
	}
	// Unknown variables surface as NULL, never as empty string.
	if u := VariableUnit("unknown"); u.Valid {
		t.Errorf("unknown unit = %+v, want NULL", u)
	}
}

func TestNormalizeLongitude(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{0, 0},
		{25.25, 25.25},
		{180, 180},
		{180.25, -179.75},
		{350, -10},
		{359.75, -0.25},
		{-170, -170}, // already in range: idempotent
	}

	for _, tc := range cases {
		if got := NormalizeLongitude(tc.in); got != tc.want {
			t.Errorf("NormalizeLongitude(%v) = %v, want %v", tc.in, got, tc.want)
		}
		// Projection is idempotent on its valid range.
		if again := NormalizeLongitude(NormalizeLongitude(tc.in)); again != tc.want {
			t.Errorf("NormalizeLongitude not idempotent for %v: %v", tc.in, again)
		}
	}
}

func TestProjectSample(t *testing.T) {
	res := domain.ResourceDescriptor{
		RunDate:      "20260120",
		RunHour:      6,
		ForecastHour: 12,
	}
	s := domain.Sample{
		Latitude:          61.5,
		Longitude:         337.5,
		Value:             4.2,
		Discipline:        0,
		ParameterCategory: 2,
		ParameterNumber:   2,
		SurfaceType:       103,
		SurfaceValue:      10,
	}

	row := ProjectSample(s, res)

	if row.Variable != "wind_u" {
		t.Errorf("variable = %q, want wind_u", row.Variable)
	}
	if !row.Unit.Valid || row.Unit.String != "m/s" {
		t.Errorf("unit = %+v, want m/s", row.Unit)
	}
	if row.Longitude != -22.5 {
		t.Errorf("longitude = %v, want -22.5", row.Longitude)
	}
	if row.Level != "10m" {
		t.Errorf("level = %q, want 10m", row.Level)
	}
	if row.ForecastHour != 12 || row.RunDate != "20260120" || row.RunHour != 6 {
		t.Errorf("resource metadata lost: %+v", row)
	}
}
