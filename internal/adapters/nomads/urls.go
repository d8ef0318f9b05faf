package nomads

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/onnimonni/gribflow/internal/domain"
)

// DefaultBaseURL is the NOMADS filter CGI for the 0.25 degree GFS grid.
const DefaultBaseURL = "https://nomads.ncep.noaa.gov/cgi-bin/filter_gfs_0p25.pl"

// EnumerateResources expands a frozen binding into the ordered list of fetch
// targets: exactly one descriptor per forecast-hour entry, preserving input
// order and duplicates. Pure; no network access happens here.
func EnumerateResources(baseURL string, b *domain.FilterBinding) []domain.ResourceDescriptor {
	out := make([]domain.ResourceDescriptor, 0, len(b.ForecastHours))
	for _, fhour := range b.ForecastHours {
		out = append(out, domain.ResourceDescriptor{
			RunDate:      b.RunDate,
			RunHour:      b.RunHour,
			ForecastHour: fhour,
			URL:          BuildResourceURL(baseURL, b, fhour),
		})
	}
	return out
}

// BuildResourceURL renders the filter-CGI URL for one forecast hour:
// directory and file name from the run identity, one on-flag per requested
// variable and level (defaults when the binding lists are empty), and the
// bounding box truncated to integer degrees, which is all the API accepts.
func BuildResourceURL(baseURL string, b *domain.FilterBinding, forecastHour int32) string {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	runHour := b.RunHour
	if runHour < 0 {
		runHour = 0
	}

	var u strings.Builder
	u.WriteString(baseURL)
	u.WriteString("?")

	// Directory: /gfs.YYYYMMDD/HH/atmos
	fmt.Fprintf(&u, "dir=%%2Fgfs.%s%%2F%02d%%2Fatmos", b.RunDate, runHour)

	// File: gfs.tHHz.pgrb2.0p25.fFFF
	fmt.Fprintf(&u, "&file=gfs.t%02dz.pgrb2.0p25.f%03d", runHour, forecastHour)

	vars := b.Variables
	if len(vars) == 0 {
		vars = defaultVariables
	}
	for _, v := range vars {
		fmt.Fprintf(&u, "&var_%s=on", v)
	}

	levs := b.Levels
	if len(levs) == 0 {
		levs = defaultLevels
	}
	for _, l := range levs {
		fmt.Fprintf(&u, "&lev_%s=on", l)
	}

	fmt.Fprintf(&u, "&subregion=&toplat=%d&bottomlat=%d&leftlon=%d&rightlon=%d",
		int(b.LatMax), int(b.LatMin), int(b.LonMin), int(b.LonMax))

	return u.String()
}

// ParseResourceURL recovers the run identity encoded in a rendered resource
// URL. It is the inverse of BuildResourceURL for the dir/file parameters and
// exists so operators can correlate failing URLs back to scan configuration.
func ParseResourceURL(raw string) (runDate string, runHour int32, forecastHour int32, err error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", 0, 0, fmt.Errorf("parse resource url: %w", err)
	}
	q := parsed.Query()

	dir := q.Get("dir")
	if _, err := fmt.Sscanf(dir, "/gfs.%8s/", &runDate); err != nil || len(runDate) != 8 {
		return "", 0, 0, fmt.Errorf("resource url has unexpected dir %q", dir)
	}

	file := q.Get("file")
	if _, err := fmt.Sscanf(file, "gfs.t%2dz.pgrb2.0p25.f%3d", &runHour, &forecastHour); err != nil {
		return "", 0, 0, fmt.Errorf("resource url has unexpected file %q", file)
	}

	return runDate, runHour, forecastHour, nil
}
