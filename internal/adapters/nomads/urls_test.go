package nomads

import (
	"strings"
	"testing"

	"github.com/onnimonni/gribflow/internal/domain"
)

func testBinding() *domain.FilterBinding {
	return &domain.FilterBinding{
		RunDate:       "20260120",
		RunHour:       0,
		ForecastHours: []int32{0},
		Variables:     []string{"TMP"},
		Levels:        []string{"2_m_above_ground"},
		LatMin:        60,
		LatMax:        63,
		LonMin:        22,
		LonMax:        25,
		HasBBox:       true,
	}
}

func TestBuildResourceURL(t *testing.T) {
	url := BuildResourceURL(DefaultBaseURL, testBinding(), 0)

	for _, want := range []string{
		"filter_gfs_0p25.pl?",
		"dir=%2Fgfs.20260120%2F00%2Fatmos",
		"file=gfs.t00z.pgrb2.0p25.f000",
		"&var_TMP=on",
		"&lev_2_m_above_ground=on",
		"&toplat=63",
		"&bottomlat=60",
		"&leftlon=22",
		"&rightlon=25",
	} {
		if !strings.Contains(url, want) {
			t.Errorf("url missing %q:\n%s", want, url)
		}
	}
}

func TestBuildResourceURLDefaults(t *testing.T) {
	b := testBinding()
	b.Variables = nil
	b.Levels = nil

	url := BuildResourceURL("", b, 3)

	for _, want := range []string{
		"gfs.t00z.pgrb2.0p25.f003",
		"&var_TMP=on", "&var_RH=on", "&var_UGRD=on", "&var_VGRD=on",
		"&lev_2_m_above_ground=on", "&lev_10_m_above_ground=on", "&lev_surface=on",
	} {
		if !strings.Contains(url, want) {
			t.Errorf("url missing default flag %q:\n%s", want, url)
		}
	}
}

func TestBuildResourceURLTruncatesBBox(t *testing.T) {
	b := testBinding()
	b.LatMin = 60.7
	b.LatMax = 63.2
	b.LonMin = 22.9
	b.LonMax = 25.5

	url := BuildResourceURL("", b, 0)

	// The API accepts only integer degrees.
	for _, want := range []string{"toplat=63", "bottomlat=60", "leftlon=22", "rightlon=25"} {
		if !strings.Contains(url, want) {
			t.Errorf("url missing truncated corner %q:\n%s", want, url)
		}
	}
}

func TestEnumerateResourcesOrderAndDuplicates(t *testing.T) {
	b := testBinding()
	b.ForecastHours = []int32{6, 0, 6}

	descs := EnumerateResources("", b)

	if len(descs) != 3 {
		t.Fatalf("expected 3 descriptors, got %d", len(descs))
	}
	for i, want := range []int32{6, 0, 6} {
		if descs[i].ForecastHour != want {
			t.Errorf("descriptor %d has fhour %d, want %d", i, descs[i].ForecastHour, want)
		}
		if descs[i].RunDate != "20260120" || descs[i].RunHour != 0 {
			t.Errorf("descriptor %d lost run identity: %+v", i, descs[i])
		}
	}
}

func TestParseResourceURLRoundTrip(t *testing.T) {
	b := testBinding()
	b.RunHour = 18

	for _, fhour := range []int32{0, 3, 120} {
		url := BuildResourceURL("", b, fhour)

		date, hour, f, err := ParseResourceURL(url)
		if err != nil {
			t.Fatalf("ParseResourceURL(%q): %v", url, err)
		}
		if date != b.RunDate || hour != b.RunHour || f != fhour {
			t.Errorf("round trip got (%s, %d, %d), want (%s, %d, %d)",
				date, hour, f, b.RunDate, b.RunHour, fhour)
		}
	}
}

func TestParseResourceURLRejectsGarbage(t *testing.T) {
	if _, _, _, err := ParseResourceURL("https://example.com/?dir=bogus&file=bogus"); err == nil {
		t.Fatal("expected error for unparseable resource url")
	}
}
