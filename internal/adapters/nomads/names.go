package nomads

import "strings"

// Alias tables mapping human-readable filter constants to the parameter
// names the NOMADS filter CGI understands. These are part of the external
// contract: downstream queries depend on exactly these spellings.

var variableAliases = map[string]string{
	"temperature":       "TMP",
	"temp":              "TMP",
	"t":                 "TMP",
	"humidity":          "RH",
	"relative_humidity": "RH",
	"rh":                "RH",
	"wind_u":            "UGRD",
	"u_wind":            "UGRD",
	"ugrd":              "UGRD",
	"wind_v":            "VGRD",
	"v_wind":            "VGRD",
	"vgrd":              "VGRD",
	"precipitation":     "APCP",
	"precip":            "APCP",
	"rain":              "APCP",
	"apcp":              "APCP",
	"gust":              "GUST",
	"wind_gust":         "GUST",
	"clouds":            "TCDC",
	"cloud_cover":       "TCDC",
	"tcdc":              "TCDC",
	"pressure":          "PRMSL",
	"msl_pressure":      "PRMSL",
	"prmsl":             "PRMSL",
}

var levelAliases = map[string]string{
	"2m":                "2_m_above_ground",
	"2_m":               "2_m_above_ground",
	"2m_above_ground":   "2_m_above_ground",
	"10m":               "10_m_above_ground",
	"10_m":              "10_m_above_ground",
	"10m_above_ground":  "10_m_above_ground",
	"surface":           "surface",
	"sfc":               "surface",
	"atmosphere":        "entire_atmosphere",
	"entire_atmosphere": "entire_atmosphere",
	"msl":               "mean_sea_level",
	"mean_sea_level":    "mean_sea_level",
}

// Defaults requested when the binding does not constrain variables/levels.
var (
	defaultVariables = []string{"TMP", "RH", "UGRD", "VGRD"}
	defaultLevels    = []string{"2_m_above_ground", "10_m_above_ground", "surface"}
)

// DefaultVariables returns the variable flags used when a scan requests none.
func DefaultVariables() []string { return append([]string(nil), defaultVariables...) }

// DefaultLevels returns the level flags used when a scan requests none.
func DefaultLevels() []string { return append([]string(nil), defaultLevels...) }

// NormalizeVariable resolves a filter constant to the canonical variable
// name (TMP, RH, ...). Already-canonical API spellings such as "var_tmp"
// pass through with the prefix stripped. Unrecognized names return "".
func NormalizeVariable(input string) string {
	lower := strings.ToLower(input)
	if v, ok := variableAliases[lower]; ok {
		return v
	}
	if rest, ok := strings.CutPrefix(lower, "var_"); ok && rest != "" {
		return strings.ToUpper(rest)
	}
	return ""
}

// NormalizeLevel resolves a filter constant to the canonical level name
// (2_m_above_ground, surface, ...). Already-canonical API spellings such as
// "lev_surface" pass through with the prefix stripped. Unrecognized names
// return "".
func NormalizeLevel(input string) string {
	lower := strings.ToLower(input)
	if l, ok := levelAliases[lower]; ok {
		return l
	}
	if rest, ok := strings.CutPrefix(lower, "lev_"); ok && rest != "" {
		return rest
	}
	return ""
}
