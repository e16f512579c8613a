package value

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Extraction patterns for numeric runs embedded in free text.
var (
	intRun   = regexp.MustCompile(`\d+`)
	floatRun = regexp.MustCompile(`\d+[\,\.\d]*`)
)

// Date patterns, tried in priority order. The first match wins even
// when a later pattern would be a closer fit.
var datePatterns = []struct {
	re *regexp.Regexp
	// order maps capture groups to year, month, day positions
	year, month, day int
	expandYear       bool // two-digit year, prefixed with "20"
}{
	{re: regexp.MustCompile(`\b(\d{4})[-.](\d{2})[-.](\d{2})\b`), year: 1, month: 2, day: 3},
	{re: regexp.MustCompile(`\b(\d{4})(\d{2})(\d{2})\b`), year: 1, month: 2, day: 3},
	{re: regexp.MustCompile(`\b(\d{2})(\d{2})(\d{2})\b`), year: 1, month: 2, day: 3, expandYear: true},
	{re: regexp.MustCompile(`\b(\d{4})/(\d{2})/(\d{2})\b`), year: 1, month: 2, day: 3},
	{re: regexp.MustCompile(`\b(\d{2})/(\d{2})/(\d{4})\b`), year: 3, month: 2, day: 1},
	// No \b anchors here: Go's word boundary is ASCII-only, so 日\b
	// fails at end of string. The ideographs already delimit the runs.
	{re: regexp.MustCompile(`(\d{4})年(\d{2})月(\d{2})日`), year: 1, month: 2, day: 3},
}

// ExtractInt pulls the first run of digits out of s and parses it as
// an int32. Surrounding text (currency symbols, units) is ignored.
// Returns false when no run is found or the run overflows int32.
func ExtractInt(s string) (int32, bool) {
	run := intRun.FindString(s)
	if run == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(run, 10, 32)
	if err != nil {
		return 0, false
	}
	return int32(n), true
}

// ExtractFloat pulls the first numeric run out of s and parses it as
// a float32. Thousands separators are stripped and a trailing decimal
// point is normalized ("12." reads as "12.0").
func ExtractFloat(s string) (float32, bool) {
	run := floatRun.FindString(s)
	if run == "" {
		return 0, false
	}
	run = strings.ReplaceAll(run, ",", "")
	if strings.HasSuffix(run, ".") {
		run += "0"
	}
	f, err := strconv.ParseFloat(run, 32)
	if err != nil {
		return 0, false
	}
	return float32(f), true
}

// ExtractDate parses a date out of s by trying each known layout in
// priority order. Returns false when no layout matches; callers are
// expected to substitute Sentinel() rather than treat that as an
// error, so one bad cell never blocks a pipeline.
func ExtractDate(s string) (time.Time, bool) {
	for _, p := range datePatterns {
		caps := p.re.FindStringSubmatch(s)
		if caps == nil {
			continue
		}
		year := caps[p.year]
		if p.expandYear {
			year = "20" + year
		}
		t, err := time.Parse(DateLayout, year+"-"+caps[p.month]+"-"+caps[p.day])
		if err != nil {
			// Matched the shape but not a real calendar day
			// (month 13, day 40); try the next pattern.
			continue
		}
		return t, true
	}
	return time.Time{}, false
}

// ParseStrictInt parses a whole cell as an int32 with no extraction.
// Used by load-time kind inference and by filter value parsing, where
// partial matches would be surprising.
func ParseStrictInt(s string) (int32, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return 0, false
	}
	return int32(n), true
}

// ParseStrictFloat parses a whole cell as a float32 with no extraction.
func ParseStrictFloat(s string) (float32, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 32)
	if err != nil {
		return 0, false
	}
	return float32(f), true
}

// ParseStrictBool recognizes true/false in any case.
func ParseStrictBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true":
		return true, true
	case "false":
		return false, true
	default:
		return false, false
	}
}
