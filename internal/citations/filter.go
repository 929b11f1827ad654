package citations

import (
	"sort"
	"strings"
	"time"
)

// Citation dates arrive in a few shapes: the seed tool normalizes to
// 2006-01-02T15:04:05, but older exports carry RFC3339 or bare dates.
var dateLayouts = []string{
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02",
}

// ParseDate parses a citation date string. Returns false for empty or
// unparseable input.
func ParseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FilterByFloor keeps citations whose date is present and parses to a
// timestamp at or after floor. Input order is preserved. Applying the filter
// twice yields the same result as applying it once.
func FilterByFloor(cs []Citation, floor time.Time) []Citation {
	out := make([]Citation, 0, len(cs))
	for _, c := range cs {
		if c.Date == nil {
			continue
		}
		t, ok := ParseDate(*c.Date)
		if !ok || t.Before(floor) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// FilterByMonths applies the year/month prefix filters against the ISO date
// string. With months, each selected month becomes a "YYYY-MM" prefix and a
// citation passes if ANY prefix matches; with only a year the prefix is
// "YYYY". An empty year means no filtering. This is the one shared
// implementation; callers must not duplicate it.
func FilterByMonths(cs []Citation, year string, months []string) []Citation {
	if year == "" {
		return cs
	}

	prefixes := make([]string, 0, len(months))
	for _, m := range months {
		m = strings.TrimSpace(m)
		if m == "" {
			continue
		}
		if len(m) == 1 {
			m = "0" + m
		}
		prefixes = append(prefixes, year+"-"+m)
	}
	// No usable months (absent, or all blank) degrades to year-only.
	if len(prefixes) == 0 {
		prefixes = append(prefixes, year)
	}

	out := make([]Citation, 0, len(cs))
	for _, c := range cs {
		if c.Date == nil {
			continue
		}
		for _, p := range prefixes {
			if strings.HasPrefix(*c.Date, p) {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

// Totals recomputes the aggregate fields from a (filtered) citation set.
func Totals(cs []Citation) (totalFines float64, count int) {
	for _, c := range cs {
		totalFines += c.FineAmount
	}
	return totalFines, len(cs)
}

// SortByDateDesc returns a copy sorted newest first. Citations without a
// date sort last, matching the seed tool's ordering.
func SortByDateDesc(cs []Citation) []Citation {
	out := make([]Citation, len(cs))
	copy(out, cs)
	sort.SliceStable(out, func(i, j int) bool {
		var di, dj string
		if out[i].Date != nil {
			di = *out[i].Date
		}
		if out[j].Date != nil {
			dj = *out[j].Date
		}
		return di > dj
	})
	return out
}
