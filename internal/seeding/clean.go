package seeding

import (
	"strconv"
	"strings"
	"time"

	"github.com/sfmostwanted/MWP-Backend/internal/citations"
	"github.com/sfmostwanted/MWP-Backend/internal/socrata"
)

// Record is one cleaned citation row: a valid plate plus a normalized
// Citation ready for aggregation.
type Record struct {
	Plate      string
	PlateState string
	citations.Citation
}

// Plate strings the portal uses for "no plate on record".
var badPlates = map[string]struct{}{
	"":     {},
	"NAN":  {},
	"NONE": {},
	"NULL": {},
}

// issuedLayouts covers the datetime shapes seen in API and CSV exports.
var issuedLayouts = []string{
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// Clean normalizes raw portal rows: plates are trimmed and uppercased,
// dates parsed (rows without a usable plate or date are dropped), fine
// amounts converted with invalid values treated as 0, coordinates extracted
// from the GeoJSON point, and duplicate citation numbers dropped keep-first.
func Clean(raw []socrata.Record) []Record {
	out := make([]Record, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))

	for _, r := range raw {
		plate := strings.ToUpper(strings.TrimSpace(r.Plate))
		if _, bad := badPlates[plate]; bad {
			continue
		}

		issued, ok := parseIssued(r.IssuedDatetime)
		if !ok {
			continue
		}

		num := strings.TrimSpace(r.CitationNumber)
		if num != "" {
			if _, dup := seen[num]; dup {
				continue
			}
			seen[num] = struct{}{}
		}

		fine, err := strconv.ParseFloat(strings.TrimSpace(r.FineAmount), 64)
		if err != nil {
			fine = 0
		}

		violation := strings.TrimSpace(r.ViolationDesc)
		if violation == "" {
			violation = "Unknown"
		}

		date := issued.Format("2006-01-02T15:04:05")
		rec := Record{
			Plate:      plate,
			PlateState: strings.TrimSpace(r.PlateState),
			Citation: citations.Citation{
				CitationNumber: num,
				Date:           &date,
				Violation:      violation,
				Location:       strings.TrimSpace(r.Location),
				FineAmount:     fine,
			},
		}

		if lat, lng, ok := r.TheGeom.LatLng(); ok {
			rec.Latitude = &lat
			rec.Longitude = &lng
		}

		out = append(out, rec)
	}

	return out
}

func parseIssued(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range issuedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
