package socrata

// Record is one raw citation row from the SF Open Data resource. All fields
// arrive as strings except the geometry; cleaning and type conversion happen
// in the seeding package.
type Record struct {
	CitationNumber  string    `json:"citation_number"`
	IssuedDatetime  string    `json:"citation_issued_datetime"`
	ViolationDesc   string    `json:"violation_desc"`
	Location        string    `json:"citation_location"`
	PlateState      string    `json:"vehicle_plate_state"`
	Plate           string    `json:"vehicle_plate"`
	FineAmount      string    `json:"fine_amount"`
	TheGeom         *Geometry `json:"the_geom"`
}

// Geometry is a GeoJSON point. Coordinates are [longitude, latitude].
type Geometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// LatLng returns the point as (lat, lng), or false when no usable
// coordinates are present.
func (g *Geometry) LatLng() (float64, float64, bool) {
	if g == nil || len(g.Coordinates) != 2 {
		return 0, 0, false
	}
	return g.Coordinates[1], g.Coordinates[0], true
}
