package citations

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Citation is one parking ticket as ingested from SF Open Data. Date is the
// ISO timestamp the citation was issued; it is nullable because a handful of
// source rows carry no usable datetime. Coordinates are only present when the
// source record included a geometry.
type Citation struct {
	CitationNumber string   `json:"citation_number"`
	Date           *string  `json:"date"`
	Violation      string   `json:"violation"`
	Location       string   `json:"location"`
	FineAmount     float64  `json:"fine_amount"`
	Latitude       *float64 `json:"latitude,omitempty"`
	Longitude      *float64 `json:"longitude,omitempty"`
}

// CitationList stores a plate's citations as a JSONB column.
type CitationList []Citation

func (l CitationList) Value() (driver.Value, error) {
	if l == nil {
		l = CitationList{}
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *CitationList) Scan(value interface{}) error {
	if value == nil {
		*l = CitationList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported type: %T", value)
	}
}

// PlateDetail is the per-plate aggregate row. The stored totals cover every
// ingested citation; handlers recompute them against the date floor before
// responding, because seed runs may have ingested pre-floor history.
type PlateDetail struct {
	Plate             string       `gorm:"primaryKey" json:"plate"`
	PlateState        string       `json:"plate_state"`
	FavoriteViolation string       `json:"favorite_violation"`
	TotalFines        float64      `json:"total_fines"`
	CitationCount     int          `json:"citation_count"`
	Citations         CitationList `gorm:"type:jsonb;default:'[]'" json:"citations"`
}

func (PlateDetail) TableName() string {
	return "plate_details"
}

// LeaderboardEntry is one precomputed row of the worst-offenders board.
// Ranks are 1-based and unique; the table is rebuilt wholesale at seed time
// and never recomputed live.
type LeaderboardEntry struct {
	Rank              int     `gorm:"primaryKey" json:"rank"`
	Plate             string  `gorm:"not null" json:"plate"`
	PlateState        string  `json:"plate_state"`
	TotalFines        float64 `json:"total_fines"`
	CitationCount     int     `json:"citation_count"`
	FavoriteViolation string  `json:"favorite_violation"`
}

func (LeaderboardEntry) TableName() string {
	return "leaderboard"
}
