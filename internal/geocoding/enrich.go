package geocoding

import (
	"context"
	"log"

	"github.com/sfmostwanted/MWP-Backend/internal/hotspots"
	"gorm.io/gorm"
)

// Coordinates is one resolved location.
type Coordinates struct {
	Lat float64
	Lng float64
}

// Enrich geocodes hotspot rows that lack coordinates and writes the results
// back, busiest locations first. Rows that already have coordinates are
// never touched, so re-running after a partial batch just picks up where the
// last run stopped. cache is consulted before the network and updated with
// every hit; pass the same map across calls within one batch run to avoid
// re-geocoding repeated locations.
//
// Returns the number of rows updated. Individual geocode failures are logged
// and skipped; only database errors abort the batch.
func Enrich(ctx context.Context, d *gorm.DB, c *Client, cache map[string]Coordinates, limit int) (int, error) {
	var rows []hotspots.Hotspot
	err := d.
		Where("latitude IS NULL OR longitude IS NULL").
		Order("citation_count DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, h := range rows {
		coords, ok := cache[h.Location]
		if !ok {
			res, err := c.Geocode(ctx, h.Location)
			if err != nil {
				if ctx.Err() != nil {
					return updated, ctx.Err()
				}
				log.Printf("[geocoding] skipping %q: %v", h.Location, err)
				continue
			}
			coords = Coordinates{Lat: res.Lat, Lng: res.Lng}
			cache[h.Location] = coords
		}

		err := d.Model(&hotspots.Hotspot{}).
			Where("location = ?", h.Location).
			Updates(map[string]interface{}{
				"latitude":  coords.Lat,
				"longitude": coords.Lng,
			}).Error
		if err != nil {
			return updated, err
		}
		updated++
	}

	return updated, nil
}
