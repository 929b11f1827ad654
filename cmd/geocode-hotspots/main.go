package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/sfmostwanted/MWP-Backend/internal/config"
	"github.com/sfmostwanted/MWP-Backend/internal/db"
	"github.com/sfmostwanted/MWP-Backend/internal/geocoding"
	"github.com/sfmostwanted/MWP-Backend/internal/hotspots"
)

var (
	limit = flag.Int("limit", 200, "Maximum hotspot rows to geocode this run")
	delay = flag.Duration("delay", time.Second, "Minimum interval between geocoding requests")
)

// Geocodes hotspot rows that have no coordinates yet, busiest first.
// Nominatim allows one request per second, so a full batch of 200 takes a
// few minutes; already-geocoded rows are skipped, making reruns cheap.
func main() {
	_ = godotenv.Load(".env.local")
	flag.Parse()

	cfg := config.Load()
	db.Connect()
	hotspots.Init(cfg)

	client := geocoding.NewClient(cfg.GeocoderUserAgent)
	client.SetDelay(*delay)
	cache := map[string]geocoding.Coordinates{}

	updated, err := geocoding.Enrich(context.Background(), db.DB, client, cache, *limit)
	if err != nil {
		log.Fatalf("Geocoding batch failed after %d rows: %v", updated, err)
	}

	fmt.Printf("✓ Geocoded %d hotspot rows\n", updated)
}
