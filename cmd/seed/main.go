package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sfmostwanted/MWP-Backend/internal/citations"
	"github.com/sfmostwanted/MWP-Backend/internal/config"
	"github.com/sfmostwanted/MWP-Backend/internal/db"
	"github.com/sfmostwanted/MWP-Backend/internal/hotspots"
	"github.com/sfmostwanted/MWP-Backend/internal/seeding"
	"github.com/sfmostwanted/MWP-Backend/internal/socrata"
)

// CLI flags
var (
	startYear  = flag.Int("start-year", 2020, "First year to fetch from the portal")
	endYear    = flag.Int("end-year", time.Now().Year(), "Last year to fetch from the portal")
	months     = flag.String("months", "", "Comma-separated YYYY-MM list; overrides the year range")
	csvPath    = flag.String("csv", "", "Seed from a local Socrata CSV export instead of the API")
	topN       = flag.Int("top-n", 30, "Leaderboard size")
	skipExport = flag.Bool("skip-export", false, "Skip writing the static fallback files")
	exportDir  = flag.String("out", "", "Static export directory (default: configured fallback_dir)")
)

func main() {
	_ = godotenv.Load(".env.local")
	flag.Parse()

	cfg := config.Load()
	db.Connect()

	// Migrations live with the modules that own the tables.
	citations.Init(cfg)
	hotspots.Init(cfg)
	seeding.Init()

	dsn := os.Getenv("DATABASE_URL")
	sqlDB, err := sql.Open("pgx", dsn)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer sqlDB.Close()

	ctx := context.Background()
	if err := sqlDB.PingContext(ctx); err != nil {
		log.Fatalf("ping: %v", err)
	}

	dir := *exportDir
	if dir == "" {
		dir = cfg.FallbackDir
	}
	if *skipExport {
		dir = ""
	}

	runner := &seeding.Runner{
		SQL:       sqlDB,
		Client:    socrata.NewClient(cfg.SocrataAppToken),
		Floor:     cfg.Floor(),
		TopN:      *topN,
		ExportDir: dir,
	}

	start := time.Now()
	var run *seeding.SeedRun

	switch {
	case *csvPath != "":
		run, err = runner.RunCSV(ctx, *csvPath)
	case *months != "":
		ms, perr := parseMonths(*months)
		if perr != nil {
			log.Fatalf("--months: %v", perr)
		}
		run, err = runner.RunMonths(ctx, ms)
	default:
		run, err = runner.RunMonths(ctx,
			seeding.MonthRange(*startYear, *endYear, time.Now()))
	}
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	p := message.NewPrinter(language.English)
	p.Printf("Seed run complete (%s)\n", run.Source)
	p.Printf("  Months processed: %d\n", len(run.Months))
	p.Printf("  Citations ingested: %d\n", run.CitationCount)
	p.Printf("  Unique plates: %d\n", run.PlateCount)
	p.Printf("  Elapsed: %.1fs\n", time.Since(start).Seconds())
}

func parseMonths(s string) ([]seeding.Month, error) {
	var out []seeding.Month
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		ym := strings.SplitN(part, "-", 2)
		if len(ym) != 2 {
			return nil, fmt.Errorf("invalid month %q (want YYYY-MM)", part)
		}
		year, yerr := strconv.Atoi(ym[0])
		month, merr := strconv.Atoi(ym[1])
		if yerr != nil || merr != nil || month < 1 || month > 12 {
			return nil, fmt.Errorf("invalid month %q (want YYYY-MM)", part)
		}
		out = append(out, seeding.Month{Year: year, Month: month})
	}
	return out, nil
}
