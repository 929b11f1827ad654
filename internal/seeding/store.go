package seeding

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/sfmostwanted/MWP-Backend/internal/citations"
	"github.com/sfmostwanted/MWP-Backend/internal/hotspots"
)

// UpsertPlates writes a batch of plate aggregates. Existing plates get their
// totals added to and their citation lists appended, mirroring how monthly
// seed runs accumulate history. Runs in one transaction.
func UpsertPlates(ctx context.Context, d *sql.DB, plates map[string]*citations.PlateDetail) (int, error) {
	tx, err := d.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO plate_details (plate, plate_state, favorite_violation, total_fines, citation_count, citations)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (plate) DO UPDATE SET
			total_fines    = plate_details.total_fines + EXCLUDED.total_fines,
			citation_count = plate_details.citation_count + EXCLUDED.citation_count,
			citations      = plate_details.citations || EXCLUDED.citations
	`)
	if err != nil {
		return 0, fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	stored := 0
	for plate, detail := range plates {
		blob, err := json.Marshal(detail.Citations)
		if err != nil {
			return stored, fmt.Errorf("marshal citations for %s: %w", plate, err)
		}
		if _, err := stmt.ExecContext(ctx,
			plate,
			detail.PlateState,
			detail.FavoriteViolation,
			detail.TotalFines,
			detail.CitationCount,
			string(blob),
		); err != nil {
			return stored, fmt.Errorf("upsert %s: %w", plate, err)
		}
		stored++
	}

	if err := tx.Commit(); err != nil {
		return stored, fmt.Errorf("commit: %w", err)
	}
	return stored, nil
}

// RebuildLeaderboard replaces the leaderboard with the current top-N plates
// by total fines, citation count breaking ties. Delete and insert run in one
// transaction so readers never see a partial board.
func RebuildLeaderboard(ctx context.Context, d *sql.DB, topN int) (int, error) {
	tx, err := d.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM leaderboard`); err != nil {
		return 0, fmt.Errorf("clear leaderboard: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO leaderboard (rank, plate, plate_state, total_fines, citation_count, favorite_violation)
		SELECT ROW_NUMBER() OVER (ORDER BY total_fines DESC, citation_count DESC, plate ASC),
		       plate, plate_state, total_fines, citation_count, favorite_violation
		FROM plate_details
		ORDER BY total_fines DESC, citation_count DESC, plate ASC
		LIMIT $1
	`, topN)
	if err != nil {
		return 0, fmt.Errorf("insert leaderboard: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}

	n, _ := res.RowsAffected()
	return int(n), nil
}

// UpsertHotspots writes location aggregates. Coordinates are deliberately
// not part of the update set: the geocoding batch owns them, and a re-seed
// must not wipe out already-geocoded rows.
func UpsertHotspots(ctx context.Context, d *sql.DB, rows []hotspots.Hotspot) error {
	tx, err := d.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO citation_hotspots (location, citation_count, total_fines, top_violation, violation_breakdown)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (location) DO UPDATE SET
			citation_count      = EXCLUDED.citation_count,
			total_fines         = EXCLUDED.total_fines,
			top_violation       = EXCLUDED.top_violation,
			violation_breakdown = EXCLUDED.violation_breakdown
	`)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, h := range rows {
		blob, err := json.Marshal(h.ViolationBreakdown)
		if err != nil {
			return fmt.Errorf("marshal breakdown for %s: %w", h.Location, err)
		}
		if _, err := stmt.ExecContext(ctx,
			h.Location, h.CitationCount, h.TotalFines, h.TopViolation, string(blob),
		); err != nil {
			return fmt.Errorf("upsert %s: %w", h.Location, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// ReplaceViolationSummary swaps in the new city-wide violation counts.
func ReplaceViolationSummary(ctx context.Context, d *sql.DB, rows []hotspots.ViolationCount) error {
	tx, err := d.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM violation_summary`); err != nil {
		return fmt.Errorf("clear summary: %w", err)
	}

	for _, v := range rows {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO violation_summary (violation, count) VALUES ($1, $2)`,
			v.Violation, v.Count,
		); err != nil {
			return fmt.Errorf("insert %s: %w", v.Violation, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
