package socrata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// TestFetchMonth_Query verifies the SoQL query: month range in $where, the
// field list in $select, and the app token header.
func TestFetchMonth_Query(t *testing.T) {
	var gotWhere, gotSelect, gotToken string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotWhere = r.URL.Query().Get("$where")
		gotSelect = r.URL.Query().Get("$select")
		gotToken = r.Header.Get("X-App-Token")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"citation_number":"1","vehicle_plate":"ABC123"}]`))
	}))
	defer srv.Close()

	client := NewClient("secret-token")
	client.baseURL = srv.URL

	recs, err := client.FetchMonth(context.Background(), 2025, 1)
	if err != nil {
		t.Fatalf("FetchMonth failed: %v", err)
	}
	if len(recs) != 1 || recs[0].Plate != "ABC123" {
		t.Errorf("unexpected records: %+v", recs)
	}

	if !strings.Contains(gotWhere, ">= '2025-01-01T00:00:00.000'") ||
		!strings.Contains(gotWhere, "< '2025-02-01T00:00:00.000'") {
		t.Errorf("unexpected $where: %q", gotWhere)
	}
	if !strings.Contains(gotSelect, "vehicle_plate") || !strings.Contains(gotSelect, "the_geom") {
		t.Errorf("unexpected $select: %q", gotSelect)
	}
	if gotToken != "secret-token" {
		t.Errorf("expected app token header, got %q", gotToken)
	}
}

// TestFetchMonth_Pagination verifies $offset advances by the page size and
// fetching stops on the first short page.
func TestFetchMonth_Pagination(t *testing.T) {
	fullPage := make([]Record, PageMax)
	for i := range fullPage {
		fullPage[i] = Record{CitationNumber: fmt.Sprintf("%d", i)}
	}
	shortPage := []Record{{CitationNumber: "last"}}

	var offsets []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		offset := r.URL.Query().Get("$offset")
		offsets = append(offsets, offset)
		w.Header().Set("Content-Type", "application/json")
		if offset == "0" {
			json.NewEncoder(w).Encode(fullPage)
			return
		}
		json.NewEncoder(w).Encode(shortPage)
	}))
	defer srv.Close()

	client := NewClient("")
	client.baseURL = srv.URL

	recs, err := client.FetchMonth(context.Background(), 2025, 3)
	if err != nil {
		t.Fatalf("FetchMonth failed: %v", err)
	}

	if len(recs) != PageMax+1 {
		t.Errorf("expected %d records, got %d", PageMax+1, len(recs))
	}
	wantOffsets := []string{"0", fmt.Sprintf("%d", PageMax)}
	if len(offsets) != 2 || offsets[0] != wantOffsets[0] || offsets[1] != wantOffsets[1] {
		t.Errorf("expected offsets %v, got %v", wantOffsets, offsets)
	}
}

// TestFetchMonth_EmptyMonth verifies an immediate empty page yields no
// records and no error.
func TestFetchMonth_EmptyMonth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := NewClient("")
	client.baseURL = srv.URL

	recs, err := client.FetchMonth(context.Background(), 2019, 12)
	if err != nil {
		t.Fatalf("FetchMonth failed: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("expected no records, got %d", len(recs))
	}
}

// TestFetchMonth_PortalError verifies non-200 responses surface as errors.
func TestFetchMonth_PortalError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient("")
	client.baseURL = srv.URL

	if _, err := client.FetchMonth(context.Background(), 2025, 1); err == nil {
		t.Error("expected error for HTTP 502")
	}
}
