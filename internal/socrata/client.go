package socrata

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// BaseURL is the SF parking citations resource on the Socrata portal.
	BaseURL = "https://data.sfgov.org/resource/ab4h-6ztd.json"

	// PageMax is the number of rows requested per page. Larger pages time
	// out on the portal side during busy hours.
	PageMax = 10000
)

// requiredFields is the $select list; everything else in the resource is
// dead weight for this application.
var requiredFields = []string{
	"citation_number",
	"citation_issued_datetime",
	"violation_desc",
	"citation_location",
	"vehicle_plate_state",
	"vehicle_plate",
	"fine_amount",
	"the_geom",
}

// Client is an HTTP client for the Socrata API. Paging is rate-limited to
// one request per second, which is what the portal tolerates without an app
// token.
type Client struct {
	appToken   string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a Socrata client. appToken may be empty; requests then
// run against the shared anonymous quota.
func NewClient(appToken string) *Client {
	return &Client{
		appToken: appToken,
		baseURL:  BaseURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

// FetchMonth fetches every citation issued in the given month, paging until
// the portal returns a short page.
func (c *Client) FetchMonth(ctx context.Context, year, month int) ([]Record, error) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	where := fmt.Sprintf(
		"citation_issued_datetime >= '%s' AND citation_issued_datetime < '%s'",
		start.Format("2006-01-02T15:04:05.000"),
		end.Format("2006-01-02T15:04:05.000"),
	)

	params := url.Values{}
	params.Set("$limit", strconv.Itoa(PageMax))
	params.Set("$order", "citation_issued_datetime DESC")
	params.Set("$where", where)
	params.Set("$select", strings.Join(requiredFields, ","))

	return c.fetchAllPages(ctx, params)
}

// fetchAllPages handles $offset pagination for a prepared query.
func (c *Client) fetchAllPages(ctx context.Context, baseParams url.Values) ([]Record, error) {
	var all []Record
	offset := 0

	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		params := url.Values{}
		for k, vs := range baseParams {
			for _, v := range vs {
				params.Add(k, v)
			}
		}
		params.Set("$offset", strconv.Itoa(offset))

		fullURL := fmt.Sprintf("%s?%s", c.baseURL, params.Encode())
		log.Printf("[socrata] GET %s offset=%d", c.baseURL, offset)

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		if c.appToken != "" {
			req.Header.Set("X-App-Token", c.appToken)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("socrata request: %w", err)
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("socrata status %d", resp.StatusCode)
		}

		var page []Record
		if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
			resp.Body.Close()
			return nil, fmt.Errorf("decode socrata: %w", err)
		}
		resp.Body.Close()

		if len(page) == 0 {
			break
		}

		all = append(all, page...)
		offset += len(page)
		log.Printf("[socrata] fetched %d records (total: %d)", len(page), len(all))

		// A short page means we reached the end of the result set.
		if len(page) < PageMax {
			break
		}
	}

	return all, nil
}
