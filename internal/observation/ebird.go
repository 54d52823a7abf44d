package observation

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jengzang/birding-planner-go/internal/models"
)

// DefaultEBirdBaseURL is the public eBird API root
const DefaultEBirdBaseURL = "https://api.ebird.org/v2"

// EBirdConfig configures the eBird client
type EBirdConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// EBirdClient fetches recent observations from the eBird API
type EBirdClient struct {
	cfg    EBirdConfig
	client *http.Client
}

// NewEBirdClient creates an eBird client
func NewEBirdClient(cfg EBirdConfig) *EBirdClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultEBirdBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &EBirdClient{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

type ebirdObservation struct {
	SpeciesCode string  `json:"speciesCode"`
	ComName     string  `json:"comName"`
	LocName     string  `json:"locName"`
	ObsDt       string  `json:"obsDt"`
	HowMany     int     `json:"howMany"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
}

// RecentSightings calls GET /data/obs/{region}/recent/{species}?back={days}
func (c *EBirdClient) RecentSightings(ctx context.Context, q Query) ([]models.Sighting, error) {
	if c.cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: eBird API key not configured", ErrUnavailable)
	}
	if q.SpeciesCode == "" || q.RegionCode == "" {
		return nil, fmt.Errorf("%w: no eBird codes for %s in %s", ErrUnavailable, q.Species, q.Region)
	}

	days := q.Days
	if days < 1 || days > 30 {
		days = 30
	}

	endpoint := fmt.Sprintf("%s/data/obs/%s/recent/%s?back=%d",
		strings.TrimRight(c.cfg.BaseURL, "/"),
		url.PathEscape(q.RegionCode),
		url.PathEscape(q.SpeciesCode),
		days,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build eBird request: %w", err)
	}
	req.Header.Set("X-eBirdApiToken", c.cfg.APIKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", ErrUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Printf("[observation] eBird returned non-200 status: %d, body: %s", resp.StatusCode, string(body))
		return nil, fmt.Errorf("%w: eBird status %d", ErrUnavailable, resp.StatusCode)
	}

	var raw []ebirdObservation
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: failed to parse eBird response: %v", ErrUnavailable, err)
	}

	sightings := make([]models.Sighting, 0, len(raw))
	for _, o := range raw {
		sightings = append(sightings, models.Sighting{
			SpeciesCode:  o.SpeciesCode,
			CommonName:   o.ComName,
			LocationName: o.LocName,
			Coordinates:  models.Coordinates{Lat: o.Lat, Lon: o.Lng},
			ObservedAt:   parseObsDate(o.ObsDt),
			Count:        o.HowMany,
		})
	}

	return sightings, nil
}

func parseObsDate(s string) time.Time {
	for _, layout := range []string{"2006-01-02 15:04", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
