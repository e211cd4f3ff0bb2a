package traderjoe

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Client fetches pool yield data from the TraderJoe API.
type Client struct {
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

// NewClient creates a new TraderJoe client
func NewClient(baseURL string, log zerolog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log.With().Str("client", "traderjoe").Logger(),
	}
}

// pool is the subset of the pool listing we care about.
type pool struct {
	Name         string  `json:"name"`
	PairAddress  string  `json:"pairAddress"`
	APR          float64 `json:"apr"`
	LiquidityUSD float64 `json:"liquidityUsd"`
}

// BestStablePoolAPR returns the APR (percent) of the deepest AVAX/stable pool
// on the Avalanche chain listing. APR arrives as a fraction (0.085) and is
// converted to a percentage.
func (c *Client) BestStablePoolAPR(ctx context.Context) (float64, error) {
	url := fmt.Sprintf("%s/v1/pools/avalanche?pageSize=25&orderBy=liquidity", c.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create pools request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch pools: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("traderjoe returned status %d", resp.StatusCode)
	}

	var pools []pool
	if err := json.NewDecoder(resp.Body).Decode(&pools); err != nil {
		return 0, fmt.Errorf("failed to decode pools response: %w", err)
	}

	// Listing is ordered by liquidity; the first pool with a sane APR wins.
	for _, p := range pools {
		if p.APR > 0 {
			return p.APR * 100, nil
		}
	}

	return 0, fmt.Errorf("no pool with positive APR in listing of %d", len(pools))
}
