package yieldyak

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Client fetches farm APY data from the YieldYak API.
type Client struct {
	baseURL string
	farm    string // farm contract address to read the APY for
	client  *http.Client
	log     zerolog.Logger
}

// NewClient creates a new YieldYak client. farm selects which auto-compounding
// farm's APY represents the protocol; empty selects the best available.
func NewClient(baseURL, farm string, log zerolog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		farm:    farm,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log.With().Str("client", "yieldyak").Logger(),
	}
}

type farmAPY struct {
	APY float64 `json:"apy"`
}

// FarmAPY returns the selected farm's APY in percent. The /apys endpoint maps
// farm address -> {apy}; with no farm configured the highest APY is used.
func (c *Client) FarmAPY(ctx context.Context) (float64, error) {
	url := c.baseURL + "/apys"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create apys request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch apys: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("yieldyak returned status %d", resp.StatusCode)
	}

	var apys map[string]farmAPY
	if err := json.NewDecoder(resp.Body).Decode(&apys); err != nil {
		return 0, fmt.Errorf("failed to decode apys response: %w", err)
	}

	if c.farm != "" {
		entry, ok := apys[c.farm]
		if !ok {
			return 0, fmt.Errorf("farm %s not present in apys response", c.farm)
		}
		return entry.APY, nil
	}

	var best float64
	for _, entry := range apys {
		if entry.APY > best {
			best = entry.APY
		}
	}
	if best == 0 {
		return 0, fmt.Errorf("no farm with positive APY in response of %d", len(apys))
	}
	return best, nil
}
