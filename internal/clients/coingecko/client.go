package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// coinID is CoinGecko's identifier for AVAX.
const coinID = "avalanche-2"

// Client is a CoinGecko API client used for off-chain price data.
type Client struct {
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

// NewClient creates a new CoinGecko client
func NewClient(baseURL string, log zerolog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log.With().Str("client", "coingecko").Logger(),
	}
}

// AVAXPriceUSD fetches the current AVAX/USD spot price.
func (c *Client) AVAXPriceUSD(ctx context.Context) (float64, error) {
	url := fmt.Sprintf("%s/simple/price?ids=%s&vs_currencies=usd", c.baseURL, coinID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create price request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch AVAX price: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("coingecko returned status %d", resp.StatusCode)
	}

	var body map[string]map[string]float64
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("failed to decode price response: %w", err)
	}

	price, ok := body[coinID]["usd"]
	if !ok || price <= 0 {
		return 0, fmt.Errorf("no usd price for %s in response", coinID)
	}

	return price, nil
}
