package portfolio

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/snowfolio/snowfolio/internal/clients/avalanche"
	"github.com/snowfolio/snowfolio/internal/clients/coingecko"
	"github.com/snowfolio/snowfolio/internal/domain"
)

// Receipt-token contracts whose balanceOf approximates the user's position
// in each protocol. All three positions are AVAX-denominated, so a single
// AVAX/USD price values the whole portfolio.
var receiptTokens = map[domain.Protocol]string{
	domain.ProtocolAave:      "0x5C0401e81Bc07Ca70fAD469b451682c0d747Ef1c", // Benqi qiAVAX
	domain.ProtocolTraderJoe: "0xf4003F4efBE8691B60249E6afbD307aBE7758adb", // Joe AVAX/USDC LP
	domain.ProtocolYieldYak:  "0xaAc0F2d0630d1D09ab2B5A400412a4840B866d95", // YieldYak AVAX farm receipt
}

// balanceOf(address) selector
const balanceOfSelector = "0x70a08231"

// avaxPriceFallbackUSD is used when CoinGecko is unreachable.
const avaxPriceFallbackUSD = 40.0

// ChainReader derives a wallet's current allocation from on-chain position
// reads. It never executes transactions.
type ChainReader struct {
	chain  *avalanche.Client
	prices *coingecko.Client
	log    zerolog.Logger
}

// NewChainReader creates a new chain reader
func NewChainReader(chain *avalanche.Client, prices *coingecko.Client, log zerolog.Logger) *ChainReader {
	return &ChainReader{
		chain:  chain,
		prices: prices,
		log:    log.With().Str("service", "chain_reader").Logger(),
	}
}

// Read returns the wallet's current per-protocol allocation percentages and
// total USD value. A wallet with no positions returns a zero snapshot and no
// error.
func (c *ChainReader) Read(ctx context.Context, address string) (Snapshot, error) {
	calldata, err := balanceOfCalldata(address)
	if err != nil {
		return Snapshot{}, err
	}

	balances := make(map[domain.Protocol]float64, len(domain.Protocols))
	var total float64
	for _, p := range domain.Protocols {
		raw, err := c.chain.ContractReadUint(ctx, receiptTokens[p], calldata)
		if err != nil {
			return Snapshot{}, fmt.Errorf("failed to read %s position: %w", p, err)
		}
		avax := avalanche.WeiToAvax(raw)
		balances[p] = avax
		total += avax
	}

	snap := Snapshot{
		Address:    address,
		RecordedAt: time.Now().UTC(),
	}

	if total > 0 {
		for _, p := range domain.Protocols {
			snap.Allocation.Set(p, balances[p]/total*100)
		}
	}

	price, err := c.prices.AVAXPriceUSD(ctx)
	if err != nil {
		c.log.Warn().Err(err).Msg("AVAX price fetch failed, using fallback")
		price = avaxPriceFallbackUSD
	}
	snap.TotalValueUSD = total * price

	return snap, nil
}

// balanceOfCalldata encodes balanceOf(address) for an eth_call.
func balanceOfCalldata(address string) (string, error) {
	addr := strings.TrimPrefix(strings.ToLower(address), "0x")
	if len(addr) != 40 {
		return "", fmt.Errorf("invalid address %q", address)
	}
	return balanceOfSelector + strings.Repeat("0", 24) + addr, nil
}
