package rebalancing

import (
	"context"
	"math/big"

	"github.com/rs/zerolog"

	"github.com/snowfolio/snowfolio/internal/clients/avalanche"
)

// fallbackGasPriceWei is 25 nAVAX, the C-Chain's usual base fee, used when
// the RPC node is unreachable.
var fallbackGasPriceWei = big.NewInt(25_000_000_000)

// GasEstimator prices a full rebalance (withdraw + two deposits) in AVAX.
type GasEstimator struct {
	chain    *avalanche.Client
	gasUnits uint64
	log      zerolog.Logger
}

// NewGasEstimator creates a new gas estimator
func NewGasEstimator(chain *avalanche.Client, gasUnits uint64, log zerolog.Logger) *GasEstimator {
	return &GasEstimator{
		chain:    chain,
		gasUnits: gasUnits,
		log:      log.With().Str("service", "gas_estimator").Logger(),
	}
}

// EstimateAVAX returns the estimated rebalance cost in AVAX. RPC failures
// degrade to the fallback gas price; this method never errors.
func (g *GasEstimator) EstimateAVAX(ctx context.Context) float64 {
	price, err := g.chain.GasPriceWei(ctx)
	if err != nil {
		g.log.Warn().Err(err).Msg("Gas price fetch failed, using fallback")
		price = fallbackGasPriceWei
	}

	cost := new(big.Int).Mul(price, new(big.Int).SetUint64(g.gasUnits))
	return avalanche.WeiToAvax(cost)
}
