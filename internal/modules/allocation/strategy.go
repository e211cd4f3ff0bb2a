package allocation

import (
	"fmt"
	"sort"

	"github.com/snowfolio/snowfolio/internal/domain"
	"github.com/snowfolio/snowfolio/internal/modules/risk"
	"github.com/snowfolio/snowfolio/internal/modules/yields"
)

// Generate maps a risk score and current yields to a target allocation.
//
// Steps:
//  1. look up the base allocation for the score's profile
//  2. pull each protocol toward/away from its base in proportion to its
//     relative yield advantage (±10 points at most)
//  3. clamp to the profile's floor/ceiling per protocol
//  4. normalize so the three percentages sum to exactly 100
//
// When yield data is incomplete the base allocation is used unadjusted and
// the strategy is marked SourceFallback; this function never errors.
func Generate(riskScore int, yieldSet domain.YieldSet) Strategy {
	profile := risk.ProfileForScore(riskScore)
	pb := profileBases[profile]

	avgAPY := yieldSet.Average()
	live := yieldSet.Complete() && avgAPY > 0

	alloc := pb.base
	if live {
		for _, p := range domain.Protocols {
			adjustment := (yieldSet[p] - avgAPY) / avgAPY * adjustmentScale
			adjusted := pb.base.Get(p) + adjustment

			limit := pb.limits[p]
			if adjusted < limit.min {
				adjusted = limit.min
			}
			if adjusted > limit.max {
				adjusted = limit.max
			}
			alloc.Set(p, adjusted)
		}
	}

	alloc, ok := normalize(alloc)
	if !ok {
		// Degenerate clamp output; fall back to the untouched base table.
		alloc = pb.base
		live = false
	}

	apySet := yieldSet
	if !live {
		apySet = yields.FallbackAPYs
	}

	source := SourceLive
	if !live {
		source = SourceFallback
	}

	return Strategy{
		Allocation:  alloc,
		Rationale:   rationale(profile, alloc, source),
		ExpectedAPY: alloc.WeightedAPY(apySet) / 100.0,
		RiskLevel:   profile,
		Source:      source,
	}
}

// normalize rescales the three percentages to sum to exactly 100.
// Reports false when the total is non-positive.
func normalize(alloc domain.Allocation) (domain.Allocation, bool) {
	total := alloc.Total()
	if total <= 0 {
		return alloc, false
	}

	for _, p := range domain.Protocols {
		alloc.Set(p, alloc.Get(p)/total*100)
	}
	return alloc, true
}

// protocolLabels are the human-readable names used in rationale text.
var protocolLabels = map[domain.Protocol]string{
	domain.ProtocolAave:      "Aave/Benqi lending",
	domain.ProtocolTraderJoe: "TraderJoe liquidity pools",
	domain.ProtocolYieldYak:  "YieldYak auto-compounding farms",
}

// rationale builds a short explanation by thresholding allocation shares.
func rationale(profile domain.RiskProfile, alloc domain.Allocation, source StrategySource) string {
	// Describe protocols from largest share down, stable for equal shares.
	ordered := make([]domain.Protocol, len(domain.Protocols))
	copy(ordered, domain.Protocols)
	sort.SliceStable(ordered, func(i, j int) bool {
		return alloc.Get(ordered[i]) > alloc.Get(ordered[j])
	})

	text := fmt.Sprintf("%s profile.", titleCase(string(profile)))
	for _, p := range ordered {
		pct := alloc.Get(p)
		switch {
		case pct >= 50:
			text += fmt.Sprintf(" Concentrated %.0f%% in %s.", pct, protocolLabels[p])
		case pct >= 30:
			text += fmt.Sprintf(" Significant %.0f%% position in %s.", pct, protocolLabels[p])
		case pct > 0:
			text += fmt.Sprintf(" Satellite %.0f%% in %s.", pct, protocolLabels[p])
		}
	}

	if source == SourceFallback {
		text += " Built from default yield assumptions; live yield data was unavailable."
	} else {
		text += " Weights tilted toward protocols with above-average current yields."
	}
	return text
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
