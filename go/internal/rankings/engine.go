package rankings

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jgreenfield/alfred/go/internal/models"
)

// Override extremes for the must_draft and avoid_player flags. Chosen far
// outside any real multiplier so no combination of team and strategy stages
// can undo them.
const (
	MustDraftMultiplier   = 0.001
	AvoidPlayerMultiplier = 1000.0
)

// CV coefficients for the strategy stage, scaled by the session's cv_weight.
const (
	conservativeCVCoeff = 0.3
	aggressiveCVCoeff   = 0.2
)

// MinStrategyMultiplier floors the conservative stage. Every stage
// multiplier must stay a positive real: a large cv times a large cv_weight
// would otherwise drive the product negative and invert the adjusted order.
const MinStrategyMultiplier = 0.1

// PoolPlayer is one engine input: a player plus every source's consensus
// value for them. The engine preserves input order for tie-breaking, so
// callers must supply the pool in a stable order.
type PoolPlayer struct {
	Player  models.Player
	Sources []models.ConsensusRanking
}

// Recompute derives the full adjusted ranking set for one session. Pure:
// identical inputs produce identical output, byte for byte.
func Recompute(pool []PoolPlayer, prefs models.UserPreference, overrides map[uuid.UUID]models.PlayerAdjustment, computedAt time.Time) ([]models.AdjustedRanking, error) {
	prefs = normalizePrefs(prefs)

	rows := make([]models.AdjustedRanking, len(pool))
	sentinel := make([]bool, len(pool))
	mustDraft := make([]bool, len(pool))

	for i, p := range pool {
		adps := make([]float64, len(p.Sources))
		for j, s := range p.Sources {
			adps[j] = s.ADP
		}

		originalADP := models.ADPSentinel
		if len(adps) > 0 {
			originalADP = mean(adps)
		} else {
			sentinel[i] = true
		}
		cv := coefficientOfVariation(adps)

		teamMult := teamMultiplier(prefs, p.Player.Team)
		playerMult, must, err := playerMultiplier(overrides[p.Player.ID])
		if err != nil {
			return nil, fmt.Errorf("player %s (%s): %w", p.Player.Name, p.Player.ID, err)
		}
		mustDraft[i] = must
		strategyMult := strategyMultiplier(prefs.Strategy, cv, prefs.CVWeight)

		rows[i] = models.AdjustedRanking{
			SessionID:          prefs.SessionID,
			PlayerID:           p.Player.ID,
			OriginalADP:        originalADP,
			TeamMultiplier:     teamMult,
			PlayerMultiplier:   playerMult,
			StrategyMultiplier: strategyMult,
			AdjustedADP:        originalADP * teamMult * playerMult * strategyMult,
			ComputedAt:         computedAt,
		}
	}

	// First pass ranks the unbiased consensus, second pass ranks the
	// adjusted values. Players with no consensus data stay behind every
	// ranked player no matter what their multipliers did, unless a
	// must_draft override pulls them forward.
	assignRanks(rows, func(i int) bool { return sentinel[i] },
		func(i int) float64 { return rows[i].OriginalADP },
		func(i, rank int) { rows[i].OriginalRank = rank })
	assignRanks(rows, func(i int) bool { return sentinel[i] && !mustDraft[i] },
		func(i int) float64 { return rows[i].AdjustedADP },
		func(i, rank int) { rows[i].AdjustedRank = rank })

	for i := range rows {
		rows[i].BiasImpact = biasImpact(rows[i].OriginalRank, rows[i].AdjustedRank)
	}

	return rows, nil
}

// assignRanks orders indices by (deferred last, value asc, input order) and
// writes 1-based ordinal ranks.
func assignRanks(rows []models.AdjustedRanking, deferred func(int) bool, value func(int) float64, set func(i, rank int)) {
	order := make([]int, len(rows))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ia, ib := order[a], order[b]
		da, db := deferred(ia), deferred(ib)
		if da != db {
			return !da
		}
		return value(ia) < value(ib)
	})
	for rank, idx := range order {
		set(idx, rank+1)
	}
}

// teamMultiplier applies team affinity. A team configured as both favorite
// and hated is a configuration mistake; favorite wins, deterministically.
func teamMultiplier(prefs models.UserPreference, team string) float64 {
	if containsTeam(prefs.FavoriteTeams, team) {
		return prefs.FavoriteMultiplier
	}
	if containsTeam(prefs.HatedTeams, team) {
		return prefs.HatedMultiplier
	}
	return 1.0
}

// playerMultiplier applies the explicit per-player override. The flag
// extremes dominate the stored multiplier.
func playerMultiplier(adj models.PlayerAdjustment) (mult float64, mustDraft bool, err error) {
	if adj.MustDraft && adj.AvoidPlayer {
		return 0, false, ErrConflictingOverride
	}
	if adj.MustDraft {
		return MustDraftMultiplier, true, nil
	}
	if adj.AvoidPlayer {
		return AvoidPlayerMultiplier, false, nil
	}
	if adj.BiasMultiplier > 0 {
		return adj.BiasMultiplier, false, nil
	}
	return 1.0, false, nil
}

// strategyMultiplier folds ranking volatility into the adjustment.
// Conservative rewards consistency, aggressive chases upside.
func strategyMultiplier(strategy models.Strategy, cv, cvWeight float64) float64 {
	switch strategy {
	case models.StrategyConservative:
		return math.Max(MinStrategyMultiplier, 1.0-cv*conservativeCVCoeff*cvWeight)
	case models.StrategyAggressive:
		return 1.0 + cv*aggressiveCVCoeff*cvWeight
	default:
		return 1.0
	}
}

func biasImpact(originalRank, adjustedRank int) float64 {
	if originalRank == 0 {
		return 0
	}
	return float64(originalRank-adjustedRank) / float64(originalRank)
}

// normalizePrefs degrades malformed preference data to the neutral
// defaults instead of failing the recompute.
func normalizePrefs(prefs models.UserPreference) models.UserPreference {
	if prefs.FavoriteMultiplier <= 0 {
		prefs.FavoriteMultiplier = models.DefaultFavoriteMultiplier
	}
	if prefs.HatedMultiplier <= 0 {
		prefs.HatedMultiplier = models.DefaultHatedMultiplier
	}
	if !models.ValidStrategy(prefs.Strategy) {
		prefs.Strategy = models.StrategyBalanced
	}
	if prefs.CVWeight < 0 {
		prefs.CVWeight = models.DefaultCVWeight
	}
	return prefs
}

func containsTeam(teams []string, team string) bool {
	for _, t := range teams {
		if t == team {
			return true
		}
	}
	return false
}

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

// coefficientOfVariation is sample stdev over mean, 0 when undefined
// (fewer than two sources or zero mean).
func coefficientOfVariation(vals []float64) float64 {
	if len(vals) < 2 {
		return 0
	}
	m := mean(vals)
	if m == 0 {
		return 0
	}
	var ss float64
	for _, v := range vals {
		d := v - m
		ss += d * d
	}
	return math.Sqrt(ss/float64(len(vals)-1)) / m
}
