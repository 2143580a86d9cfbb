package factors

import (
	"testing"

	"ncaab_factors/ingestion/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestEffectiveFGPct(t *testing.T) {
	// 28-53 FG with 9 threes: (28 + 4.5) / 53 * 100
	assert.InDelta(t, 61.32, EffectiveFGPct(28, 9, 53), 0.01, "eFG% should weight threes by 1.5")
}

func TestEffectiveFGPct_ZeroAttempts(t *testing.T) {
	assert.Equal(t, 0.0, EffectiveFGPct(0, 0, 0), "Zero FGA should yield 0, not NaN")
	assert.Equal(t, 0.0, EffectiveFGPct(5, 2, 0), "Zero FGA dominates even with nonzero makes")
}

func TestTurnoverRate(t *testing.T) {
	// 12 / (60 + 0.44*20 + 12) = 12 / 80.8
	assert.InDelta(t, 14.85, TurnoverRate(12, 60, 20), 0.01, "TOV% should use the 0.44 FTA weighting")
}

func TestTurnoverRate_ZeroDenominator(t *testing.T) {
	assert.Equal(t, 0.0, TurnoverRate(0, 0, 0), "Empty stat line should yield 0")
}

func TestOffensiveReboundPct(t *testing.T) {
	assert.InDelta(t, 30.0, OffensiveReboundPct(12, 28), 0.001, "ORB% is own OREB over OREB plus opponent DREB")
}

func TestOffensiveReboundPct_Symmetry(t *testing.T) {
	// Team A's ORB% uses B's DREB and vice versa; the two sides are computed
	// from different denominators and need not sum to 100.
	a := OffensiveReboundPct(12, 28)
	b := OffensiveReboundPct(8, 22)
	assert.InDelta(t, 30.0, a, 0.001)
	assert.InDelta(t, 26.67, b, 0.01)
}

func TestOffensiveReboundPct_ZeroRebounds(t *testing.T) {
	assert.Equal(t, 0.0, OffensiveReboundPct(0, 0), "No rebounds on either side should yield 0")
}

func TestFreeThrowRate(t *testing.T) {
	assert.InDelta(t, 28.30, FreeThrowRate(15, 53), 0.01, "FTR is FTM over FGA")
	assert.Equal(t, 0.0, FreeThrowRate(15, 0), "Zero FGA should yield 0")
}

func TestPossessions(t *testing.T) {
	s := models.BoxScoreStats{FGA: 60, OREB: 10, Turnovers: 12, FTA: 20}
	assert.InDelta(t, 70.8, Possessions(s), 0.001, "Possessions = FGA - OREB + TO + 0.44*FTA")
}

func TestPossessions_EmptyLine(t *testing.T) {
	assert.Equal(t, 0.0, Possessions(models.BoxScoreStats{}))
}

func TestCompute(t *testing.T) {
	stats := models.BoxScoreStats{
		FGM:       28,
		FGA:       53,
		FG3M:      9,
		FG3A:      22,
		FTM:       15,
		FTA:       19,
		OREB:      11,
		DREB:      25,
		Turnovers: 10,
	}

	f := Compute(stats, 25)

	assert.InDelta(t, 61.32, f.EFG, 0.01, "eFG% should match component formula")
	assert.InDelta(t, 14.02, f.TOV, 0.01, "TOV% should match component formula")
	assert.InDelta(t, 30.56, f.ORB, 0.01, "ORB% should use the opponent DREB input")
	assert.InDelta(t, 28.30, f.FTR, 0.01, "FTR should match component formula")
}

func TestCompute_KnownGame(t *testing.T) {
	// Hand-checked stat line: 28-53 FG with 4 threes, 26-32 FT, 11 offensive
	// boards against 25 opponent defensive boards
	stats := models.BoxScoreStats{
		FGM:       28,
		FGA:       53,
		FG3M:      4,
		FG3A:      12,
		FTM:       26,
		FTA:       32,
		OREB:      11,
		DREB:      28,
		Turnovers: 13,
	}

	f := Compute(stats, 25)
	assert.InDelta(t, 56.6, f.EFG, 0.05)
	assert.InDelta(t, 30.6, f.ORB, 0.05)
}

func TestCompute_AllZero(t *testing.T) {
	f := Compute(models.BoxScoreStats{}, 0)
	assert.Equal(t, models.FourFactors{}, f, "Degenerate stat line should produce all-zero factors")
}
