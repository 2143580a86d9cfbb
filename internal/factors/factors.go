// Package factors computes Dean Oliver's four efficiency metrics from raw
// box-score counts. All functions are pure and degrade every divide-by-zero
// case to 0 rather than an error or NaN, so one degenerate stat line never
// propagates failures through the pipeline.
package factors

import "ncaab_factors/ingestion/internal/models"

// EffectiveFGPct returns eFG% = (FGM + 0.5*FG3M) / FGA * 100.
// Returns 0 when FGA is 0.
func EffectiveFGPct(fgm, fg3m, fga int) float64 {
	if fga == 0 {
		return 0
	}
	return (float64(fgm) + 0.5*float64(fg3m)) / float64(fga) * 100
}

// TurnoverRate returns TOV% = TO / (FGA + 0.44*FTA + TO) * 100.
// Returns 0 when the possession denominator is 0.
func TurnoverRate(turnovers, fga, fta int) float64 {
	denom := float64(fga) + 0.44*float64(fta) + float64(turnovers)
	if denom == 0 {
		return 0
	}
	return float64(turnovers) / denom * 100
}

// OffensiveReboundPct returns ORB% = OREB / (OREB + opponent DREB) * 100.
// The opponent's defensive rebound count is an explicit input, which is why
// both teams must be parsed before either team's factors can be computed.
// Returns 0 when both rebound counts are 0.
func OffensiveReboundPct(oreb, oppDreb int) float64 {
	if oreb+oppDreb == 0 {
		return 0
	}
	return float64(oreb) / float64(oreb+oppDreb) * 100
}

// FreeThrowRate returns FTR = FTM / FGA * 100. Returns 0 when FGA is 0.
func FreeThrowRate(ftm, fga int) float64 {
	if fga == 0 {
		return 0
	}
	return float64(ftm) / float64(fga) * 100
}

// Possessions estimates offensive possessions as FGA - OREB + TO + 0.44*FTA
func Possessions(s models.BoxScoreStats) float64 {
	return float64(s.FGA) - float64(s.OREB) + float64(s.Turnovers) + 0.44*float64(s.FTA)
}

// Compute derives all four factors for a stat line given the opponent's
// defensive rebound count
func Compute(s models.BoxScoreStats, oppDreb int) models.FourFactors {
	return models.FourFactors{
		EFG: EffectiveFGPct(s.FGM, s.FG3M, s.FGA),
		TOV: TurnoverRate(s.Turnovers, s.FGA, s.FTA),
		ORB: OffensiveReboundPct(s.OREB, oppDreb),
		FTR: FreeThrowRate(s.FTM, s.FGA),
	}
}
