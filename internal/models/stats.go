package models

// BoxScoreStats holds the raw per-team counting stats for a single game.
// All counts are non-negative; attempted >= made is an upstream expectation,
// not an enforced invariant, so malformed payloads stay visible downstream.
type BoxScoreStats struct {
	FGM       int `json:"fgm"`
	FGA       int `json:"fga"`
	FG3M      int `json:"fg3m"`
	FG3A      int `json:"fg3a"`
	FTM       int `json:"ftm"`
	FTA       int `json:"fta"`
	OREB      int `json:"oreb"`
	DREB      int `json:"dreb"`
	Turnovers int `json:"turnovers"`
}

// FourFactors holds Dean Oliver's four efficiency metrics on a percent scale.
// Values are not clamped: garbage upstream counts produce out-of-range values
// on purpose so anomalies remain detectable.
type FourFactors struct {
	EFG float64 `json:"efg"`
	TOV float64 `json:"tov"`
	ORB float64 `json:"orb"`
	FTR float64 `json:"ftr"`
}

// GameTeamStats is one team's complete record for one game: identity, game
// context, raw counts and derived factors. Computed once per game, then frozen.
type GameTeamStats struct {
	TeamID   string `json:"teamId"`
	TeamName string `json:"teamName"`
	Score    int    `json:"score"`
	IsHome   bool   `json:"isHome"`

	BoxScoreStats
	FourFactors
}

// NewGameTeamStats combines an immutable stat line with its derived factors.
// Two-phase construction: the box score exists first, the factors are computed
// from it plus the opponent's defensive rebounds, and the final record is
// assembled from both.
func NewGameTeamStats(teamID, teamName string, score int, isHome bool, stats BoxScoreStats, factors FourFactors) GameTeamStats {
	return GameTeamStats{
		TeamID:        teamID,
		TeamName:      teamName,
		Score:         score,
		IsHome:        isHome,
		BoxScoreStats: stats,
		FourFactors:   factors,
	}
}
