package models

// TeamStandings is one team's cumulative season row: record, conference
// record, per-game scoring averages and the mean of each own/opponent four
// factor across all games played. Rebuilt from the full game collection on
// every run, never incrementally updated.
type TeamStandings struct {
	TeamID      string `json:"teamId"`
	GamesPlayed int    `json:"gamesPlayed"`
	Wins        int    `json:"wins"`
	Losses      int    `json:"losses"`
	ConfWins    int    `json:"confWins"`
	ConfLosses  int    `json:"confLosses"`

	// Own four-factor means
	EFG float64 `json:"efg"`
	TOV float64 `json:"tov"`
	ORB float64 `json:"orb"`
	FTR float64 `json:"ftr"`

	// Opponent four-factor means
	OppEFG float64 `json:"oppEfg"`
	OppTOV float64 `json:"oppTov"`
	OppORB float64 `json:"oppOrb"`
	OppFTR float64 `json:"oppFtr"`

	PointsFor     float64 `json:"pointsFor"`
	PointsAgainst float64 `json:"pointsAgainst"`
}
