// Package standings folds a season's parsed games into one cumulative row
// per team. The fold is deterministic: identical input games produce
// byte-identical output, every run.
package standings

import (
	"sort"

	"ncaab_factors/ingestion/internal/models"
)

// accumulator carries the running sums for one team
type accumulator struct {
	row models.TeamStandings

	efg, tov, orb, ftr             float64
	oppEFG, oppTOV, oppORB, oppFTR float64
	pointsFor, pointsAgainst       int
}

// Aggregate builds the season standings from the full game collection.
// Every roster team gets a row, zero-game teams included, so the team roster
// is always a superset of (or equal to) the standings roster. Rows are
// ordered by wins descending, conference wins descending, then team ID.
func Aggregate(teams []models.Team, games []models.Game) []models.TeamStandings {
	accs := make(map[string]*accumulator, len(teams))
	order := make([]string, 0, len(teams))
	for _, team := range teams {
		if _, ok := accs[team.ID]; ok {
			continue
		}
		accs[team.ID] = &accumulator{row: models.TeamStandings{TeamID: team.ID}}
		order = append(order, team.ID)
	}

	for i := range games {
		game := &games[i]
		if !game.Completed {
			continue
		}
		foldSide(accs, game, &game.Home, &game.Away)
		foldSide(accs, game, &game.Away, &game.Home)
	}

	rows := make([]models.TeamStandings, 0, len(order))
	for _, teamID := range order {
		rows = append(rows, accs[teamID].finalize())
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Wins != rows[j].Wins {
			return rows[i].Wins > rows[j].Wins
		}
		if rows[i].ConfWins != rows[j].ConfWins {
			return rows[i].ConfWins > rows[j].ConfWins
		}
		return rows[i].TeamID < rows[j].TeamID
	})

	return rows
}

// foldSide accumulates one game from the perspective of own vs opponent.
// Games involving teams outside the roster are counted only for roster teams.
func foldSide(accs map[string]*accumulator, game *models.Game, own, opp *models.GameTeamStats) {
	acc, ok := accs[own.TeamID]
	if !ok {
		return
	}

	acc.row.GamesPlayed++
	if own.Score > opp.Score {
		acc.row.Wins++
		if game.IsConferenceGame {
			acc.row.ConfWins++
		}
	} else {
		acc.row.Losses++
		if game.IsConferenceGame {
			acc.row.ConfLosses++
		}
	}

	acc.efg += own.EFG
	acc.tov += own.TOV
	acc.orb += own.ORB
	acc.ftr += own.FTR
	acc.oppEFG += opp.EFG
	acc.oppTOV += opp.TOV
	acc.oppORB += opp.ORB
	acc.oppFTR += opp.FTR
	acc.pointsFor += own.Score
	acc.pointsAgainst += opp.Score
}

// finalize divides the running sums by games played. Zero-game teams keep
// their initialized-zero row.
func (a *accumulator) finalize() models.TeamStandings {
	row := a.row
	if row.GamesPlayed == 0 {
		return row
	}

	n := float64(row.GamesPlayed)
	row.EFG = a.efg / n
	row.TOV = a.tov / n
	row.ORB = a.orb / n
	row.FTR = a.ftr / n
	row.OppEFG = a.oppEFG / n
	row.OppTOV = a.oppTOV / n
	row.OppORB = a.oppORB / n
	row.OppFTR = a.oppFTR / n
	row.PointsFor = float64(a.pointsFor) / n
	row.PointsAgainst = float64(a.pointsAgainst) / n
	return row
}
