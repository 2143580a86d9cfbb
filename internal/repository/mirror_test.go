//go:build integration

package repository

import (
	"testing"
	"time"

	"ncaab_factors/ingestion/internal/dataset"
	"ncaab_factors/ingestion/internal/models"
	"ncaab_factors/ingestion/internal/season"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mirrorDataset() *dataset.Dataset {
	return &dataset.Dataset{
		Gender: models.Mens,
		Season: season.Season{StartYear: 2024},
		Teams: []models.Team{
			{ID: "52", Name: "Duke Blue Devils", ConferenceID: "2", ConferenceName: "ACC"},
			{ID: "153", Name: "North Carolina Tar Heels", ConferenceID: "2", ConferenceName: "ACC"},
		},
		Games: []models.Game{
			{
				ID:               "401525",
				Date:             time.Date(2025, 1, 15, 1, 0, 0, 0, time.UTC),
				Completed:        true,
				IsConferenceGame: true,
				Home: models.GameTeamStats{
					TeamID: "153", TeamName: "North Carolina Tar Heels", Score: 80, IsHome: true,
					BoxScoreStats: models.BoxScoreStats{FGM: 28, FGA: 53, Turnovers: 10},
					FourFactors:   models.FourFactors{EFG: 61.3, TOV: 14.0, ORB: 30.6, FTR: 28.3},
				},
				Away: models.GameTeamStats{
					TeamID: "52", TeamName: "Duke Blue Devils", Score: 74,
					BoxScoreStats: models.BoxScoreStats{FGM: 26, FGA: 55, Turnovers: 12},
				},
			},
		},
		Standings: []models.TeamStandings{
			{TeamID: "153", GamesPlayed: 1, Wins: 1, ConfWins: 1, EFG: 61.3},
			{TeamID: "52", GamesPlayed: 1, Losses: 1, ConfLosses: 1},
		},
	}
}

func TestMirror_Write(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	m := NewMirror(db)
	require.NoError(t, m.Write(mirrorDataset()))

	teams, err := db.Teams.List(ctx, "mens", "2024-25")
	require.NoError(t, err)
	assert.Len(t, teams, 2)

	games, err := db.Games.List(ctx, "mens", "2024-25")
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, "153", games[0].Home.TeamID)
	assert.Equal(t, 28, games[0].Home.FGM, "Stat lines should round-trip through JSONB")
	assert.InDelta(t, 61.3, games[0].Home.EFG, 0.001)

	standings, err := db.Standings.List(ctx, "mens", "2024-25")
	require.NoError(t, err)
	require.Len(t, standings, 2)
	assert.Equal(t, "153", standings[0].TeamID, "List must preserve the aggregator's row order")
}

func TestMirror_WriteReplacesPartition(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	m := NewMirror(db)
	require.NoError(t, m.Write(mirrorDataset()))

	smaller := mirrorDataset()
	smaller.Teams = smaller.Teams[:1]
	smaller.Games = nil
	smaller.Standings = smaller.Standings[1:]
	require.NoError(t, m.Write(smaller))

	teams, err := db.Teams.List(ctx, "mens", "2024-25")
	require.NoError(t, err)
	assert.Len(t, teams, 1, "A rerun fully replaces the partition")

	games, err := db.Games.List(ctx, "mens", "2024-25")
	require.NoError(t, err)
	assert.Empty(t, games)
}
