package espn

import (
	"testing"

	"ncaab_factors/ingestion/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func statEntry(label, name, value string) map[string]interface{} {
	return map[string]interface{}{"label": label, "name": name, "displayValue": value}
}

func boxTeam(id, name string, stats []interface{}) map[string]interface{} {
	return map[string]interface{}{
		"team":       map[string]interface{}{"id": id, "displayName": name},
		"statistics": stats,
	}
}

func competitor(id, homeAway, score string) map[string]interface{} {
	return map[string]interface{}{
		"team":     map[string]interface{}{"id": id},
		"homeAway": homeAway,
		"score":    score,
	}
}

// summaryPayload builds a minimal but structurally faithful game summary.
func summaryPayload(boxTeams, competitors []interface{}) map[string]interface{} {
	return map[string]interface{}{
		"boxscore": map[string]interface{}{"teams": boxTeams},
		"header": map[string]interface{}{
			"competitions": []interface{}{
				map[string]interface{}{
					"date":        "2025-01-15T01:00Z",
					"competitors": competitors,
					"status": map[string]interface{}{
						"type": map[string]interface{}{"completed": true},
					},
				},
			},
		},
		"gameInfo": map[string]interface{}{
			"venue": map[string]interface{}{"fullName": "Test Arena"},
		},
	}
}

func fullStats() []interface{} {
	return []interface{}{
		statEntry("FG", "fieldGoalsMade-fieldGoalsAttempted", "28-53"),
		statEntry("3PT", "threePointFieldGoalsMade-threePointFieldGoalsAttempted", "9-22"),
		statEntry("FT", "freeThrowsMade-freeThrowsAttempted", "15-19"),
		statEntry("Offensive Rebounds", "offensiveRebounds", "11"),
		statEntry("Defensive Rebounds", "defensiveRebounds", "25"),
		statEntry("Turnovers", "turnovers", "10"),
	}
}

func TestParseGame(t *testing.T) {
	p := NewParser(0.28)

	payload := summaryPayload(
		[]interface{}{
			boxTeam("52", "Duke Blue Devils", fullStats()),
			boxTeam("153", "North Carolina Tar Heels", fullStats()),
		},
		[]interface{}{
			competitor("153", "home", "80"),
			competitor("52", "away", "74"),
		},
	)

	teams := map[string]*models.Team{
		"52":  {ID: "52", Name: "Duke Blue Devils", ConferenceID: "2", ConferenceName: "ACC"},
		"153": {ID: "153", Name: "North Carolina Tar Heels", ConferenceID: "2", ConferenceName: "ACC"},
	}

	game, err := p.ParseGame("401525", payload, teams)
	require.NoError(t, err)

	assert.Equal(t, "401525", game.ID)
	assert.True(t, game.Completed)
	assert.Equal(t, "Test Arena", game.Venue)
	assert.True(t, game.IsConferenceGame, "Shared conference should mark the game as conference play")

	assert.Equal(t, "153", game.Home.TeamID, "Home side comes from the homeAway tag, not list order")
	assert.Equal(t, 80, game.Home.Score)
	assert.True(t, game.Home.IsHome)
	assert.Equal(t, "52", game.Away.TeamID)
	assert.Equal(t, 74, game.Away.Score)
	assert.False(t, game.Away.IsHome)

	assert.Equal(t, 28, game.Home.FGM)
	assert.Equal(t, 53, game.Home.FGA)
	assert.Equal(t, 9, game.Home.FG3M)
	assert.Equal(t, 22, game.Home.FG3A)
	assert.Equal(t, 15, game.Home.FTM)
	assert.Equal(t, 19, game.Home.FTA)
	assert.Equal(t, 11, game.Home.OREB)
	assert.Equal(t, 25, game.Home.DREB)
	assert.Equal(t, 10, game.Home.Turnovers)

	// Both teams shot identically, so factors should be symmetric
	assert.InDelta(t, 61.32, game.Home.EFG, 0.01)
	assert.InDelta(t, game.Home.EFG, game.Away.EFG, 0.001)
	assert.InDelta(t, 30.56, game.Home.ORB, 0.01, "ORB% should use the opponent's DREB")
}

func TestParseGame_HomeAwayListedHomeFirst(t *testing.T) {
	p := NewParser(0.28)

	// Competitor list order reversed relative to the previous test; outcome
	// must not change.
	payload := summaryPayload(
		[]interface{}{
			boxTeam("52", "Duke Blue Devils", fullStats()),
			boxTeam("153", "North Carolina Tar Heels", fullStats()),
		},
		[]interface{}{
			competitor("52", "away", "74"),
			competitor("153", "home", "80"),
		},
	)

	game, err := p.ParseGame("401525", payload, nil)
	require.NoError(t, err)
	assert.Equal(t, "153", game.Home.TeamID)
	assert.Equal(t, "52", game.Away.TeamID)
}

func TestParseGame_KeyPriority(t *testing.T) {
	p := NewParser(0.28)

	// Both the short label and the free-text label are present with different
	// values; the short label wins.
	stats := []interface{}{
		statEntry("FG", "", "20-40"),
		statEntry("Field Goals", "", "99-99"),
		statEntry("", "turnovers", "8"),
	}
	payload := summaryPayload(
		[]interface{}{boxTeam("1", "A", stats), boxTeam("2", "B", stats)},
		[]interface{}{competitor("1", "home", "60"), competitor("2", "away", "55")},
	)

	game, err := p.ParseGame("g1", payload, nil)
	require.NoError(t, err)
	assert.Equal(t, 20, game.Home.FGM, "Short label should take priority over the free-text label")
	assert.Equal(t, 40, game.Home.FGA)
	assert.Equal(t, 8, game.Home.Turnovers, "Machine name alone should resolve")
}

func TestParseGame_MalformedPairFallsThrough(t *testing.T) {
	p := NewParser(0.28)

	// The higher-priority key holds a value that is not "M-A"; the lookup
	// should fall through to the next candidate rather than give up.
	stats := []interface{}{
		statEntry("FG", "", "52.8"),
		statEntry("Field Goals", "", "28-53"),
	}
	payload := summaryPayload(
		[]interface{}{boxTeam("1", "A", stats), boxTeam("2", "B", stats)},
		[]interface{}{competitor("1", "home", "60"), competitor("2", "away", "55")},
	)

	game, err := p.ParseGame("g1", payload, nil)
	require.NoError(t, err)
	assert.Equal(t, 28, game.Home.FGM)
	assert.Equal(t, 53, game.Home.FGA)
}

func TestParseGame_ReboundSplitHeuristic(t *testing.T) {
	p := NewParser(0.28)

	// Only total rebounds reported; the split is estimated at the configured
	// offensive share.
	stats := []interface{}{
		statEntry("FG", "", "25-50"),
		statEntry("Rebounds", "totalRebounds", "40"),
	}
	payload := summaryPayload(
		[]interface{}{boxTeam("1", "A", stats), boxTeam("2", "B", stats)},
		[]interface{}{competitor("1", "home", "60"), competitor("2", "away", "55")},
	)

	game, err := p.ParseGame("g1", payload, nil)
	require.NoError(t, err)
	assert.Equal(t, 11, game.Home.OREB, "40 * 0.28 rounds to 11")
	assert.Equal(t, 29, game.Home.DREB, "Defensive share is the remainder")
}

func TestParseGame_RealZeroSplitNotOverridden(t *testing.T) {
	p := NewParser(0.28)

	// A genuine (0, 15) split must survive even with a total present.
	stats := []interface{}{
		statEntry("Offensive Rebounds", "", "0"),
		statEntry("Defensive Rebounds", "", "15"),
		statEntry("Rebounds", "totalRebounds", "15"),
	}
	payload := summaryPayload(
		[]interface{}{boxTeam("1", "A", stats), boxTeam("2", "B", stats)},
		[]interface{}{competitor("1", "home", "60"), competitor("2", "away", "55")},
	)

	game, err := p.ParseGame("g1", payload, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, game.Home.OREB, "Reported zero OREB must not be re-estimated")
	assert.Equal(t, 15, game.Home.DREB)
}

func TestParseGame_MissingBoxscore(t *testing.T) {
	p := NewParser(0.28)

	_, err := p.ParseGame("g1", map[string]interface{}{}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnparseable)
}

func TestParseGame_OneTeamOnly(t *testing.T) {
	p := NewParser(0.28)

	payload := summaryPayload(
		[]interface{}{boxTeam("1", "A", fullStats())},
		[]interface{}{competitor("1", "home", "60"), competitor("2", "away", "55")},
	)

	_, err := p.ParseGame("g1", payload, nil)
	assert.ErrorIs(t, err, ErrUnparseable, "Fewer than two boxscore teams should drop the game")
}

func TestParseGame_MissingCompetition(t *testing.T) {
	p := NewParser(0.28)

	payload := map[string]interface{}{
		"boxscore": map[string]interface{}{
			"teams": []interface{}{
				boxTeam("1", "A", fullStats()),
				boxTeam("2", "B", fullStats()),
			},
		},
	}

	_, err := p.ParseGame("g1", payload, nil)
	assert.ErrorIs(t, err, ErrUnparseable)
}

func TestParseGame_MissingHomeAwayTags(t *testing.T) {
	p := NewParser(0.28)

	payload := summaryPayload(
		[]interface{}{boxTeam("1", "A", fullStats()), boxTeam("2", "B", fullStats())},
		[]interface{}{competitor("1", "", "60"), competitor("2", "", "55")},
	)

	_, err := p.ParseGame("g1", payload, nil)
	assert.ErrorIs(t, err, ErrUnparseable)
}

func TestParseGame_IdentityMismatchDefaultsScore(t *testing.T) {
	p := NewParser(0.28)

	// Competitor list names a team the boxscore doesn't carry. The game still
	// parses from the boxscore entries, with the mismatched side scored 0.
	payload := summaryPayload(
		[]interface{}{boxTeam("1", "A", fullStats()), boxTeam("2", "B", fullStats())},
		[]interface{}{competitor("999", "home", "60"), competitor("2", "away", "55")},
	)

	game, err := p.ParseGame("g1", payload, nil)
	require.NoError(t, err)
	assert.Equal(t, "1", game.Home.TeamID, "Home falls back to the remaining boxscore team")
	assert.Equal(t, 0, game.Home.Score, "Mismatched side defaults to score 0")
	assert.Equal(t, "2", game.Away.TeamID)
	assert.Equal(t, 55, game.Away.Score)
}

func TestParseGame_NonConferenceMatchup(t *testing.T) {
	p := NewParser(0.28)

	payload := summaryPayload(
		[]interface{}{boxTeam("1", "A", fullStats()), boxTeam("2", "B", fullStats())},
		[]interface{}{competitor("1", "home", "60"), competitor("2", "away", "55")},
	)

	teams := map[string]*models.Team{
		"1": {ID: "1", ConferenceID: "2"},
		"2": {ID: "2", ConferenceID: "8"},
	}

	game, err := p.ParseGame("g1", payload, teams)
	require.NoError(t, err)
	assert.False(t, game.IsConferenceGame)
}

func TestParseGame_UnknownConferenceNotConferenceGame(t *testing.T) {
	p := NewParser(0.28)

	payload := summaryPayload(
		[]interface{}{boxTeam("1", "A", fullStats()), boxTeam("2", "B", fullStats())},
		[]interface{}{competitor("1", "home", "60"), competitor("2", "away", "55")},
	)

	game, err := p.ParseGame("g1", payload, map[string]*models.Team{})
	require.NoError(t, err)
	assert.False(t, game.IsConferenceGame, "Missing conference identity is never a conference game")
}

func TestParseShotPair(t *testing.T) {
	m, a, ok := parseShotPair("28-53")
	require.True(t, ok)
	assert.Equal(t, 28, m)
	assert.Equal(t, 53, a)

	m, a, ok = parseShotPair(" 7 - 12 ")
	require.True(t, ok, "Whitespace around the components should be tolerated")
	assert.Equal(t, 7, m)
	assert.Equal(t, 12, a)

	for _, bad := range []string{"", "28", "28-53-2", "a-b", "52.8"} {
		_, _, ok := parseShotPair(bad)
		assert.False(t, ok, "%q should not parse as a shot pair", bad)
	}
}

func TestIndexStatistics_CaseInsensitive(t *testing.T) {
	idx := indexStatistics([]interface{}{
		statEntry("FG", "fieldGoalsMade-fieldGoalsAttempted", "28-53"),
	})
	assert.Equal(t, "28-53", idx["fg"])
	assert.Equal(t, "28-53", idx["fieldgoalsmade-fieldgoalsattempted"])
}

func TestParseGameDate_MinuteOnlyTimestamp(t *testing.T) {
	comp := map[string]interface{}{"date": "2025-01-15T01:00Z"}
	d := parseGameDate(comp)
	require.False(t, d.IsZero())
	assert.Equal(t, 2025, d.Year())
	assert.Equal(t, 1, d.Hour())
}
