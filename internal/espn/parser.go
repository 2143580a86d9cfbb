// Package espn turns raw ESPN site API payloads into the normalized data
// model. The upstream stat labels vary across seasons and endpoints, so every
// statistic is resolved through an ordered list of candidate keys instead of
// hardcoded indices.
package espn

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"ncaab_factors/ingestion/internal/factors"
	"ncaab_factors/ingestion/internal/models"
)

// ErrUnparseable marks a game payload that cannot produce a usable record:
// missing box score, fewer than two teams, or missing competition context.
// Such games are dropped, not partially recorded.
var ErrUnparseable = errors.New("unparseable game payload")

// Candidate keys per statistic, in priority order: short label first, then
// the long machine name, then the free-text label. Lookups are lower-cased.
var (
	fgKeys   = []string{"fg", "fieldgoalsmade-fieldgoalsattempted", "field goals"}
	fg3Keys  = []string{"3pt", "threepointfieldgoalsmade-threepointfieldgoalsattempted", "3-point field goals"}
	ftKeys   = []string{"ft", "freethrowsmade-freethrowsattempted", "free throws"}
	toKeys   = []string{"to", "turnovers", "total turnovers"}
	orebKeys = []string{"or", "offensiverebounds", "offensive rebounds"}
	drebKeys = []string{"dr", "defensiverebounds", "defensive rebounds"}
	rebKeys  = []string{"reb", "totalrebounds", "rebounds"}
)

// Parser extracts normalized game records from summary payloads
type Parser struct {
	// offensiveReboundShare is the share of total rebounds credited to the
	// offense when the payload has no offensive/defensive split
	offensiveReboundShare float64
}

// NewParser creates a parser with the given rebound-split share
func NewParser(offensiveReboundShare float64) *Parser {
	return &Parser{offensiveReboundShare: offensiveReboundShare}
}

// ParseGame turns one game summary payload into an immutable Game with two
// team stat lines, or fails with an ErrUnparseable-wrapped error.
func (p *Parser) ParseGame(gameID string, summary map[string]interface{}, teamsByID map[string]*models.Team) (*models.Game, error) {
	boxscore := extractMap(summary, "boxscore")
	if len(boxscore) == 0 {
		return nil, fmt.Errorf("%w: game %s has no boxscore", ErrUnparseable, gameID)
	}

	teamsData := extractArray(boxscore, "teams")
	if len(teamsData) < 2 {
		return nil, fmt.Errorf("%w: game %s has %d boxscore teams", ErrUnparseable, gameID, len(teamsData))
	}

	comp := competitionBlock(summary)
	if len(comp) == 0 {
		return nil, fmt.Errorf("%w: game %s has no competition data", ErrUnparseable, gameID)
	}

	competitors := extractArray(comp, "competitors")
	if len(competitors) < 2 {
		return nil, fmt.Errorf("%w: game %s has %d competitors", ErrUnparseable, gameID, len(competitors))
	}

	game := &models.Game{
		ID:        gameID,
		Date:      parseGameDate(comp),
		Venue:     parseVenue(summary, comp),
		Completed: parseCompleted(comp),
	}

	// Phase one: raw counts per team, keyed by identity. List order is not
	// trusted for anything.
	statsByTeam := make(map[string]models.BoxScoreStats, 2)
	namesByTeam := make(map[string]string, 2)
	var teamIDs []string
	for _, entry := range teamsData[:2] {
		teamData, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}
		team := extractMap(teamData, "team")
		teamID := extractString(team, "id")
		statsByTeam[teamID] = p.parseTeamBoxScore(teamData)
		namesByTeam[teamID] = extractString(team, "displayName")
		teamIDs = append(teamIDs, teamID)
	}
	if len(teamIDs) < 2 {
		return nil, fmt.Errorf("%w: game %s boxscore teams are malformed", ErrUnparseable, gameID)
	}

	// Score and home/away come from the competitor list, matched to the
	// boxscore entries by team identity. The two sub-payloads can disagree on
	// rare malformed games; a team without a competitor match gets score 0
	// and a parse warning so the anomaly stays visible.
	type side struct {
		teamID string
		score  int
		found  bool
	}
	var home, away side
	for _, c := range competitors {
		competitor, ok := c.(map[string]interface{})
		if !ok {
			continue
		}
		teamID := extractString(extractMap(competitor, "team"), "id")
		s := side{teamID: teamID, score: parseInt(competitor["score"]), found: true}
		switch extractString(competitor, "homeAway") {
		case "home":
			home = s
		case "away":
			away = s
		}
	}
	if !home.found || !away.found {
		return nil, fmt.Errorf("%w: game %s has no home/away designation", ErrUnparseable, gameID)
	}

	homeStats, homeOK := statsByTeam[home.teamID]
	awayStats, awayOK := statsByTeam[away.teamID]
	if !homeOK || !awayOK {
		// Identity mismatch between boxscore and competitor list: fall back
		// to whichever boxscore entries exist, with zero scores.
		log.Warn().
			Str("game_id", gameID).
			Strs("boxscore_teams", teamIDs).
			Str("home_team", home.teamID).
			Str("away_team", away.teamID).
			Msg("Boxscore and competitor team identities disagree, scores defaulted to 0")
		if !homeOK {
			home.teamID, home.score = otherTeamID(teamIDs, away.teamID), 0
			homeStats = statsByTeam[home.teamID]
		}
		if !awayOK {
			away.teamID, away.score = otherTeamID(teamIDs, home.teamID), 0
			awayStats = statsByTeam[away.teamID]
		}
	}

	// Phase two: factors need the opponent's defensive rebounds, so both
	// stat lines must exist before either side's factors can be computed.
	homeFactors := factors.Compute(homeStats, awayStats.DREB)
	awayFactors := factors.Compute(awayStats, homeStats.DREB)

	game.Home = models.NewGameTeamStats(home.teamID, teamName(teamsByID, namesByTeam, home.teamID), home.score, true, homeStats, homeFactors)
	game.Away = models.NewGameTeamStats(away.teamID, teamName(teamsByID, namesByTeam, away.teamID), away.score, false, awayStats, awayFactors)
	game.IsConferenceGame = models.IsConferenceMatchup(teamsByID[home.teamID], teamsByID[away.teamID])

	return game, nil
}

// parseTeamBoxScore resolves one team's stat array into raw counts. Every
// unresolved field defaults to zero rather than failing the game.
func (p *Parser) parseTeamBoxScore(teamData map[string]interface{}) models.BoxScoreStats {
	idx := indexStatistics(extractArray(teamData, "statistics"))

	var stats models.BoxScoreStats
	stats.FGM, stats.FGA = lookupPair(idx, fgKeys)
	stats.FG3M, stats.FG3A = lookupPair(idx, fg3Keys)
	stats.FTM, stats.FTA = lookupPair(idx, ftKeys)
	stats.Turnovers = lookupInt(idx, toKeys)
	stats.OREB = lookupInt(idx, orebKeys)
	stats.DREB = lookupInt(idx, drebKeys)

	// Some seasons only report total rebounds. Estimate the split from the
	// configured league-average share, but never override a real split, even
	// a split of (0, N).
	if stats.OREB == 0 && stats.DREB == 0 {
		if total := lookupInt(idx, rebKeys); total > 0 {
			stats.OREB = int(math.Round(float64(total) * p.offensiveReboundShare))
			stats.DREB = total - stats.OREB
		}
	}

	return stats
}

// indexStatistics indexes each stat entry's display value under both its
// lower-cased label and lower-cased machine name, so lookups can try several
// candidate keys in priority order.
func indexStatistics(statistics []interface{}) map[string]string {
	idx := make(map[string]string, len(statistics)*2)
	for _, entry := range statistics {
		stat, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}
		value := extractString(stat, "displayValue")
		if label := strings.ToLower(extractString(stat, "label")); label != "" {
			idx[label] = value
		}
		if name := strings.ToLower(extractString(stat, "name")); name != "" {
			idx[name] = value
		}
	}
	return idx
}

// lookupPair resolves a made/attempted statistic through the candidate keys,
// taking the first value that parses as a valid "M-A" pair
func lookupPair(idx map[string]string, keys []string) (made, attempted int) {
	for _, key := range keys {
		if value, ok := idx[key]; ok {
			if m, a, ok := parseShotPair(value); ok {
				return m, a
			}
		}
	}
	return 0, 0
}

// lookupInt resolves a single-value statistic through the candidate keys
func lookupInt(idx map[string]string, keys []string) int {
	for _, key := range keys {
		if value, ok := idx[key]; ok {
			if v, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
				return v
			}
		}
	}
	return 0
}

// parseShotPair parses the upstream "M-A" format, e.g. "28-53"
func parseShotPair(s string) (made, attempted int, ok bool) {
	parts := strings.Split(s, "-")
	if len(parts) != 2 {
		return 0, 0, false
	}
	made, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, false
	}
	attempted, err = strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, false
	}
	return made, attempted, true
}

// competitionBlock locates the competition context. Summaries nest it under
// "header", older payloads carry it at the top level.
func competitionBlock(summary map[string]interface{}) map[string]interface{} {
	for _, container := range []map[string]interface{}{extractMap(summary, "header"), summary} {
		if comps := extractArray(container, "competitions"); len(comps) > 0 {
			if comp, ok := comps[0].(map[string]interface{}); ok {
				return comp
			}
		}
	}
	return nil
}

func parseGameDate(comp map[string]interface{}) time.Time {
	dateStr := extractString(comp, "date")
	if dateStr == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339, dateStr); err == nil {
		return t
	}
	// The upstream sometimes omits seconds: "2025-01-15T01:00Z"
	if t, err := time.Parse("2006-01-02T15:04Z", dateStr); err == nil {
		return t
	}
	return time.Time{}
}

func parseVenue(summary, comp map[string]interface{}) string {
	if venue := extractMap(extractMap(summary, "gameInfo"), "venue"); len(venue) > 0 {
		if name := extractString(venue, "fullName"); name != "" {
			return name
		}
	}
	return extractString(extractMap(comp, "venue"), "fullName")
}

func parseCompleted(comp map[string]interface{}) bool {
	statusType := extractMap(extractMap(comp, "status"), "type")
	completed, _ := statusType["completed"].(bool)
	return completed
}

func teamName(teamsByID map[string]*models.Team, namesByTeam map[string]string, teamID string) string {
	if team, ok := teamsByID[teamID]; ok && team.Name != "" {
		return team.Name
	}
	return namesByTeam[teamID]
}

func otherTeamID(teamIDs []string, exclude string) string {
	for _, id := range teamIDs {
		if id != exclude {
			return id
		}
	}
	return teamIDs[0]
}
