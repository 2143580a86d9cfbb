// Package pipeline orchestrates one (gender, season) ingestion run:
// conference/team discovery, schedule crawling, per-game parsing, standings
// aggregation and dataset materialization. The run is strictly sequential;
// partial failures are logged and skipped at the team/game granularity, and
// only a failed discovery aborts the run.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"ncaab_factors/ingestion/internal/dataset"
	"ncaab_factors/ingestion/internal/espn"
	"ncaab_factors/ingestion/internal/metrics"
	"ncaab_factors/ingestion/internal/models"
	"ncaab_factors/ingestion/internal/season"
	"ncaab_factors/ingestion/internal/standings"
)

// Fetcher is the upstream API surface the pipeline depends on
type Fetcher interface {
	FetchConferences(ctx context.Context, gender models.Gender, season int) (map[string]interface{}, error)
	FetchConferenceTeams(ctx context.Context, gender models.Gender, groupID string, season int) (map[string]interface{}, error)
	FetchTeamSchedule(ctx context.Context, gender models.Gender, teamID string, season int) (map[string]interface{}, error)
	FetchGameSummary(ctx context.Context, gender models.Gender, eventID string) (map[string]interface{}, error)
}

// Sink persists a completed dataset
type Sink interface {
	Write(ds *dataset.Dataset) error
}

// Pipeline runs the ingestion for one (gender, season) at a time
type Pipeline struct {
	fetcher Fetcher
	parser  *espn.Parser
	sinks   []Sink
}

// New creates a pipeline writing to the given sinks
func New(fetcher Fetcher, parser *espn.Parser, sinks ...Sink) *Pipeline {
	return &Pipeline{fetcher: fetcher, parser: parser, sinks: sinks}
}

// Run executes the full pipeline for one (gender, season) and persists the
// result. Returns an error only for fatal conditions (discovery failure or a
// sink failure); everything else degrades to partial data.
func (p *Pipeline) Run(ctx context.Context, gender models.Gender, s season.Season) (*dataset.Dataset, error) {
	start := time.Now()
	logger := log.With().Str("gender", string(gender)).Str("season", s.String()).Logger()
	logger.Info().Msg("Pipeline run starting")

	teams, err := p.DiscoverTeams(ctx, gender, s)
	if err != nil {
		metrics.RecordRun(string(gender), "error", time.Since(start).Seconds())
		return nil, fmt.Errorf("discovery failed for %s %s: %w", gender, s, err)
	}
	logger.Info().Int("count", len(teams)).Msg("Teams discovered")

	gameIDs := p.CollectGameIDs(ctx, gender, s, teams)
	logger.Info().Int("count", len(gameIDs)).Msg("Completed game IDs collected")

	teamsByID := make(map[string]*models.Team, len(teams))
	for i := range teams {
		teamsByID[teams[i].ID] = &teams[i]
	}

	games := p.fetchAndParseGames(ctx, gender, gameIDs, teamsByID)
	logger.Info().Int("count", len(games)).Msg("Games parsed")

	ds := &dataset.Dataset{
		Gender:    gender,
		Season:    s,
		Teams:     teams,
		Games:     games,
		Standings: standings.Aggregate(teams, games),
	}

	for _, sink := range p.sinks {
		if err := sink.Write(ds); err != nil {
			metrics.RecordRun(string(gender), "error", time.Since(start).Seconds())
			return nil, fmt.Errorf("failed to persist dataset for %s %s: %w", gender, s, err)
		}
	}

	metrics.UpdateRunStats(string(gender), len(teams), len(games))
	metrics.RecordRun(string(gender), "success", time.Since(start).Seconds())
	logger.Info().Dur("duration", time.Since(start)).Msg("Pipeline run complete")

	return ds, nil
}

// DiscoverTeams resolves the conference list and each conference's member
// teams. A transport error on the conference list is fatal; a single
// conference's team-list failure is logged and skipped. Teams are
// deduplicated by identity across conferences (first conference wins).
func (p *Pipeline) DiscoverTeams(ctx context.Context, gender models.Gender, s season.Season) ([]models.Team, error) {
	payload, err := p.fetcher.FetchConferences(ctx, gender, s.Year())
	if err != nil {
		return nil, err
	}

	conferences := espn.ParseConferences(payload)
	if len(conferences) == 0 {
		return nil, errors.New("conference list is empty")
	}

	seen := make(map[string]struct{})
	var teams []models.Team
	for _, conf := range conferences {
		teamsPayload, err := p.fetcher.FetchConferenceTeams(ctx, gender, conf.ID, s.Year())
		if err != nil {
			log.Warn().
				Err(err).
				Str("gender", string(gender)).
				Str("conference_id", conf.ID).
				Str("conference", conf.Name).
				Msg("Failed to fetch conference teams, skipping conference")
			metrics.RecordError("discovery", "conference_teams")
			continue
		}

		for _, team := range espn.ParseConferenceTeams(teamsPayload, conf) {
			if _, ok := seen[team.ID]; ok {
				continue
			}
			seen[team.ID] = struct{}{}
			teams = append(teams, team)
		}
	}

	return teams, nil
}

// CollectGameIDs gathers every completed game identifier across the roster's
// schedules. Per-team schedule failures are logged and skipped. IDs are
// deduplicated globally (each game appears in both participants' schedules)
// and returned in sorted order so runs are deterministic.
func (p *Pipeline) CollectGameIDs(ctx context.Context, gender models.Gender, s season.Season, teams []models.Team) []string {
	seen := make(map[string]struct{})
	for _, team := range teams {
		payload, err := p.fetcher.FetchTeamSchedule(ctx, gender, team.ID, s.Year())
		if err != nil {
			log.Warn().
				Err(err).
				Str("gender", string(gender)).
				Str("team_id", team.ID).
				Str("team", team.Name).
				Msg("Failed to fetch team schedule, skipping team")
			metrics.RecordError("crawler", "schedule")
			continue
		}

		for _, id := range espn.ParseCompletedGameIDs(payload) {
			seen[id] = struct{}{}
		}
	}

	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// fetchAndParseGames fetches each game summary and parses it into a Game.
// Unavailable or unparseable games are dropped and logged, never fatal.
// Games referencing teams outside the discovered roster are dropped too, so
// the output keeps its internal consistency contract.
func (p *Pipeline) fetchAndParseGames(ctx context.Context, gender models.Gender, gameIDs []string, teamsByID map[string]*models.Team) []models.Game {
	games := make([]models.Game, 0, len(gameIDs))
	for _, gameID := range gameIDs {
		summary, err := p.fetcher.FetchGameSummary(ctx, gender, gameID)
		if err != nil {
			log.Warn().
				Err(err).
				Str("gender", string(gender)).
				Str("game_id", gameID).
				Msg("Failed to fetch game summary, skipping game")
			metrics.RecordError("parser", "summary_fetch")
			continue
		}

		game, err := p.parser.ParseGame(gameID, summary, teamsByID)
		if err != nil {
			log.Warn().
				Err(err).
				Str("gender", string(gender)).
				Str("game_id", gameID).
				Msg("Dropping unparseable game")
			metrics.RecordDroppedGame(string(gender), "unparseable")
			continue
		}

		if _, ok := teamsByID[game.Home.TeamID]; !ok {
			dropUnknownTeam(gender, gameID, game.Home.TeamID)
			continue
		}
		if _, ok := teamsByID[game.Away.TeamID]; !ok {
			dropUnknownTeam(gender, gameID, game.Away.TeamID)
			continue
		}

		games = append(games, *game)
	}
	return games
}

func dropUnknownTeam(gender models.Gender, gameID, teamID string) {
	log.Debug().
		Str("gender", string(gender)).
		Str("game_id", gameID).
		Str("team_id", teamID).
		Msg("Dropping game against team outside the discovered roster")
	metrics.RecordDroppedGame(string(gender), "unknown_team")
}
