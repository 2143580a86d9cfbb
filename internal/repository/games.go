package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"ncaab_factors/ingestion/internal/models"
)

// GameRepository handles game rows, partitioned by (gender, season).
// The two team stat lines are stored as JSONB documents: the mirror serves
// ad-hoc queries over scores and dates, not relational stat analysis.
type GameRepository struct {
	db *Database
}

// Upsert inserts or updates one game row in a partition
func (r *GameRepository) Upsert(ctx context.Context, gender, seasonKey string, game *models.Game) error {
	homeStats, err := marshalStats(&game.Home)
	if err != nil {
		return err
	}
	awayStats, err := marshalStats(&game.Away)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO games (
			gender, season, game_id, game_date, venue, completed,
			is_conference_game, home_team_id, away_team_id,
			home_score, away_score, home_stats, away_stats
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (gender, season, game_id) DO UPDATE SET
			game_date = EXCLUDED.game_date,
			venue = EXCLUDED.venue,
			completed = EXCLUDED.completed,
			is_conference_game = EXCLUDED.is_conference_game,
			home_team_id = EXCLUDED.home_team_id,
			away_team_id = EXCLUDED.away_team_id,
			home_score = EXCLUDED.home_score,
			away_score = EXCLUDED.away_score,
			home_stats = EXCLUDED.home_stats,
			away_stats = EXCLUDED.away_stats,
			updated_at = NOW()
	`

	_, err = r.db.Pool.Exec(
		ctx, query,
		gender, seasonKey, game.ID, game.Date, game.Venue, game.Completed,
		game.IsConferenceGame, game.Home.TeamID, game.Away.TeamID,
		game.Home.Score, game.Away.Score, homeStats, awayStats,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert game: %w", err)
	}

	return nil
}

// List retrieves all games in a partition ordered by date
func (r *GameRepository) List(ctx context.Context, gender, seasonKey string) ([]models.Game, error) {
	query := `
		SELECT game_id, game_date, venue, completed, is_conference_game,
		       home_stats, away_stats
		FROM games
		WHERE gender = $1 AND season = $2
		ORDER BY game_date, game_id
	`

	rows, err := r.db.Pool.Query(ctx, query, gender, seasonKey)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	defer rows.Close()

	var games []models.Game
	for rows.Next() {
		var game models.Game
		var homeStats, awayStats []byte
		err := rows.Scan(
			&game.ID, &game.Date, &game.Venue, &game.Completed,
			&game.IsConferenceGame, &homeStats, &awayStats,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		if err := json.Unmarshal(homeStats, &game.Home); err != nil {
			return nil, fmt.Errorf("failed to decode home stats: %w", err)
		}
		if err := json.Unmarshal(awayStats, &game.Away); err != nil {
			return nil, fmt.Errorf("failed to decode away stats: %w", err)
		}
		games = append(games, game)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating games: %w", err)
	}

	return games, nil
}

func marshalStats(stats *models.GameTeamStats) ([]byte, error) {
	b, err := json.Marshal(stats)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal stat line: %w", err)
	}
	return b, nil
}

// DeletePartition removes all games for a (gender, season)
func (r *GameRepository) DeletePartition(ctx context.Context, gender, seasonKey string) error {
	query := `DELETE FROM games WHERE gender = $1 AND season = $2`

	if _, err := r.db.Pool.Exec(ctx, query, gender, seasonKey); err != nil {
		return fmt.Errorf("failed to delete games partition: %w", err)
	}
	return nil
}
