package repository

import (
	"context"
	"fmt"

	"ncaab_factors/ingestion/internal/dataset"
	"ncaab_factors/ingestion/internal/models"
)

// StandingsRepository handles standings rows, partitioned by (gender, season)
type StandingsRepository struct {
	db *Database
}

// Upsert inserts or updates one standings row, carrying its partition sort
// position so List can reproduce the aggregator's ordering
func (r *StandingsRepository) Upsert(ctx context.Context, gender, seasonKey string, position int, row *models.TeamStandings) error {
	query := `
		INSERT INTO standings (
			gender, season, team_id, position, games_played, wins, losses,
			conf_wins, conf_losses, efg, tov, orb, ftr,
			opp_efg, opp_tov, opp_orb, opp_ftr, points_for, points_against
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		ON CONFLICT (gender, season, team_id) DO UPDATE SET
			position = EXCLUDED.position,
			games_played = EXCLUDED.games_played,
			wins = EXCLUDED.wins,
			losses = EXCLUDED.losses,
			conf_wins = EXCLUDED.conf_wins,
			conf_losses = EXCLUDED.conf_losses,
			efg = EXCLUDED.efg,
			tov = EXCLUDED.tov,
			orb = EXCLUDED.orb,
			ftr = EXCLUDED.ftr,
			opp_efg = EXCLUDED.opp_efg,
			opp_tov = EXCLUDED.opp_tov,
			opp_orb = EXCLUDED.opp_orb,
			opp_ftr = EXCLUDED.opp_ftr,
			points_for = EXCLUDED.points_for,
			points_against = EXCLUDED.points_against,
			updated_at = NOW()
	`

	_, err := r.db.Pool.Exec(
		ctx, query,
		gender, seasonKey, row.TeamID, position, row.GamesPlayed, row.Wins, row.Losses,
		row.ConfWins, row.ConfLosses, row.EFG, row.TOV, row.ORB, row.FTR,
		row.OppEFG, row.OppTOV, row.OppORB, row.OppFTR, row.PointsFor, row.PointsAgainst,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert standings row: %w", err)
	}

	return nil
}

// List retrieves all standings rows in a partition in stored order
func (r *StandingsRepository) List(ctx context.Context, gender, seasonKey string) ([]models.TeamStandings, error) {
	query := `
		SELECT team_id, games_played, wins, losses, conf_wins, conf_losses,
		       efg, tov, orb, ftr, opp_efg, opp_tov, opp_orb, opp_ftr,
		       points_for, points_against
		FROM standings
		WHERE gender = $1 AND season = $2
		ORDER BY position
	`

	rows, err := r.db.Pool.Query(ctx, query, gender, seasonKey)
	if err != nil {
		return nil, fmt.Errorf("failed to list standings: %w", err)
	}
	defer rows.Close()

	var standings []models.TeamStandings
	for rows.Next() {
		var row models.TeamStandings
		err := rows.Scan(
			&row.TeamID, &row.GamesPlayed, &row.Wins, &row.Losses,
			&row.ConfWins, &row.ConfLosses,
			&row.EFG, &row.TOV, &row.ORB, &row.FTR,
			&row.OppEFG, &row.OppTOV, &row.OppORB, &row.OppFTR,
			&row.PointsFor, &row.PointsAgainst,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan standings row: %w", err)
		}
		standings = append(standings, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating standings: %w", err)
	}

	return standings, nil
}

// DeletePartition removes all standings rows for a (gender, season)
func (r *StandingsRepository) DeletePartition(ctx context.Context, gender, seasonKey string) error {
	query := `DELETE FROM standings WHERE gender = $1 AND season = $2`

	if _, err := r.db.Pool.Exec(ctx, query, gender, seasonKey); err != nil {
		return fmt.Errorf("failed to delete standings partition: %w", err)
	}
	return nil
}

// Mirror adapts the database into a pipeline sink: each Write replaces the
// dataset's (gender, season) partition in a single transaction.
type Mirror struct {
	db *Database
}

// NewMirror creates a sink that mirrors datasets into Postgres
func NewMirror(db *Database) *Mirror {
	return &Mirror{db: db}
}

// Write replaces the partition with the dataset's collections
func (m *Mirror) Write(ds *dataset.Dataset) error {
	ctx := context.Background()
	gender := string(ds.Gender)
	seasonKey := ds.Season.String()

	tx, err := m.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin mirror transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, table := range []string{"standings", "games", "teams"} {
		query := fmt.Sprintf("DELETE FROM %s WHERE gender = $1 AND season = $2", table)
		if _, err := tx.Exec(ctx, query, gender, seasonKey); err != nil {
			return fmt.Errorf("failed to clear %s partition: %w", table, err)
		}
	}

	for i := range ds.Teams {
		team := &ds.Teams[i]
		_, err := tx.Exec(ctx, `
			INSERT INTO teams (
				gender, season, team_id, name, short_name, abbreviation,
				logo, color, alternate_color, conference_id, conference_name
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			gender, seasonKey, team.ID, team.Name, team.ShortName, team.Abbreviation,
			team.Logo, team.Color, team.AlternateColor, team.ConferenceID, team.ConferenceName,
		)
		if err != nil {
			return fmt.Errorf("failed to mirror team %s: %w", team.ID, err)
		}
	}

	for i := range ds.Games {
		game := &ds.Games[i]
		homeStats, err := marshalStats(&game.Home)
		if err != nil {
			return err
		}
		awayStats, err := marshalStats(&game.Away)
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO games (
				gender, season, game_id, game_date, venue, completed,
				is_conference_game, home_team_id, away_team_id,
				home_score, away_score, home_stats, away_stats
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
			gender, seasonKey, game.ID, game.Date, game.Venue, game.Completed,
			game.IsConferenceGame, game.Home.TeamID, game.Away.TeamID,
			game.Home.Score, game.Away.Score, homeStats, awayStats,
		)
		if err != nil {
			return fmt.Errorf("failed to mirror game %s: %w", game.ID, err)
		}
	}

	for i := range ds.Standings {
		row := &ds.Standings[i]
		_, err := tx.Exec(ctx, `
			INSERT INTO standings (
				gender, season, team_id, position, games_played, wins, losses,
				conf_wins, conf_losses, efg, tov, orb, ftr,
				opp_efg, opp_tov, opp_orb, opp_ftr, points_for, points_against
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`,
			gender, seasonKey, row.TeamID, i, row.GamesPlayed, row.Wins, row.Losses,
			row.ConfWins, row.ConfLosses, row.EFG, row.TOV, row.ORB, row.FTR,
			row.OppEFG, row.OppTOV, row.OppORB, row.OppFTR, row.PointsFor, row.PointsAgainst,
		)
		if err != nil {
			return fmt.Errorf("failed to mirror standings row %s: %w", row.TeamID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit mirror transaction: %w", err)
	}

	return nil
}
