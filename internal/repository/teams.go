package repository

import (
	"context"
	"fmt"

	"ncaab_factors/ingestion/internal/models"
)

// TeamRepository handles team rows, partitioned by (gender, season)
type TeamRepository struct {
	db *Database
}

// Upsert inserts or updates one team row in a partition
func (r *TeamRepository) Upsert(ctx context.Context, gender, seasonKey string, team *models.Team) error {
	query := `
		INSERT INTO teams (
			gender, season, team_id, name, short_name, abbreviation,
			logo, color, alternate_color, conference_id, conference_name
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (gender, season, team_id) DO UPDATE SET
			name = EXCLUDED.name,
			short_name = EXCLUDED.short_name,
			abbreviation = EXCLUDED.abbreviation,
			logo = EXCLUDED.logo,
			color = EXCLUDED.color,
			alternate_color = EXCLUDED.alternate_color,
			conference_id = EXCLUDED.conference_id,
			conference_name = EXCLUDED.conference_name,
			updated_at = NOW()
	`

	_, err := r.db.Pool.Exec(
		ctx, query,
		gender, seasonKey, team.ID, team.Name, team.ShortName, team.Abbreviation,
		team.Logo, team.Color, team.AlternateColor, team.ConferenceID, team.ConferenceName,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert team: %w", err)
	}

	return nil
}

// List retrieves all teams in a partition
func (r *TeamRepository) List(ctx context.Context, gender, seasonKey string) ([]models.Team, error) {
	query := `
		SELECT team_id, name, short_name, abbreviation, logo, color,
		       alternate_color, conference_id, conference_name
		FROM teams
		WHERE gender = $1 AND season = $2
		ORDER BY name
	`

	rows, err := r.db.Pool.Query(ctx, query, gender, seasonKey)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	defer rows.Close()

	var teams []models.Team
	for rows.Next() {
		var team models.Team
		err := rows.Scan(
			&team.ID, &team.Name, &team.ShortName, &team.Abbreviation,
			&team.Logo, &team.Color, &team.AlternateColor,
			&team.ConferenceID, &team.ConferenceName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, team)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating teams: %w", err)
	}

	return teams, nil
}

// DeletePartition removes all teams for a (gender, season)
func (r *TeamRepository) DeletePartition(ctx context.Context, gender, seasonKey string) error {
	query := `DELETE FROM teams WHERE gender = $1 AND season = $2`

	if _, err := r.db.Pool.Exec(ctx, query, gender, seasonKey); err != nil {
		return fmt.Errorf("failed to delete teams partition: %w", err)
	}
	return nil
}

// Count returns the number of teams in a partition
func (r *TeamRepository) Count(ctx context.Context, gender, seasonKey string) (int, error) {
	query := `SELECT COUNT(*) FROM teams WHERE gender = $1 AND season = $2`

	var count int
	if err := r.db.Pool.QueryRow(ctx, query, gender, seasonKey).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count teams: %w", err)
	}

	return count, nil
}
