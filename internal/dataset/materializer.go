// Package dataset persists the three per-(gender, season) collections to the
// flat file layout consumed by the presentation layer:
//
//	<dataDir>/<gender>/<season>/teams.json
//	<dataDir>/<gender>/<season>/games.json
//	<dataDir>/<gender>/<season>/standings.json
//
// A run replaces all three from a fully materialized in-memory result set;
// each file is written to a temp file and renamed so readers never observe a
// half-written collection.
package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"ncaab_factors/ingestion/internal/models"
	"ncaab_factors/ingestion/internal/season"
)

// Dataset is one complete (gender, season) result set
type Dataset struct {
	Gender    models.Gender
	Season    season.Season
	Teams     []models.Team
	Games     []models.Game
	Standings []models.TeamStandings
}

// Materializer writes datasets into the partitioned layout
type Materializer struct {
	dataDir string
}

// NewMaterializer creates a materializer rooted at dataDir
func NewMaterializer(dataDir string) *Materializer {
	return &Materializer{dataDir: dataDir}
}

// Dir returns the partition directory for a (gender, season) pair
func (m *Materializer) Dir(gender models.Gender, s season.Season) string {
	return filepath.Join(m.dataDir, string(gender), s.String())
}

// Write persists the dataset, replacing any previous output for the same
// (gender, season) partition.
func (m *Materializer) Write(ds *Dataset) error {
	dir := m.Dir(ds.Gender, ds.Season)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create dataset dir: %w", err)
	}

	collections := []struct {
		name string
		data interface{}
	}{
		{"teams.json", ds.Teams},
		{"games.json", ds.Games},
		{"standings.json", ds.Standings},
	}

	for _, c := range collections {
		if err := writeJSON(filepath.Join(dir, c.name), c.data); err != nil {
			return err
		}
	}

	log.Info().
		Str("gender", string(ds.Gender)).
		Str("season", ds.Season.String()).
		Int("teams", len(ds.Teams)).
		Int("games", len(ds.Games)).
		Int("standings", len(ds.Standings)).
		Str("dir", dir).
		Msg("Dataset materialized")

	return nil
}

// writeJSON writes to a temp file in the target directory, then renames over
// the final path
func writeJSON(path string, data interface{}) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file for %s: %w", path, err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

// Load reads a previously materialized dataset. Used by integrators and
// tests; the pipeline itself never reads its own output.
func (m *Materializer) Load(gender models.Gender, s season.Season) (*Dataset, error) {
	dir := m.Dir(gender, s)

	ds := &Dataset{Gender: gender, Season: s}
	if err := readJSON(filepath.Join(dir, "teams.json"), &ds.Teams); err != nil {
		return nil, err
	}
	if err := readJSON(filepath.Join(dir, "games.json"), &ds.Games); err != nil {
		return nil, err
	}
	if err := readJSON(filepath.Join(dir, "standings.json"), &ds.Standings); err != nil {
		return nil, err
	}
	return ds, nil
}

func readJSON(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}

// Validate checks the internal consistency contract: every game team identity
// and every standings row resolves in the teams collection.
func (ds *Dataset) Validate() error {
	teamIDs := make(map[string]struct{}, len(ds.Teams))
	for _, team := range ds.Teams {
		teamIDs[team.ID] = struct{}{}
	}

	for _, game := range ds.Games {
		for _, teamID := range []string{game.Home.TeamID, game.Away.TeamID} {
			if _, ok := teamIDs[teamID]; !ok {
				return fmt.Errorf("game %s references unknown team %s", game.ID, teamID)
			}
		}
	}

	for _, row := range ds.Standings {
		if _, ok := teamIDs[row.TeamID]; !ok {
			return fmt.Errorf("standings row references unknown team %s", row.TeamID)
		}
	}

	return nil
}
