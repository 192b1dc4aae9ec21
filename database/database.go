package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"strconv"

	_ "github.com/lib/pq"
	"github.com/mager/parietal/config"
	"github.com/mager/parietal/parietal"
	"go.uber.org/zap"
)

// ProvideDatabase provides a postgres client
func ProvideDatabase(logger *zap.SugaredLogger, cfg config.Config) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		logger.Errorw("Failed to open database connection", "error", err)
		return nil, err
	}

	err = db.Ping()
	if err != nil {
		logger.Errorw("Failed to ping database", "error", err)
		return nil, err
	}

	return db, nil
}

var Options = ProvideDatabase

// TrackFeaturesRow is one persisted normalization result. The frequently
// queried scores are real columns; the full descriptor set and tag list
// ride along as JSONB.
type TrackFeaturesRow struct {
	TrackID         string                        `json:"track_id"`
	GenreMain       string                        `json:"genre_main"`
	CamelotKey      string                        `json:"camelot_key"`
	EnergyScore     float64                       `json:"energy_score"`
	MoodValence     float64                       `json:"mood_valence"`
	DanceScore      float64                       `json:"dance_score"`
	ConfidenceScore float64                       `json:"confidence_score"`
	Features        parietal.NormalizedFeatureSet `json:"features"`
	Tags            []parietal.SyntheticTag       `json:"tags"`
}

// SaveTrackFeatures upserts one track's normalized record.
func SaveTrackFeatures(ctx context.Context, db *sql.DB, row TrackFeaturesRow) error {
	featuresJSON, err := json.Marshal(row.Features)
	if err != nil {
		return err
	}
	tagsJSON, err := json.Marshal(row.Tags)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO track_features
			(track_id, genre_main, camelot_key, energy_score, mood_valence,
			 dance_score, confidence_score, features, tags, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		ON CONFLICT (track_id) DO UPDATE SET
			genre_main = EXCLUDED.genre_main,
			camelot_key = EXCLUDED.camelot_key,
			energy_score = EXCLUDED.energy_score,
			mood_valence = EXCLUDED.mood_valence,
			dance_score = EXCLUDED.dance_score,
			confidence_score = EXCLUDED.confidence_score,
			features = EXCLUDED.features,
			tags = EXCLUDED.tags,
			updated_at = NOW()`,
		row.TrackID, row.GenreMain, row.CamelotKey, row.EnergyScore,
		row.MoodValence, row.DanceScore, row.ConfidenceScore,
		string(featuresJSON), string(tagsJSON))
	return err
}

// GetTrackFeatures loads one track's normalized record.
func GetTrackFeatures(ctx context.Context, db *sql.DB, trackID string) (*TrackFeaturesRow, error) {
	row := TrackFeaturesRow{TrackID: trackID}
	var featuresJSON, tagsJSON []byte

	err := db.QueryRowContext(ctx, `
		SELECT genre_main, camelot_key, energy_score, mood_valence,
		       dance_score, confidence_score, features, tags
		FROM track_features WHERE track_id = $1`, trackID).
		Scan(&row.GenreMain, &row.CamelotKey, &row.EnergyScore,
			&row.MoodValence, &row.DanceScore, &row.ConfidenceScore,
			&featuresJSON, &tagsJSON)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(featuresJSON, &row.Features); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(tagsJSON, &row.Tags); err != nil {
		return nil, err
	}
	return &row, nil
}

// QueryTracksByScore finds tracks whose energy score falls inside
// [minEnergy, maxEnergy], optionally filtered to those carrying a
// synthetic tag with the given name.
func QueryTracksByScore(ctx context.Context, db *sql.DB, minEnergy, maxEnergy float64, tag string, limit int) ([]TrackFeaturesRow, error) {
	query := `
		SELECT track_id, genre_main, camelot_key, energy_score, mood_valence,
		       dance_score, confidence_score, features, tags
		FROM track_features
		WHERE energy_score BETWEEN $1 AND $2`
	args := []any{minEnergy, maxEnergy}

	if tag != "" {
		tagJSON, err := json.Marshal([]map[string]string{{"tag": tag}})
		if err != nil {
			return nil, err
		}
		query += ` AND tags @> $3`
		args = append(args, string(tagJSON))
	}
	query += ` ORDER BY confidence_score DESC LIMIT $` + strconv.Itoa(len(args)+1)
	args = append(args, limit)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TrackFeaturesRow
	for rows.Next() {
		var r TrackFeaturesRow
		var featuresJSON, tagsJSON []byte
		if err := rows.Scan(&r.TrackID, &r.GenreMain, &r.CamelotKey,
			&r.EnergyScore, &r.MoodValence, &r.DanceScore,
			&r.ConfidenceScore, &featuresJSON, &tagsJSON); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(featuresJSON, &r.Features); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(tagsJSON, &r.Tags); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
