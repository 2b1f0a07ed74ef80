package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/ferrovax/amx/internal/models"
)

// GenreRepository persists the durable genre-name -> catalog-ID mapping.
//
// Genre IDs are stable per name upstream, so writes are plain upserts.
type GenreRepository struct {
	db *sql.DB
}

// NewGenreRepository creates a new GenreRepository with the given database connection
func NewGenreRepository(db *sql.DB) *GenreRepository {
	return &GenreRepository{db: db}
}

// Upsert inserts or refreshes one genre mapping
func (r *GenreRepository) Upsert(genre models.Genre) error {
	if genre.Name == "" || genre.ID == "" {
		return fmt.Errorf("genre name and ID required")
	}

	query := `
		INSERT INTO genres (name, genre_id, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET genre_id = excluded.genre_id, updated_at = excluded.updated_at
	`

	if _, err := r.db.Exec(query, genre.Name, genre.ID, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to upsert genre: %w", err)
	}
	return nil
}

// All retrieves every stored genre mapping ordered by name
func (r *GenreRepository) All() ([]models.Genre, error) {
	rows, err := r.db.Query("SELECT name, genre_id FROM genres ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to query genres: %w", err)
	}
	defer rows.Close()

	var genres []models.Genre
	for rows.Next() {
		var g models.Genre
		if err := rows.Scan(&g.Name, &g.ID); err != nil {
			return nil, fmt.Errorf("failed to scan genre: %w", err)
		}
		genres = append(genres, g)
	}

	return genres, rows.Err()
}
