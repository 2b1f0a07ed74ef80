package repositories

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/ferrovax/amx/internal/models"
	"github.com/ferrovax/amx/internal/shared"
)

// listSeparator joins genre IDs and subgenre names in their text columns.
// U+001F keeps commas in display names from splitting fields.
const listSeparator = "\x1f"

// SongRepository implements [models.Repository] for cached songs.
//
// Rows are unique per catalog ID; the UNIQUE constraint makes repeat
// caching of the same song idempotent.
type SongRepository struct {
	db *sql.DB
}

// NewSongRepository creates a new SongRepository with the given database connection
func NewSongRepository(db *sql.DB) *SongRepository {
	return &SongRepository{db: db}
}

// Create inserts a new cached song with generated ID and sequence
func (r *SongRepository) Create(song *models.PersistedSong) error {
	sequence, err := NextSequence(r.db, "songs")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	song.SetID(shared.GenerateID())

	if err := song.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO songs (id, sequence, catalog_id, genre_ids, subgenre_names, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		song.ID(),
		sequence,
		song.Song.ID,
		joinList(song.Song.GenreIDs),
		joinList(song.Song.SubgenreNames),
		song.CreatedAt(),
		song.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert song: %w", err)
	}

	return nil
}

// Get retrieves a cached song by row ID
func (r *SongRepository) Get(id string) (*models.PersistedSong, error) {
	query := `
		SELECT id, sequence, catalog_id, genre_ids, subgenre_names, created_at, updated_at
		FROM songs
		WHERE id = ?
	`

	return r.scanOne(r.db.QueryRow(query, id))
}

// GetByCatalogID retrieves a cached song by its catalog ID
func (r *SongRepository) GetByCatalogID(catalogID string) (*models.PersistedSong, error) {
	query := `
		SELECT id, sequence, catalog_id, genre_ids, subgenre_names, created_at, updated_at
		FROM songs
		WHERE catalog_id = ?
	`

	return r.scanOne(r.db.QueryRow(query, catalogID))
}

// Update modifies an existing cached song
func (r *SongRepository) Update(song *models.PersistedSong) error {
	if err := song.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	song.Touch()

	query := `
		UPDATE songs
		SET genre_ids = ?, subgenre_names = ?, updated_at = ?
		WHERE id = ?
	`

	res, err := r.db.Exec(query, joinList(song.Song.GenreIDs), joinList(song.Song.SubgenreNames), song.UpdatedAt(), song.ID())
	if err != nil {
		return fmt.Errorf("failed to update song: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("song not found: %s", song.ID())
	}

	return nil
}

// Delete removes a cached song by row ID
func (r *SongRepository) Delete(id string) error {
	res, err := r.db.Exec("DELETE FROM songs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete song: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("song not found: %s", id)
	}

	return nil
}

// List retrieves cached songs, optionally filtered by catalog_id
func (r *SongRepository) List(criteria map[string]any) ([]*models.PersistedSong, error) {
	query := `
		SELECT id, sequence, catalog_id, genre_ids, subgenre_names, created_at, updated_at
		FROM songs
	`
	var args []any

	if catalogID, ok := criteria["catalog_id"]; ok {
		query += " WHERE catalog_id = ?"
		args = append(args, catalogID)
	}

	query += " ORDER BY sequence"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query songs: %w", err)
	}
	defer rows.Close()

	var songs []*models.PersistedSong
	for rows.Next() {
		song, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		songs = append(songs, song)
	}

	return songs, rows.Err()
}

// Count returns the number of cached songs
func (r *SongRepository) Count() (int, error) {
	var count int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM songs").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count songs: %w", err)
	}
	return count, nil
}

// Clear removes every cached song and resets the sequence counter
func (r *SongRepository) Clear() error {
	if _, err := r.db.Exec("DELETE FROM songs"); err != nil {
		return fmt.Errorf("failed to clear songs: %w", err)
	}
	if _, err := r.db.Exec("UPDATE songs_sequence SET value = 0 WHERE id = 1"); err != nil {
		return fmt.Errorf("failed to reset sequence: %w", err)
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func (r *SongRepository) scanOne(row *sql.Row) (*models.PersistedSong, error) {
	song, err := r.scanRow(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return song, err
}

func (r *SongRepository) scanRow(row scannable) (*models.PersistedSong, error) {
	var (
		id        string
		sequence  int
		catalogID string
		genreIDs  string
		subgenres string
		createdAt time.Time
		updatedAt time.Time
	)

	if err := row.Scan(&id, &sequence, &catalogID, &genreIDs, &subgenres, &createdAt, &updatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan song: %w", err)
	}

	song := models.Song{
		ID:            catalogID,
		GenreIDs:      splitList(genreIDs),
		SubgenreNames: splitList(subgenres),
	}

	return models.HydratePersistedSong(id, sequence, song, createdAt, updatedAt), nil
}

func joinList(values []string) string {
	return strings.Join(values, listSeparator)
}

func splitList(value string) []string {
	if value == "" {
		return []string{}
	}
	return strings.Split(value, listSeparator)
}
