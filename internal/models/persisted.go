package models

import (
	"fmt"
	"time"

	"github.com/ferrovax/amx/internal/shared"
)

// PersistedSong is a cached [Song] row in the local database.
//
// Implements [Model]. The catalog ID carries a UNIQUE constraint, which
// gives the cache its idempotency.
type PersistedSong struct {
	id        string
	sequence  int
	Song      Song
	createdAt time.Time
	updatedAt time.Time
}

// NewPersistedSong wraps a Song for persistence. ID assignment happens in the repository.
func NewPersistedSong(sequence int, song Song) *PersistedSong {
	now := time.Now().UTC()
	return &PersistedSong{
		sequence:  sequence,
		Song:      song,
		createdAt: now,
		updatedAt: now,
	}
}

// HydratePersistedSong rebuilds a PersistedSong from database columns.
func HydratePersistedSong(id string, sequence int, song Song, createdAt, updatedAt time.Time) *PersistedSong {
	return &PersistedSong{
		id:        id,
		sequence:  sequence,
		Song:      song,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (p *PersistedSong) ID() string           { return p.id }
func (p *PersistedSong) Sequence() int        { return p.sequence }
func (p *PersistedSong) CreatedAt() time.Time { return p.createdAt }
func (p *PersistedSong) UpdatedAt() time.Time { return p.updatedAt }

// SetID assigns the row ID. Called by the repository on insert.
func (p *PersistedSong) SetID(id string) { p.id = id }

// Touch updates the modification timestamp.
func (p *PersistedSong) Touch() { p.updatedAt = time.Now().UTC() }

// Validate checks the row is complete enough to persist.
func (p *PersistedSong) Validate() error {
	if p.id == "" {
		return fmt.Errorf("%w: persisted song has no row ID", shared.ErrValidation)
	}
	if p.Song.ID == "" {
		return fmt.Errorf("%w: persisted song has no catalog ID", shared.ErrValidation)
	}
	return nil
}
