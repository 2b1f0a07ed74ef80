package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ferrovax/amx/internal/models"
	"github.com/ferrovax/amx/internal/repositories"
	"github.com/ferrovax/amx/internal/shared"
	"github.com/urfave/cli/v3"
)

// openCache opens the song cache database from config.
func (r *Runner) openCache() (*sql.DB, error) {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)
	return db, nil
}

// CacheStats prints song and genre counts for the local cache.
func (r *Runner) CacheStats(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openCache()
	if err != nil {
		return err
	}
	defer db.Close()

	count, err := repositories.NewSongRepository(db).Count()
	if err != nil {
		return fmt.Errorf("failed to count songs: %w", err)
	}

	genres, err := repositories.NewGenreRepository(db).All()
	if err != nil {
		return fmt.Errorf("failed to list genres: %w", err)
	}

	r.writePlainln("Song cache: %s", r.config.Database.Path)
	r.writePlain("  Songs: %d\n", count)
	r.writePlain("  Genres: %d\n", len(genres))
	return nil
}

// CacheList lists cached songs.
func (r *Runner) CacheList(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openCache()
	if err != nil {
		return err
	}
	defer db.Close()

	songs, err := repositories.NewSongRepository(db).List(nil)
	if err != nil {
		return fmt.Errorf("failed to list songs: %w", err)
	}

	if cmd.Bool("json") {
		out := make([]models.Song, 0, len(songs))
		for _, song := range songs {
			out = append(out, song.Song)
		}
		return r.writeJSON(out, cmd.Bool("pretty"))
	}

	r.writePlainln("Cached songs (%d)", len(songs))
	for i, song := range songs {
		r.writePlain("%d. %s\n", i+1, song.Song.ID)
	}
	return nil
}

// CacheClear removes every cached song.
func (r *Runner) CacheClear(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openCache()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := repositories.NewSongRepository(db).Clear(); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}

	r.writePlainln("✓ Song cache cleared")
	return nil
}

// cacheCommand handles local song cache inspection
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect and manage the local song cache",
		Commands: []*cli.Command{
			{
				Name:   "stats",
				Usage:  "Show cache counts",
				Action: r.CacheStats,
			},
			{
				Name:  "list",
				Usage: "List cached songs",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.CacheList,
			},
			{
				Name:   "clear",
				Usage:  "Delete all cached songs",
				Action: r.CacheClear,
			},
		},
	}
}
