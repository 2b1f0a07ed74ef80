package main

import (
	"context"
	"fmt"

	"github.com/ferrovax/amx/internal/formatter"
	"github.com/ferrovax/amx/internal/models"
	"github.com/ferrovax/amx/internal/shared"
	"github.com/ferrovax/amx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// SongsAggregate aggregates the user's full library and prints a summary.
//
// With --output the snapshot is also written to disk as CSV plus JSON.
func (r *Runner) SongsAggregate(ctx context.Context, cmd *cli.Command) error {
	token, err := r.userToken(cmd)
	if err != nil {
		return err
	}

	engine := tasks.NewLibraryEngine(r.factory(token), r.engineOpts(nil))

	progress, done := r.watchProgress()
	result, err := engine.Aggregate(ctx, progress)
	close(progress)
	<-done
	if err != nil {
		return fmt.Errorf("aggregation failed: %w", err)
	}

	r.writePlainln("✓ Aggregated %d songs", len(result.Songs))
	r.writePlain("  Genres: %d\n", result.Genres.Len())
	r.writePlain("  Subgenres: %d\n", result.Subgenres.Len())

	if base := cmd.String("output"); base != "" {
		export := formatter.NewLibraryExport("library", result.Songs, result.Genres, result.Subgenres)
		written, err := formatter.WriteExport(export, base)
		if err != nil {
			return err
		}
		r.writePlain("  Songs file: %s\n", written.SongsFile)
		r.writePlain("  Library file: %s\n", written.LibraryFile)
	}

	if cmd.Bool("json") {
		export := formatter.NewLibraryExport("library", result.Songs, result.Genres, result.Subgenres)
		return r.writeJSON(export, cmd.Bool("pretty"))
	}

	return nil
}

// SongsRecent prints the user's recently played songs with their genres.
func (r *Runner) SongsRecent(ctx context.Context, cmd *cli.Command) error {
	token, err := r.userToken(cmd)
	if err != nil {
		return err
	}

	engine := tasks.NewLibraryEngine(r.factory(token), r.engineOpts(nil))
	genres := models.NewGenreDictionary()
	subgenres := models.NewSubgenreDictionary()

	songs, err := engine.RecentlyPlayed(ctx, nil, genres, subgenres)
	if err != nil {
		return fmt.Errorf("failed to fetch recently played: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(songs, cmd.Bool("pretty"))
	}

	r.writePlainln("Recently played (%d songs)", len(songs))
	for i, song := range songs {
		r.writePlain("%d. %s - %s\n", i+1, song.Attributes.ArtistName, song.Attributes.Name)
	}

	return nil
}

// SongsRecommend prints a random chart song for a catalog genre ID.
func (r *Runner) SongsRecommend(ctx context.Context, cmd *cli.Command) error {
	token, err := r.userToken(cmd)
	if err != nil {
		return err
	}

	genreID := cmd.String("genre-id")
	if genreID == "" {
		return fmt.Errorf("%w: --genre-id", shared.ErrMissingArgument)
	}

	engine := tasks.NewLibraryEngine(r.factory(token), r.engineOpts(nil))

	song, err := engine.Recommend(ctx, genreID)
	if err != nil {
		return fmt.Errorf("recommendation failed: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(song, cmd.Bool("pretty"))
	}

	r.writePlainln("♪ %s - %s", song.Attributes.ArtistName, song.Attributes.Name)
	return nil
}

// songsCommand handles library song operations
func songsCommand(r *Runner) *cli.Command {
	tokenFlag := &cli.StringFlag{
		Name:    "user-token",
		Aliases: []string{"t"},
		Usage:   "Music user token (or AMX_USER_TOKEN)",
	}

	return &cli.Command{
		Name:  "songs",
		Usage: "Library song operations",
		Commands: []*cli.Command{
			{
				Name:  "aggregate",
				Usage: "Aggregate the full library song set with genres",
				Flags: []cli.Flag{
					tokenFlag,
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Base path for exported files",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.SongsAggregate,
			},
			{
				Name:  "recent",
				Usage: "List recently played songs",
				Flags: []cli.Flag{
					tokenFlag,
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.SongsRecent,
			},
			{
				Name:  "recommend",
				Usage: "Pick a random chart song for a genre",
				Flags: []cli.Flag{
					tokenFlag,
					&cli.StringFlag{
						Name:     "genre-id",
						Usage:    "Catalog genre ID",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.SongsRecommend,
			},
		},
	}
}
