package main

import (
	"context"
	"fmt"

	"github.com/ferrovax/amx/internal/models"
	"github.com/ferrovax/amx/internal/sessions"
	"github.com/urfave/cli/v3"
)

// PlaylistList lists the user's library playlists.
func (r *Runner) PlaylistList(ctx context.Context, cmd *cli.Command) error {
	token, err := r.userToken(cmd)
	if err != nil {
		return err
	}

	playlists, err := r.factory(token).Playlists(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch playlists: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(playlists, cmd.Bool("pretty"))
	}

	r.writePlainln("Library playlists (%d)", len(playlists))
	for i, playlist := range playlists {
		r.writePlain("%d. %s (%s)\n", i+1, playlist.Name, playlist.ID)
	}

	return nil
}

// PlaylistCreate aggregates the library, filters it by genre and
// subgenre names, and creates a library playlist from the result.
func (r *Runner) PlaylistCreate(ctx context.Context, cmd *cli.Command) error {
	token, err := r.userToken(cmd)
	if err != nil {
		return err
	}

	name := cmd.String("name")
	spec := models.FilterSpec{
		Genres:    cmd.StringSlice("genre"),
		Subgenres: cmd.StringSlice("subgenre"),
	}

	store := sessions.NewStore(sessions.StoreOpts{
		Factory: r.factory,
		Engine:  r.engineOpts(nil),
		Logger:  r.logger,
	})

	progress, done := r.watchProgress()
	session, err := store.CreateSession(ctx, token, progress)
	close(progress)
	<-done
	if err != nil {
		return fmt.Errorf("aggregation failed: %w", err)
	}

	r.logger.Info("library aggregated", "songs", len(session.Songs))

	playlist, err := store.PushPlaylist(ctx, session.Handle, name, cmd.String("description"), spec)
	if err != nil {
		return fmt.Errorf("failed to create playlist: %w", err)
	}

	r.writePlainln("✓ Created playlist: %s", playlist.Name)
	r.writePlain("  ID: %s\n", playlist.ID)
	r.writePlain("  Songs: %d\n", playlist.TrackCount)
	return nil
}

// playlistCommand handles library playlist operations
func playlistCommand(r *Runner) *cli.Command {
	tokenFlag := &cli.StringFlag{
		Name:    "user-token",
		Aliases: []string{"t"},
		Usage:   "Music user token (or AMX_USER_TOKEN)",
	}

	return &cli.Command{
		Name:  "playlist",
		Usage: "Library playlist operations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List library playlists",
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
				Action: r.PlaylistList,
			},
			{
				Name:  "create",
				Usage: "Create a library playlist from genre filters",
				Flags: []cli.Flag{
					tokenFlag,
					&cli.StringFlag{
						Name:     "name",
						Aliases:  []string{"n"},
						Usage:    "Playlist name",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "description",
						Aliases: []string{"d"},
						Usage:   "Playlist description",
					},
					&cli.StringSliceFlag{
						Name:  "genre",
						Usage: "Genre name to include (repeatable)",
					},
					&cli.StringSliceFlag{
						Name:  "subgenre",
						Usage: "Subgenre name to include (repeatable)",
					},
				},
				Action: r.PlaylistCreate,
			},
		},
	}
}
