package main

import (
	"context"
	"database/sql"
	"os/signal"
	"syscall"
	"time"

	"github.com/ferrovax/amx/internal/repositories"
	"github.com/ferrovax/amx/internal/server"
	"github.com/ferrovax/amx/internal/sessions"
	"github.com/ferrovax/amx/internal/shared"
	"github.com/ferrovax/amx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Serve runs the session API until interrupted.
//
// The song cache is optional: a missing or broken database downgrades
// to uncached aggregation with a warning rather than refusing to start.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	var cache tasks.SongCacher
	var db *sql.DB

	if database, err := shared.NewDatabase(r.config.Database.Path); err != nil {
		r.logger.Warn("song cache unavailable", "error", err)
	} else {
		db = database
		defer db.Close()
		shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)
		cache = repositories.NewSongCacheAdapter(
			repositories.NewSongRepository(db),
			repositories.NewGenreRepository(db),
		)
	}

	store := sessions.NewStore(sessions.StoreOpts{
		Factory: r.factory,
		Engine:  r.engineOpts(cache),
		Logger:  r.logger,
	})

	router := server.NewBasicRouter()
	router.Use(server.RequestID(), server.Logging(r.logger))
	router.Handler(server.NewSessionHandler(store, r.logger))

	srv := server.NewServer(r.config.Server, router, r.logger)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errs := make(chan error, 1)
	go func() { errs <- srv.ListenAndServe() }()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	r.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the session API server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Serve,
	}
}
