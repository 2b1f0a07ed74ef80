package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/ferrovax/amx/internal/services"
	"github.com/ferrovax/amx/internal/shared"
	"github.com/ferrovax/amx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config  *shared.Config
	factory services.CatalogFactory
	logger  *log.Logger
	output  io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config  *shared.Config
	Factory services.CatalogFactory
	Logger  *log.Logger
	Output  io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:  opts.Config,
		factory: opts.Factory,
		logger:  opts.Logger,
		output:  opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, serveCommand, songsCommand, playlistCommand, cacheCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// userToken reads the per-user credential from the flag or AMX_USER_TOKEN.
func (r *Runner) userToken(cmd *cli.Command) (string, error) {
	token := cmd.String("user-token")
	if token == "" {
		token = os.Getenv("AMX_USER_TOKEN")
	}
	if token == "" {
		return "", fmt.Errorf("%w: --user-token or AMX_USER_TOKEN", shared.ErrMissingCredentials)
	}
	return token, nil
}

// engineOpts builds aggregation tuning from config with an optional cache.
func (r *Runner) engineOpts(cache tasks.SongCacher) tasks.EngineOpts {
	return tasks.EngineOpts{
		NumWorkers: r.config.Aggregator.NumWorkers,
		Cache:      cache,
		Logger:     r.logger,
	}
}

// watchProgress logs progress updates until the channel closes.
//
// Returns the channel to pass into the engine and a done channel the
// caller must receive from after the operation finishes.
func (r *Runner) watchProgress() (chan tasks.ProgressUpdate, chan struct{}) {
	progress := make(chan tasks.ProgressUpdate, 16)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for update := range progress {
			r.logger.Info(update.Message, "phase", update.Phase.String())
		}
	}()

	return progress, done
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
