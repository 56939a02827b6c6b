package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"
	"github.com/xomify/cli/internal/cache"
	"github.com/xomify/cli/internal/genres"
	"github.com/xomify/cli/internal/releases"
	"github.com/xomify/cli/internal/services"
	"github.com/xomify/cli/internal/shared"
	"github.com/xomify/cli/internal/tasks"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	spotify    services.StreamingService
	backend    *services.BackendService
	cache      *cache.Cache
	aggregator *genres.Aggregator
	engine     *tasks.RadarEngine
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	Spotify    services.StreamingService
	Backend    *services.BackendService
	Cache      *cache.Cache
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
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
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Cache == nil {
		opts.Cache = cache.New(cache.NewMemoryStore(), opts.Logger)
	}

	r := &Runner{
		config:     opts.Config,
		spotify:    opts.Spotify,
		backend:    opts.Backend,
		cache:      opts.Cache,
		aggregator: genres.NewAggregator(opts.Cache),
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
	r.rebuildEngine()

	return r
}

// rebuildEngine recreates the radar engine from the runner's current
// dependencies. Called at construction and after reauthentication swaps the
// streaming service.
func (r *Runner) rebuildEngine() {
	if r.spotify == nil {
		r.engine = nil
		return
	}

	radar := r.config.Radar
	opts := []tasks.RadarOption{
		tasks.WithWindow(releases.Window{Lookback: radar.LookbackDays, Lookahead: radar.LookaheadDays}),
		tasks.WithBatch(radar.BatchSize, time.Duration(radar.BatchDelayMS)*time.Millisecond),
		tasks.WithRadarLogger(r.logger),
	}
	if r.backend != nil {
		opts = append(opts, tasks.WithBackend(r.backend))
	}

	r.engine = tasks.NewRadarEngine(r.spotify, r.cache, opts...)
}

// SetLogger replaces the runner's logger.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
	r.rebuildEngine()
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, genresCommand, releasesCommand, cacheCommand, apiCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
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

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
