package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ytget/toolboard/internal/config"
	"github.com/ytget/toolboard/internal/model"
	"github.com/ytget/toolboard/internal/platform"
	"github.com/ytget/toolboard/internal/store"
	"github.com/ytget/toolboard/internal/toolapi"
)

// Controller is the part of the controller API the commands drive
type Controller interface {
	ListTools(ctx context.Context) ([]model.ToolView, error)
	StatusAll(ctx context.Context) ([]model.Liveness, error)
	Launch(ctx context.Context, id string) error
	Kill(ctx context.Context, id string) error
	SetAutoStart(ctx context.Context, id string, enabled bool) error
	JobActivity(ctx context.Context, days int) (model.ActivityRange, error)
	PageURL(id string) string
}

// Options connects the command tree to the process
type Options struct {
	Out   io.Writer
	Err   io.Writer
	Viper *viper.Viper

	// NewController builds the client; nil uses the HTTP client
	NewController func(cfg *config.Config, logger *slog.Logger) (Controller, error)
	// OpenURL opens a page; nil uses the system browser
	OpenURL func(string) error

	Version string
	Commit  string
	Date    string
}

// ErrBackendUnavailable is returned by layout commands when the layout lives in the
// desktop app's preferences
var ErrBackendUnavailable = errors.New("layout state is only reachable from the desktop app")

// env is the state shared by every subcommand once flags are parsed
type env struct {
	opts       Options
	v          *viper.Viper
	configFile string
	cfg        *config.Config
	logger     *slog.Logger
}

// New returns the toolboardctl root command
func New(opts Options) *cobra.Command {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Err == nil {
		opts.Err = os.Stderr
	}
	if opts.Viper == nil {
		opts.Viper = viper.New()
	}
	if opts.NewController == nil {
		opts.NewController = newHTTPController
	}
	if opts.OpenURL == nil {
		opts.OpenURL = platform.OpenURL
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}

	e := &env{opts: opts, v: opts.Viper}

	cmd := &cobra.Command{
		Use:           "toolboardctl",
		Short:         "Control the tools behind the dashboard from the command line.",
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return e.load()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.SetOut(opts.Out)
	cmd.SetErr(opts.Err)

	flags := cmd.PersistentFlags()
	flags.StringVar(&e.configFile, "config", "", "Config file (default $HOME/.toolboard/toolboard.yaml).")
	flags.String("controller", "", "Controller base URL.")
	flags.String("state-dir", "", "Directory of the diskv layout state.")
	flags.String("log-level", "", "Log level: debug, info, warn or error.")
	_ = e.v.BindPFlag(config.KeyControllerURL, flags.Lookup("controller"))
	_ = e.v.BindPFlag(config.KeyStorePath, flags.Lookup("state-dir"))
	_ = e.v.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level"))

	addCommands(cmd, e)
	return cmd
}

// addCommands registers every subcommand on topLevel
func addCommands(topLevel *cobra.Command, e *env) {
	addStatus(topLevel, e)
	addLaunch(topLevel, e)
	addKill(topLevel, e)
	addAutoStart(topLevel, e)
	addOpen(topLevel, e)
	addActivity(topLevel, e)
	addLayout(topLevel, e)
	addVersion(topLevel, e)
}

func (e *env) load() error {
	cfg, err := config.Load(e.v, e.configFile)
	if err != nil {
		return err
	}
	logger, err := config.NewLogger(e.opts.Err, cfg.Log)
	if err != nil {
		return err
	}
	e.cfg = cfg
	e.logger = logger.With("component", "cli")
	return nil
}

func (e *env) controller() (Controller, error) {
	ctl, err := e.opts.NewController(e.cfg, e.logger)
	if err != nil {
		return nil, fmt.Errorf("connect to controller: %w", err)
	}
	return ctl, nil
}

// openStore opens the diskv layout state the desktop app writes
func (e *env) openStore() (*store.Store, error) {
	if e.cfg.Store.Backend != config.BackendDiskv {
		return nil, ErrBackendUnavailable
	}
	path, err := e.cfg.StatePath()
	if err != nil {
		return nil, err
	}
	return store.New(store.NewDiskvBackend(path, e.logger), e.logger), nil
}

func newHTTPController(cfg *config.Config, logger *slog.Logger) (Controller, error) {
	return toolapi.New(cfg.ControllerURL, toolapi.WithLogger(logger))
}
