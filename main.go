package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/spf13/pflag"

	"github.com/ytget/toolboard/internal/config"
	"github.com/ytget/toolboard/internal/platform"
	"github.com/ytget/toolboard/internal/store"
	"github.com/ytget/toolboard/internal/toolapi"
	"github.com/ytget/toolboard/internal/ui"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const (
	AppID   = "com.ytget.toolboard"
	AppName = "Toolboard"
)

func main() {
	configFile := pflag.String("config", "", "config file (default $HOME/.toolboard/toolboard.yaml)")
	iconPath := pflag.String("icon", "", "window icon")
	pflag.Parse()

	cfg, err := config.Load(nil, *configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "toolboard: %v\n", err)
		os.Exit(1)
	}
	logger, err := config.NewLogger(os.Stderr, cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "toolboard: %v\n", err)
		os.Exit(1)
	}
	slog.SetDefault(logger)
	logger.Info("starting", "version", version, "controller", cfg.ControllerURL)

	myApp := app.NewWithID(AppID)
	myApp.Settings().SetTheme(ui.NewCompactTheme())

	backend, err := openBackend(myApp, cfg, logger)
	if err != nil {
		logger.Error("layout state unavailable", "err", err)
		os.Exit(1)
	}

	client, err := toolapi.New(cfg.ControllerURL,
		toolapi.WithHTTPClient(&http.Client{Timeout: cfg.RefreshInterval * 5}),
		toolapi.WithLogger(logger))
	if err != nil {
		logger.Error("bad controller address", "err", err)
		os.Exit(1)
	}

	prefs := config.NewPreferences(myApp, cfg)
	myWindow := myApp.NewWindow(fmt.Sprintf("%s v%s", AppName, version))
	myWindow.Resize(prefs.GetWindowSize())
	if icon, err := ui.LoadAppIcon(*iconPath); err == nil {
		myWindow.SetIcon(icon)
	} else {
		logger.Debug("no window icon", "err", err)
	}

	root := ui.NewRootUI(myWindow, ui.Deps{
		Service:            client,
		Store:              store.New(backend, logger),
		Preferences:        prefs,
		Tuning:             cfg.Tuning(),
		ColumnGap:          cfg.Grid.ColumnGap,
		MinTrackWidth:      cfg.Grid.MinTrackWidth,
		RefreshInterval:    cfg.RefreshInterval,
		ActionRefreshDelay: cfg.ActionRefreshDelay,
		OpenURL:            platform.OpenURL,
		Logger:             logger,
	})

	myWindow.SetCloseIntercept(func() {
		prefs.SetWindowSize(myWindow.Canvas().Size())
		root.Stop()
		myWindow.Close()
	})

	root.Start()
	myWindow.ShowAndRun()
}

// openBackend picks where the layout is persisted
func openBackend(a fyne.App, cfg *config.Config, logger *slog.Logger) (store.Backend, error) {
	if cfg.Store.Backend == config.BackendPreferences {
		return a.Preferences(), nil
	}
	dir, err := platform.StateDir(cfg.Store.Path)
	if err != nil {
		return nil, err
	}
	if err := platform.CreateDirectoryIfNotExists(dir); err != nil {
		return nil, err
	}
	return store.NewDiskvBackend(dir, logger), nil
}
