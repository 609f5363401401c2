package cmd

import (
	"fmt"
	"io"
	"net/http"

	"github.com/naka-gawa/top-repos/internal/config"
	"github.com/naka-gawa/top-repos/internal/console"
	"github.com/naka-gawa/top-repos/internal/gateway"
	"github.com/naka-gawa/top-repos/internal/usecase"
	"github.com/naka-gawa/top-repos/internal/view"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// app bundles what a command needs to run one session.
type app struct {
	session  *usecase.Session
	renderer *view.Renderer
	console  *console.Console
	out      io.Writer
	errOut   io.Writer
	logger   *logrus.Entry
}

// loadConfig resolves the configuration: file, then environment, then any
// flag set explicitly on the command line.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	flags := cmd.Flags()
	path, _ := flags.GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	if flags.Changed("server") {
		cfg.Server, _ = flags.GetString("server")
	}
	if flags.Changed("format") {
		cfg.Format, _ = flags.GetString("format")
	}
	if flags.Changed("timeout") {
		cfg.Timeout, _ = flags.GetDuration("timeout")
	}
	if flags.Changed("concurrency") {
		cfg.Concurrency, _ = flags.GetInt("concurrency")
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// newApp injects dependencies for a session. trigger is the command text
// rendered next to each item for loading its activity.
func newApp(cmd *cobra.Command, trigger string) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	format, err := view.ParseFormat(cfg.Format)
	if err != nil {
		return nil, err
	}

	// Default: discard all logs. If verbose, log to standard error.
	verbose, _ := cmd.Flags().GetBool("verbose")
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	if verbose {
		logger.SetOutput(cmd.ErrOrStderr())
		logger.SetLevel(logrus.DebugLevel)
	}
	entry := logger.WithField("cmd", cmd.Name())

	fetcher, err := gateway.NewAPIGateway(cfg.Server, &http.Client{Timeout: cfg.Timeout}, entry)
	if err != nil {
		return nil, fmt.Errorf("failed to create API gateway: %w", err)
	}
	entry.Debugf("Using server %s", cfg.Server)

	// Prompts go to standard error so rendered output stays clean.
	con := console.New(cmd.InOrStdin(), cmd.ErrOrStderr(), cmd.ErrOrStderr())
	session := usecase.NewSession(fetcher, view.NewList(), con, con, entry)
	session.SetConcurrency(cfg.Concurrency)

	return &app{
		session:  session,
		renderer: view.NewRenderer(format, trigger),
		console:  con,
		out:      cmd.OutOrStdout(),
		errOut:   cmd.ErrOrStderr(),
		logger:   entry,
	}, nil
}

func (a *app) renderAll() error {
	return a.renderer.Render(a.out, a.session.List().Items())
}
