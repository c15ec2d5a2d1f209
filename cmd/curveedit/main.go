// Command curveedit evaluates, exports and interactively edits curves.
//
// The curve is described by a YAML or JSON config file and CURVEEDIT_*
// environment variables; see package config.
package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"honnef.co/go/curveedit/config"
)

type app struct {
	configPath string
	logLevel   string

	cfg config.Config
	log *slog.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "curveedit",
		Short: "Evaluate, export and edit piecewise curves",
		Long: `curveedit works on a single curve defined by control points in
normalized time [0, 1] and a value range [min, max]. Curves are linear or
Catmull-Rom splines, optionally clamped to their value range, with an
optional second range band.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd.ErrOrStderr())
		},
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "config file (YAML or JSON)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn or error (overrides the config)")

	root.AddCommand(
		a.newScanCmd(),
		a.newSampleCmd(),
		a.newSVGCmd(),
		a.newPNGCmd(),
		a.newEditCmd(),
	)
	return root
}

func (a *app) load(stderr io.Writer) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	a.cfg = cfg
	a.log = newLogger(stderr, cfg.SlogLevel())
	a.log.Debug("config loaded",
		slog.String("path", a.configPath),
		slog.String("type", cfg.Type),
		slog.Int("points", len(cfg.Points)))
	return nil
}

// newLogger returns a text logger for terminals and a JSON logger otherwise.
func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if isTerminal(w) {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
