package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"

	"honnef.co/go/curveedit"
	"honnef.co/go/curveedit/internal/export"
	"honnef.co/go/curveedit/internal/tui"
)

func (a *app) newController(m *curveedit.Model) *curveedit.Controller {
	return curveedit.NewController(m,
		curveedit.WithLogger(a.log),
		curveedit.WithDivisions(a.cfg.Divisions))
}

// requirePoints rejects curves that can't be evaluated.
func requirePoints(m *curveedit.Model) error {
	if m.Len() == 0 {
		return fmt.Errorf("the curve has no control points")
	}
	return nil
}

func (a *app) newScanCmd() *cobra.Command {
	var pixels, withRange bool
	cmd := &cobra.Command{
		Use:   "scan [time...]",
		Short: "Print the curve's value at the given times",
		Long: `scan evaluates the curve like the interactive scan readout does. Times
outside of the curve are clamped to its first and last point. With --pixels,
the arguments are pixel columns of the configured layout instead.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m := a.cfg.NewModel()
			if withRange {
				m.SetRangeEnabled(true)
			}
			if err := requirePoints(m); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, arg := range args {
				v, err := cast.ToFloat64E(arg)
				if err != nil {
					return fmt.Errorf("invalid argument %q: %w", arg, err)
				}
				var res curveedit.ScanResult
				if pixels {
					res = m.ScanAt(v)
				} else {
					res = m.ScanTime(v)
				}
				readout := curveedit.ScanReadout{Active: true, Time: res.Time, Value: res.Value, RangeValue: res.RangeValue}
				if m.RangeEnabled() {
					fmt.Fprintf(out, "%s %s\n", readout.Label(), readout.RangeLabel())
				} else {
					fmt.Fprintln(out, readout.Label())
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&pixels, "pixels", false, "interpret arguments as pixel columns")
	cmd.Flags().BoolVar(&withRange, "range", false, "also print the range band's value")
	return cmd
}

func (a *app) newSampleCmd() *cobra.Command {
	var n int
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Print the curve at evenly spaced times",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if n < 1 {
				return fmt.Errorf("-n must be at least 1, got %d", n)
			}
			m := a.cfg.NewModel()
			if err := requirePoints(m); err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			if m.RangeEnabled() {
				fmt.Fprintln(tw, "time\tvalue\trange")
			} else {
				fmt.Fprintln(tw, "time\tvalue")
			}
			for i := 0; i <= n; i++ {
				t := float64(i) / float64(n)
				if m.RangeEnabled() {
					fmt.Fprintf(tw, "%s\t%s\t%s\n", format(t), format(m.ValueAt(t)), format(m.RangeValueAt(t)))
				} else {
					fmt.Fprintf(tw, "%s\t%s\n", format(t), format(m.ValueAt(t)))
				}
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVarP(&n, "n", "n", 10, "number of intervals")
	return cmd
}

func format(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

type renderFlags struct {
	output    string
	smooth    bool
	scan      float64
	precision int
}

func (f *renderFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&f.smooth, "smooth", false, "draw unclamped Catmull-Rom curves with cubic Béziers")
	cmd.Flags().Float64Var(&f.scan, "scan", -1, "show the scan readout at this time")
	cmd.Flags().IntVar(&f.precision, "precision", 3, "maximum precision of path coordinates, 0 for exact")
}

// svg renders the configured curve.
func (a *app) svg(f *renderFlags) []byte {
	m := a.cfg.NewModel()
	ctrl := a.newController(m)
	if f.scan >= 0 && m.Len() > 0 {
		ctrl.PointerDown(curveedit.ButtonSecondary, m.Mapper().ToPixel(f.scan, m.Min()))
	}
	return export.SVG(ctrl.Frame(), export.Options{
		Style:        export.DefaultStyle(),
		Smooth:       f.smooth,
		MaxPrecision: f.precision,
	})
}

func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func (a *app) newSVGCmd() *cobra.Command {
	var f renderFlags
	cmd := &cobra.Command{
		Use:   "svg",
		Short: "Render the curve as an SVG document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeOutput(cmd, f.output, a.svg(&f))
		},
	}
	f.register(cmd)
	return cmd
}

func (a *app) newPNGCmd() *cobra.Command {
	var (
		f         renderFlags
		chrome    string
		noSandbox bool
	)
	cmd := &cobra.Command{
		Use:   "png",
		Short: "Render the curve as a PNG image using headless Chrome",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.output == "" && isTerminal(cmd.OutOrStdout()) {
				return fmt.Errorf("refusing to write a PNG image to a terminal, use --output")
			}
			data, err := export.RenderPNG(cmd.Context(), a.svg(&f), export.PNGOptions{
				ExecPath:  chrome,
				NoSandbox: noSandbox,
				Logger:    a.log,
			})
			if err != nil {
				return fmt.Errorf("render PNG: %w", err)
			}
			return writeOutput(cmd, f.output, data)
		},
	}
	f.register(cmd)
	cmd.Flags().StringVar(&chrome, "chrome", "", "path to the Chrome or Chromium binary")
	cmd.Flags().BoolVar(&noSandbox, "no-sandbox", false, "disable Chrome's sandbox")
	return cmd
}

func (a *app) newEditCmd() *cobra.Command {
	var logFile string
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit the curve interactively in the terminal",
		Long: `edit shows the curve in the terminal. Drag handles with the left mouse
button and scan the curve with the right one. The final points are printed
when the editor exits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isTerminal(os.Stdout) {
				return fmt.Errorf("edit needs a terminal")
			}
			// The editor owns the terminal; logs go to a file or nowhere.
			if logFile == "" {
				a.log = slog.New(slog.DiscardHandler)
			} else {
				fh, err := os.Create(logFile)
				if err != nil {
					return fmt.Errorf("open log file: %w", err)
				}
				defer fh.Close()
				a.log = newLogger(fh, a.cfg.SlogLevel())
			}

			m := a.cfg.NewModel()
			ctrl := a.newController(m)
			if err := tui.Run(cmd.Context(), tui.New(ctrl, a.cfg.ReadOnly, a.log)); err != nil {
				return err
			}

			w := bufio.NewWriter(cmd.OutOrStdout())
			for i, p := range m.Points() {
				fmt.Fprintf(w, "%d: %s\n", i, p)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&logFile, "log-file", "", "write logs to this file while editing")
	return cmd
}
