// Command swanepoel estimates thin-film thickness from transmission spectra
// with the Swanepoel envelope method.
//
// Usage:
//
//	swanepoel [flags] spectrum.csv [more.csv | 'glob*.csv' ...]
//
// Each file is analysed with the same configuration and a summary table is
// printed to stdout. Flags override values read from -config.
//
// Examples:
//
//	swanepoel sample.csv
//	swanepoel -lam-min 550 -lam-max 1000 -substrate sellmeier \
//	    -coeffs 1.03961212,0.00600069867,0.231792344,0.0200179144,1.01046945,103.560653 data/*.csv
//	swanepoel -config run.json -plots out -fit -log-format json data/*.csv
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/RyanBlaney/swanepoel/logging"
	"github.com/RyanBlaney/swanepoel/plotting"
	"github.com/RyanBlaney/swanepoel/spectrum"
	"github.com/RyanBlaney/swanepoel/swanepoel"
	"github.com/RyanBlaney/swanepoel/swanepoel/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	configPath string
	lamMin     float64
	lamMax     float64
	minSep     float64
	window     int
	substrate  string
	coeffs     string
	trials     int
	plotDir    string
	plotFormat string
	fit        bool
	noValidate bool
	logFormat  string
	logLevel   string
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("swanepoel", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var opts options
	fs.StringVar(&opts.configPath, "config", "", "JSON analysis config")
	fs.Float64Var(&opts.lamMin, "lam-min", 600, "lower band edge [nm]")
	fs.Float64Var(&opts.lamMax, "lam-max", 900, "upper band edge [nm]")
	fs.Float64Var(&opts.minSep, "min-sep", 2.0, "minimum separation between same-class extrema [nm]")
	fs.IntVar(&opts.window, "window", 5, "envelope smoothing window (odd)")
	fs.StringVar(&opts.substrate, "substrate", "cauchy", "substrate model: sellmeier, cauchy, cauchy_alt, constant")
	fs.StringVar(&opts.coeffs, "coeffs", "1.5690,0.00531", "comma-separated substrate coefficients")
	fs.IntVar(&opts.trials, "trials", 3, "order search radius")
	fs.StringVar(&opts.plotDir, "plots", "", "write figures to this directory")
	fs.StringVar(&opts.plotFormat, "plot-format", "png", "figure format: png, svg, pdf")
	fs.BoolVar(&opts.fit, "fit", false, "run the least-squares thickness fit")
	fs.BoolVar(&opts.noValidate, "no-validate", false, "skip theoretical spectrum and FFT comparison")
	fs.StringVar(&opts.logFormat, "log-format", "text", "log output: text or json")
	fs.StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: swanepoel [flags] spectrum.csv [...]\n\n")
		fmt.Fprintf(stderr, "Estimates thin-film thickness with the Swanepoel envelope method.\n\n")
		fmt.Fprintf(stderr, "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	files, err := expandInputs(fs.Args())
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}
	if len(files) == 0 {
		fs.Usage()
		return 2
	}

	cfg, err := buildConfig(fs, opts)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}

	logger, closeLogger, err := newLogger(opts, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}
	defer closeLogger()
	logging.SetGlobalLogger(logger)

	analyzer, err := swanepoel.NewAnalyzer(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}
	analyzer.SetLogger(logger)

	rows := make([]row, 0, len(files))
	failed := 0
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return 1
		}

		r := analyzeFile(ctx, analyzer, path, opts, logger)
		if r.err != nil {
			failed++
		}
		rows = append(rows, r)
	}

	printTable(stdout, rows, cfg.Validation.LMFit)

	if failed > 0 {
		return 1
	}
	return 0
}

type row struct {
	path   string
	result *swanepoel.Result
	plots  []string
	err    error
}

func analyzeFile(ctx context.Context, analyzer *swanepoel.Analyzer, path string, opts options, logger logging.Logger) row {
	fileLogger := logger.WithFields(logging.Fields{"file": path})

	s, err := spectrum.LoadCSV(path)
	if err != nil {
		fileLogger.Error(err, "Failed to load spectrum")
		return row{path: path, err: err}
	}

	ctx = logging.ContextWithFields(ctx, logging.Fields{"file": filepath.Base(path)})
	res, err := analyzer.Analyze(ctx, s)
	if err != nil {
		fileLogger.Error(err, "Analysis failed")
		return row{path: path, err: err}
	}

	r := row{path: path, result: res}
	if opts.plotDir != "" {
		prefix := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		r.plots, err = plotting.SaveAll(res, opts.plotDir, prefix, opts.plotFormat)
		if err != nil {
			fileLogger.Error(err, "Failed to write figures")
		} else {
			fileLogger.Info("Figures written", logging.Fields{"count": len(r.plots), "dir": opts.plotDir})
		}
	}
	return r
}

func expandInputs(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		matches, err := filepath.Glob(arg)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", arg, err)
		}
		if len(matches) == 0 {
			// left for LoadCSV to report
			files = append(files, arg)
			continue
		}
		files = append(files, matches...)
	}
	return files, nil
}

// buildConfig starts from -config (or the defaults) and applies only the
// flags that were set explicitly.
func buildConfig(fs *flag.FlagSet, opts options) (*config.AnalysisConfig, error) {
	cfg := config.DefaultAnalysisConfig()
	if opts.configPath != "" {
		loaded, err := config.LoadFile(opts.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	var parseErr error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "lam-min":
			cfg.LamMin = opts.lamMin
		case "lam-max":
			cfg.LamMax = opts.lamMax
		case "min-sep":
			cfg.MinSeparationNm = opts.minSep
		case "window":
			cfg.WindowSize = opts.window
		case "substrate":
			cfg.SubstrateModel = opts.substrate
		case "coeffs":
			coeffs, err := parseCoeffs(opts.coeffs)
			if err != nil {
				parseErr = err
				return
			}
			cfg.SubstrateCoeffs = coeffs
		case "trials":
			cfg.Trials = opts.trials
		case "fit":
			cfg.Validation.LMFit = opts.fit
		case "no-validate":
			if opts.noValidate {
				cfg.Validation.Theoretical = false
				cfg.Validation.FFT = false
			}
		}
	})
	if parseErr != nil {
		return nil, parseErr
	}

	// figures need the reconstructed spectrum
	if opts.plotDir != "" && !opts.noValidate {
		cfg.Validation.Theoretical = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseCoeffs(s string) ([]float64, error) {
	var out []float64
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, fmt.Errorf("bad coefficient %q: %w", field, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func newLogger(opts options, stderr io.Writer) (logging.Logger, func(), error) {
	var (
		logger logging.Logger
		closer = func() {}
	)

	switch strings.ToLower(opts.logFormat) {
	case "text":
		logger = logging.NewWriterLogger(stderr)
	case "json":
		z, err := logging.NewZapProductionLogger()
		if err != nil {
			return nil, nil, fmt.Errorf("zap logger: %w", err)
		}
		logger = z
		closer = func() { _ = z.Sync() }
	default:
		return nil, nil, fmt.Errorf("unknown log format %q", opts.logFormat)
	}

	logger.SetLevel(logging.ParseLevel(opts.logLevel))
	return logger, closer, nil
}

func printTable(w io.Writer, rows []row, withFit bool) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	header := "FILE\tN\tMEAN [µm]\tSTD [nm]\tCI95 [nm]\tWARNINGS"
	if withFit {
		header += "\tLM FIT [µm]"
	}
	fmt.Fprintln(tw, header)

	for _, r := range rows {
		name := filepath.Base(r.path)
		if r.err != nil {
			fmt.Fprintf(tw, "%s\terror: %v\n", name, r.err)
			continue
		}

		s := r.result.Summary
		line := fmt.Sprintf("%s\t%d\t%.4f\t%.1f\t[%.1f, %.1f]\t%d",
			name, s.N, s.Mean*1e6, s.StdDev*1e9, s.CI95[0]*1e9, s.CI95[1]*1e9, len(r.result.Warnings))
		if withFit {
			if r.result.Fit != nil {
				line += fmt.Sprintf("\t%.4f", r.result.Fit.Thickness*1e6)
			} else {
				line += "\t-"
			}
		}
		fmt.Fprintln(tw, line)
	}
}
