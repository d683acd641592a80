// bandstrip stacks the images of a zip archive into one vertical strip,
// cuts the strip into five bands resampled to a fixed width and writes
// them as part1.jpg ... part5.jpg into a new zip. The full strip is
// written separately as PNG.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/setanarut/bandstrip"
	"github.com/setanarut/bandstrip/config"
	"github.com/setanarut/bandstrip/imagecodec"
	"github.com/setanarut/bandstrip/utils"
	"github.com/setanarut/bandstrip/ziparchive"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(os.Args[1:], os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type flags struct {
	configPath    string
	quality       float64
	bandWidth     int
	workers       int
	archive       string
	composite     string
	report        string
	paletteMethod string
	paletteSize   int
	logLevel      string
	logFormat     string
	progress      bool
}

func run(args []string, stderr io.Writer) error {
	var f flags
	flagSet := pflag.NewFlagSet("bandstrip", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVar(&f.configPath, "config", "", "YAML config file (default: $"+config.EnvVar+")")
	flagSet.Float64VarP(&f.quality, "quality", "q", bandstrip.DefaultQuality, "band JPEG quality, 0-1 or percent")
	flagSet.IntVar(&f.bandWidth, "band-width", bandstrip.DefaultBandWidth, "output width of each band in pixels")
	flagSet.IntVar(&f.workers, "workers", bandstrip.Parts, "goroutines encoding bands")
	flagSet.StringVarP(&f.archive, "out", "o", "", "output zip of the bands (default cropped_parts.zip)")
	flagSet.StringVar(&f.composite, "composite", "", "output PNG of the full strip (default combined.png)")
	flagSet.StringVar(&f.report, "report", "", "write a YAML band report to this file")
	flagSet.StringVar(&f.paletteMethod, "palette-method", "", "report palette method: dominantcolor or kmeans")
	flagSet.IntVar(&f.paletteSize, "palette-size", 0, "colors per band in the report")
	flagSet.StringVar(&f.logLevel, "log-level", "", "debug, info, warn or error")
	flagSet.StringVar(&f.logFormat, "log-format", "", "text or json")
	flagSet.BoolVar(&f.progress, "progress", false, "print progress percentages to stderr")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			printHelp(stderr, flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(stderr, flagSet)
		return nil
	}
	if flagSet.NArg() != 1 {
		printHelp(stderr, flagSet)
		return fmt.Errorf("expected exactly one input archive, got %d arguments", flagSet.NArg())
	}
	input := flagSet.Arg(0)

	cfg, err := config.Load(config.Path(f.configPath))
	if err != nil {
		return err
	}
	applyFlags(&cfg, flagSet, f)
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger, err := cfg.Logger(stderr)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	archive, err := ziparchive.Open(input)
	if err != nil {
		return fmt.Errorf("open %s: %w", input, err)
	}

	builder := bandstrip.NewStripBuilder(imagecodec.New(), cfg.Options(logger))
	if f.progress {
		builder.Progress = func(percent int) {
			fmt.Fprintf(stderr, "%3d%%\n", percent)
		}
	}
	res, err := builder.Build(ctx, archive, func() bandstrip.ArchiveWriter {
		return ziparchive.NewWriter()
	})
	if err != nil {
		return err
	}

	if err := os.WriteFile(cfg.Output.Archive, res.Archive, 0o644); err != nil {
		return err
	}
	if cfg.Output.Composite != "" {
		if err := os.WriteFile(cfg.Output.Composite, res.Composite, 0o644); err != nil {
			return err
		}
	}
	logger.Info("wrote outputs", "archive", cfg.Output.Archive, "composite", cfg.Output.Composite)

	if cfg.Output.Report == "" {
		return nil
	}
	method, _ := utils.ParsePaletteMethod(cfg.Report.PaletteMethod)
	report := utils.BuildReport(res, utils.ReportOptions{
		PaletteSize: cfg.Report.PaletteSize,
		Method:      method,
		Logger:      logger,
	})
	data, err := report.YAML()
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	return os.WriteFile(cfg.Output.Report, data, 0o644)
}

// applyFlags overrides config values with flags given on the command line.
func applyFlags(cfg *config.Config, flagSet *pflag.FlagSet, f flags) {
	if flagSet.Changed("quality") {
		cfg.Quality = config.NormalizeQuality(f.quality)
	}
	if flagSet.Changed("band-width") {
		cfg.BandWidth = f.bandWidth
	}
	if flagSet.Changed("workers") {
		cfg.Workers = f.workers
	}
	if f.archive != "" {
		cfg.Output.Archive = f.archive
	}
	if f.composite != "" {
		cfg.Output.Composite = f.composite
	}
	if f.report != "" {
		cfg.Output.Report = f.report
	}
	if f.paletteMethod != "" {
		cfg.Report.PaletteMethod = f.paletteMethod
	}
	if flagSet.Changed("palette-size") {
		cfg.Report.PaletteSize = f.paletteSize
	}
	if f.logLevel != "" {
		cfg.Log.Level = f.logLevel
	}
	if f.logFormat != "" {
		cfg.Log.Format = f.logFormat
	}
}

func printHelp(w io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprintf(w, `bandstrip stacks the images of a zip archive top to bottom in archive
order and cuts the result into five bands.

Usage:
  bandstrip [flags] <input.zip>

Flags:
%s`, flagSet.FlagUsages())
}
