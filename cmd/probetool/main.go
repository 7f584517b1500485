// Package main provides a command-line tool for exporting reflection probes
// as RGBM cubemap DDS files.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/EchoTools/probetools/internal/config"
	"github.com/EchoTools/probetools/internal/logging"
	"github.com/EchoTools/probetools/pkg/capture"
	"github.com/EchoTools/probetools/pkg/dds"
	"github.com/EchoTools/probetools/pkg/probe"
)

var (
	mode           string
	configPath     string
	inputPath      string
	outputDir      string
	flip           bool
	workers        int
	dumpFaces      bool
	logLevel       string
	forceOverwrite bool
)

func init() {
	flag.StringVar(&mode, "mode", "", "Operation mode: export, info, flip, pack, watch")
	flag.StringVar(&configPath, "config", "probetool.toml", "Path to TOML configuration file")
	flag.StringVar(&inputPath, "input", "", "Capture directory (export, pack, watch) or DDS file (info, flip)")
	flag.StringVar(&outputDir, "output", "", "Output directory (overrides export.output_dir)")
	flag.BoolVar(&flip, "flip", true, "Flip images vertically on save (overrides export.flip)")
	flag.IntVar(&workers, "workers", 0, "Number of export workers (overrides export.workers)")
	flag.BoolVar(&dumpFaces, "dump-faces", false, "Write each cubemap face as BMP (overrides export.dump_faces)")
	flag.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides log.level)")
	flag.BoolVar(&forceOverwrite, "force", false, "Allow non-empty output directory")
}

func main() {
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if err := validateFlags(); err != nil {
		flag.Usage()
		return err
	}

	cfg, err := loadConfig(configPath, setFlags())
	if err != nil {
		return err
	}
	if err := logging.SetLevel(cfg.Log.Level); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch mode {
	case "export":
		if err := prepareOutputDir(cfg.Export.OutputDir); err != nil {
			return err
		}
		return runExport(ctx, cfg)
	case "info":
		return runInfo(os.Stdout)
	case "flip":
		return runFlip(cfg)
	case "pack":
		if err := prepareOutputDir(cfg.Export.OutputDir); err != nil {
			return err
		}
		return runPack(cfg)
	case "watch":
		if err := os.MkdirAll(cfg.Export.OutputDir, 0755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
		return runWatch(ctx, cfg)
	default:
		return fmt.Errorf("unknown mode: %s", mode)
	}
}

func validateFlags() error {
	if mode == "" {
		return fmt.Errorf("mode is required")
	}
	if inputPath == "" {
		return fmt.Errorf("input is required")
	}

	switch mode {
	case "export", "info", "flip", "pack", "watch":
	default:
		return fmt.Errorf("mode must be 'export', 'info', 'flip', 'pack' or 'watch'")
	}

	if workers < 0 {
		return fmt.Errorf("workers must not be negative")
	}
	return nil
}

// setFlags returns the names of the flags given on the command line.
func setFlags() map[string]bool {
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})
	return set
}

// loadConfig reads the configuration file and applies the flags in set over
// it.
func loadConfig(path string, set map[string]bool) (config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}

	if set["output"] {
		cfg.Export.OutputDir = outputDir
	}
	if set["flip"] {
		cfg.Export.Flip = flip
	}
	if set["workers"] && workers > 0 {
		cfg.Export.Workers = workers
	}
	if set["dump-faces"] {
		cfg.Export.DumpFaces = dumpFaces
	}
	if set["log-level"] {
		cfg.Log.Level = logLevel
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func prepareOutputDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	if !forceOverwrite {
		empty, err := isDirEmpty(dir)
		if err != nil {
			return fmt.Errorf("check output directory: %w", err)
		}
		if !empty {
			return fmt.Errorf("output directory is not empty (use -force to override)")
		}
	}

	return nil
}

func isDirEmpty(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	_, err = f.Readdir(1)
	return err == io.EOF, nil
}

func exportOptions(cfg config.Config) probe.Options {
	return probe.Options{
		OutputDir: cfg.Export.OutputDir,
		Flip:      cfg.Export.Flip,
		DumpFaces: cfg.Export.DumpFaces,
		Workers:   cfg.Export.Workers,
		QueueSize: cfg.Export.QueueSize,
	}
}

func openProbes(paths []string) ([]*probe.Probe, error) {
	probes := make([]*probe.Probe, 0, len(paths))
	for _, path := range paths {
		p, err := probe.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		probes = append(probes, p)
	}
	return probes, nil
}

func runExport(ctx context.Context, cfg config.Config) error {
	logging.Info("scanning captures", "dir", inputPath)
	paths, err := probe.ScanCaptures(inputPath)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no %s files found in %s", probe.CaptureExt, inputPath)
	}

	probes, err := openProbes(paths)
	if err != nil {
		return err
	}

	logging.Info("exporting probes", "count", len(probes), "workers", cfg.Export.Workers)
	m, err := probe.ExportAll(ctx, probes, exportOptions(cfg))
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}

	fmt.Printf("Export complete. %d probes written to %s\n", len(m.Probes), cfg.Export.OutputDir)
	return nil
}

func runInfo(w io.Writer) error {
	img, err := dds.LoadFile(inputPath)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "File: %s\n", inputPath)
	fmt.Fprint(w, img.Describe())
	return nil
}

// runFlip rewrites a DDS file with its rows flipped relative to the input.
func runFlip(cfg config.Config) error {
	img, err := dds.LoadFile(inputPath, dds.WithFlip(false))
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.Export.OutputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	out := filepath.Join(cfg.Export.OutputDir, filepath.Base(inputPath))
	if err := img.SaveFile(out, dds.WithFlip(true)); err != nil {
		return err
	}

	logging.Info("flipped image", "input", inputPath, "output", out)
	return nil
}

// runPack rewrites every capture with the configured compression level.
func runPack(cfg config.Config) error {
	paths, err := probe.ScanCaptures(inputPath)
	if err != nil {
		return err
	}

	for _, path := range paths {
		c, err := capture.LoadFile(path)
		if err != nil {
			return err
		}

		out := filepath.Join(cfg.Export.OutputDir, filepath.Base(path))
		if err := capture.SaveFile(out, c, capture.WithCompressionLevel(cfg.Capture.CompressionLevel)); err != nil {
			return err
		}

		sidecar := probe.SidecarPath(path)
		if info, err := probe.LoadInfo(sidecar); err == nil {
			if err := probe.SaveInfo(probe.SidecarPath(out), info); err != nil {
				return err
			}
		}
		logging.Debug("packed capture", "input", path, "output", out)
	}

	fmt.Printf("Pack complete. %d captures written to %s\n", len(paths), cfg.Export.OutputDir)
	return nil
}
