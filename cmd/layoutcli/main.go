package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime/pprof"
	"slices"
	"time"

	"tilerun.dev/layout"
	"tilerun.dev/layout/internal"
	"tilerun.dev/layout/internal/config"
	"tilerun.dev/layout/internal/storage"
)

func main() {
	configPath := flag.String("config", "", "Path to the run .hcl file")
	outDir := flag.String("out", "", "Directory to persist layouts and the score table to")
	workers := flag.Int("workers", 0, "Override the configured worker count")
	timeout := flag.Duration("timeout", 10*time.Minute, "The timeout for the full run")
	progressEvery := flag.Duration("progress", 5*time.Second, "How often to log enumeration progress")

	logLevel := flag.String("log-level", "info", "Logging level: 'debug', 'info', 'warn', or 'error'")
	logFormat := flag.String("log-format", "text", "Log output format: 'text' or 'json'")

	profile := flag.Bool("profile", false, "Profile the run")
	profileFile := flag.String("profile-file", "cpu.pprof", "The file to write the CPU profile to")
	memoryProfileFile := flag.String("memory-profile-file", "mem.pprof", "The file to write the memory profile to")

	flag.Parse()

	logger := newLogger(*logLevel, *logFormat, os.Stderr)

	if *configPath == "" {
		fmt.Println("Missing -config")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("Loading run config failed.", "error", err)
		os.Exit(1)
	}
	if *workers > 0 {
		cfg.Workers = *workers
	}

	var mf *os.File
	if *profile {
		f, err := os.Create(*profileFile)
		if err != nil {
			logger.Error("Creating profile file failed.", "error", err)
			os.Exit(1)
		}
		defer f.Close()

		mf, err = os.Create(*memoryProfileFile)
		if err != nil {
			logger.Error("Creating memory profile file failed.", "error", err)
			os.Exit(1)
		}
		defer mf.Close()

		if err := pprof.StartCPUProfile(f); err != nil {
			logger.Error("Starting CPU profile failed.", "error", err)
			os.Exit(1)
		}
		defer pprof.StopCPUProfile()
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := run(ctx, logger, cfg, *outDir, *progressEvery); err != nil {
		logger.Error("Run failed.", "error", err)
		os.Exit(1)
	}

	if mf != nil {
		pprof.WriteHeapProfile(mf)
	}
}

func run(ctx context.Context, logger *slog.Logger, cfg *config.Run, outDir string, progressEvery time.Duration) error {
	logger.Info("Building score table.", "side", cfg.Side, "alphabet", cfg.Alphabet.String())
	table, err := internal.AllLineScores(ctx, internal.AllLineScoresParams{
		Alphabet:     cfg.Alphabet,
		LineLength:   cfg.Side,
		IncludeBlank: true,
		Runs:         cfg.RunScores,
	})
	if err != nil {
		return fmt.Errorf("build score table: %w", err)
	}
	logger.Info("Score table ready.", "patterns", table.Len())

	progress := &layout.Progress{}
	enum := &layout.Enumerator{Side: cfg.Side, Progress: progress}

	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(progressEvery)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				logger.Info("Enumerating.", "terminal_layouts", progress.Terminal())
			}
		}
	}()

	start := time.Now()
	grids, err := enum.EnumerateAll(ctx, cfg.Workers)
	close(done)
	if err != nil {
		return fmt.Errorf("enumerate: %w", err)
	}
	logger.Info("Enumeration done.", "terminal_layouts", len(grids), "elapsed", time.Since(start))

	if outDir != "" {
		fs := storage.NewFS(outDir)
		if err := fs.SaveLayouts(ctx, cfg.Side, grids); err != nil {
			return fmt.Errorf("save layouts: %w", err)
		}
		if err := fs.SaveScores(ctx, cfg.Side, table); err != nil {
			return fmt.Errorf("save score table: %w", err)
		}
		logger.Info("Persisted run output.", "dir", outDir)
	}

	eval, err := layout.NewEvaluator(cfg.Side, cfg.Alphabet, cfg.Sequence, table, layout.EvaluatorParams{
		DiagonalWeight: &cfg.DiagonalWeight,
		Strict:         cfg.Strict,
	})
	if err != nil {
		return err
	}

	best, err := eval.Evaluate(ctx, slices.Values(grids))
	if err != nil {
		return fmt.Errorf("evaluate: %w", err)
	}

	logger.Info("Evaluation done.", "best_score", best.Score, "starting_symbol", string(best.Start))
	fmt.Println("--------------------------------")
	fmt.Println("Best score:", best.Score)
	fmt.Println("Starting symbol:", string(best.Start))
	fmt.Println("Layout:", best.Layout.Repr())
	fmt.Println("Symbol grid:", best.Symbols)
	return nil
}

func newLogger(levelStr, formatStr string, outW io.Writer) *slog.Logger {
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if formatStr == "json" {
		handler = slog.NewJSONHandler(outW, handlerOpts)
	} else {
		handler = slog.NewTextHandler(outW, handlerOpts)
	}
	return slog.New(handler)
}
