package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/OCharnyshevich/heightfield/internal/config"
	"github.com/OCharnyshevich/heightfield/internal/storage"
	"github.com/OCharnyshevich/heightfield/pkg/heightfield"
)

func main() {
	cfg := config.DefaultConfig()

	flag.IntVar(&cfg.Width, "width", cfg.Width, "field width in cells")
	flag.IntVar(&cfg.Height, "height", cfg.Height, "field height in cells")
	flag.IntVar(&cfg.Octaves, "octaves", cfg.Octaves, "number of octaves to blend")
	flag.Float64Var(&cfg.Persistence, "persistence", cfg.Persistence, "per-octave amplitude decay in (0,1]")
	flag.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "seed of the first field")
	flag.IntVar(&cfg.Count, "count", cfg.Count, "number of fields to generate from consecutive seeds")
	flag.IntVar(&cfg.Workers, "workers", cfg.Workers, "goroutines per field (0 = GOMAXPROCS)")
	flag.StringVar(&cfg.OutputDir, "out", cfg.OutputDir, "output directory")
	flag.StringVar(&cfg.Format, "format", cfg.Format, "output format: json or nbt")
	flag.StringVar(&cfg.TimingFile, "timing", cfg.TimingFile, "append generation timings to this file")
	configSrc := flag.String("config", "", "config file: local path or go-getter URL")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, *configSrc, log); err != nil {
		log.Error("generate", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, configSrc string, log *slog.Logger) error {
	if configSrc != "" {
		if err := mergeConfigFile(ctx, cfg, configSrc, log); err != nil {
			return err
		}
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	store, err := storage.New(cfg.OutputDir, log)
	if err != nil {
		return err
	}

	synth := heightfield.Synthesizer{Persistence: cfg.Persistence, Workers: cfg.Workers}
	for i := range cfg.Count {
		if ctx.Err() != nil {
			log.Info("interrupted", "generated", i)
			return nil
		}
		if err := generate(store, cfg, synth, cfg.Seed+uint64(i), log); err != nil {
			return err
		}
	}
	return nil
}

// mergeConfigFile fetches src into a scratch directory and merges it into
// cfg under the flags set on the command line.
func mergeConfigFile(ctx context.Context, cfg *config.Config, src string, log *slog.Logger) error {
	tmp, err := os.MkdirTemp("", "heightfield-config-")
	if err != nil {
		return fmt.Errorf("create config scratch dir: %w", err)
	}
	defer os.RemoveAll(tmp)

	scratch, err := storage.New(tmp, log)
	if err != nil {
		return err
	}
	fromFile, err := scratch.FetchConfig(ctx, src)
	if err != nil {
		return err
	}

	explicit := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { explicit[f.Name] = true })
	config.Merge(cfg, fromFile, explicit)
	return nil
}

func generate(store *storage.Storage, cfg *config.Config, synth heightfield.Synthesizer, seed uint64, log *slog.Logger) error {
	start := time.Now()

	base, err := heightfield.WhiteNoise(cfg.Width, cfg.Height, heightfield.NewSource(seed))
	if err != nil {
		return err
	}
	field, err := synth.Synthesize(base, cfg.Octaves)
	if err != nil {
		return err
	}
	mean, err := heightfield.MeanHeight(field)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	path, err := store.SaveField(storage.FieldDataFromGrid(field, seed, cfg.Octaves, cfg.Persistence, mean), cfg.Format)
	if err != nil {
		return err
	}

	log.Info("field generated",
		"seed", seed,
		"size", fmt.Sprintf("%dx%d", cfg.Width, cfg.Height),
		"octaves", cfg.Octaves,
		"mean", mean,
		"elapsed", elapsed,
		"path", path,
	)

	if cfg.TimingFile != "" {
		line := fmt.Sprintf("seed %d: %.3f ms", seed, float64(elapsed.Microseconds())/1000)
		if err := store.AppendTiming(cfg.TimingFile, line); err != nil {
			return err
		}
		log.Debug("timing recorded", "file", cfg.TimingFile)
	}
	return nil
}
