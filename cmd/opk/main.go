package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/chazu/opk/pkg/config"
	"github.com/chazu/opk/pkg/keyboard"
	"github.com/chazu/opk/pkg/keycap"
	"github.com/chazu/opk/pkg/kernel/sdfx"
	"github.com/chazu/opk/pkg/logger"
)

func main() {
	layoutPath := flag.String("layout", "", "HCL layout file (default: built-in six-row board)")
	exportKeys := flag.Bool("export", true, "export one STL per keycap")
	exportAssembly := flag.Bool("export-assembly", true, "export the merged assembly STL and 3MF")
	stemType := flag.String("stem", "", "stem type override: cherry or alps")
	flag.Parse()

	logger.Init()
	log := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Error(ctx, "failed to load config", logger.Error(err))
		os.Exit(1)
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel))
	}

	layout := keyboard.DefaultLayout()
	if *layoutPath != "" {
		layout, err = keyboard.LoadLayout(*layoutPath)
		if err != nil {
			log.Error(ctx, "failed to load layout", logger.Error(err))
			os.Exit(1)
		}
	}

	base := keycap.DefaultSpec()
	base.StemType = keycap.StemType(cfg.StemType)
	base.ScoopStyle = keycap.ScoopStyle(cfg.ScoopStyle)

	k := sdfx.New()
	driver := keyboard.NewDriver(k, k, log.Named("driver"))

	opts := keyboard.Options{
		Base:             base,
		StemType:         keycap.StemType(*stemType),
		ExportKeys:       *exportKeys,
		ExportAssembly:   *exportAssembly,
		ExportDir:        cfg.ExportDir,
		Tolerance:        cfg.Tolerance,
		AngularTolerance: cfg.AngularTolerance,
	}

	assy, err := driver.Run(ctx, layout, opts)
	if err != nil {
		log.Error(ctx, "batch run failed", logger.Error(err))
		os.Exit(1)
	}

	log.Info(ctx, "batch run complete", logger.Int("keycaps", assy.Len()))
}
