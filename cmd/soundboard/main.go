package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/faiface/beep"
	"github.com/jscyril/soundboard/internal/audio"
	"github.com/jscyril/soundboard/internal/board"
	"github.com/jscyril/soundboard/internal/catalog"
	"github.com/jscyril/soundboard/internal/config"
	"github.com/jscyril/soundboard/internal/logging"
	"github.com/jscyril/soundboard/internal/midiin"
	"github.com/jscyril/soundboard/internal/ui"
	"github.com/jscyril/soundboard/pkg/events"
	gomidi "gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "config file (default: user config dir)")
	listMIDI := flag.Bool("list-midi", false, "list MIDI input ports and exit")
	flag.Parse()

	defer gomidi.CloseDriver()
	if *listMIDI {
		for _, p := range midiin.Ports() {
			fmt.Println(p)
		}
		return nil
	}

	// Load configuration
	if err := config.LoadEnv(); err != nil {
		return fmt.Errorf("load env: %w", err)
	}
	path := *configPath
	if path == "" {
		path = config.GetConfigPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, logCloser, err := logging.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer logCloser.Close()
	log.Info("starting", "config", path)

	// Setup context with graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	// Sound catalog: bundled list or the configured file, plus scanned directories
	cat, err := catalog.LoadFile(cfg.CatalogPath)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	sources := audio.NewSources(audio.NewSource(cfg.AssetBaseURL, cfg.SoundsDir))
	scan := func(ctx context.Context, dir string) (int, []error) {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return 0, []error{err}
		}
		sources.AddDir(abs)
		added, errs := cat.Scan(ctx, []string{abs})
		for _, e := range errs {
			log.Warn("scan", "dir", abs, "err", e)
		}
		log.Info("scanned directory", "dir", abs, "added", added)
		return added, errs
	}
	for _, dir := range cfg.ScanDirs {
		scan(ctx, dir)
	}

	// Audio device and decoded-sound cache
	rate := beep.SampleRate(cfg.SampleRate)
	device := audio.NewDevice(rate, time.Duration(cfg.BufferMillis)*time.Millisecond)
	if cfg.AudioEnabled {
		device.SetVolume(cfg.DefaultVolume)
	} else {
		device.SetVolume(0)
	}
	defer device.Close()
	cache := audio.NewCache(audio.NewAssetLoader(cat, sources, rate), log)

	bus := events.NewEventBus()
	defer bus.Close()

	sb := board.New(board.Options{
		Device:        device,
		Catalog:       cat,
		Sounds:        cache,
		Bus:           bus,
		Logger:        log,
		LoopDuration:  cfg.LoopDuration,
		BPM:           cfg.BPM,
		EventWarning:  cfg.EventWarning,
		OfflineRender: cfg.OfflineRender,
	})
	defer sb.Close()

	if cfg.MIDIPort != "" {
		in, err := midiin.Open(cfg.MIDIPort, uint8(cfg.MIDIBaseNote), func(pad int) {
			if err := sb.HitPad(pad); err != nil {
				log.Debug("midi pad hit", "pad", pad, "err", err)
			}
		}, log)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: midi: %v\n", err)
		} else {
			defer in.Close()
		}
	}

	uiDone := make(chan error, 1)
	go func() {
		uiDone <- ui.Run(ui.Options{
			Board:     sb,
			Catalog:   cat,
			Keys:      cfg.KeyBindings,
			ExportDir: cfg.ExportDir,
			Scan:      scan,
		})
	}()

	select {
	case err := <-uiDone:
		if err != nil {
			return fmt.Errorf("run ui: %w", err)
		}
	case <-ctx.Done():
		log.Info("interrupted")
	}
	return nil
}
