// Command sk9822sim shows the ring animation in a terminal, decoding the same
// frame stream that is sent to the LEDs.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tinygo-org/sk9822/internal/config"
	"github.com/tinygo-org/sk9822/internal/preview"
	"github.com/tinygo-org/sk9822/ring"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config; defaults are used when empty")
	flag.Parse()

	// The screen owns stdout, log to stderr.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", *configPath).Msg("config load failed")
		}
	}
	if _, err := cfg.ApplyLogLevel(); err != nil {
		log.Warn().Err(err).Msg("unknown log level; using info")
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatal().Err(err).Msg("screen create failed")
	}
	if err := screen.Init(); err != nil {
		log.Fatal().Err(err).Msg("screen init failed")
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	p := preview.New(screen, ring.NumLEDs)
	a := ring.New(p, ring.DefaultPalette, cfg.Brightness)
	go func() { done <- a.Run(ctx, cfg.Interval) }()

	for quit := false; !quit; {
		switch ev := screen.PollEvent().(type) {
		case *tcell.EventKey:
			switch {
			case ev.Key() == tcell.KeyEscape, ev.Key() == tcell.KeyCtrlC, ev.Rune() == 'q':
				quit = true
			}
		case *tcell.EventResize:
			screen.Sync()
		case nil:
			quit = true
		}
	}
	cancel()
	<-done
	screen.Fini()
	log.Info().Int("frames", p.Shown()).Msg("stopped")
}
