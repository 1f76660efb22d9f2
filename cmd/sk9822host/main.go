// Command sk9822host animates an SK9822 ring wired to a Linux SPI port, for
// example a Raspberry Pi with dtparam=spi=on.
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/tinygo-org/sk9822/internal/config"
	"github.com/tinygo-org/sk9822/ring"
	"github.com/tinygo-org/sk9822/sk9822"
	"github.com/tinygo-org/sk9822/spisink"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config; defaults are used when empty")
	flag.Parse()

	zerolog.TimeFieldFormat = time.RFC3339
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

	if _, err := host.Init(); err != nil {
		log.Fatal().Err(err).Msg("host init failed")
	}
	port, err := spireg.Open(cfg.SPI.Port)
	if err != nil {
		log.Fatal().Err(err).Str("port", cfg.SPI.Port).Msg("spi open failed")
	}
	defer port.Close()

	conn, err := port.Connect(physic.Frequency(cfg.SPI.SpeedHz)*physic.Hertz, spi.Mode(cfg.SPI.Mode), 8)
	if err != nil {
		log.Fatal().Err(err).Msg("spi connect failed")
	}
	if p, ok := conn.(spi.Pins); ok {
		log.Info().Str("clk", p.CLK().String()).Str("mosi", p.MOSI().String()).Msg("spi pins")
	}

	sink := spisink.NewConn(conn)
	// A dead bus fails every frame; keep the log readable.
	errLog := log.Sample(&zerolog.BasicSampler{N: 100})
	sink.OnError = func(err error, word uint32) {
		errLog.Error().Err(err).Uint32("frame", word).Int("failures", sink.Failures()).Msg("spi write failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := ring.New(sink, ring.DefaultPalette, cfg.Brightness)
	log.Info().
		Str("conn", conn.String()).
		Dur("interval", cfg.Interval).
		Uint8("brightness", a.Brightness()).
		Int("leds", ring.NumLEDs).
		Msg("running")
	err = a.Run(ctx, cfg.Interval)
	if !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("animation stopped")
	}

	blank(sink)
	log.Info().Int("failures", sink.Failures()).Msg("shutting down")
}

// blank turns every LED off.
func blank(sink ring.Sink) {
	sink.Submit(sk9822.StartFrame)
	for i := 0; i < ring.NumLEDs; i++ {
		sink.Submit(sk9822.Encode(0, 0, 0, 0))
	}
	sink.Submit(sk9822.EndFrame)
}
