//go:build rp2040

package main

import (
	"context"
	"machine"
	"strconv"

	pio "github.com/tinygo-org/pio/rp2-pio"

	"github.com/tinygo-org/sk9822/piolib"
	"github.com/tinygo-org/sk9822/ring"
	"github.com/tinygo-org/sk9822/spisink"
)

// Pins, bit rate and output can be overridden at build time:
//
//	tinygo flash -target=pico -ldflags "-X main.clockPin=14 -X main.dataPin=15 -X main.baud=5000000" ./cmd/sk9822ring
//
// output=spi drives the ring from the SPI1 peripheral instead of PIO0. The
// default pins 14 and 15 are SPI1 SCK and TX.
var (
	clockPin string
	dataPin  string
	baud     string
	output   string
)

const (
	defaultClockPin = 14
	defaultDataPin  = 15
	defaultBaud     = 5 * machine.MHz
)

func main() {
	clk := pinOrDefault(clockPin, defaultClockPin)
	din := pinOrDefault(dataPin, defaultDataPin)
	rate := uint32(defaultBaud)
	if baud != "" {
		v, err := strconv.ParseUint(baud, 10, 32)
		if err != nil {
			println("invalid baud: " + baud)
		} else {
			rate = uint32(v)
		}
	}

	if output == "" {
		output = "pio"
	}
	var sink ring.Sink
	switch output {
	case "pio":
		sink = newPIO(clk, din, rate)
	case "spi":
		sink = newSPI(clk, din, rate)
	default:
		panic("unknown output: " + output)
	}
	println("sk9822:", output, "clock", clk, "data", din, "baud", rate)

	a := ring.New(sink, ring.DefaultPalette, ring.DefaultBrightness)
	a.Run(context.Background(), ring.DefaultInterval)
}

func newPIO(clk, din machine.Pin, rate uint32) ring.Sink {
	sm, err := pio.PIO0.ClaimStateMachine()
	if err != nil {
		panic(err.Error())
	}
	leds, err := piolib.NewSK9822(sm, clk, din, rate)
	if err != nil {
		panic(err.Error())
	}
	return leds
}

func newSPI(clk, din machine.Pin, rate uint32) ring.Sink {
	spi := machine.SPI1
	err := spi.Configure(machine.SPIConfig{
		Frequency: rate,
		SCK:       clk,
		SDO:       din,
		SDI:       machine.SPI1_SDI_PIN,
		Mode:      0,
	})
	if err != nil {
		panic(err.Error())
	}
	sink := spisink.NewDrivers(spi)
	sink.OnError = func(err error, _ uint32) {
		println("spi:", err.Error())
	}
	return sink
}

func pinOrDefault(s string, def machine.Pin) machine.Pin {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		println("invalid pin number: " + s)
		return def
	}
	return machine.Pin(n)
}
