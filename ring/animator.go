// Package ring animates a fixed ring of SK9822 LEDs: a primary head color with
// two secondary LEDs on each side rotates around a filled ring, one step per tick.
package ring

import (
	"context"
	"time"

	"github.com/tinygo-org/sk9822/sk9822"
)

// NumLEDs is the number of LEDs in the ring.
const NumLEDs = 12

// DefaultInterval is the delay between ticks used by firmware.
const DefaultInterval = 100 * time.Millisecond

// DefaultBrightness is the global 5-bit brightness used by firmware.
const DefaultBrightness = 15

// Sink accepts frames for transmission. Submit blocks until the word has
// been accepted and must preserve submission order.
type Sink interface {
	Submit(word uint32)
}

// Palette holds the three colors of the pattern.
type Palette struct {
	// Primary is the color of the LED under the cursor.
	Primary sk9822.Color
	// Secondary is the color of the two LEDs at each side of the cursor.
	Secondary sk9822.Color
	// Fill is the color of every other LED.
	Fill sk9822.Color
}

// DefaultPalette is red on a cyan ring with magenta neighbours.
var DefaultPalette = Palette{
	Primary:   sk9822.Color{R: 255, G: 0, B: 0},
	Secondary: sk9822.Color{R: 255, G: 0, B: 255},
	Fill:      sk9822.Color{R: 0, G: 255, B: 255},
}

// Animator owns the ring's color buffer and cursor. It is not safe for
// concurrent use.
type Animator struct {
	sink       Sink
	palette    Palette
	leds       []sk9822.Color
	cursor     int
	brightness uint8
}

// New returns an Animator for a ring of NumLEDs LEDs with the cursor at LED 0.
// Brightness is masked to 5 bits.
func New(sink Sink, palette Palette, brightness uint8) *Animator {
	return newAnimator(sink, palette, brightness, NumLEDs)
}

func newAnimator(sink Sink, palette Palette, brightness uint8, n int) *Animator {
	if sink == nil {
		panic("ring: nil sink")
	}
	if n <= 0 {
		panic("ring: invalid LED count")
	}
	return &Animator{
		sink:       sink,
		palette:    palette,
		leds:       make([]sk9822.Color, n),
		brightness: brightness & sk9822.MaxBrightness,
	}
}

// Tick computes the next pattern and transmits it. It returns once every
// frame of the transmission has been accepted by the sink.
func (a *Animator) Tick() {
	a.update()
	a.transmit()
}

func (a *Animator) update() {
	for i := range a.leds {
		a.leds[i] = a.palette.Fill
	}
	a.leds[a.cursor] = a.palette.Primary
	// On rings of 5 LEDs or fewer these overlap each other or the cursor;
	// the last write wins.
	for _, off := range [4]int{1, 2, -1, -2} {
		a.leds[a.wrap(a.cursor+off)] = a.palette.Secondary
	}
	a.cursor = a.wrap(a.cursor + 1)
}

func (a *Animator) transmit() {
	a.sink.Submit(sk9822.StartFrame)
	for _, c := range a.leds {
		a.sink.Submit(sk9822.EncodeColor(a.brightness, c))
	}
	a.sink.Submit(sk9822.EndFrame)
}

// wrap returns i modulo the ring size, always in [0, len(leds)).
func (a *Animator) wrap(i int) int {
	n := len(a.leds)
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

// Run ticks, then waits interval, until ctx is done. It returns ctx.Err().
// With a context that is never done Run does not return.
func (a *Animator) Run(ctx context.Context, interval time.Duration) error {
	for {
		a.Tick()
		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// Cursor returns the LED that will be primary on the next tick.
func (a *Animator) Cursor() int { return a.cursor }

// Brightness returns the 5-bit global brightness.
func (a *Animator) Brightness() uint8 { return a.brightness }

// Palette returns the colors of the pattern.
func (a *Animator) Palette() Palette { return a.palette }

// LEDs returns a copy of the colors sent on the last tick.
func (a *Animator) LEDs() []sk9822.Color {
	leds := make([]sk9822.Color, len(a.leds))
	copy(leds, a.leds)
	return leds
}
