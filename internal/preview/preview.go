// Package preview decodes an SK9822 frame stream and draws the LEDs as a ring
// on a terminal screen.
package preview

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/tinygo-org/sk9822/sk9822"
)

// cellWidth is the number of terminal columns per LED. Two columns make a
// roughly square block.
const cellWidth = 2

// Ring is a ring.Sink that renders every complete transmission to a screen.
type Ring struct {
	screen tcell.Screen
	leds   []sk9822.Color
	// receiving is true between a start frame and the end frame.
	receiving bool
	next      int
	shown     int
	invalid   int
}

// New returns a Ring drawing n LEDs on screen.
func New(screen tcell.Screen, n int) *Ring {
	if n <= 0 {
		panic("preview: invalid LED count")
	}
	return &Ring{screen: screen, leds: make([]sk9822.Color, n)}
}

// Submit consumes one frame. Frames outside a start/end pair are dropped.
// The all-ones word is an LED frame while LEDs remain and the end frame after.
func (r *Ring) Submit(word uint32) {
	switch {
	case word == sk9822.StartFrame:
		r.receiving = true
		r.next = 0
	case !r.receiving:
	case r.next < len(r.leds):
		br, c, ok := sk9822.Decode(word)
		if !ok {
			r.invalid++
			c, br = sk9822.Color{}, 0
		}
		r.leds[r.next] = dim(c, br)
		r.next++
	case word == sk9822.EndFrame:
		r.receiving = false
		r.draw()
	}
}

// Shown returns how many transmissions have been drawn.
func (r *Ring) Shown() int { return r.shown }

// Invalid returns how many LED frames lacked the frame marker.
func (r *Ring) Invalid() int { return r.invalid }

// LED returns the displayed color of LED i.
func (r *Ring) LED(i int) sk9822.Color { return r.leds[i] }

func (r *Ring) draw() {
	r.shown++
	w, h := r.screen.Size()
	r.screen.Clear()
	for i, c := range r.leds {
		x, y := Position(i, len(r.leds), w, h)
		st := tcell.StyleDefault.Background(tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B)))
		for dx := 0; dx < cellWidth; dx++ {
			r.screen.SetContent(x+dx, y, ' ', nil, st)
		}
	}
	status := fmt.Sprintf("frame %d  (q to quit)", r.shown)
	for i, ch := range status {
		r.screen.SetContent(i, h-1, ch, nil, tcell.StyleDefault)
	}
	r.screen.Show()
}

// Position returns the top-left cell of LED i out of n on a w x h screen.
// LED 0 is at the top and indices increase clockwise.
func Position(i, n, w, h int) (x, y int) {
	// Leave a row for the status line.
	ry := float64(h-2) / 2
	rx := 2 * ry // terminal cells are about twice as tall as wide
	if maxrx := float64(w-cellWidth) / 2; rx > maxrx {
		rx = maxrx
		ry = rx / 2
	}
	cx, cy := float64(w-cellWidth)/2, float64(h-2)/2
	angle := 2*math.Pi*float64(i)/float64(n) - math.Pi/2
	x = int(math.Round(cx + rx*math.Cos(angle)))
	y = int(math.Round(cy + ry*math.Sin(angle)))
	return x, y
}

// dim scales c by a 5-bit brightness the way the driver chip's current
// source does.
func dim(c sk9822.Color, brightness uint8) sk9822.Color {
	scale := func(v uint8) uint8 {
		return uint8(uint16(v) * uint16(brightness) / sk9822.MaxBrightness)
	}
	return sk9822.Color{R: scale(c.R), G: scale(c.G), B: scale(c.B)}
}
