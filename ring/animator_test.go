package ring

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinygo-org/sk9822/sk9822"
)

// recorder is a Sink that keeps every submitted word.
type recorder struct {
	words    []uint32
	onSubmit func(n int)
}

func (r *recorder) Submit(word uint32) {
	r.words = append(r.words, word)
	if r.onSubmit != nil {
		r.onSubmit(len(r.words))
	}
}

var (
	primary   = DefaultPalette.Primary
	secondary = DefaultPalette.Secondary
	fill      = DefaultPalette.Fill
)

func TestTickScenario(t *testing.T) {
	rec := &recorder{}
	a := New(rec, DefaultPalette, DefaultBrightness)
	require.Equal(t, 0, a.Cursor())

	a.Tick()

	expect := []sk9822.Color{
		primary,
		secondary, secondary,
		fill, fill, fill, fill, fill, fill, fill,
		secondary, secondary,
	}
	assert.Equal(t, expect, a.LEDs())
	assert.Equal(t, 1, a.Cursor())
}

func TestTickTransmission(t *testing.T) {
	rec := &recorder{}
	a := New(rec, DefaultPalette, DefaultBrightness)
	a.Tick()

	require.Len(t, rec.words, NumLEDs+2)
	assert.Equal(t, sk9822.StartFrame, rec.words[0])
	assert.Equal(t, sk9822.EndFrame, rec.words[len(rec.words)-1])
	leds := a.LEDs()
	for i, w := range rec.words[1 : NumLEDs+1] {
		assert.Equal(t, sk9822.EncodeColor(DefaultBrightness, leds[i]), w, "LED %d", i)
	}
	// Red at brightness 15.
	assert.Equal(t, uint32(0xEF0000FF), rec.words[1])
}

func TestTickRotation(t *testing.T) {
	rec := &recorder{}
	a := New(rec, DefaultPalette, DefaultBrightness)
	for tick := 0; tick < 3*NumLEDs; tick++ {
		head := a.Cursor()
		a.Tick()
		leds := a.LEDs()
		require.Len(t, leds, NumLEDs)
		assert.Equal(t, primary, leds[head], "tick %d", tick)
		assert.Equal(t, (head+1)%NumLEDs, a.Cursor())
		assert.True(t, a.Cursor() >= 0 && a.Cursor() < NumLEDs)

		var nprimary, nsecondary int
		for _, c := range leds {
			switch c {
			case primary:
				nprimary++
			case secondary:
				nsecondary++
			}
		}
		assert.Equal(t, 1, nprimary)
		assert.Equal(t, 4, nsecondary)
	}
	assert.Len(t, rec.words, 3*NumLEDs*(NumLEDs+2))
}

func TestTickPeriod(t *testing.T) {
	a := New(&recorder{}, DefaultPalette, DefaultBrightness)
	a.Tick()
	first := a.LEDs()
	for i := 0; i < NumLEDs; i++ {
		a.Tick()
	}
	assert.Equal(t, first, a.LEDs())
	assert.Equal(t, 1, a.Cursor())
}

func TestTickWrapsBelowZero(t *testing.T) {
	a := New(&recorder{}, DefaultPalette, DefaultBrightness)
	// Move the cursor to 1 so that cursor-2 wraps to the last LED.
	a.Tick()
	a.Tick()
	leds := a.LEDs()
	assert.Equal(t, primary, leds[1])
	assert.Equal(t, secondary, leds[0])
	assert.Equal(t, secondary, leds[NumLEDs-1])
	assert.Equal(t, secondary, leds[2])
	assert.Equal(t, secondary, leds[3])
	assert.Equal(t, fill, leds[NumLEDs-2])
}

func TestWrap(t *testing.T) {
	a := New(&recorder{}, DefaultPalette, DefaultBrightness)
	var tests = []struct{ in, out int }{
		{0, 0}, {11, 11}, {12, 0}, {13, 1},
		{-1, 11}, {-2, 10}, {-12, 0}, {-13, 11},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.out, a.wrap(tc.in), "wrap(%d)", tc.in)
	}
}

func TestSmallRingCollisions(t *testing.T) {
	var tests = []struct {
		n      int
		expect []sk9822.Color
	}{
		{1, []sk9822.Color{secondary}},
		// cursor+2 lands on the cursor and overwrites the primary.
		{2, []sk9822.Color{secondary, secondary}},
		{3, []sk9822.Color{primary, secondary, secondary}},
		{4, []sk9822.Color{primary, secondary, secondary, secondary}},
		{5, []sk9822.Color{primary, secondary, secondary, secondary, secondary}},
		{6, []sk9822.Color{primary, secondary, secondary, fill, secondary, secondary}},
	}
	for _, tc := range tests {
		rec := &recorder{}
		a := newAnimator(rec, DefaultPalette, DefaultBrightness, tc.n)
		a.Tick()
		assert.Equal(t, tc.expect, a.LEDs(), "n=%d", tc.n)
		assert.Len(t, rec.words, tc.n+2)
		assert.Equal(t, 1%tc.n, a.Cursor())
	}
}

func TestBrightnessMasked(t *testing.T) {
	rec := &recorder{}
	a := New(rec, DefaultPalette, 0xFF)
	assert.Equal(t, uint8(31), a.Brightness())
	a.Tick()
	br, _, ok := sk9822.Decode(rec.words[1])
	require.True(t, ok)
	assert.Equal(t, uint8(31), br)
}

func TestLEDsIsCopy(t *testing.T) {
	a := New(&recorder{}, DefaultPalette, DefaultBrightness)
	a.Tick()
	leds := a.LEDs()
	leds[0] = sk9822.Color{}
	assert.Equal(t, primary, a.LEDs()[0])
}

func TestNewPanicsOnNilSink(t *testing.T) {
	assert.Panics(t, func() { New(nil, DefaultPalette, 0) })
}

func TestRunCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	rec := &recorder{}
	rec.onSubmit = func(n int) {
		// Cancel while the first transmission is still in flight; Run must
		// return without waiting out the interval.
		if n == NumLEDs+2 {
			cancel()
		}
	}
	a := New(rec, DefaultPalette, DefaultBrightness)
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx, time.Hour) }()
	select {
	case err := <-done:
		assert.True(t, errors.Is(err, context.Canceled))
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.Len(t, rec.words, NumLEDs+2)
	assert.Equal(t, 1, a.Cursor())
}

func TestRunWaitsBetweenTicks(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	rec := &recorder{}
	var stamps []time.Time
	rec.onSubmit = func(n int) {
		if n%(NumLEDs+2) == 0 {
			stamps = append(stamps, time.Now())
			if len(stamps) == 3 {
				cancel()
			}
		}
	}
	const interval = 5 * time.Millisecond
	a := New(rec, DefaultPalette, DefaultBrightness)
	require.True(t, errors.Is(a.Run(ctx, interval), context.Canceled))
	require.Len(t, stamps, 3)
	for i := 1; i < len(stamps); i++ {
		assert.True(t, stamps[i].Sub(stamps[i-1]) >= interval, "tick %d came early", i)
	}
}
