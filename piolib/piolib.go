// Package piolib implements an SK9822/APA102 LED transmitter on the RP2040 PIO
// peripheral.
package piolib

import (
	"errors"
	"runtime"
	"time"
)

var (
	errTimeout     = errors.New("piolib:timeout")
	errInvalidSM   = errors.New("piolib:invalid state machine")
	errInvalidBaud = errors.New("piolib:invalid baud")
)

func gosched() {
	runtime.Gosched()
}

// deadline bounds a wait on the TX FIFO. The zero value never expires.
type deadline struct {
	t time.Time
}

func newDeadline(timeout time.Duration) deadline {
	if timeout <= 0 {
		return deadline{}
	}
	return deadline{t: time.Now().Add(timeout)}
}

func (dl deadline) expired() bool {
	return !dl.t.IsZero() && time.Since(dl.t) > 0
}
