// Package spisink sends SK9822 frames over a hardware SPI bus, one 4-byte
// transfer per frame.
package spisink

import (
	"periph.io/x/conn/v3/spi"
	"tinygo.org/x/drivers"

	"github.com/tinygo-org/sk9822/sk9822"
)

// Tx is the transmit half of an SPI bus. It is implemented by
// [drivers.SPI], TinyGo's machine.SPI and periph's [spi.Conn].
type Tx interface {
	// Tx transmits w and receives into r, which may be nil.
	Tx(w, r []byte) error
}

// Sink implements ring.Sink on top of an SPI bus.
//
// Submit has no way to report a failed transfer. The first error is kept and
// returned by Err; OnError, if set, is called for every failed frame.
type Sink struct {
	bus Tx
	buf [4]byte
	// OnError is called with each transfer error and the frame that was lost.
	OnError  func(err error, word uint32)
	err      error
	failures int
}

// New returns a Sink writing to bus.
func New(bus Tx) *Sink {
	if bus == nil {
		panic("spisink: nil bus")
	}
	return &Sink{bus: bus}
}

// NewDrivers returns a Sink for a TinyGo drivers SPI bus such as machine.SPI0.
func NewDrivers(bus drivers.SPI) *Sink {
	return New(bus)
}

// NewConn returns a Sink for a periph SPI connection. The connection should be
// configured for 8 bit words; mode 0 and mode 3 both work with SK9822.
func NewConn(conn spi.Conn) *Sink {
	return New(conn)
}

// Submit writes word MSB first and waits for the transfer to complete.
func (s *Sink) Submit(word uint32) {
	b := sk9822.AppendFrame(s.buf[:0], word)
	if err := s.bus.Tx(b, nil); err != nil {
		s.failures++
		if s.err == nil {
			s.err = err
		}
		if s.OnError != nil {
			s.OnError(err, word)
		}
	}
}

// Err returns the first transfer error, or nil.
func (s *Sink) Err() error { return s.err }

// Failures returns how many frames failed to transfer.
func (s *Sink) Failures() int { return s.failures }

// Reset clears the recorded error and failure count.
func (s *Sink) Reset() {
	s.err = nil
	s.failures = 0
}
