//go:build rp2040

package piolib

import (
	"machine"
	"time"

	pio "github.com/tinygo-org/pio/rp2-pio"
)

// SK9822 program. It is a TX-only SPI: clock is the side-set pin, data the
// out pin. With autopull at 32 bits every word is shifted out MSB first.
//
//	.program sk9822
//	.side_set 1
//	.wrap_target
//	    out pins, 1   side 0   ; stalls with clock low while TX FIFO is empty
//	    nop           side 1
//	.wrap
var sk9822Instructions = [2]uint16{
	pio.EncodeOut(pio.SrcDestPins, 1) | pio.EncodeSideSet(1, 0),
	pio.EncodeNOP() | pio.EncodeSideSet(1, 1),
}

// Each data bit takes one out and one nop cycle.
const sk9822CyclesPerBit = 2

// SK9822 drives a chain of SK9822 or APA102 LEDs from a PIO state machine.
type SK9822 struct {
	sm            pio.StateMachine
	offsetPlusOne uint8
	timeout       time.Duration
}

// NewSK9822 loads the SK9822 program and starts sm shifting words out on data,
// clocked on clock at baud bits per second.
func NewSK9822(sm pio.StateMachine, clock, data machine.Pin, baud uint32) (*SK9822, error) {
	if !sm.IsValid() {
		return nil, errInvalidSM
	}
	if baud == 0 {
		return nil, errInvalidBaud
	}
	sm.TryClaim() // SM should be claimed beforehand, we just guarantee it's claimed.

	whole, frac, err := pio.ClkDivFromFrequency(baud*sk9822CyclesPerBit, machine.CPUFrequency())
	if err != nil {
		return nil, err
	}
	Pio := sm.PIO()
	offset, err := Pio.AddProgram(sk9822Instructions[:], -1)
	if err != nil {
		return nil, err
	}

	cfg := pio.DefaultStateMachineConfig()
	cfg.SetWrap(offset, offset+uint8(len(sk9822Instructions))-1)
	cfg.SetSidesetParams(1, false, false)
	cfg.SetOutPins(data, 1)
	cfg.SetSidesetPins(clock)
	// Shift left (MSB first), autopull whole words.
	cfg.SetOutShift(false, true, 32)
	// We only use Tx FIFO, so we set the join to Tx.
	cfg.SetFIFOJoin(pio.FifoJoinTx)
	cfg.SetClkDivIntFrac(whole, frac)

	pincfg := machine.PinConfig{Mode: Pio.PinMode()}
	clock.Configure(pincfg)
	data.Configure(pincfg)
	// Clock and data are outputs, both low.
	pinMask := uint32(1<<clock | 1<<data)
	sm.SetPinsMasked(0, pinMask)
	sm.SetPindirsMasked(pinMask, pinMask)

	sm.Init(offset, cfg)
	sm.SetEnabled(true)
	return &SK9822{sm: sm, offsetPlusOne: offset + 1}, nil
}

// Submit puts a frame in the transmit queue, yielding while the queue is full.
// It never gives up: a stalled state machine blocks the caller.
func (s *SK9822) Submit(word uint32) {
	s.mustValid()
	for s.sm.IsTxFIFOFull() {
		gosched()
	}
	s.sm.TxPut(word)
}

// IsQueueFull returns true if the next call to Submit would block.
func (s *SK9822) IsQueueFull() bool {
	s.mustValid()
	return s.sm.IsTxFIFOFull()
}

// SetTimeout bounds how long Write waits on a full queue. Zero or negative
// disables the timeout.
func (s *SK9822) SetTimeout(timeout time.Duration) {
	s.timeout = timeout
}

// Write queues a complete transmission. Unlike Submit it returns an error if
// the queue stays full past the timeout set with SetTimeout.
func (s *SK9822) Write(words []uint32) error {
	s.mustValid()
	dl := newDeadline(s.timeout)
	i := 0
	for i < len(words) {
		if s.sm.IsTxFIFOFull() {
			if dl.expired() {
				return errTimeout
			}
			gosched()
			continue
		}
		s.sm.TxPut(words[i])
		i++
	}
	return nil
}

// Close stops the state machine, frees the program memory and unclaims sm.
// Frames still in the queue are discarded.
func (s *SK9822) Close() {
	s.mustValid()
	s.sm.SetEnabled(false)
	s.sm.ClearFIFOs()
	s.sm.PIO().ClearProgramSection(s.offsetPlusOne-1, uint8(len(sk9822Instructions)))
	s.sm.Unclaim()
	s.offsetPlusOne = 0
}

func (s *SK9822) mustValid() {
	if s.offsetPlusOne == 0 {
		panic("piolib: SK9822 not initialized")
	}
}
