// Package sk9822 implements the 32-bit frame format of SK9822 and APA102
// LED driver chips.
//
// A transmission is a StartFrame, one frame per LED and an EndFrame. Each LED
// frame is sent MSB first:
//
//	111 bbbbb BBBBBBBB GGGGGGGG RRRRRRRR
//
// where b is the 5-bit global brightness.
package sk9822

import (
	"encoding/binary"
	"image/color"
)

const (
	// StartFrame precedes the LED frames of a transmission.
	StartFrame uint32 = 0x00000000
	// EndFrame flushes the shift registers of the chain after the last LED frame.
	EndFrame uint32 = 0xFFFFFFFF
	// MaxBrightness is the largest 5-bit brightness value.
	MaxBrightness = 0x1F

	markerBits = 0b111 << 29
	markerMask = 0b111 << 29
)

// Color is an RGB value as sent to a single LED.
type Color struct {
	R, G, B uint8
}

// RGBA implements [color.Color]. Color is always opaque.
func (c Color) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R)
	r |= r << 8
	g = uint32(c.G)
	g |= g << 8
	b = uint32(c.B)
	b |= b << 8
	return r, g, b, 0xffff
}

// ColorOf converts any [color.Color] to a Color, dropping alpha.
func ColorOf(c color.Color) Color {
	r16, g16, b16, _ := c.RGBA()
	return Color{R: uint8(r16 >> 8), G: uint8(g16 >> 8), B: uint8(b16 >> 8)}
}

// Encode returns the LED frame for the given brightness and channels.
// Brightness is masked to its low 5 bits.
func Encode(brightness, red, green, blue uint8) uint32 {
	return markerBits |
		uint32(brightness&MaxBrightness)<<24 |
		uint32(blue)<<16 |
		uint32(green)<<8 |
		uint32(red)
}

// EncodeColor wraps Encode for a Color.
func EncodeColor(brightness uint8, c Color) uint32 {
	return Encode(brightness, c.R, c.G, c.B)
}

// Decode splits an LED frame into brightness and color. ok is false if the
// frame lacks the 111 marker, as is the case for StartFrame.
//
// EndFrame decodes as white at full brightness; only its position in the
// transmission tells the two apart.
func Decode(frame uint32) (brightness uint8, c Color, ok bool) {
	if frame&markerMask != markerBits {
		return 0, Color{}, false
	}
	brightness = uint8(frame>>24) & MaxBrightness
	c = Color{
		R: uint8(frame),
		G: uint8(frame >> 8),
		B: uint8(frame >> 16),
	}
	return brightness, c, true
}

// AppendFrame appends frame to dst in the order it is shifted out on the data line.
func AppendFrame(dst []byte, frame uint32) []byte {
	return binary.BigEndian.AppendUint32(dst, frame)
}
