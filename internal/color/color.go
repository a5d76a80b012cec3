// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package color converts 8-bit texels to and from float color, decoding and
// encoding sRGB with lookup tables.
//
// sRGB is how images are stored; sampling through an sRGB view and writing
// through an sRGB framebuffer convert to and from linear light. Alpha is
// never gamma encoded.
package color

import "math"

// Texel is a straight-alpha color with float components. Components may
// leave [0,1] after scaling; Pack clamps them.
type Texel struct {
	R, G, B, A float32
}

// Scale multiplies the color channels by m, leaving alpha untouched.
func (t Texel) Scale(m float32) Texel {
	return Texel{R: t.R * m, G: t.G * m, B: t.B * m, A: t.A}
}

// decodeLUT maps an sRGB byte to linear light.
var decodeLUT [256]float32

// encodeLUT maps 12-bit linear light to an sRGB byte.
var encodeLUT [4096]uint8

func init() {
	for i := range decodeLUT {
		decodeLUT[i] = float32(srgbToLinear(float64(i) / 255))
	}
	for i := range encodeLUT {
		encodeLUT[i] = uint8(clamp01(linearToSRGB(float64(i)/4095))*255 + 0.5)
	}
}

func srgbToLinear(s float64) float64 {
	if s <= 0.04045 {
		return s / 12.92
	}
	return math.Pow((s+0.055)/1.055, 2.4)
}

func linearToSRGB(l float64) float64 {
	if l <= 0.0031308 {
		return l * 12.92
	}
	return 1.055*math.Pow(l, 1/2.4) - 0.055
}

// Decode converts one channel byte to float. With srgb set the byte is
// treated as sRGB encoded and returned in linear light.
func Decode(v uint8, srgb bool) float32 {
	if srgb {
		return decodeLUT[v]
	}
	return float32(v) / 255
}

// Encode converts a float channel to a byte, clamping to [0,1]. With srgb
// set the value is taken as linear light and sRGB encoded.
func Encode(v float32, srgb bool) uint8 {
	v = float32(clamp01(float64(v)))
	if srgb {
		return encodeLUT[int(v*4095+0.5)]
	}
	return uint8(v*255 + 0.5)
}

// Unpack decodes an RGBA8 texel. Alpha is always decoded linearly.
func Unpack(r, g, b, a uint8, srgb bool) Texel {
	return Texel{
		R: Decode(r, srgb),
		G: Decode(g, srgb),
		B: Decode(b, srgb),
		A: Decode(a, false),
	}
}

// Pack encodes t to RGBA8. Alpha is always encoded linearly.
func Pack(t Texel, srgb bool) (r, g, b, a uint8) {
	return Encode(t.R, srgb), Encode(t.G, srgb), Encode(t.B, srgb), Encode(t.A, false)
}

func clamp01(v float64) float64 {
	return max(0, min(v, 1))
}
