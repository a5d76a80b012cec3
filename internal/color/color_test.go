// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package color

import (
	"math"
	"testing"
)

func TestDecodeLinear(t *testing.T) {
	if Decode(0, false) != 0 || Decode(255, false) != 1 {
		t.Error("linear decode endpoints wrong")
	}
	if got := Decode(51, false); math.Abs(float64(got)-0.2) > 1e-6 {
		t.Errorf("Decode(51) = %v, want 0.2", got)
	}
}

func TestDecodeSRGB(t *testing.T) {
	// Mid-grey in sRGB is about 21.6% linear light.
	if got := Decode(128, true); math.Abs(float64(got)-0.2159) > 1e-3 {
		t.Errorf("Decode(128, srgb) = %v, want ~0.2159", got)
	}
	if Decode(255, true) != 1 {
		t.Errorf("Decode(255, srgb) = %v, want 1", Decode(255, true))
	}
}

func TestEncodeClamps(t *testing.T) {
	tests := []struct {
		v    float32
		srgb bool
		want uint8
	}{
		{-1, false, 0},
		{2, false, 255},
		{2, true, 255},
		{0.5, false, 128},
		{0.5, true, 188},
	}
	for _, tt := range tests {
		if got := Encode(tt.v, tt.srgb); got != tt.want {
			t.Errorf("Encode(%v, %v) = %d, want %d", tt.v, tt.srgb, got, tt.want)
		}
	}
}

func TestSRGBRoundTrip(t *testing.T) {
	for i := 0; i < 256; i++ {
		v := uint8(i)
		if got := Encode(Decode(v, true), true); got != v {
			t.Errorf("round trip %d = %d", v, got)
		}
	}
}

func TestPackAlphaStaysLinear(t *testing.T) {
	tx := Unpack(128, 128, 128, 128, true)
	if math.Abs(float64(tx.A)-128.0/255) > 1e-6 {
		t.Errorf("alpha = %v, want linear 128/255", tx.A)
	}
	_, _, _, a := Pack(tx, true)
	if a != 128 {
		t.Errorf("packed alpha = %d, want 128", a)
	}
}

func TestScale(t *testing.T) {
	got := Texel{R: 0.5, G: 0.25, B: 1, A: 0.5}.Scale(2)
	want := Texel{R: 1, G: 0.5, B: 2, A: 0.5}
	if got != want {
		t.Errorf("Scale = %+v, want %+v", got, want)
	}
}
