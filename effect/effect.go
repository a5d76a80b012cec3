// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package effect describes the DrawMultiply sprite effect used to composite a
// shared texture into the host frame.
//
// A texture is drawn one of four ways, chosen from two descriptor flags:
//
//	               linear source        sRGB source
//	opaque         replace, Unorm view  replace, UnormSrgb view
//	transparent    alpha,   Unorm view  alpha,   UnormSrgb view
//
// Opaque variants ignore the texture's alpha channel and overwrite the
// target. The sRGB choice only changes the view format the texture is
// sampled through, so one shader module serves all four variants.
package effect

import (
	_ "embed"
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

//go:embed shaders/draw_multiply.wgsl
var drawMultiplySource string

// Technique is the effect technique name hosts look the effect up by.
const Technique = "DrawMultiply"

// Entry points in the WGSL module.
const (
	VertexEntry         = "vs_sprite"
	FragmentEntry       = "fs_multiply"
	FragmentEntryOpaque = "fs_multiply_opaque"
)

const shaderModuleLabel = "sharedtex-draw-multiply"

// BaseEffect names the host's stock effect a variant derives from.
type BaseEffect uint8

const (
	// BaseOpaque draws without blending and forces alpha to one.
	BaseOpaque BaseEffect = iota

	// BaseDefault draws with standard alpha blending.
	BaseDefault
)

// String returns the effect name.
func (b BaseEffect) String() string {
	switch b {
	case BaseOpaque:
		return "opaque"
	case BaseDefault:
		return "default"
	default:
		return fmt.Sprintf("BaseEffect(%d)", uint8(b))
	}
}

// Variant is one of the four ways to draw a shared texture.
type Variant struct {
	Base        BaseEffect
	Transparent bool
	SRGB        bool

	// Blend is the color target blend state.
	Blend gputypes.BlendState

	// ViewFormat is the format the texture is sampled through. sRGB views
	// decode to linear on sampling.
	ViewFormat gputypes.TextureFormat

	// FragmentEntry is the WGSL fragment entry point.
	FragmentEntry string
}

var variants = [4]Variant{
	{Base: BaseOpaque, Blend: gputypes.BlendStateReplace(), ViewFormat: gputypes.TextureFormatRGBA8Unorm, FragmentEntry: FragmentEntryOpaque},
	{Base: BaseOpaque, SRGB: true, Blend: gputypes.BlendStateReplace(), ViewFormat: gputypes.TextureFormatRGBA8UnormSrgb, FragmentEntry: FragmentEntryOpaque},
	{Base: BaseDefault, Transparent: true, Blend: gputypes.BlendStateAlpha(), ViewFormat: gputypes.TextureFormatRGBA8Unorm, FragmentEntry: FragmentEntry},
	{Base: BaseDefault, Transparent: true, SRGB: true, Blend: gputypes.BlendStateAlpha(), ViewFormat: gputypes.TextureFormatRGBA8UnormSrgb, FragmentEntry: FragmentEntry},
}

// Select returns the variant for a texture's transparency and sRGB flags.
func Select(transparent, srgb bool) Variant {
	i := 0
	if transparent {
		i += 2
	}
	if srgb {
		i++
	}
	return variants[i]
}

// Variants returns all four variants.
func Variants() []Variant {
	out := variants
	return out[:]
}

// Source returns the WGSL source of the effect.
func Source() string {
	return drawMultiplySource
}

// ErrEmptySource is returned when the embedded shader is missing.
var ErrEmptySource = errors.New("effect: shader source is empty")

var compiled = sync.OnceValues(func() ([]uint32, error) {
	if drawMultiplySource == "" {
		return nil, ErrEmptySource
	}
	spirvBytes, err := naga.Compile(drawMultiplySource)
	if err != nil {
		return nil, fmt.Errorf("effect: compile %s: %w", Technique, err)
	}
	return wordsLE(spirvBytes), nil
})

// SPIRV returns the effect compiled to SPIR-V words. Compilation happens once
// per process.
func SPIRV() ([]uint32, error) {
	return compiled()
}

// wordsLE packs little-endian SPIR-V bytes into 32-bit words.
func wordsLE(b []byte) []uint32 {
	words := make([]uint32, len(b)/4)
	for i := range words {
		words[i] = uint32(b[i*4]) |
			uint32(b[i*4+1])<<8 |
			uint32(b[i*4+2])<<16 |
			uint32(b[i*4+3])<<24
	}
	return words
}

// NewShaderModule creates the effect's shader module on a HAL device.
// The caller destroys it with device.DestroyShaderModule.
func NewShaderModule(device hal.Device) (hal.ShaderModule, error) {
	if device == nil {
		return nil, errors.New("effect: nil device")
	}
	code, err := SPIRV()
	if err != nil {
		return nil, err
	}
	module, err := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  shaderModuleLabel,
		Source: hal.ShaderSource{SPIRV: code},
	})
	if err != nil {
		return nil, fmt.Errorf("effect: create shader module: %w", err)
	}
	return module, nil
}
