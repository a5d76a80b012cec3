// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package blend evaluates fixed-function blend states on the CPU.
//
// A gputypes.BlendState describes how a fragment combines with the target:
// for color and alpha separately, result = op(src*srcFactor, dst*dstFactor).
// Apply computes exactly that, so the software backend composites with the
// same state a GPU pipeline would be created with.
package blend

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/sharedtex/internal/color"
)

// Apply blends src over dst with state.
func Apply(state gputypes.BlendState, src, dst color.Texel) color.Texel {
	return color.Texel{
		R: component(state.Color, src.R, dst.R, src, dst),
		G: component(state.Color, src.G, dst.G, src, dst),
		B: component(state.Color, src.B, dst.B, src, dst),
		A: component(state.Alpha, src.A, dst.A, src, dst),
	}
}

func component(c gputypes.BlendComponent, s, d float32, src, dst color.Texel) float32 {
	sf := factor(c.SrcFactor, s, d, src, dst)
	df := factor(c.DstFactor, s, d, src, dst)
	return operate(c.Operation, s*sf, d*df, s, d)
}

// factor returns the multiplier for one channel. s and d are the channel
// values themselves; src and dst supply alpha.
func factor(f gputypes.BlendFactor, s, d float32, src, dst color.Texel) float32 {
	switch f {
	case gputypes.BlendFactorZero:
		return 0
	case gputypes.BlendFactorOne, gputypes.BlendFactorUndefined:
		return 1
	case gputypes.BlendFactorSrc:
		return s
	case gputypes.BlendFactorOneMinusSrc:
		return 1 - s
	case gputypes.BlendFactorSrcAlpha:
		return src.A
	case gputypes.BlendFactorOneMinusSrcAlpha:
		return 1 - src.A
	case gputypes.BlendFactorDst:
		return d
	case gputypes.BlendFactorOneMinusDst:
		return 1 - d
	case gputypes.BlendFactorDstAlpha:
		return dst.A
	case gputypes.BlendFactorOneMinusDstAlpha:
		return 1 - dst.A
	case gputypes.BlendFactorSrcAlphaSaturated:
		return min(src.A, 1-dst.A)
	default:
		// Constant factors need a blend constant, which the sprite
		// pipeline never sets; WebGPU's default constant is zero.
		if f == gputypes.BlendFactorOneMinusConstant {
			return 1
		}
		return 0
	}
}

// operate combines the weighted terms. Min and max ignore the factors, as
// on GPUs.
func operate(op gputypes.BlendOperation, ws, wd, s, d float32) float32 {
	switch op {
	case gputypes.BlendOperationSubtract:
		return ws - wd
	case gputypes.BlendOperationReverseSubtract:
		return wd - ws
	case gputypes.BlendOperationMin:
		return min(s, d)
	case gputypes.BlendOperationMax:
		return max(s, d)
	default:
		return ws + wd
	}
}
