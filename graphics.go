package sharedtex

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/sharedtex/effect"
)

// Graphics is the host's GPU API as seen by a Source. Host adapters
// implement it; the backend package provides a CPU implementation.
//
// Render is called by the host with the graphics context already entered.
// Everything else that touches GPU resources (Close) brackets its work with
// Enter and Leave.
type Graphics interface {
	// Enter acquires the graphics context.
	Enter()

	// Leave releases the graphics context.
	Leave()

	// OpenSharedTexture opens a local texture view of a cross-process
	// texture handle published by the producer.
	OpenSharedTexture(handle uint32) (gpucontext.Texture, error)

	// DestroyTexture releases a texture returned by OpenSharedTexture.
	DestroyTexture(tex gpucontext.Texture)

	// FramebufferSRGB reports whether framebuffer sRGB conversion is on.
	FramebufferSRGB() bool

	// EnableFramebufferSRGB toggles framebuffer sRGB conversion.
	EnableFramebufferSRGB(enable bool)

	// EnableBlending toggles blending for subsequent draws.
	EnableBlending(enable bool)

	// DrawSprite draws tex over the whole target with the given effect
	// variant, scaling sampled color by multiplier.
	DrawSprite(tex gpucontext.Texture, v effect.Variant, multiplier float32) error
}
