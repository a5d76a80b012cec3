// Package backend provides Graphics implementations for sharedtex sources
// outside a real host.
//
// Hosts normally hand a Source their own GPU API. Tools and tests use a
// Backend instead: a sharedtex.Graphics that renders into a framebuffer the
// caller can read back.
//
// # Backend Registration
//
// Backends are registered via init() functions and selected at runtime.
// The software backend is automatically registered on import:
//
//	import _ "github.com/gogpu/sharedtex/backend"
//
// # Backend Selection
//
// Use Default to get the best available backend, or New to request one by
// name:
//
//	b, err := backend.Default(1280, 720)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer b.Close()
//
//	src, err := sharedtex.NewSource(b, sharedtex.DefaultSettings())
//	...
//	b.Enter()
//	src.Render()
//	b.Leave()
//	img := b.Frame()
//
// # Available Backends
//
//   - "software": CPU compositing with golang.org/x/image/draw scaling.
//     Shared handles name pixel segments created by the producer package.
package backend
