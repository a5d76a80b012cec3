// Package sharedtex exposes textures that a game publishes in shared memory
// as video sources of a host media application.
//
// # Overview
//
// The game (the producer) keeps a fixed-size registry of up to 63 named
// texture slots in a named shared memory segment. Each slot carries a
// cross-process GPU texture handle, its size, flags and a NameKey stamp that
// changes whenever the slot is reassigned. Consumers read the registry,
// negotiate per-slot population requests and sizes by writing back into it,
// and keep the producer's heartbeat alive.
//
// # Quick Start
//
//	import "github.com/gogpu/sharedtex"
//
//	src, err := sharedtex.NewSource(gfx, sharedtex.DefaultSettings())
//	if err != nil {
//		return err
//	}
//	defer src.Close()
//
//	// Every host frame:
//	src.Tick()
//	src.Render() // inside the host's graphics context
//
// # Architecture
//
//   - Region maps the segment lazily and tolerates the producer being absent
//   - Binding resolves a name to a slot with an (index, NameKey) cache
//   - Throttle spaces population requests by the configured skip count
//   - Source ties them to a Graphics implementation
//   - BuildProperties describes the editable surface shown by hosts
//
// The registry layout lives in the registry package, the sprite effect in
// effect, host glue in host and a CPU Graphics in backend.
//
// # Failure Model
//
// Nothing in the per-frame path returns an error. An absent or crashed
// producer, a missing name or a stale handle all make resolution return nil
// and the frame is skipped. GPU failures are logged through Logger.
package sharedtex

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
