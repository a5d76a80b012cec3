package sharedtex

import "github.com/gogpu/sharedtex/registry"

// Binding resolves a configured texture name to a descriptor slot.
//
// The resolved slot is cached as (index, NameKey). While the producer keeps
// the slot's NameKey unchanged, Resolve is a single comparison. When the
// producer reassigns the slot, the key no longer matches and Resolve falls
// back to a linear scan by name.
//
// Binding is not safe for concurrent use; each Source owns one.
type Binding struct {
	name registry.Name

	// lastNameKey is 0 until the first successful scan. Live slots never
	// carry key 0, so 0 can never produce a false fast-path hit.
	lastNameKey uint32
	lastIndex   int

	width, height         uint16
	userWidth, userHeight uint16

	stats BindingStats
}

// BindingStats counts how resolutions were answered.
type BindingStats struct {
	// FastPath counts resolutions served from the cached slot.
	FastPath uint64

	// Scans counts full name scans, successful or not.
	Scans uint64

	// Misses counts resolutions that returned nil for any reason.
	Misses uint64
}

// NewBinding returns a Binding for name with no cached slot.
func NewBinding(name string) *Binding {
	return &Binding{name: registry.EncodeName(name)}
}

// Name returns the configured texture name.
func (b *Binding) Name() string {
	return b.name.String()
}

// SetName changes the configured name. The cached slot is dropped only when
// the name actually changes, so re-applying identical settings keeps the
// fast path. It reports whether the name changed.
func (b *Binding) SetName(name string) bool {
	n := registry.EncodeName(name)
	if n == b.name {
		return false
	}
	b.name = n
	b.lastNameKey = 0
	return true
}

// SetUserSize sets the size requested for resizable textures.
func (b *Binding) SetUserSize(width, height uint16) {
	b.userWidth, b.userHeight = width, height
}

// UserSize returns the size requested for resizable textures.
func (b *Binding) UserSize() (width, height uint16) {
	return b.userWidth, b.userHeight
}

// Size returns the geometry of the last resolved descriptor.
func (b *Binding) Size() (width, height uint16) {
	return b.width, b.height
}

// Stats returns resolution counters.
func (b *Binding) Stats() BindingStats {
	return b.stats
}

// Resolve returns the descriptor currently published under the configured
// name, or nil when the region is unmapped, the producer has crashed, or no
// live slot carries the name.
//
// Every successful access refreshes the producer heartbeat. Every returned
// descriptor has its geometry synchronized: a resizable slot whose size
// differs from the user size gets the user size written back together with
// FlagOverrideSize.
//
// The returned pointer aliases shared memory and is only meaningful until
// the next frame.
func (b *Binding) Resolve(r *Region) *registry.Descriptor {
	snap := r.Access()
	if snap == nil || snap.ItemsCount < 0 {
		b.stats.Misses++
		return nil
	}
	snap.Heartbeat()

	if b.lastNameKey != 0 && b.lastIndex < snap.Count() {
		if d := &snap.Items[b.lastIndex]; d.NameKey == b.lastNameKey {
			b.stats.FastPath++
			b.syncGeometry(d)
			return d
		}
	}

	b.stats.Scans++
	live := snap.Live()
	for i := range live {
		d := &live[i]
		if !d.NameIs(&b.name) {
			continue
		}
		b.lastNameKey = d.NameKey
		b.lastIndex = i
		Logger().Debug("sharedtex: slot resolved", "name", b.name.String(), "index", i, "key", d.NameKey)
		b.syncGeometry(d)
		return d
	}

	b.stats.Misses++
	return nil
}

func (b *Binding) syncGeometry(d *registry.Descriptor) {
	if d.Flags.Has(registry.FlagUserSize) && (d.Width != b.userWidth || d.Height != b.userHeight) {
		d.Width = b.userWidth
		d.Height = b.userHeight
		d.Flags |= registry.FlagOverrideSize
	}
	b.width = d.Width
	b.height = d.Height
}
