package sharedtex

import (
	"fmt"

	"github.com/gogpu/sharedtex/registry"
)

// Property keys that are not settings.
const (
	KeyWarning     = "@warning"
	KeyDescription = "@description"
)

// WarningKind tells why no texture list can be offered.
type WarningKind uint8

const (
	// WarningNone means the registry is live and has entries.
	WarningNone WarningKind = iota

	// WarningDisconnected means the segment cannot be opened.
	WarningDisconnected

	// WarningCrashed means the producer marked the registry as gone.
	WarningCrashed

	// WarningNoTextures means the producer is alive but publishes nothing.
	WarningNoTextures
)

var warningMessages = [...]string{
	WarningNone:         "",
	WarningDisconnected: "Failed to connect to Assetto Corsa. Make sure the game is running and OBS integration in Small Tweaks is enabled.",
	WarningCrashed:      "Assetto Corsa has stopped (or its Small Tweaks Lua module collapsed). Consider restarting the session.",
	WarningNoTextures:   "No available textures. Something might have been broken.",
}

// Message returns the user-facing text for the warning.
func (k WarningKind) Message() string {
	if int(k) < len(warningMessages) {
		return warningMessages[k]
	}
	return ""
}

// String returns the warning kind name.
func (k WarningKind) String() string {
	switch k {
	case WarningNone:
		return "none"
	case WarningDisconnected:
		return "disconnected"
	case WarningCrashed:
		return "crashed"
	case WarningNoTextures:
		return "no-textures"
	default:
		return fmt.Sprintf("WarningKind(%d)", uint8(k))
	}
}

// Choice is one entry of a list property.
type Choice struct {
	Label string
	Value string
}

// ListProperty is a drop-down of string values.
type ListProperty struct {
	Key     string
	Label   string
	Choices []Choice
}

// IntProperty is an integer field or slider.
type IntProperty struct {
	Key             string
	Label           string
	Suffix          string
	LongDescription string
	Min, Max, Step  int
	Slider          bool
}

// Remaining are the properties that depend on the selected texture. Hosts
// rebuild them whenever the name changes.
type Remaining struct {
	// Description is the producer's text for the selected texture; empty
	// when there is none.
	Description string

	// Width and Height are present only for resizable textures.
	Width, Height *IntProperty

	Brightness IntProperty
	Skip       IntProperty
}

// Keys returns the property keys in display order.
func (r *Remaining) Keys() []string {
	var keys []string
	if r.Description != "" {
		keys = append(keys, KeyDescription)
	}
	if r.Width != nil {
		keys = append(keys, r.Width.Key, r.Height.Key)
	}
	return append(keys, r.Brightness.Key, r.Skip.Key)
}

// Properties is the editable surface of a source. Exactly one of Warning or
// Names is set. Remaining is set together with Names.
type Properties struct {
	Warning   WarningKind
	Names     *ListProperty
	Remaining *Remaining
}

// Keys returns the property keys in display order.
func (p *Properties) Keys() []string {
	if p.Warning != WarningNone {
		return []string{KeyWarning}
	}
	return append([]string{p.Names.Key}, p.Remaining.Keys()...)
}

const sharedSizeNote = "Configured size is shared across all instances of the same type."

// BuildProperties describes the properties of src against the current
// state of r. src may be nil, in which case no texture is selected.
//
// Building the remaining properties resolves src's binding, which also
// refreshes the heartbeat and negotiates the texture size.
func BuildProperties(r *Region, src *Source) *Properties {
	snap := r.Access()
	switch {
	case snap == nil:
		return &Properties{Warning: WarningDisconnected}
	case snap.State() == registry.StateCrashed:
		return &Properties{Warning: WarningCrashed}
	case snap.State() == registry.StateEmpty:
		return &Properties{Warning: WarningNoTextures}
	}

	names := &ListProperty{Key: KeyName, Label: "Texture"}
	for i := range snap.Live() {
		d := &snap.Items[i]
		name := d.NameString()
		label := name
		if tag := d.Flags.StatusTag(); tag != "" {
			label = fmt.Sprintf("%s (%s)", name, tag)
		}
		names.Choices = append(names.Choices, Choice{Label: label, Value: name})
	}

	var b *Binding
	if src != nil {
		b = src.binding
	}
	return &Properties{Names: names, Remaining: buildRemaining(r, b)}
}

func buildRemaining(r *Region, b *Binding) *Remaining {
	var found *registry.Descriptor
	if b != nil {
		found = b.Resolve(r)
	}

	rem := &Remaining{
		Brightness: IntProperty{
			Key:             KeyBrightness,
			Label:           "Brightness",
			Suffix:          "%",
			LongDescription: "Simple LDR brightness multiplier",
			Min:             MinBrightness,
			Max:             MaxBrightness,
			Step:            1,
			Slider:          true,
		},
		Skip: IntProperty{
			Key:             KeySkip,
			Label:           "Skip frames",
			Suffix:          " frame(s)",
			LongDescription: "Skipping a frame or two might help with performance as well",
			Min:             MinSkip,
			Max:             MaxSkip,
			Step:            1,
			Slider:          true,
		},
	}
	if found == nil {
		return rem
	}

	rem.Description = found.DescriptionString()
	if found.Flags.Has(registry.FlagUserSize) {
		rem.Width = &IntProperty{Key: KeyWidth, Label: "Width", LongDescription: sharedSizeNote, Min: MinSize, Max: MaxSize, Step: 1}
		rem.Height = &IntProperty{Key: KeyHeight, Label: "Height", LongDescription: sharedSizeNote, Min: MinSize, Max: MaxSize, Step: 1}
	}
	return rem
}

// Properties describes the source's properties against its region.
func (s *Source) Properties() *Properties {
	return BuildProperties(s.region, s)
}

// NameModified handles an edit of the texture list: it adopts name and
// returns the rebuilt properties that depend on the selection.
func (s *Source) NameModified(name string) *Remaining {
	if s.binding.SetName(name) {
		s.log.Debug("sharedtex: texture name changed", "name", name)
	}
	return buildRemaining(s.region, s.binding)
}
