package sharedtex

// Settings keys as stored by the host.
const (
	KeyName       = "name"
	KeyBrightness = "brightness"
	KeySkip       = "skip"
	KeyWidth      = "width"
	KeyHeight     = "height"
)

// Defaults and ranges of the source settings.
const (
	DefaultName       = "Scene"
	DefaultBrightness = 100
	DefaultSkip       = 0
	DefaultSize       = 640

	MinBrightness = 0
	MaxBrightness = 300
	MinSkip       = 0
	MaxSkip       = 12
	MinSize       = 32
	MaxSize       = 2048
)

// Settings is the user configuration of a Source.
type Settings struct {
	// Name selects the texture by its published name.
	Name string

	// Brightness is a percentage applied to sampled color.
	Brightness int

	// Skip is the number of frames skipped between texture populations.
	Skip int

	// Width and Height are requested for resizable textures only.
	Width  int
	Height int
}

// DefaultSettings returns the settings of a newly created source.
func DefaultSettings() Settings {
	return Settings{
		Name:       DefaultName,
		Brightness: DefaultBrightness,
		Skip:       DefaultSkip,
		Width:      DefaultSize,
		Height:     DefaultSize,
	}
}

// Clamped returns s with every numeric field forced into its range.
func (s Settings) Clamped() Settings {
	s.Brightness = clampInt(s.Brightness, MinBrightness, MaxBrightness)
	s.Skip = clampInt(s.Skip, MinSkip, MaxSkip)
	s.Width = clampInt(s.Width, MinSize, MaxSize)
	s.Height = clampInt(s.Height, MinSize, MaxSize)
	return s
}

// Multiplier returns Brightness as a color scale factor.
func (s Settings) Multiplier() float32 {
	return float32(float64(s.Brightness) / 100)
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
