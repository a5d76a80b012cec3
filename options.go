package sharedtex

import "github.com/google/uuid"

// SourceOption configures a Source during creation.
//
// Example:
//
//	// Game segment, random instance id
//	src, err := sharedtex.NewSource(gfx, settings)
//
//	// In-process registry for tests
//	src, err := sharedtex.NewSource(gfx, settings, sharedtex.WithRegion(region))
type SourceOption func(*sourceOptions)

type sourceOptions struct {
	region *Region
	id     uuid.UUID
}

func defaultSourceOptions() sourceOptions {
	return sourceOptions{
		region: nil, // DefaultRegion() if nil
		id:     uuid.Nil,
	}
}

// WithRegion makes the Source read from r instead of DefaultRegion.
func WithRegion(r *Region) SourceOption {
	return func(o *sourceOptions) {
		o.region = r
	}
}

// WithID sets the instance id used in log records. Hosts pass their own
// source id; by default a random one is generated.
func WithID(id uuid.UUID) SourceOption {
	return func(o *sourceOptions) {
		o.id = id
	}
}
