// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package host

import (
	"errors"
	"fmt"
	"slices"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/sharedtex"
)

// Module metadata reported to hosts.
const (
	ModuleName        = "Assetto Corsa integration"
	ModuleDescription = "Windows game/Assetto Corsa integration"
	ModuleAuthor      = "x4fab"
)

var (
	// ErrInvalidSource is returned when registering an incomplete SourceInfo.
	ErrInvalidSource = errors.New("host: invalid source info")

	// ErrDuplicateSource is returned when a source id is registered twice.
	ErrDuplicateSource = errors.New("host: source already registered")

	// ErrUnknownSource is returned when creating an unregistered source.
	ErrUnknownSource = errors.New("host: unknown source")
)

// Module is a loadable plugin module: metadata plus the source types it
// registers.
type Module struct {
	Name        string
	Description string
	Author      string

	sources *gpucontext.Registry[*SourceInfo]
	infos   []*SourceInfo
	opts    []CaptureOption
}

// NewModule returns the module with its metadata. Options apply to every
// capture source it creates.
func NewModule(opts ...CaptureOption) *Module {
	return &Module{
		Name:        ModuleName,
		Description: ModuleDescription,
		Author:      ModuleAuthor,
		sources:     gpucontext.NewRegistry[*SourceInfo](gpucontext.WithPriority(CaptureID)),
		opts:        opts,
	}
}

// Load registers the module's source types.
func (m *Module) Load() error {
	if err := m.RegisterSource(CaptureInfo(m.opts...)); err != nil {
		return err
	}
	sharedtex.Logger().Info("host: module loaded", "module", m.Name, "sources", m.sources.Count())
	return nil
}

// RegisterSource adds a source type.
func (m *Module) RegisterSource(info *SourceInfo) error {
	if err := info.validate(); err != nil {
		return err
	}
	if m.sources.Has(info.ID) {
		return fmt.Errorf("%w: %s", ErrDuplicateSource, info.ID)
	}
	m.sources.Register(info.ID, func() *SourceInfo { return info })
	m.infos = append(m.infos, info)
	return nil
}

// Source returns the registered source type with id.
func (m *Module) Source(id string) (*SourceInfo, bool) {
	info := m.sources.Get(id)
	return info, info != nil
}

// Sources returns the registered source ids, sorted.
func (m *Module) Sources() []string {
	ids := m.sources.Available()
	slices.Sort(ids)
	return ids
}

// CreateSource fills the defaults of the source type into settings and
// creates an instance.
func (m *Module) CreateSource(id string, settings Data, gfx sharedtex.Graphics) (Instance, error) {
	info, ok := m.Source(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSource, id)
	}
	if info.Defaults != nil {
		info.Defaults(settings)
	}
	return info.Create(settings, gfx)
}

// Unload destroys nothing; instances are owned by the host. It removes the
// registered types.
func (m *Module) Unload() {
	for _, info := range m.infos {
		m.sources.Unregister(info.ID)
	}
	m.infos = nil
}
