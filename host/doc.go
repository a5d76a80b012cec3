// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package host adapts sharedtex sources to a plugin-style host.
//
// A host loads a Module, which registers source types. Each SourceInfo
// names a type, its output capabilities and icon, fills default settings
// and creates instances. The host then drives every Instance with Update,
// Tick and Render and queries its size and properties.
//
//	m := host.NewModule()
//	if err := m.Load(); err != nil {
//		log.Fatal(err)
//	}
//	settings := host.NewMapData()
//	inst, err := m.CreateSource(host.CaptureID, settings, gfx)
//
// Settings travel as Data, a key/value object with a defaults layer.
// MapData is the in-memory implementation and (de)serializes as JSON.
package host
