// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package host

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/gogpu/sharedtex"
)

// Data is a settings object as hosts store it. Getters fall back to the
// defaults layer and then to the zero value.
type Data interface {
	String(key string) string
	Int(key string) int64
	SetString(key, value string)
	SetInt(key string, value int64)
	SetDefaultString(key, value string)
	SetDefaultInt(key string, value int64)
}

// MapData is an in-memory Data. It is safe for concurrent use. The zero
// value is ready to use.
//
// Only user values are serialized; defaults belong to the source type and
// are filled again on load.
type MapData struct {
	mu       sync.RWMutex
	values   map[string]any
	defaults map[string]any
}

// NewMapData returns an empty MapData.
func NewMapData() *MapData {
	return &MapData{
		values:   make(map[string]any),
		defaults: make(map[string]any),
	}
}

func (d *MapData) lookup(key string) (any, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if v, ok := d.values[key]; ok {
		return v, true
	}
	v, ok := d.defaults[key]
	return v, ok
}

// String returns the string stored under key.
func (d *MapData) String(key string) string {
	v, _ := d.lookup(key)
	s, _ := v.(string)
	return s
}

// Int returns the integer stored under key.
func (d *MapData) Int(key string) int64 {
	v, _ := d.lookup(key)
	n, _ := v.(int64)
	return n
}

// SetString stores a user value.
func (d *MapData) SetString(key, value string) {
	d.set(false, key, value)
}

// SetInt stores a user value.
func (d *MapData) SetInt(key string, value int64) {
	d.set(false, key, value)
}

// SetDefaultString stores a default.
func (d *MapData) SetDefaultString(key, value string) {
	d.set(true, key, value)
}

// SetDefaultInt stores a default.
func (d *MapData) SetDefaultInt(key string, value int64) {
	d.set(true, key, value)
}

// HasUserValue reports whether key has a user value.
func (d *MapData) HasUserValue(key string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.values[key]
	return ok
}

// Keys returns the keys with a user value, sorted.
func (d *MapData) Keys() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return slices.Sorted(maps.Keys(d.values))
}

func (d *MapData) set(isDefault bool, key string, v any) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.values == nil {
		d.values = make(map[string]any)
		d.defaults = make(map[string]any)
	}
	if isDefault {
		d.defaults[key] = v
		return
	}
	d.values[key] = v
}

// MarshalJSON encodes the user values as a JSON object.
func (d *MapData) MarshalJSON() ([]byte, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return json.Marshal(d.values)
}

// UnmarshalJSON replaces the user values with a JSON object of strings and
// integers. Defaults are kept.
func (d *MapData) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("host: decode settings: %w", err)
	}

	values := make(map[string]any, len(raw))
	for k, v := range raw {
		switch v := v.(type) {
		case string:
			values[k] = v
		case json.Number:
			n, err := v.Int64()
			if err != nil {
				return fmt.Errorf("host: setting %q: %w", k, err)
			}
			values[k] = n
		default:
			return fmt.Errorf("host: setting %q has unsupported type %T", k, v)
		}
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.defaults == nil {
		d.defaults = make(map[string]any)
	}
	d.values = values
	return nil
}

// SettingsFromData reads source settings from d. Values are clamped.
func SettingsFromData(d Data) sharedtex.Settings {
	return sharedtex.Settings{
		Name:       d.String(sharedtex.KeyName),
		Brightness: int(d.Int(sharedtex.KeyBrightness)),
		Skip:       int(d.Int(sharedtex.KeySkip)),
		Width:      int(d.Int(sharedtex.KeyWidth)),
		Height:     int(d.Int(sharedtex.KeyHeight)),
	}.Clamped()
}

// SetDefaults writes the source defaults into d.
func SetDefaults(d Data) {
	def := sharedtex.DefaultSettings()
	d.SetDefaultString(sharedtex.KeyName, def.Name)
	d.SetDefaultInt(sharedtex.KeyBrightness, int64(def.Brightness))
	d.SetDefaultInt(sharedtex.KeySkip, int64(def.Skip))
	d.SetDefaultInt(sharedtex.KeyWidth, int64(def.Width))
	d.SetDefaultInt(sharedtex.KeyHeight, int64(def.Height))
}

var _ Data = (*MapData)(nil)
