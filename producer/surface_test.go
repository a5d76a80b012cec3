// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build unix

package producer

import (
	"errors"
	"testing"

	"github.com/gogpu/sharedtex/internal/pixels"
	"github.com/gogpu/sharedtex/internal/shm"
)

func TestSurfacesAllocFree(t *testing.T) {
	old := shm.Dir
	shm.Dir = t.TempDir()
	t.Cleanup(func() { shm.Dir = old })

	a := NewSurfaces(0)
	s1, err := a.Alloc(8, 4)
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	s2, err := a.Alloc(2, 2)
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	if s1.Handle() != 1 || s2.Handle() != 2 {
		t.Errorf("handles = %d, %d; want 1, 2", s1.Handle(), s2.Handle())
	}
	if s1.Width() != 8 || s1.Height() != 4 {
		t.Errorf("size = %dx%d, want 8x4", s1.Width(), s1.Height())
	}

	if err := a.Free(s1); err != nil {
		t.Fatalf("Free: %v", err)
	}
	if _, err := pixels.Open(1); !errors.Is(err, shm.ErrNotFound) {
		t.Errorf("Open freed handle: err = %v, want ErrNotFound", err)
	}
	if err := a.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := pixels.Open(2); !errors.Is(err, shm.ErrNotFound) {
		t.Errorf("Open after Close: err = %v, want ErrNotFound", err)
	}
}
