//go:build windows

package shm

import (
	"errors"
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

const mapAccess = windows.FILE_MAP_READ | windows.FILE_MAP_WRITE

var (
	modkernel32          = windows.NewLazySystemDLL("kernel32.dll")
	procOpenFileMappingW = modkernel32.NewProc("OpenFileMappingW")
)

// objectName returns the session-local kernel object name.
func objectName(name string) string {
	return `Local\` + name
}

func openFileMapping(access uint32, name *uint16) (windows.Handle, error) {
	r1, _, e1 := procOpenFileMappingW.Call(uintptr(access), 0, uintptr(unsafe.Pointer(name)))
	if r1 == 0 {
		return 0, e1
	}
	return windows.Handle(r1), nil
}

func open(name string, size int, create bool) (*Mapping, error) {
	if size <= 0 {
		return nil, fmt.Errorf("shm: invalid size %d", size)
	}
	wname, err := windows.UTF16PtrFromString(objectName(name))
	if err != nil {
		return nil, fmt.Errorf("shm: name %q: %w", name, err)
	}

	var h windows.Handle
	if create {
		h, err = windows.CreateFileMapping(windows.InvalidHandle, nil, windows.PAGE_READWRITE, 0, uint32(size), wname)
	} else {
		h, err = openFileMapping(mapAccess, wname)
	}
	if err != nil {
		if errors.Is(err, windows.ERROR_FILE_NOT_FOUND) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, objectName(name))
		}
		return nil, fmt.Errorf("shm: open %s: %w", objectName(name), err)
	}

	addr, err := windows.MapViewOfFile(h, mapAccess, 0, 0, uintptr(size))
	if err != nil {
		_ = windows.CloseHandle(h)
		if errors.Is(err, windows.ERROR_ACCESS_DENIED) || errors.Is(err, windows.ERROR_INVALID_PARAMETER) {
			return nil, fmt.Errorf("%w: %s: %v", ErrTooSmall, objectName(name), err)
		}
		return nil, fmt.Errorf("shm: map %s: %w", objectName(name), err)
	}

	data := unsafe.Slice((*byte)(unsafe.Pointer(addr)), size)
	return &Mapping{
		name: name,
		data: data,
		unmap: func() error {
			err := windows.UnmapViewOfFile(addr)
			if cerr := windows.CloseHandle(h); err == nil {
				err = cerr
			}
			return err
		},
	}, nil
}

// remove is a no-op: a Windows file mapping disappears with its last handle.
func remove(string) error {
	return nil
}
