//go:build unix

package shm

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/sys/unix"
)

// Dir is the directory holding segment files.
var Dir = defaultDir()

func defaultDir() string {
	if runtime.GOOS == "linux" {
		return "/dev/shm"
	}
	return os.TempDir()
}

// Path returns the file backing the named segment.
func Path(name string) string {
	return filepath.Join(Dir, name)
}

func open(name string, size int, create bool) (*Mapping, error) {
	if size <= 0 {
		return nil, fmt.Errorf("shm: invalid size %d", size)
	}
	path := Path(name)

	flags := unix.O_RDWR | unix.O_CLOEXEC
	if create {
		flags |= unix.O_CREAT
	}
	fd, err := unix.Open(path, flags, 0o600)
	if err != nil {
		if errors.Is(err, unix.ENOENT) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("shm: open %s: %w", path, err)
	}
	// The mapping keeps the pages alive; the descriptor is not needed after mmap.
	defer unix.Close(fd)

	var st unix.Stat_t
	if err := unix.Fstat(fd, &st); err != nil {
		return nil, fmt.Errorf("shm: stat %s: %w", path, err)
	}
	if st.Size < int64(size) {
		if !create {
			return nil, fmt.Errorf("%w: %s has %d bytes, need %d", ErrTooSmall, path, st.Size, size)
		}
		if err := unix.Ftruncate(fd, int64(size)); err != nil {
			return nil, fmt.Errorf("shm: truncate %s: %w", path, err)
		}
	}

	data, err := unix.Mmap(fd, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("shm: mmap %s: %w", path, err)
	}
	return &Mapping{
		name:  name,
		data:  data,
		unmap: func() error { return unix.Munmap(data) },
	}, nil
}

func remove(name string) error {
	err := unix.Unlink(Path(name))
	if err != nil && !errors.Is(err, unix.ENOENT) {
		return fmt.Errorf("shm: remove %s: %w", name, err)
	}
	return nil
}
