//go:build !unix && !windows

package shm

func open(string, int, bool) (*Mapping, error) {
	return nil, ErrUnsupported
}

func remove(string) error {
	return ErrUnsupported
}
