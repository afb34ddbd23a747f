package iox

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// OpenFileMapper maps path read-only. The file descriptor is closed right
// away; the mapping stays valid until Close.
func OpenFileMapper(path string) (*FileMapper, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("iox: %w", err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("iox: %w", err)
	}
	size := st.Size()
	if size == 0 {
		return &FileMapper{}, nil
	}
	if size != int64(int(size)) {
		return nil, fmt.Errorf("iox: file too large to map: %s", path)
	}

	region, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("iox: mmap %s failed: %w", path, err)
	}
	return &FileMapper{Mapper: Mapper{data: region}, region: region}, nil
}

func munmap(b []byte) error {
	return unix.Munmap(b)
}
