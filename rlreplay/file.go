package rlreplay

import (
	"fmt"
	"os"

	"github.com/tysonmote/gommap"
)

// ReadFile memory-maps the replay at path read-only and decodes it. The
// returned Replay owns copies of everything it references, so the mapping is
// released before ReadFile returns.
func ReadFile(path string, opts Options) (r *Replay, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open replay: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat replay: %w", err)
	}
	if info.Size() == 0 {
		// Zero-length mappings are rejected by mmap; an empty input fails the
		// same way in Parse.
		return ParseWithOptions(nil, opts)
	}

	m, err := gommap.Map(f.Fd(), gommap.PROT_READ, gommap.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("map replay: %w", err)
	}
	defer func() {
		if uerr := m.UnsafeUnmap(); uerr != nil && err == nil {
			r, err = nil, fmt.Errorf("unmap replay: %w", uerr)
		}
	}()

	return ParseWithOptions(m, opts)
}
