package preflight

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"packrat/internal/fileutil"
)

// Verdict is the outcome of a disk-space comparison.
type Verdict struct {
	Sufficient bool
	// Shortfall is the number of missing bytes when Sufficient is false.
	Shortfall uint64
}

// CheckSpace compares required against available bytes. Pure, no I/O.
func CheckSpace(required, available uint64) Verdict {
	if available >= required {
		return Verdict{Sufficient: true}
	}
	return Verdict{Shortfall: required - available}
}

// EstimateRequiredSpace sums the sizes of the files a copy of dir would
// write. Unreadable entries are skipped, so the value is a best-effort
// estimate rather than an exact accounting.
func EstimateRequiredSpace(dir string) (uint64, error) {
	return fileutil.DirSize(dir)
}

// AvailableSpace reports the free bytes on the volume holding path. When the
// path does not exist yet, the nearest existing parent is consulted so a
// not-yet-created destination can still be checked.
func AvailableSpace(path string) (uint64, error) {
	probe := path
	for {
		if _, err := os.Stat(probe); err == nil {
			break
		}
		parent := filepath.Dir(probe)
		if parent == probe {
			return 0, fmt.Errorf("no existing parent for %q", path)
		}
		probe = parent
	}

	var stat unix.Statfs_t
	if err := unix.Statfs(probe, &stat); err != nil {
		return 0, fmt.Errorf("statfs %q: %w", probe, err)
	}
	return stat.Bavail * uint64(stat.Bsize), nil
}

// WithMargin inflates required by marginPercent to leave headroom on the
// destination volume.
func WithMargin(required uint64, marginPercent int) uint64 {
	if marginPercent <= 0 {
		return required
	}
	return required + required*uint64(marginPercent)/100
}
