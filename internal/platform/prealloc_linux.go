//go:build linux

package platform

import (
	"os"

	"golang.org/x/sys/unix"
)

// preallocate reserves size bytes for the destination. fallocate is advisory
// and unsupported on some filesystems, so failures are ignored.
//
//nolint:gosec // G115: fd values are small non-negative integers
func preallocate(fd *os.File, size int64) {
	if size <= 0 {
		return
	}
	//nolint:errcheck // advisory
	unix.Fallocate(int(fd.Fd()), 0, 0, size)
}
