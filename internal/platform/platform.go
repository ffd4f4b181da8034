// Package platform holds the OS-specific byte-moving primitives used to copy
// a single file's contents.
package platform

import "os"

// Method identifies which syscall strategy moved the bytes.
type Method int

const (
	ReadWrite     Method = iota
	CopyFileRange        // Linux copy_file_range(2)
	Sendfile             // Linux sendfile(2)
)

func (m Method) String() string {
	switch m {
	case ReadWrite:
		return "read_write"
	case CopyFileRange:
		return "copy_file_range"
	case Sendfile:
		return "sendfile"
	default:
		return "unknown"
	}
}

// Request describes a whole-file copy between two open files. Dst must be
// empty and positioned at offset zero.
type Request struct {
	Src  *os.File
	Dst  *os.File
	Size int64
}

// Result reports how many bytes were written and how.
type Result struct {
	Bytes  int64
	Method Method
}
