package engine

import "fmt"

// ScanError reports a directory that could not be listed. The directory's
// subtree contributes no files to the scan.
type ScanError struct {
	Dir string
	Err error
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("scan %s: %v", e.Dir, e.Err)
}

func (e *ScanError) Unwrap() error { return e.Err }

// CopyError reports a file that could not be copied. Op names the step that
// failed ("mkdir", "open", "copy", "rename", ...).
type CopyError struct {
	Src string
	Dst string
	Op  string
	Err error
}

func (e *CopyError) Error() string {
	return fmt.Sprintf("copy %s -> %s: %s: %v", e.Src, e.Dst, e.Op, e.Err)
}

func (e *CopyError) Unwrap() error { return e.Err }
