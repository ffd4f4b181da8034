//go:build !linux

package platform

// CopyFile uses pread/pwrite on platforms without an in-kernel copy path.
func CopyFile(req Request) (Result, error) {
	preallocate(req.Dst, req.Size)
	return copyReadWrite(req)
}
