package platform

import (
	"sync"

	"golang.org/x/sys/unix"
)

const bufferSize = 1 << 20 // 1 MiB

var bufPool = sync.Pool{
	New: func() any {
		b := make([]byte, bufferSize)
		return &b
	},
}

// copyReadWrite copies with pread/pwrite through a pooled buffer.
//
//nolint:gosec // G115: fd values are small non-negative integers
func copyReadWrite(req Request) (Result, error) {
	bufp := bufPool.Get().(*[]byte) //nolint:errcheck,forcetypeassert // pool only holds *[]byte
	defer bufPool.Put(bufp)
	buf := *bufp

	srcFd := int(req.Src.Fd())
	dstFd := int(req.Dst.Fd())
	res := Result{Method: ReadWrite}

	for res.Bytes < req.Size {
		toRead := min(req.Size-res.Bytes, bufferSize)
		n, err := unix.Pread(srcFd, buf[:toRead], res.Bytes)
		if err != nil {
			return res, err
		}
		if n == 0 {
			break
		}

		written := 0
		for written < n {
			w, err := unix.Pwrite(dstFd, buf[written:n], res.Bytes+int64(written))
			if err != nil {
				res.Bytes += int64(written)
				return res, err
			}
			written += w
		}
		res.Bytes += int64(n)
	}

	return res, nil
}

// CopyReadWrite forces the portable strategy. Exported for tests in other
// packages.
func CopyReadWrite(req Request) (Result, error) {
	return copyReadWrite(req)
}
