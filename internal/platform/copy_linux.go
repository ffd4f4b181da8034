//go:build linux

package platform

import (
	"errors"

	"golang.org/x/sys/unix"
)

// CopyFile moves req.Size bytes from req.Src to req.Dst using the cheapest
// primitive the kernel and filesystems accept. It falls through to the next
// strategy only when the previous one wrote nothing and failed with an
// unsupported/cross-device error.
func CopyFile(req Request) (Result, error) {
	preallocate(req.Dst, req.Size)

	res, err := copyFileRange(req)
	if err == nil || !isFallbackErr(err) || res.Bytes > 0 {
		return res, err
	}

	res, err = copySendfile(req)
	if err == nil || !isFallbackErr(err) || res.Bytes > 0 {
		return res, err
	}

	return copyReadWrite(req)
}

//nolint:gosec // G115: fd values are small non-negative integers
func copyFileRange(req Request) (Result, error) {
	var roff, woff int64
	res := Result{Method: CopyFileRange}
	for res.Bytes < req.Size {
		n, err := unix.CopyFileRange(
			int(req.Src.Fd()), &roff, int(req.Dst.Fd()), &woff, chunkLen(req.Size-res.Bytes), 0,
		)
		if err != nil {
			return res, err
		}
		if n == 0 {
			break
		}
		res.Bytes += int64(n)
	}
	return res, nil
}

//nolint:gosec // G115: fd values are small non-negative integers
func copySendfile(req Request) (Result, error) {
	var off int64
	res := Result{Method: Sendfile}
	for res.Bytes < req.Size {
		n, err := unix.Sendfile(int(req.Dst.Fd()), int(req.Src.Fd()), &off, chunkLen(req.Size-res.Bytes))
		if err != nil {
			return res, err
		}
		if n == 0 {
			break
		}
		res.Bytes += int64(n)
	}
	return res, nil
}

func isFallbackErr(err error) bool {
	return errors.Is(err, unix.ENOSYS) ||
		errors.Is(err, unix.EXDEV) ||
		errors.Is(err, unix.EINVAL) ||
		errors.Is(err, unix.ENOTSUP) ||
		errors.Is(err, unix.EOPNOTSUPP)
}

// chunkLen caps a single syscall at 1 GiB so the int conversion stays safe
// on 32-bit platforms.
func chunkLen(remaining int64) int {
	const maxChunk = 1 << 30
	if remaining > maxChunk {
		return maxChunk
	}
	return int(remaining)
}
