package platform

import (
	"crypto/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openPair writes data to a source file and returns it opened for reading
// alongside a fresh destination opened for writing.
func openPair(t *testing.T, data []byte) (*os.File, *os.File, string) {
	t.Helper()
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")
	require.NoError(t, os.WriteFile(src, data, 0o644))

	srcFd, err := os.Open(src)
	require.NoError(t, err)
	t.Cleanup(func() { srcFd.Close() })

	dstFd, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	require.NoError(t, err)
	t.Cleanup(func() { dstFd.Close() })

	return srcFd, dstFd, dst
}

func TestCopyFileBasic(t *testing.T) {
	data := []byte("hello, extsort!")
	srcFd, dstFd, dst := openPair(t, data)

	res, err := CopyFile(Request{Src: srcFd, Dst: dstFd, Size: int64(len(data))})
	require.NoError(t, err)
	assert.Equal(t, int64(len(data)), res.Bytes)

	require.NoError(t, dstFd.Close())
	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestCopyFileLarge(t *testing.T) {
	// 4 MiB, larger than the 1 MiB pooled buffer.
	data := make([]byte, 4*1024*1024)
	_, err := rand.Read(data)
	require.NoError(t, err)
	srcFd, dstFd, dst := openPair(t, data)

	res, err := CopyFile(Request{Src: srcFd, Dst: dstFd, Size: int64(len(data))})
	require.NoError(t, err)
	assert.Equal(t, int64(len(data)), res.Bytes)

	require.NoError(t, dstFd.Close())
	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestCopyFileEmpty(t *testing.T) {
	srcFd, dstFd, dst := openPair(t, nil)

	res, err := CopyFile(Request{Src: srcFd, Dst: dstFd, Size: 0})
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.Bytes)

	info, err := os.Stat(dst)
	require.NoError(t, err)
	assert.Equal(t, int64(0), info.Size())
}

func TestCopyReadWrite(t *testing.T) {
	data := make([]byte, bufferSize+123)
	_, err := rand.Read(data)
	require.NoError(t, err)
	srcFd, dstFd, dst := openPair(t, data)

	res, err := CopyReadWrite(Request{Src: srcFd, Dst: dstFd, Size: int64(len(data))})
	require.NoError(t, err)
	assert.Equal(t, ReadWrite, res.Method)
	assert.Equal(t, int64(len(data)), res.Bytes)

	require.NoError(t, dstFd.Close())
	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestMethodString(t *testing.T) {
	assert.Equal(t, "read_write", ReadWrite.String())
	assert.Equal(t, "copy_file_range", CopyFileRange.String())
	assert.Equal(t, "sendfile", Sendfile.String())
	assert.Equal(t, "unknown", Method(99).String())
}
