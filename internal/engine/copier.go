package engine

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"

	"github.com/google/uuid"
	"golang.org/x/sys/unix"

	"github.com/bamsammich/extsort/internal/event"
	"github.com/bamsammich/extsort/internal/platform"
	"github.com/bamsammich/extsort/internal/stats"
)

const (
	dirPerm   = 0o755
	tmpPrefix = ".extsort-"
	tmpSuffix = ".tmp"
)

// CopierConfig controls copier behavior.
type CopierConfig struct {
	Events chan<- event.Event
	Stats  *stats.Collector
}

// Copier copies single files into their extension subdirectory. It is safe
// for concurrent use; tasks share nothing but the destination directories.
type Copier struct {
	cfg CopierConfig
	tmp tmpRegistry
}

// NewCopier creates a copier with the given config.
func NewCopier(cfg CopierConfig) *Copier {
	if cfg.Stats == nil {
		cfg.Stats = stats.NewCollector()
	}
	return &Copier{cfg: cfg}
}

// Copy ensures task.DstRoot and its extension subdirectory exist, then copies
// the source file to task.DstPath(), replacing whatever is there. The data is
// written to a temp file in the same directory and renamed into place, so a
// failed copy never leaves a truncated destination behind. Permission bits
// and access/modification times are carried over.
//
// Failures are returned as *CopyError after being counted and reported.
func (c *Copier) Copy(ctx context.Context, task CopyTask) error {
	n, err := c.copy(ctx, task)
	if err != nil {
		c.cfg.Stats.AddFilesFailed(1)
		emitEvent(c.cfg.Events, event.Event{
			Type:  event.FileFailed,
			Path:  task.SrcPath,
			Dst:   task.DstPath(),
			Error: err,
		})
		return err
	}

	c.cfg.Stats.AddFilesCopied(1)
	c.cfg.Stats.AddBytesCopied(n)
	emitEvent(c.cfg.Events, event.Event{
		Type: event.FileCopied,
		Path: task.SrcPath,
		Dst:  task.DstPath(),
		Size: n,
	})
	return nil
}

func (c *Copier) copy(ctx context.Context, task CopyTask) (int64, error) {
	dstPath := task.DstPath()
	fail := func(op string, err error) (int64, error) {
		return 0, &CopyError{Src: task.SrcPath, Dst: dstPath, Op: op, Err: err}
	}

	if err := ctx.Err(); err != nil {
		return fail("start", err)
	}

	if err := os.MkdirAll(task.DstRoot, dirPerm); err != nil {
		return fail("mkdir", err)
	}
	if err := c.ensureDir(task.DstDir()); err != nil {
		return fail("mkdir", err)
	}

	src, err := os.Open(task.SrcPath)
	if err != nil {
		return fail("open", err)
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return fail("stat", err)
	}
	if !info.Mode().IsRegular() {
		return fail("open", fmt.Errorf("%s is not a regular file", task.SrcPath))
	}

	tmpPath := tmpName(task.DstDir())
	c.tmp.register(tmpPath)
	defer func() {
		c.tmp.deregister(tmpPath)
		_ = os.Remove(tmpPath) // no-op once renamed
	}()

	tmp, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return fail("create", err)
	}

	res, err := platform.CopyFile(platform.Request{Src: src, Dst: tmp, Size: info.Size()})
	if err == nil && res.Bytes != info.Size() {
		err = fmt.Errorf("short copy: %d of %d bytes", res.Bytes, info.Size())
	}
	if err != nil {
		tmp.Close()
		return fail("copy", err)
	}

	if err := setMetadata(tmp, info); err != nil {
		tmp.Close()
		return fail("metadata", err)
	}

	if err := tmp.Close(); err != nil {
		return fail("close", err)
	}

	if err := os.Rename(tmpPath, dstPath); err != nil {
		return fail("rename", err)
	}

	return res.Bytes, nil
}

// tmpName returns a fresh temp file path in dir. The source name is left out
// so a name already close to NAME_MAX still gets a valid temp file.
func tmpName(dir string) string {
	return filepath.Join(dir, tmpPrefix+uuid.NewString()+tmpSuffix)
}

// PendingTmp returns how many temp files of in-flight copies exist.
func (c *Copier) PendingTmp() int {
	return c.tmp.pending()
}

// CleanupTmp removes the temp files of copies that never reached their own
// cleanup. It only touches files created by this copier.
func (c *Copier) CleanupTmp() {
	c.tmp.cleanup()
}

// ensureDir creates dir if missing. Another task creating it first is not an
// error; a non-directory squatting on the name is.
func (c *Copier) ensureDir(dir string) error {
	err := os.Mkdir(dir, dirPerm)
	switch {
	case err == nil:
		c.cfg.Stats.AddDirsCreated(1)
		emitEvent(c.cfg.Events, event.Event{Type: event.DirCreated, Path: dir})
		return nil
	case errors.Is(err, fs.ErrExist):
		info, statErr := os.Stat(dir)
		if statErr != nil {
			return statErr
		}
		if !info.IsDir() {
			return fmt.Errorf("%s exists and is not a directory", dir)
		}
		return nil
	default:
		return err
	}
}

// setMetadata applies the source's permission bits and timestamps to the
// open temp file.
//
//nolint:gosec // G115: fd values are small non-negative integers
func setMetadata(dst *os.File, info os.FileInfo) error {
	if err := unix.Fchmod(int(dst.Fd()), uint32(info.Mode().Perm())); err != nil {
		return fmt.Errorf("fchmod: %w", err)
	}

	atime := info.ModTime()
	if stat, ok := info.Sys().(*syscall.Stat_t); ok {
		atime = atimeFromStat(stat)
	}
	times := []unix.Timespec{
		unix.NsecToTimespec(atime.UnixNano()),
		unix.NsecToTimespec(info.ModTime().UnixNano()),
	}
	if err := unix.UtimesNanoAt(unix.AT_FDCWD, dst.Name(), times, 0); err != nil {
		return fmt.Errorf("utimensat: %w", err)
	}
	return nil
}
