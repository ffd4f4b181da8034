package engine

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/bamsammich/extsort/internal/event"
	"github.com/bamsammich/extsort/internal/stats"
)

// ScannerConfig controls scanner behavior.
type ScannerConfig struct {
	SrcRoot string
	// Workers caps how many directories are listed concurrently.
	// <= 0 means min(NumCPU, 8).
	Workers int
	// SkipDir, when set, names a directory that is never descended into
	// (the destination root when it lives inside the source tree).
	SkipDir os.FileInfo
	Events  chan<- event.Event
	Stats   *stats.Collector
}

// Scanner walks a source tree and groups every regular file it reaches by
// extension. Files from every depth are merged into one Groups value.
type Scanner struct {
	cfg  ScannerConfig
	sem  chan struct{}
	wg   sync.WaitGroup
	mu   sync.Mutex
	out  Groups
	errs []error
}

// NewScanner creates a scanner with the given config.
func NewScanner(cfg ScannerConfig) *Scanner {
	if cfg.Workers <= 0 {
		cfg.Workers = min(runtime.NumCPU(), 8)
	}
	if cfg.Stats == nil {
		cfg.Stats = stats.NewCollector()
	}
	return &Scanner{
		cfg: cfg,
		sem: make(chan struct{}, cfg.Workers),
		out: make(Groups),
	}
}

// Scan walks the tree rooted at SrcRoot and blocks until every reachable
// directory has been listed. Directories that fail to list are returned as
// *ScanError values; they never stop the walk.
func (s *Scanner) Scan(ctx context.Context) (Groups, []error) {
	s.walk(ctx, s.cfg.SrcRoot)
	s.wg.Wait()
	return s.out, s.errs
}

func (s *Scanner) walk(ctx context.Context, dir string) {
	if ctx.Err() != nil {
		return
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		s.fail(dir, err)
		return
	}

	local := make(Groups)
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())

		kind, err := s.classify(path, entry)
		if err != nil {
			slog.Debug("skipping entry", "path", path, "error", err)
			continue
		}

		switch kind {
		case entryFile:
			local.Add(Extension(entry.Name()), path)
		case entryDir:
			s.descend(ctx, path)
		}
	}

	s.mu.Lock()
	s.out.Merge(local)
	s.mu.Unlock()
	s.cfg.Stats.AddFilesFound(int64(local.Len()))
}

// descend lists sub on a new goroutine when a worker slot is free, and
// inline otherwise. Falling back to inline recursion keeps the walk from
// blocking on its own children when every slot is taken.
func (s *Scanner) descend(ctx context.Context, sub string) {
	select {
	case s.sem <- struct{}{}:
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer func() { <-s.sem }()
			s.walk(ctx, sub)
		}()
	default:
		s.walk(ctx, sub)
	}
}

type entryKind int

const (
	entryOther entryKind = iota
	entryFile
	entryDir
)

// classify resolves an entry to file, directory or neither. Symlinks are
// classified by their target, except that linked directories are not
// followed, so a link cycle cannot trap the walk.
func (s *Scanner) classify(path string, entry fs.DirEntry) (entryKind, error) {
	typ := entry.Type()
	switch {
	case typ.IsRegular():
		return entryFile, nil
	case typ.IsDir():
		if s.skip(path) {
			slog.Debug("skipping destination root inside source", "path", path)
			return entryOther, nil
		}
		return entryDir, nil
	case typ&fs.ModeSymlink != 0:
		info, err := os.Stat(path)
		if err != nil {
			return entryOther, err
		}
		if info.Mode().IsRegular() {
			return entryFile, nil
		}
		if info.IsDir() {
			slog.Debug("not following directory symlink", "path", path)
		}
		return entryOther, nil
	default:
		return entryOther, nil
	}
}

func (s *Scanner) skip(path string) bool {
	if s.cfg.SkipDir == nil {
		return false
	}
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return os.SameFile(info, s.cfg.SkipDir)
}

func (s *Scanner) fail(dir string, err error) {
	scanErr := &ScanError{Dir: dir, Err: err}
	s.mu.Lock()
	s.errs = append(s.errs, scanErr)
	s.mu.Unlock()
	s.cfg.Stats.AddScanErrors(1)
	emitEvent(s.cfg.Events, event.Event{
		Type:  event.ScanFailed,
		Path:  dir,
		Error: scanErr,
	})
}
