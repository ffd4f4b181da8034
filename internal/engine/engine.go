package engine

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bamsammich/extsort/internal/event"
	"github.com/bamsammich/extsort/internal/stats"
)

// Config describes a sort run.
type Config struct {
	Src string
	Dst string
	// Workers caps concurrent copies. <= 0 launches every copy at once.
	Workers int
	// ScanWorkers caps concurrent directory listings. <= 0 picks a default.
	ScanWorkers int
	// Events receives one event per scan failure, created directory and
	// copied or failed file. Sends block, so the consumer must drain it
	// until Run returns. May be nil.
	Events chan<- event.Event
	Stats  *stats.Collector
}

// Result is the outcome of a run.
type Result struct {
	Stats stats.Snapshot
	// Err summarizes every scan and copy failure, nil when there were none.
	Err error
}

// Run scans cfg.Src, then copies every file it found into
// cfg.Dst/<ext>/<name>, blocking until all copies have finished. A failing
// directory or file never stops the others.
func Run(ctx context.Context, cfg Config) Result {
	collector := cfg.Stats
	if collector == nil {
		collector = stats.NewCollector()
	}

	scanCfg := ScannerConfig{
		SrcRoot: cfg.Src,
		Workers: cfg.ScanWorkers,
		Events:  cfg.Events,
		Stats:   collector,
	}
	if info, err := os.Stat(cfg.Dst); err == nil && info.IsDir() {
		scanCfg.SkipDir = info
	}

	emitEvent(cfg.Events, event.Event{Type: event.ScanStarted, Path: cfg.Src})
	groups, scanErrs := NewScanner(scanCfg).Scan(ctx)
	emitEvent(cfg.Events, event.Event{
		Type:   event.ScanComplete,
		Path:   cfg.Src,
		Total:  int64(groups.Len()),
		Groups: len(groups),
	})

	tasks := groups.Tasks(cfg.Dst)
	slog.Debug("starting copies", "tasks", len(tasks), "extensions", len(groups), "workers", cfg.Workers)

	copier := NewCopier(CopierConfig{Events: cfg.Events, Stats: collector})
	copyErrs := runCopies(ctx, copier, tasks, cfg.Workers)
	copier.CleanupTmp()

	return Result{
		Stats: collector.Snapshot(),
		Err:   summarize(append(scanErrs, copyErrs...)),
	}
}

// runCopies launches one goroutine per task and waits for all of them.
// Tasks never report failure to the group, so one error does not cancel the
// rest.
func runCopies(ctx context.Context, copier *Copier, tasks []CopyTask, workers int) []error {
	var g errgroup.Group
	if workers > 0 {
		g.SetLimit(workers)
	}

	var mu sync.Mutex
	var errs []error
	for _, task := range tasks {
		task := task
		g.Go(func() error {
			if err := copier.Copy(ctx, task); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait() //nolint:errcheck // goroutines always return nil
	return errs
}

func summarize(errs []error) error {
	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	default:
		return fmt.Errorf("%w (and %d more errors)", errs[0], len(errs)-1)
	}
}

func emitEvent(ch chan<- event.Event, e event.Event) {
	if ch == nil {
		return
	}
	e.Timestamp = time.Now()
	ch <- e
}
