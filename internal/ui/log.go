package ui

import (
	"log/slog"

	"github.com/bamsammich/extsort/internal/stats"
)

// logPresenter writes one log record per event.
type logPresenter struct {
	log   *slog.Logger
	stats *stats.Collector
}

func (p *logPresenter) Run(events <-chan Event) error {
	for ev := range events {
		p.handleEvent(ev)
	}
	return nil
}

func (p *logPresenter) handleEvent(ev Event) {
	switch ev.Type {
	case ScanStarted:
		p.log.Debug("scanning", "src", ev.Path)
	case ScanComplete:
		p.log.Info("scan complete",
			"src", ev.Path,
			"files", ev.Total,
			"extensions", ev.Groups,
		)
	case ScanFailed:
		p.log.Error("cannot read directory", "dir", ev.Path, "error", ev.Error)
	case DirCreated:
		p.log.Debug("created directory", "dir", ev.Path)
	case FileCopied:
		p.log.Info("copied",
			"src", ev.Path,
			"dst", ev.Dst,
			"size", stats.FormatBytes(ev.Size),
		)
	case FileFailed:
		p.log.Error("copy failed", "src", ev.Path, "dst", ev.Dst, "error", ev.Error)
	}
}

func (p *logPresenter) Summary() string {
	if p.stats == nil {
		return ""
	}
	return completionSummary(p.stats.Snapshot())
}
