package ui

import (
	"log/slog"

	"github.com/bamsammich/extsort/internal/stats"
)

// Presenter consumes engine events and reports them.
type Presenter interface {
	// Run consumes events until the channel closes. Blocks until done.
	Run(events <-chan Event) error
	// Summary returns the final summary line.
	Summary() string
}

// Config configures a Presenter.
type Config struct {
	Logger *slog.Logger
	Stats  *stats.Collector
}

// NewPresenter returns the log-line presenter: every event becomes one
// record on cfg.Logger (slog.Default when nil).
//
//nolint:ireturn // callers only need the Presenter methods
func NewPresenter(cfg Config) Presenter {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &logPresenter{log: logger, stats: cfg.Stats}
}
