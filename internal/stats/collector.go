package stats

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Collector tracks run statistics with lock-free counters. Copy goroutines
// write to it concurrently; presenters only read.
type Collector struct {
	filesFound  atomic.Int64
	filesCopied atomic.Int64
	filesFailed atomic.Int64
	bytesCopied atomic.Int64
	dirsCreated atomic.Int64
	scanErrors  atomic.Int64
	startTime   time.Time
}

// NewCollector creates a Collector with startTime set to now.
func NewCollector() *Collector {
	return &Collector{startTime: time.Now()}
}

// Snapshot is a point-in-time read of all counters.
type Snapshot struct {
	FilesFound  int64
	FilesCopied int64
	FilesFailed int64
	BytesCopied int64
	DirsCreated int64
	ScanErrors  int64
	Elapsed     time.Duration
}

func (c *Collector) AddFilesFound(n int64)  { c.filesFound.Add(n) }
func (c *Collector) AddFilesCopied(n int64) { c.filesCopied.Add(n) }
func (c *Collector) AddFilesFailed(n int64) { c.filesFailed.Add(n) }
func (c *Collector) AddBytesCopied(n int64) { c.bytesCopied.Add(n) }
func (c *Collector) AddDirsCreated(n int64) { c.dirsCreated.Add(n) }
func (c *Collector) AddScanErrors(n int64)  { c.scanErrors.Add(n) }

// Snapshot returns a point-in-time read of all counters.
func (c *Collector) Snapshot() Snapshot {
	return Snapshot{
		FilesFound:  c.filesFound.Load(),
		FilesCopied: c.filesCopied.Load(),
		FilesFailed: c.filesFailed.Load(),
		BytesCopied: c.bytesCopied.Load(),
		DirsCreated: c.dirsCreated.Load(),
		ScanErrors:  c.scanErrors.Load(),
		Elapsed:     c.Elapsed(),
	}
}

// Elapsed returns time since collector creation. A zero-value Collector
// reports zero.
func (c *Collector) Elapsed() time.Duration {
	if c.startTime.IsZero() {
		return 0
	}
	return time.Since(c.startTime)
}

// Failures is the total number of scan and copy errors.
func (s Snapshot) Failures() int64 {
	return s.FilesFailed + s.ScanErrors
}

func (s Snapshot) String() string {
	return fmt.Sprintf(
		"found=%d copied=%d failed=%d bytes=%d dirs=%d scan_errors=%d",
		s.FilesFound, s.FilesCopied, s.FilesFailed,
		s.BytesCopied, s.DirsCreated, s.ScanErrors,
	)
}

// FormatBytes returns a human-readable byte count.
func FormatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}
