package ui

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/bamsammich/extsort/internal/stats"
)

var (
	doneOK   = color.New(color.FgGreen, color.Bold)
	doneFail = color.New(color.FgRed, color.Bold)
)

// completionSummary builds the final summary line from a snapshot.
// Format: done ✓  files 1,204  size 3.2 GiB  avg 410 MB/s  time 8s  dirs 12  errors 0
func completionSummary(snap stats.Snapshot) string {
	avgSpeed := 0.0
	if snap.Elapsed.Seconds() > 0 {
		avgSpeed = float64(snap.BytesCopied) / snap.Elapsed.Seconds()
	}

	// Colors drop out on their own when output is not a terminal.
	head := doneOK.Sprint("done ✓")
	if snap.Failures() > 0 {
		head = doneFail.Sprint("done ✗")
	}

	return fmt.Sprintf("%s  files %s  size %s  avg %s  time %s  dirs %s  errors %s",
		head,
		FormatCount(snap.FilesCopied),
		stats.FormatBytes(snap.BytesCopied),
		FormatRate(avgSpeed),
		FormatDuration(snap.Elapsed),
		FormatCount(snap.DirsCreated),
		FormatCount(snap.Failures()),
	)
}
