package ui

import "github.com/bamsammich/extsort/internal/event"

// Event is re-exported so presenters read as ui code.
type Event = event.Event

const (
	ScanStarted  = event.ScanStarted
	ScanComplete = event.ScanComplete
	ScanFailed   = event.ScanFailed
	DirCreated   = event.DirCreated
	FileCopied   = event.FileCopied
	FileFailed   = event.FileFailed
)
