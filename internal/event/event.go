package event

import "time"

// Type identifies the kind of event.
type Type int

const (
	ScanStarted Type = iota + 1
	ScanComplete
	ScanFailed
	DirCreated
	FileCopied
	FileFailed
)

var typeNames = [...]string{
	ScanStarted:  "ScanStarted",
	ScanComplete: "ScanComplete",
	ScanFailed:   "ScanFailed",
	DirCreated:   "DirCreated",
	FileCopied:   "FileCopied",
	FileFailed:   "FileFailed",
}

func (t Type) String() string {
	if t > 0 && int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "Unknown"
}

// Event is a single progress notification from the engine.
type Event struct {
	Type      Type
	Timestamp time.Time
	Path      string // source file, or the directory for scan/dir events
	Dst       string // destination file (FileCopied, FileFailed)
	Size      int64  // bytes copied (FileCopied)
	Total     int64  // files found (ScanComplete)
	Groups    int    // distinct extensions (ScanComplete)
	Error     error
}
