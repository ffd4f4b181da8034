package engine

import "strings"

// NoExtDir is the destination subdirectory for files without an extension.
const NoExtDir = "noext"

// Extension returns the lowercased extension of a base file name without its
// leading dot, or "" when the name has none. Leading dots mark hidden files,
// not extensions, so ".bashrc" has no extension while ".env.local" has
// "local". A trailing dot ("notes.") yields no extension either.
func Extension(name string) string {
	trimmed := strings.TrimLeft(name, ".")
	i := strings.LastIndexByte(trimmed, '.')
	if i < 0 || i == len(trimmed)-1 {
		return ""
	}
	return strings.ToLower(trimmed[i+1:])
}

// DirName maps an extension to the subdirectory name it is copied into.
func DirName(ext string) string {
	if ext == "" {
		return NoExtDir
	}
	return ext
}
