package engine

import (
	"path/filepath"
	"slices"
)

// Groups maps a lowercased extension ("" for none) to the files carrying it.
// Order within a group is not significant.
type Groups map[string][]string

// Add records path under ext.
func (g Groups) Add(ext, path string) {
	g[ext] = append(g[ext], path)
}

// Merge appends every file of other into g.
func (g Groups) Merge(other Groups) {
	for ext, paths := range other {
		g[ext] = append(g[ext], paths...)
	}
}

// Len returns the total number of files across all groups.
func (g Groups) Len() int {
	n := 0
	for _, paths := range g {
		n += len(paths)
	}
	return n
}

// Extensions returns the group keys in sorted order.
func (g Groups) Extensions() []string {
	exts := make([]string, 0, len(g))
	for ext := range g {
		exts = append(exts, ext)
	}
	slices.Sort(exts)
	return exts
}

// Tasks flattens every group into one CopyTask per file, grouped by
// extension in sorted order.
func (g Groups) Tasks(dstRoot string) []CopyTask {
	tasks := make([]CopyTask, 0, g.Len())
	for _, ext := range g.Extensions() {
		for _, path := range g[ext] {
			tasks = append(tasks, CopyTask{SrcPath: path, DstRoot: dstRoot})
		}
	}
	return tasks
}

// CopyTask is one unit of copy work: a source file and the root it is
// sorted into.
type CopyTask struct {
	SrcPath string
	DstRoot string
}

// Ext returns the task's lowercased extension.
func (t CopyTask) Ext() string {
	return Extension(filepath.Base(t.SrcPath))
}

// DstDir is the extension subdirectory under DstRoot.
func (t CopyTask) DstDir() string {
	return filepath.Join(t.DstRoot, DirName(t.Ext()))
}

// DstPath is the final destination file path.
func (t CopyTask) DstPath() string {
	return filepath.Join(t.DstDir(), filepath.Base(t.SrcPath))
}
