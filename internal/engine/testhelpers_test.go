package engine

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zeebo/blake3"

	"github.com/bamsammich/extsort/internal/event"
)

// writeFile creates path (and its parents) with the given content.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func hashFile(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	h := blake3.Sum256(data)
	return h[:]
}

// listTree returns every regular file under root as a sorted slash path
// relative to root.
func listTree(t *testing.T, root string) []string {
	t.Helper()
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			rel, relErr := filepath.Rel(root, path)
			if relErr != nil {
				return relErr
			}
			files = append(files, filepath.ToSlash(rel))
		}
		return nil
	})
	require.NoError(t, err)
	sort.Strings(files)
	return files
}

// tmpLeftovers returns every copier temp file still present under root.
func tmpLeftovers(t *testing.T, root string) []string {
	t.Helper()
	var out []string
	for _, rel := range listTree(t, root) {
		if strings.HasPrefix(filepath.Base(rel), tmpPrefix) {
			out = append(out, rel)
		}
	}
	return out
}

// collectEvents returns an event channel whose contents are gathered in the
// background. Call the returned func after the run to close the channel and
// get everything that was sent.
func collectEvents(t *testing.T) (chan<- event.Event, func() []event.Event) {
	t.Helper()
	ch := make(chan event.Event, 64)
	var (
		mu  sync.Mutex
		got []event.Event
	)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for ev := range ch {
			mu.Lock()
			got = append(got, ev)
			mu.Unlock()
		}
	}()
	return ch, func() []event.Event {
		close(ch)
		<-done
		mu.Lock()
		defer mu.Unlock()
		return got
	}
}

func countEvents(events []event.Event, typ event.Type) int {
	n := 0
	for _, ev := range events {
		if ev.Type == typ {
			n++
		}
	}
	return n
}

// lockDir removes all permissions from dir and restores them before the
// temp dir is cleaned up.
func lockDir(t *testing.T, dir string) {
	t.Helper()
	if os.Geteuid() == 0 {
		t.Skip("running as root, cannot test permission denied")
	}
	require.NoError(t, os.Chmod(dir, 0o000))
	t.Cleanup(func() { _ = os.Chmod(dir, 0o755) })
}
