package cli

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const watchTimeout = 5 * time.Second

func startWatcher(t *testing.T, patterns []string, onChange ChangeFunc) context.CancelFunc {
	t.Helper()

	w := NewWatcher(20*time.Millisecond, onChange, nil)
	w.OnError(func(err error) { t.Logf("watch error: %v", err) })
	require.NoError(t, w.Start(patterns))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(watchTimeout):
			t.Error("watcher did not stop")
		}
	})
	return cancel
}

func waitForChange(t *testing.T, changes <-chan []string) []string {
	t.Helper()
	select {
	case changed := <-changes:
		return changed
	case <-time.After(watchTimeout):
		t.Fatal("no change reported")
		return nil
	}
}

func TestWatcher_ReportsDescriptorChanges(t *testing.T) {
	root := t.TempDir()
	changes := make(chan []string, 4)
	startWatcher(t, []string{root}, func(ctx context.Context, changed []string) error {
		changes <- changed
		return nil
	})

	descriptor := filepath.Join(root, "person.propgen.yaml")
	require.NoError(t, os.WriteFile(descriptor, []byte("types: []\n"), 0o644))

	assert.Equal(t, []string{descriptor}, waitForChange(t, changes))
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	root := t.TempDir()
	changes := make(chan []string, 4)
	startWatcher(t, []string{root}, func(ctx context.Context, changed []string) error {
		changes <- changed
		return nil
	})

	require.NoError(t, os.WriteFile(filepath.Join(root, "Demo.Person.g.cs"), []byte("// <auto-generated/>\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "README.md"), []byte("notes\n"), 0o644))

	descriptor := filepath.Join(root, "order.propgen.yml")
	require.NoError(t, os.WriteFile(descriptor, []byte("types: []\n"), 0o644))

	assert.Equal(t, []string{descriptor}, waitForChange(t, changes))
}

func TestWatcher_DebouncesBursts(t *testing.T) {
	root := t.TempDir()
	changes := make(chan []string, 4)

	w := NewWatcher(200*time.Millisecond, func(ctx context.Context, changed []string) error {
		changes <- changed
		return nil
	}, nil)
	require.NoError(t, w.Start([]string{root}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	a := filepath.Join(root, "a.propgen.yaml")
	b := filepath.Join(root, "b.propgen.yaml")
	require.NoError(t, os.WriteFile(a, []byte("types: []\n"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("types: []\n"), 0o644))
	require.NoError(t, os.WriteFile(a, []byte("types: []\n# edited\n"), 0o644))

	assert.Equal(t, []string{a, b}, waitForChange(t, changes))
}

func TestWatcher_WatchesNewSubdirectories(t *testing.T) {
	root := t.TempDir()
	changes := make(chan []string, 4)
	startWatcher(t, []string{root + "/..."}, func(ctx context.Context, changed []string) error {
		changes <- changed
		return nil
	})

	sub := filepath.Join(root, "models")
	require.NoError(t, os.Mkdir(sub, 0o755))

	descriptor := filepath.Join(sub, "person.propgen.yaml")
	require.Eventually(t, func() bool {
		if err := os.WriteFile(descriptor, []byte("types: []\n"), 0o644); err != nil {
			return false
		}
		select {
		case changed := <-changes:
			return slices.Contains(changed, descriptor)
		case <-time.After(200 * time.Millisecond):
			return false
		}
	}, watchTimeout, 10*time.Millisecond)
}

func TestWatcher_ContinuesAfterErrors(t *testing.T) {
	root := t.TempDir()
	calls := make(chan []string, 4)
	errs := make(chan error, 4)

	w := NewWatcher(20*time.Millisecond, func(ctx context.Context, changed []string) error {
		calls <- changed
		return assert.AnError
	}, nil)
	w.OnError(func(err error) { errs <- err })
	require.NoError(t, w.Start([]string{root}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	first := filepath.Join(root, "first.propgen.yaml")
	require.NoError(t, os.WriteFile(first, []byte("types: []\n"), 0o644))
	waitForChange(t, calls)

	select {
	case err := <-errs:
		assert.ErrorIs(t, err, assert.AnError)
	case <-time.After(watchTimeout):
		t.Fatal("error not reported")
	}

	second := filepath.Join(root, "second.propgen.yaml")
	require.NoError(t, os.WriteFile(second, []byte("types: []\n"), 0o644))
	assert.Equal(t, []string{second}, waitForChange(t, calls))
}

func TestWatcher_StartFailsForMissingRoot(t *testing.T) {
	w := NewWatcher(time.Millisecond, func(context.Context, []string) error { return nil }, nil)
	err := w.Start([]string{filepath.Join(t.TempDir(), "missing")})
	require.Error(t, err)
}

func TestWatcher_RunRequiresStart(t *testing.T) {
	w := NewWatcher(time.Millisecond, func(context.Context, []string) error { return nil }, nil)
	assert.Error(t, w.Run(context.Background()))
}
