package job

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatch_ReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meme.yaml")
	require.NoError(t, os.WriteFile(path, []byte("top: [first]\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	jobs, errs, err := Watch(ctx, path)
	require.NoError(t, err)

	// Another file of the directory is ignored.
	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(path), "other.yaml"), []byte("top: [x]\n"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte("top: [second]\n"), 0o644))

	// Truncating the file may be observed as a separate write.
	timeout := time.After(10 * time.Second)
	for reloaded := false; !reloaded; {
		select {
		case j := <-jobs:
			reloaded = assert.ObjectsAreEqual([]string{"second"}, j.Top)
		case err := <-errs:
			t.Fatalf("unexpected watch error: %v", err)
		case <-timeout:
			t.Fatal("timed out waiting for the reloaded job")
		}
	}

	cancel()
	for range jobs {
	}
	for range errs {
	}
}

func TestWatch_MissingDirectory(t *testing.T) {
	_, _, err := Watch(context.Background(), filepath.Join(t.TempDir(), "nope", "meme.yaml"))
	assert.Error(t, err)
}

func TestWatch_StartsWithBrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meme.toml")
	require.NoError(t, os.WriteFile(path, []byte("top = ["), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	jobs, errs, err := Watch(ctx, path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte(`top = ["fixed"]`), 0o644))

	timeout := time.After(10 * time.Second)
	for reloaded := false; !reloaded; {
		select {
		case j := <-jobs:
			reloaded = assert.ObjectsAreEqual([]string{"fixed"}, j.Top)
		case <-errs:
			// The truncated file may fail to parse before the write completes.
		case <-timeout:
			t.Fatal("timed out waiting for the fixed job")
		}
	}

	cancel()
	for range jobs {
	}
	for range errs {
	}
}
