package main

import (
	"flag"
	"image"
	"testing"
	"time"

	"github.com/esimov/memegen"
	"github.com/esimov/memegen/imop"
	"github.com/esimov/memegen/job"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain_FlagsOverrideReloadedJobs(t *testing.T) {
	require.NoError(t, flag.CommandLine.Set("top", "A|B"))
	require.NoError(t, flag.CommandLine.Set("scale", "40"))
	require.NoError(t, flag.CommandLine.Set("comp", imop.SrcAtop))

	first, err := job.Decode([]byte("bottom: [first]\n"), ".yaml")
	require.NoError(t, err)
	mergeFlags(first)

	assert.Equal(t, []string{"A", "B"}, first.Top)
	assert.Equal(t, []string{"first"}, first.Bottom)
	assert.Equal(t, 40.0, first.Scale)
	assert.Equal(t, imop.SrcAtop, first.Composite)

	svc := memegen.NewPreviewService(image.NewNRGBA(image.Rect(0, 0, 320, 240)), nil)
	svc.Start()
	t.Cleanup(func() {
		svc.Close()
		for range svc.Frames() {
		}
	})

	fs, err := first.Fontspec()
	require.NoError(t, err)
	session := job.NewSession(svc, fs)
	drainFrames(t, svc, session.Sync(first))

	// The job file is saved again without top captions and without a scale.
	reloaded, err := job.Decode([]byte("bottom: [second]\n"), ".yaml")
	require.NoError(t, err)
	mergeFlags(reloaded)

	assert.Equal(t, []string{"A", "B"}, reloaded.Top)
	assert.Equal(t, 40.0, reloaded.Scale)
	assert.Equal(t, 1, session.Sync(reloaded), "only the bottom text changes")
}

func TestMain_SplitCaption(t *testing.T) {
	assert.Nil(t, splitCaption("  "))
	assert.Equal(t, []string{"one", "two"}, splitCaption("one|two"))
}

func drainFrames(t *testing.T, svc *memegen.PreviewService, n int) {
	t.Helper()

	for iter := 0; iter < n; iter++ {
		select {
		case <-svc.Frames():
		case <-time.After(10 * time.Second):
			t.Fatal("timed out waiting for a frame")
		}
	}
}
