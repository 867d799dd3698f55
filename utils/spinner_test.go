package utils

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinner_StartStop(t *testing.T) {
	out := &syncBuffer{}
	s := NewSpinnerTo(out, "rendering", time.Millisecond, false)
	s.StopMsg = "done"

	s.Start()
	s.Start()
	time.Sleep(10 * time.Millisecond)
	s.Message("still rendering")
	s.Stop()
	s.Stop()

	assert.Contains(t, out.String(), "rendering")
	assert.Contains(t, out.String(), "done")
}
