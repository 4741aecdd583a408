package ldr

import (
	"context"
	"errors"
	"sync"
)

// FakeSensor is a test double that returns scripted RC counts.
type FakeSensor struct {
	mu sync.Mutex

	// counts contains scripted values. Each ReadCount consumes the next;
	// when exhausted the last value repeats.
	counts []int
	index  int

	closed  bool
	readErr error
}

// NewFakeSensor creates a FakeSensor with the given scripted counts.
func NewFakeSensor(counts ...int) *FakeSensor {
	return &FakeSensor{counts: counts}
}

// ReadCount returns the next scripted count.
func (f *FakeSensor) ReadCount(ctx context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.readErr != nil {
		return 0, f.readErr
	}

	if len(f.counts) == 0 {
		return 0, errors.New("no counts configured")
	}

	count := f.counts[f.index]
	if f.index < len(f.counts)-1 {
		f.index++
	}

	return count, nil
}

// Close marks the sensor as closed.
func (f *FakeSensor) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.closed = true

	return nil
}

// Closed reports whether Close was called.
func (f *FakeSensor) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.closed
}

// SetReadError makes subsequent ReadCount calls fail.
func (f *FakeSensor) SetReadError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.readErr = err
}
