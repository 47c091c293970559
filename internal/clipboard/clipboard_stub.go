//go:build test

package clipboard

import (
	"context"
	"sync"
)

// The test build runs without a display server, so the clipboard is an
// in-memory store.
var (
	mu    sync.Mutex
	store = map[Format][]byte{}
)

// Init initializes the clipboard (stub implementation)
func Init() error {
	return nil
}

// Read reads data from clipboard in the specified format (stub implementation)
func Read(format Format) []byte {
	mu.Lock()
	defer mu.Unlock()
	return store[format]
}

// Write writes data to clipboard in the specified format (stub implementation)
func Write(format Format, data []byte) {
	mu.Lock()
	defer mu.Unlock()
	store[format] = data
}

// Watch returns a closed channel: the stub clipboard never changes
func Watch(ctx context.Context, format Format) <-chan []byte {
	ch := make(chan []byte)
	close(ch)
	return ch
}

// Format represents clipboard data format
type Format int

const (
	// FmtText is the text format
	FmtText Format = 0
	// FmtImage is the image format (PNG bytes)
	FmtImage Format = 1
)
