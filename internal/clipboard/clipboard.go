//go:build !test

package clipboard

import (
	"context"

	xclipboard "golang.design/x/clipboard"
)

// Init initializes the clipboard
func Init() error {
	return xclipboard.Init()
}

// Read reads data from clipboard in the specified format
func Read(format Format) []byte {
	return xclipboard.Read(xclipboard.Format(format))
}

// Write writes data to clipboard in the specified format
func Write(format Format, data []byte) {
	xclipboard.Write(xclipboard.Format(format), data)
}

// Watch returns a channel that receives clipboard contents whenever the
// clipboard changes, until ctx is cancelled
func Watch(ctx context.Context, format Format) <-chan []byte {
	return xclipboard.Watch(ctx, xclipboard.Format(format))
}

// Format represents clipboard data format
type Format int

const (
	// FmtText is the text format
	FmtText Format = Format(xclipboard.FmtText)
	// FmtImage is the image format (PNG bytes)
	FmtImage Format = Format(xclipboard.FmtImage)
)
