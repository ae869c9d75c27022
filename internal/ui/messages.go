// Package ui provides the Bubble Tea TUI for tadabbur.
package ui

import (
	"github.com/tadabbur/tadabbur/internal/feed"
	"github.com/tadabbur/tadabbur/internal/prefetch"
)

// BatchLoaded is sent when a prefetch trigger finishes.
type BatchLoaded struct {
	Result prefetch.Result
}

// HydrateDone is sent when a deep-dive finishes for the expanded item.
type HydrateDone struct {
	Item feed.Item
	Err  error
}

// ReadMarked is sent when the dwell timer marks an item read.
type ReadMarked struct {
	ID string
}

// frameTick drives the smooth-scroll spring animation.
type frameTick struct{}
