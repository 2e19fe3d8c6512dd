// Package history keeps a bounded, linear undo/redo log of image snapshots.
// One entry is appended per committed edit; a cursor marks the state the
// editor is currently showing.
package history

import (
	"image"

	"formatflip/pkg/raster"
)

// MaxEntries bounds the log. When a commit would exceed it, the oldest
// snapshot is discarded and the cursor shifts down to stay valid.
const MaxEntries = 20

// Stack is the undo/redo log. Entries are independent deep copies: neither
// the caller's working buffer nor a restored snapshot ever aliases a stored
// entry. The zero value is an empty stack; Reset installs the undo floor.
type Stack struct {
	entries []*image.NRGBA
	cursor  int
}

// NewStack returns a stack seeded with initial as its only entry. Undoing
// never removes this floor entry, so the freshly loaded image is always
// recoverable.
func NewStack(initial *image.NRGBA) *Stack {
	s := &Stack{}
	s.Reset(initial)
	return s
}

// Reset discards everything and installs initial as the single entry with
// the cursor on it. Called when a different file is loaded.
func (s *Stack) Reset(initial *image.NRGBA) {
	s.entries = []*image.NRGBA{raster.Clone(initial)}
	s.cursor = 0
}

// Commit records buf as the new current state. Any redo entries past the
// cursor are discarded first, then a clone of buf is appended and the
// MaxEntries cap enforced.
func (s *Stack) Commit(buf *image.NRGBA) {
	s.entries = append(s.entries[:s.cursor+1], raster.Clone(buf))
	s.cursor = len(s.entries) - 1
	if len(s.entries) > MaxEntries {
		drop := len(s.entries) - MaxEntries
		s.entries = append([]*image.NRGBA(nil), s.entries[drop:]...)
		s.cursor -= drop
	}
}

// Undo steps the cursor back one entry and returns a clone of the snapshot
// now at the cursor. At the floor it is a no-op and returns nil.
func (s *Stack) Undo() *image.NRGBA {
	if !s.CanUndo() {
		return nil
	}
	s.cursor--
	return raster.Clone(s.entries[s.cursor])
}

// Redo steps the cursor forward one entry and returns a clone of the
// snapshot now at the cursor. At the tip it is a no-op and returns nil.
func (s *Stack) Redo() *image.NRGBA {
	if !s.CanRedo() {
		return nil
	}
	s.cursor++
	return raster.Clone(s.entries[s.cursor])
}

// CanUndo reports whether the cursor can move back.
func (s *Stack) CanUndo() bool {
	return s.cursor > 0
}

// CanRedo reports whether redo entries exist past the cursor.
func (s *Stack) CanRedo() bool {
	return s.cursor < len(s.entries)-1
}

// Current returns a clone of the snapshot at the cursor, or nil for an
// empty stack.
func (s *Stack) Current() *image.NRGBA {
	if len(s.entries) == 0 {
		return nil
	}
	return raster.Clone(s.entries[s.cursor])
}

// Len returns the number of retained snapshots.
func (s *Stack) Len() int {
	return len(s.entries)
}
