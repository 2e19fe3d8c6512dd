package history

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"formatflip/pkg/raster"
)

// numbered returns a 2x2 buffer whose first byte identifies the edit step.
func numbered(n uint8) *image.NRGBA {
	return raster.NewSolid(2, 2, color.NRGBA{R: n, G: 0, B: 0, A: 255})
}

func firstByte(img *image.NRGBA) uint8 {
	return img.Pix[0]
}

func TestUndoRedoRoundTrip(t *testing.T) {
	s := NewStack(numbered(0))
	const n = 5
	for i := 1; i <= n; i++ {
		s.Commit(numbered(uint8(i)))
	}

	// undoing n times returns to the initial post-load state
	var cur *image.NRGBA
	for i := 0; i < n; i++ {
		cur = s.Undo()
		if cur == nil {
			t.Fatalf("undo %d returned nil", i+1)
		}
	}
	if firstByte(cur) != 0 {
		t.Fatalf("expected initial state after %d undos, got %d", n, firstByte(cur))
	}
	if s.CanUndo() {
		t.Fatalf("stack should be at the undo floor")
	}
	if s.Undo() != nil {
		t.Fatalf("undo at the floor must be a silent no-op")
	}

	// redoing n times returns to the last edit
	for i := 0; i < n; i++ {
		cur = s.Redo()
	}
	if firstByte(cur) != n {
		t.Fatalf("expected state %d after redos, got %d", n, firstByte(cur))
	}
	if s.CanRedo() {
		t.Fatalf("stack should be at the tip")
	}
	if s.Redo() != nil {
		t.Fatalf("redo at the tip must be a silent no-op")
	}
}

func TestCommitAfterUndoDiscardsRedoBranch(t *testing.T) {
	s := NewStack(numbered(0))
	s.Commit(numbered(1))
	s.Commit(numbered(2))
	s.Undo()
	s.Undo()
	s.Commit(numbered(9))

	if s.CanRedo() {
		t.Fatalf("commit after undo must drop the redo branch")
	}
	if got := firstByte(s.Current()); got != 9 {
		t.Fatalf("current should be the new commit, got %d", got)
	}
	if got := firstByte(s.Undo()); got != 0 {
		t.Fatalf("undo should reach the floor, got %d", got)
	}
	if s.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", s.Len())
	}
}

func TestCapDropsOldestEntry(t *testing.T) {
	s := NewStack(numbered(0))
	for i := 1; i <= MaxEntries+5; i++ {
		s.Commit(numbered(uint8(i)))
	}
	if s.Len() != MaxEntries {
		t.Fatalf("expected %d entries, got %d", MaxEntries, s.Len())
	}
	// walk all the way back: the floor is no longer state 0 but the oldest
	// retained snapshot
	var cur *image.NRGBA
	undos := 0
	for s.CanUndo() {
		cur = s.Undo()
		undos++
	}
	if undos != MaxEntries-1 {
		t.Fatalf("expected %d undos to the floor, got %d", MaxEntries-1, undos)
	}
	if firstByte(cur) == 0 {
		t.Fatalf("discarded oldest entry is still reachable by undo")
	}
	if got := firstByte(cur); got != MaxEntries+5-(MaxEntries-1) {
		t.Fatalf("unexpected floor state %d", got)
	}
}

func TestSnapshotsAreIndependentCopies(t *testing.T) {
	buf := numbered(7)
	s := NewStack(buf)
	buf.Pix[0] = 200 // mutating the working buffer must not touch the entry

	got := s.Current()
	if firstByte(got) != 7 {
		t.Fatalf("stored entry aliased the committed buffer")
	}
	got.Pix[0] = 100 // mutating a restored snapshot must not touch the entry
	if firstByte(s.Current()) != 7 {
		t.Fatalf("restored snapshot aliased the stored entry")
	}
}

func TestResetInstallsSingleFloor(t *testing.T) {
	s := NewStack(numbered(1))
	s.Commit(numbered(2))
	s.Commit(numbered(3))
	s.Reset(numbered(8))

	if s.Len() != 1 || s.CanUndo() || s.CanRedo() {
		t.Fatalf("reset should leave a single entry with the cursor on it")
	}
	if firstByte(s.Current()) != 8 {
		t.Fatalf("reset floor is not the provided buffer")
	}
}

func TestCurrentMatchesCommittedBytes(t *testing.T) {
	img := raster.NewSolid(3, 3, color.NRGBA{10, 20, 30, 40})
	s := NewStack(img)
	if !bytes.Equal(s.Current().Pix, img.Pix) {
		t.Fatalf("current snapshot differs from committed pixels")
	}
}
