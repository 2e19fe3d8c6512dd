// Package session holds the explicit editing state: the ordered file list,
// the current file index, the working buffer, and the undo history. There
// are no hidden globals; tests construct sessions directly.
package session

import (
	"errors"
	"image"

	"formatflip/pkg/export"
	"formatflip/pkg/history"
	"formatflip/pkg/raster"
)

// ErrNoImage is returned by edit operations when no file is loaded.
var ErrNoImage = errors.New("no image loaded")

// Input is a named blob as it arrived from the file picker.
type Input struct {
	Name string
	Data []byte
}

// FileEntry is one file in the working set. Image carries the file's edited
// pixels: when the user switches away from a file, the working buffer is
// written back here, so edits persist across navigation.
type FileEntry struct {
	Name   string // display name, extension stripped
	Source []byte // original bytes as dropped
	Image  *image.NRGBA
	Edited bool
}

// Session is the single owner of the editing state. Buffer is the working
// image for the file at Current; History tracks that file's edits and is
// reset whenever a different file becomes current.
type Session struct {
	Files   []*FileEntry
	Current int
	Buffer  *image.NRGBA
	History *history.Stack

	// HEIC is the optional decode capability for .heic/.heif inputs;
	// leaving it nil makes those inputs fail with ErrCapabilityUnavailable.
	HEIC HEICDecoder
}

// New returns an empty session with nothing selected.
func New() *Session {
	return &Session{Current: -1}
}

// Add decodes the given inputs and appends the valid ones to the file list.
// Each rejected file produces its own error and does not abort the rest;
// zero valid inputs leaves the session unchanged. The first successful add
// into an empty session selects that file.
func (s *Session) Add(inputs ...Input) (added int, errs []error) {
	for _, in := range inputs {
		entry, err := s.decodeEntry(in.Name, in.Data)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		s.Files = append(s.Files, entry)
		added++
	}
	if added > 0 && s.Current < 0 {
		s.Select(0)
	}
	return added, errs
}

// Select makes the file at index i current. The working buffer is written
// back to the previous entry first, so its edits survive; history is then
// reset to the newly selected image as its undo floor. Out-of-range indexes
// are ignored.
func (s *Session) Select(i int) {
	if i < 0 || i >= len(s.Files) {
		return
	}
	s.stash()
	s.Current = i
	s.Buffer = raster.Clone(s.Files[i].Image)
	if s.History == nil {
		s.History = history.NewStack(s.Buffer)
	} else {
		s.History.Reset(s.Buffer)
	}
}

// Remove deletes the file at index i and renumbers the rest. Removing the
// current file selects the nearest remaining neighbor; removing the last
// file empties the session.
func (s *Session) Remove(i int) {
	if i < 0 || i >= len(s.Files) {
		return
	}
	s.Files = append(s.Files[:i], s.Files[i+1:]...)
	switch {
	case len(s.Files) == 0:
		s.Current = -1
		s.Buffer = nil
		s.History = nil
	case i < s.Current:
		s.Current--
	case i == s.Current:
		if s.Current >= len(s.Files) {
			s.Current = len(s.Files) - 1
		}
		s.Buffer = raster.Clone(s.Files[s.Current].Image)
		if s.History == nil {
			s.History = history.NewStack(s.Buffer)
		} else {
			s.History.Reset(s.Buffer)
		}
	}
}

// File returns the current entry, or nil when nothing is selected.
func (s *Session) File() *FileEntry {
	if s.Current < 0 || s.Current >= len(s.Files) {
		return nil
	}
	return s.Files[s.Current]
}

// stash writes the working buffer back into the current entry.
func (s *Session) stash() {
	if f := s.File(); f != nil && s.Buffer != nil {
		f.Image = raster.Clone(s.Buffer)
	}
}

// commit installs buf as the working buffer, snapshots it, and marks the
// current file edited.
func (s *Session) commit(buf *image.NRGBA) {
	s.Buffer = buf
	s.History.Commit(buf)
	if f := s.File(); f != nil {
		f.Edited = true
	}
}

// RemoveBackground clears the alpha of the seed's connected similar-color
// region. On a validation error the previous buffer stays current.
func (s *Session) RemoveBackground(seedX, seedY, tolerance int) error {
	if s.Buffer == nil {
		return ErrNoImage
	}
	out, err := raster.RemoveBackground(s.Buffer, seedX, seedY, tolerance)
	if err != nil {
		return err
	}
	s.commit(out)
	return nil
}

// RemoveWhiteBackground clears white-ish regions connected to the corners.
func (s *Session) RemoveWhiteBackground(tolerance int) error {
	if s.Buffer == nil {
		return ErrNoImage
	}
	s.commit(raster.RemoveWhiteBackground(s.Buffer, tolerance))
	return nil
}

// Crop replaces the working buffer with the given region.
func (s *Session) Crop(r raster.CropRegion) error {
	if s.Buffer == nil {
		return ErrNoImage
	}
	out, err := raster.Crop(s.Buffer, r)
	if err != nil {
		return err
	}
	s.commit(out)
	return nil
}

// Rotate turns the working buffer by the given degrees.
func (s *Session) Rotate(degrees float64) error {
	if s.Buffer == nil {
		return ErrNoImage
	}
	s.commit(raster.Rotate(s.Buffer, degrees))
	return nil
}

// Flip mirrors the working buffer along axis.
func (s *Session) Flip(axis raster.Axis) error {
	if s.Buffer == nil {
		return ErrNoImage
	}
	s.commit(raster.Flip(s.Buffer, axis))
	return nil
}

// Resize resamples the working buffer to exactly w x h.
func (s *Session) Resize(w, h int) error {
	if s.Buffer == nil {
		return ErrNoImage
	}
	out, err := raster.Resize(s.Buffer, w, h)
	if err != nil {
		return err
	}
	s.commit(out)
	return nil
}

// Undo restores the previous snapshot, including its dimensions. At the
// undo floor it reports false and changes nothing.
func (s *Session) Undo() bool {
	if s.History == nil {
		return false
	}
	if buf := s.History.Undo(); buf != nil {
		s.Buffer = buf
		return true
	}
	return false
}

// Redo restores the next snapshot. At the tip it reports false.
func (s *Session) Redo() bool {
	if s.History == nil {
		return false
	}
	if buf := s.History.Redo(); buf != nil {
		s.Buffer = buf
		return true
	}
	return false
}

// CanUndo reports whether an undo would change state.
func (s *Session) CanUndo() bool { return s.History != nil && s.History.CanUndo() }

// CanRedo reports whether a redo would change state.
func (s *Session) CanRedo() bool { return s.History != nil && s.History.CanRedo() }

// ExportItems returns one export item per file, using each file's edited
// pixels. The working buffer is written back first so the current file's
// latest state is included.
func (s *Session) ExportItems() []export.Item {
	s.stash()
	items := make([]export.Item, 0, len(s.Files))
	for _, f := range s.Files {
		items = append(items, export.Item{Name: f.Name, Image: f.Image})
	}
	return items
}
