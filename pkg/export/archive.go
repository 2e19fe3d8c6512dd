package export

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"
)

// ArchiveName is the fixed download name for a multi-file conversion bundle.
const ArchiveName = "formatflip-converted.zip"

// ArchiveBuilder collects named blobs into an in-memory zip archive.
type ArchiveBuilder struct {
	buf    bytes.Buffer
	zw     *zip.Writer
	closed bool
}

// NewArchiveBuilder returns a builder whose deflate entries use the
// klauspost/compress encoder.
func NewArchiveBuilder() *ArchiveBuilder {
	b := &ArchiveBuilder{}
	b.zw = zip.NewWriter(&b.buf)
	b.zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.BestSpeed)
	})
	return b
}

// Add appends one file to the archive.
func (b *ArchiveBuilder) Add(name string, data []byte) error {
	if b.closed {
		return fmt.Errorf("archive already closed")
	}
	w, err := b.zw.Create(name)
	if err != nil {
		return fmt.Errorf("archive %s: %w", name, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("archive %s: %w", name, err)
	}
	return nil
}

// Close finalizes the archive and returns its bytes.
func (b *ArchiveBuilder) Close() ([]byte, error) {
	if b.closed {
		return nil, fmt.Errorf("archive already closed")
	}
	b.closed = true
	if err := b.zw.Close(); err != nil {
		return nil, fmt.Errorf("close archive: %w", err)
	}
	return b.buf.Bytes(), nil
}
