package session

import (
	"errors"
	"fmt"
)

// ErrCapabilityUnavailable signals that an optional codec capability was
// needed but no implementation has been registered. The caller gets a clear
// failure instead of a silent behavior change.
var ErrCapabilityUnavailable = errors.New("capability unavailable")

// HEICDecoder converts the pixels of a HEIC/HEIF container into JPEG bytes
// so they can enter the normal decode pipeline. Implementations should
// encode at quality 0.95; the pipeline treats the result as the file's
// source image.
//
// No implementation ships by default (HEIF decoding needs an external
// codec); register one at startup when the host system provides it.
type HEICDecoder interface {
	DecodeToJPEG(data []byte) ([]byte, error)
}

// decodeHEIC runs the registered capability, or fails with
// ErrCapabilityUnavailable when none is set.
func (s *Session) decodeHEIC(name string, data []byte) ([]byte, error) {
	if s.HEIC == nil {
		return nil, fmt.Errorf("%s: heic decoding: %w", name, ErrCapabilityUnavailable)
	}
	out, err := s.HEIC.DecodeToJPEG(data)
	if err != nil {
		return nil, fmt.Errorf("%s: heic decoding: %w", name, err)
	}
	return out, nil
}
