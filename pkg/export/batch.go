package export

import (
	"fmt"
	"image"
)

// Item is one file queued for conversion: a display basename (no extension)
// and its finalized buffer.
type Item struct {
	Name  string
	Image *image.NRGBA
}

// Result is the outcome for one item. Exactly one of Data and Err is set;
// OutputName is always populated so failures can be reported by name.
type Result struct {
	OutputName string
	Data       []byte
	Err        error
}

// EncodeError wraps a per-file codec failure so batch callers can report it
// without losing the underlying cause.
type EncodeError struct {
	Name string
	Err  error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("encoding %s failed: %v", e.Name, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }

// ConvertAll encodes every item to the chosen format, strictly one at a
// time, so at most one encoded blob is in flight beyond the working buffers
// already held by the session. A failed item is recorded as an EncodeError
// and the batch continues with the remaining files.
func ConvertAll(items []Item, f Format, quality float64) []Result {
	results := make([]Result, 0, len(items))
	for _, it := range items {
		name := it.Name + "." + f.Ext()
		data, err := Encode(it.Image, f, quality)
		if err != nil {
			results = append(results, Result{OutputName: name, Err: &EncodeError{Name: name, Err: err}})
			continue
		}
		results = append(results, Result{OutputName: name, Data: data})
	}
	return results
}

// BuildArchive bundles every successful result into the fixed-name zip.
// Failed results are skipped; an archive with zero entries is an error.
func BuildArchive(results []Result) ([]byte, error) {
	b := NewArchiveBuilder()
	added := 0
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		if err := b.Add(r.OutputName, r.Data); err != nil {
			return nil, err
		}
		added++
	}
	if added == 0 {
		return nil, fmt.Errorf("no converted files to archive")
	}
	return b.Close()
}
