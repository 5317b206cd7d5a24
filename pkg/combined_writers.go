package pkg

import (
	"io"

	"go.uber.org/multierr"
)

// CombinedWriter writes the same payload to all of its writers (e.g. stdout and a log file).
// A failing writer does not stop the others, errors are combined.
type CombinedWriter struct {
	Writers []io.Writer
}

func NewCombinedWriter(writers ...io.Writer) *CombinedWriter {
	cw := &CombinedWriter{}
	for _, w := range writers {
		if w != nil {
			cw.Writers = append(cw.Writers, w)
		}
	}
	return cw
}

func (cw *CombinedWriter) Write(p []byte) (n int, err error) {
	for _, w := range cw.Writers {
		written, werr := w.Write(p)
		if werr != nil {
			err = multierr.Append(err, werr)
			continue
		}
		n += written
	}
	return n, err
}
