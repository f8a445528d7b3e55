package capture

import (
	"bufio"
	"fmt"
	"io"
)

// Writer emits captures in the sniffer's CSV format so that the Reader (and
// the sniffer host tooling) can consume them.
type Writer struct {
	w *bufio.Writer
}

// NewWriter wraps w in a buffered capture writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// WriteHeader writes each comment as a "# " line followed by the column header.
func (cw *Writer) WriteHeader(comments ...string) error {
	for _, c := range comments {
		if _, err := fmt.Fprintf(cw.w, "# %s\n", c); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(cw.w, "TIMESTAMP,DATA")
	return err
}

// Write writes one sample row.
func (cw *Writer) Write(s Sample) error {
	_, err := fmt.Fprintf(cw.w, "%d,%02X\n", s.Timestamp, s.Data)
	return err
}

// WriteCapture writes every sample of c followed by a flush.
func (cw *Writer) WriteCapture(c *Capture) error {
	for _, s := range c.Samples {
		if err := cw.Write(s); err != nil {
			return err
		}
	}
	return cw.Flush()
}

// Flush flushes buffered rows to the underlying writer.
func (cw *Writer) Flush() error {
	return cw.w.Flush()
}
