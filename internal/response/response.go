package response

import (
	"fmt"
	"io"

	"github.com/SUPERKISA8BIIT/KSiS-5/internal/headers"
)

// Response is a value object consumed by the serializer. Headers keep the
// order the caller supplied; nothing is added, deduplicated or reordered on
// the wire, so callers that want a Content-Length must set one themselves.
type Response struct {
	Status  int
	Reason  string
	Headers []headers.Field
	Body    []byte
}

type WriterState int

const (
	StateInitialized WriterState = iota
	StateStatusWritten
	StateHeadersWritten
	StateBodyWritten
)

// Writer serializes one response onto a stream in strict stage order:
// status line, headers, optional body.
type Writer struct {
	w     io.Writer
	state WriterState
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{
		w:     w,
		state: StateInitialized,
	}
}

func (w *Writer) WriteStatusLine(status int, reason string) error {
	if w.state != StateInitialized {
		return fmt.Errorf("status line already written or called out of order")
	}

	_, err := fmt.Fprintf(w.w, "HTTP/1.1 %d %s\r\n", status, reason)
	if err != nil {
		return err
	}

	w.state = StateStatusWritten
	return nil
}

// WriteHeaders writes the fields in the order given, then the blank line
// that terminates the header block. A nil slice writes just the blank line.
func (w *Writer) WriteHeaders(fields []headers.Field) error {
	if w.state != StateStatusWritten {
		return fmt.Errorf("status line not written or headers already written")
	}

	for _, f := range fields {
		if _, err := fmt.Fprintf(w.w, "%s: %s\r\n", f.Name, f.Value); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(w.w, "\r\n"); err != nil {
		return err
	}

	w.state = StateHeadersWritten
	return nil
}

func (w *Writer) WriteBody(p []byte) (int, error) {
	if w.state != StateHeadersWritten {
		return 0, fmt.Errorf("headers not written or body already written")
	}

	n, err := w.w.Write(p)
	if err != nil {
		return 0, err
	}

	w.state = StateBodyWritten
	return n, nil
}

// Write serializes resp onto w in a single pass. Serializing the same
// Response twice produces identical bytes.
func Write(w io.Writer, resp *Response) error {
	wr := NewWriter(w)

	if err := wr.WriteStatusLine(resp.Status, resp.Reason); err != nil {
		return err
	}
	if err := wr.WriteHeaders(resp.Headers); err != nil {
		return err
	}
	if len(resp.Body) > 0 {
		if _, err := wr.WriteBody(resp.Body); err != nil {
			return err
		}
	}
	return nil
}
