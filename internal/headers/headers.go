package headers

import (
	"fmt"
	"strings"

	"golang.org/x/net/http/httpguts"
)

// Field is a single header line as received: name case and duplicates are
// preserved.
type Field struct {
	Name  string
	Value string
}

// Headers is an ordered multi-map of header fields. Lookups are
// case-insensitive, insertion order is kept.
type Headers struct {
	fields []Field
}

func New() *Headers {
	return &Headers{}
}

func (h *Headers) Add(name, value string) {
	h.fields = append(h.fields, Field{Name: name, Value: value})
}

// Get returns the value of the first field with the given name, or "" if
// the field is absent.
func (h *Headers) Get(name string) string {
	for _, f := range h.fields {
		if strings.EqualFold(f.Name, name) {
			return f.Value
		}
	}
	return ""
}

// Has reports whether at least one field with the given name is present.
func (h *Headers) Has(name string) bool {
	for _, f := range h.fields {
		if strings.EqualFold(f.Name, name) {
			return true
		}
	}
	return false
}

// Values returns every value recorded for the given name, in the order the
// fields were received.
func (h *Headers) Values(name string) []string {
	var values []string
	for _, f := range h.fields {
		if strings.EqualFold(f.Name, name) {
			values = append(values, f.Value)
		}
	}
	return values
}

func (h *Headers) Len() int {
	return len(h.fields)
}

// All returns the fields in order. The slice is shared; callers must not
// mutate it.
func (h *Headers) All() []Field {
	return h.fields
}

// ParseLine parses one raw header line (terminator already stripped) and
// appends the resulting field. A line starting with SP or HTAB is an
// obsolete continuation and is folded into the previous field's value.
func (h *Headers) ParseLine(line string) error {
	if line == "" {
		return fmt.Errorf("empty header line")
	}

	if line[0] == ' ' || line[0] == '\t' {
		if len(h.fields) == 0 {
			return fmt.Errorf("continuation line with no preceding header")
		}
		last := &h.fields[len(h.fields)-1]
		last.Value = last.Value + " " + strings.Trim(line, " \t")
		return nil
	}

	name, value, found := strings.Cut(line, ":")
	if !found {
		return fmt.Errorf("malformed header line: %s", line)
	}

	if !httpguts.ValidHeaderFieldName(name) {
		return fmt.Errorf("invalid header name: %s", name)
	}

	value = strings.Trim(value, " \t")
	if !httpguts.ValidHeaderFieldValue(value) {
		return fmt.Errorf("invalid header value for %s", name)
	}

	h.Add(name, value)
	return nil
}
