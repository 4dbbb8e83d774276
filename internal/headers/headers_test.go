package headers

import (
	"reflect"
	"testing"
)

func TestAddPreservesOrderCaseAndDuplicates(t *testing.T) {
	h := New()
	h.Add("Accept", "text/html")
	h.Add("X-Custom", "one")
	h.Add("x-custom", "two")

	if got := h.Len(); got != 3 {
		t.Fatalf("Len() = %d, want 3", got)
	}

	want := []Field{
		{Name: "Accept", Value: "text/html"},
		{Name: "X-Custom", Value: "one"},
		{Name: "x-custom", Value: "two"},
	}
	if got := h.All(); !reflect.DeepEqual(got, want) {
		t.Errorf("All() = %v, want %v", got, want)
	}

	if got := h.Get("X-CUSTOM"); got != "one" {
		t.Errorf("Get returned %q, want first value %q", got, "one")
	}
	if got := h.Values("X-Custom"); !reflect.DeepEqual(got, []string{"one", "two"}) {
		t.Errorf("Values = %v, want [one two]", got)
	}
	if !h.Has("accept") {
		t.Error("Has(accept) = false, want true")
	}
	if h.Has("Content-Length") {
		t.Error("Has(Content-Length) = true, want false")
	}
}

func TestGetAbsent(t *testing.T) {
	h := New()
	if got := h.Get("Host"); got != "" {
		t.Errorf("Get on empty headers = %q, want \"\"", got)
	}
	if got := h.Values("Host"); got != nil {
		t.Errorf("Values on empty headers = %v, want nil", got)
	}
}

func TestParseLine(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		wantErr bool
		field   Field
	}{
		{name: "simple", line: "Host: example.com", field: Field{"Host", "example.com"}},
		{name: "no space after colon", line: "Host:example.com", field: Field{"Host", "example.com"}},
		{name: "trailing tabs trimmed", line: "Accept: \ttext/html\t", field: Field{"Accept", "text/html"}},
		{name: "empty value", line: "X-Empty:", field: Field{"X-Empty", ""}},
		{name: "case kept", line: "x-lower: v", field: Field{"x-lower", "v"}},
		{name: "no colon", line: "not a header", wantErr: true},
		{name: "space in name", line: "Bad Header: v", wantErr: true},
		{name: "empty name", line: ": v", wantErr: true},
		{name: "control char in value", line: "X-Bin: a\x01b", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := New()
			err := h.ParseLine(tt.line)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseLine(%q) succeeded, want error", tt.line)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseLine(%q) failed: %v", tt.line, err)
			}
			if got := h.All()[0]; got != tt.field {
				t.Errorf("parsed field = %v, want %v", got, tt.field)
			}
		})
	}
}

func TestParseLineFoldsContinuations(t *testing.T) {
	h := New()
	if err := h.ParseLine("X-Long: first"); err != nil {
		t.Fatal(err)
	}
	if err := h.ParseLine("\tsecond part"); err != nil {
		t.Fatal(err)
	}

	if got := h.Get("X-Long"); got != "first second part" {
		t.Errorf("folded value = %q, want %q", got, "first second part")
	}
	if got := h.Len(); got != 1 {
		t.Errorf("Len() = %d after folding, want 1", got)
	}
}

func TestParseLineContinuationWithoutHeader(t *testing.T) {
	h := New()
	if err := h.ParseLine(" orphan"); err == nil {
		t.Error("continuation with no preceding header succeeded, want error")
	}
}
