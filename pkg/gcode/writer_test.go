package gcode

import (
	"strings"
	"testing"
)

func TestWriteToRoundTripsRawLines(t *testing.T) {
	prog, err := ParseReader(strings.NewReader(sampleLayer))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var buf strings.Builder
	if err := WriteTo(&buf, prog); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := strings.TrimRight(buf.String(), "\n")
	want := strings.TrimRight(sampleLayer, "\n")
	if got != want {
		t.Errorf("round trip mismatch:\n got: %q\nwant: %q", got, want)
	}
}
