package gcode

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Write serializes a Program back to a motion program file, replacing
// the file named filename atomically (write to a temp file in the
// same directory, then rename) so a crash mid-write never leaves a
// corrupt file in place (spec.md section 9, scoped resource
// management).
func Write(filename string, prog *Program) error {
	dir := filepath.Dir(filename)
	tmp, err := os.CreateTemp(dir, ".arcoverhang-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	w := bufio.NewWriter(tmp)
	if err := WriteTo(w, prog); err != nil {
		tmp.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to flush motion program: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, filename); err != nil {
		return fmt.Errorf("failed to replace motion program: %w", err)
	}
	return nil
}

// WriteTo writes the raw lines of every layer and segment in order.
// Segments carry their own Raw lines (either untouched source lines
// or lines produced by pkg/emit), so the writer itself performs no
// G-code synthesis.
func WriteTo(w io.Writer, prog *Program) error {
	bw := bufio.NewWriter(w)
	for _, layer := range prog.Layers {
		for _, line := range layer.HeaderLines {
			if _, err := fmt.Fprintln(bw, line); err != nil {
				return fmt.Errorf("failed to write layer header: %w", err)
			}
		}
		for _, seg := range layer.Segments {
			for _, line := range seg.Raw {
				if _, err := fmt.Fprintln(bw, line); err != nil {
					return fmt.Errorf("failed to write segment: %w", err)
				}
			}
		}
	}
	for _, line := range prog.Trailer {
		if _, err := fmt.Fprintln(bw, line); err != nil {
			return fmt.Errorf("failed to write trailer: %w", err)
		}
	}
	return bw.Flush()
}
