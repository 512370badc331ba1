package gcode

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// parseSettingsBlock scans the file's trailing "; key = value" block
// that slicers append, the way readSettingsFromGCode2dict does for
// PrusaSlicer and OrcaSlicer output. Unrecognized slicers simply yield
// an empty settings map; callers fall back to defaults or a sidecar
// file (spec.md section 6.4).
func parseSettingsBlock(layerLines [][]string) map[string]string {
	settings := map[string]string{}
	inBlock := false
	for _, lines := range layerLines {
		for _, line := range lines {
			if strings.Contains(line, "; prusaslicer_config = begin") ||
				strings.Contains(line, "; CONFIG_BLOCK_START") {
				inBlock = true
				continue
			}
			if !inBlock {
				continue
			}
			trimmed := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), ";"))
			if trimmed == "" {
				continue
			}
			key, value, found := strings.Cut(trimmed, "=")
			if !found {
				continue
			}
			settings[strings.TrimSpace(key)] = strings.TrimSpace(value)
		}
	}
	return settings
}

// LoadSidecar reads a standalone "key = value" configuration file
// (spec.md section 6.4), one setting per line, "#" or ";" starting a
// comment. Values found here take precedence over settings embedded
// in the motion program when merged by the caller.
func LoadSidecar(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sidecar config: %w", err)
	}
	defer f.Close()

	settings := map[string]string{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		settings[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading sidecar config: %w", err)
	}
	return settings, nil
}

// Merge layers override on top of base, returning a new map. Used to
// combine in-file settings with an explicit sidecar override.
func Merge(base, override map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(override))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range override {
		out[k] = v
	}
	return out
}

// Float looks up a setting by key and parses it as a float64, falling
// back to def if the key is absent or unparsable.
func Float(settings map[string]string, key string, def float64) float64 {
	raw, ok := settings[key]
	if !ok {
		return def
	}
	val, err := strconv.ParseFloat(strings.Trim(raw, "%\"'"), 64)
	if err != nil {
		return def
	}
	return val
}

// Bool looks up a setting by key and parses it as a boolean, falling
// back to def if the key is absent or unparsable.
func Bool(settings map[string]string, key string, def bool) bool {
	raw, ok := settings[key]
	if !ok {
		return def
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return def
	}
}
