package gcode

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/arcoverhang/arcoverhang/pkg/geometry"
)

// Parse reads a motion program file and returns a Program. It follows
// the same split-then-classify shape as the original's
// splitGCodeIntoLayers/extract_features pass: first the file is split
// into layers on ";LAYER_CHANGE", then each layer's lines are grouped
// into segments on ";TYPE:" markers.
func Parse(filename string) (*Program, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()
	return ParseReader(file)
}

func ParseReader(r io.Reader) (*Program, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 8*1024*1024)

	prog := &Program{Settings: map[string]string{}}

	var layerLines [][]string
	var cur []string
	for scanner.Scan() {
		line := scanner.Text()
		if strings.Contains(line, ";LAYER_CHANGE") {
			if len(cur) > 0 {
				layerLines = append(layerLines, cur)
			}
			cur = []string{line}
			continue
		}
		cur = append(cur, line)
	}
	if len(cur) > 0 {
		layerLines = append(layerLines, cur)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading motion program: %w", err)
	}

	settings := parseSettingsBlock(layerLines)
	prog.Settings = settings

	for i, lines := range layerLines {
		layer, err := parseLayer(i, lines)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
		prog.Layers = append(prog.Layers, layer)
	}

	for i, layer := range prog.Layers {
		layer.SurroundingPerimeter = buildSurroundingPerimeter(layer)
		if i > 0 {
			layer.PrevExternalPerimeter = buildExternalPerimeter(prog.Layers[i-1])
			layer.PrevExternalPerimeterIslands = perimeterIslands(prog.Layers[i-1])
		}
	}

	return prog, nil
}

// segment classification, mirroring the original's ";TYPE:" switch in
// Layer.extract_features.
var typeKinds = map[string]SegmentKind{
	"external perimeter":  KindOuterPerimeter,
	"perimeter":           KindPerimeter,
	"bridge infill":       KindBridgeInfill,
	"internal bridge infill": KindBridgeInfill,
	"solid infill":        KindSolidInfill,
	"top solid infill":    KindSolidInfill,
}

func parseLayer(index int, lines []string) (*Layer, error) {
	layer := &Layer{Index: index}

	curKind := KindOther
	var curTags []string
	var curRaw []string
	var curPath geometry.LineString
	var curExtrusion, curFeedrate float64
	havePos := false
	var pos geometry.Point

	curHasMotion := false

	// flush commits the accumulated raw lines as a Segment, but only
	// once they contain an actual motion command: a run of pure
	// comment/marker lines (e.g. a bare ";TYPE:" line before its first
	// move) carries forward and is attributed to whichever segment
	// follows, instead of becoming its own path-less segment.
	flush := func() {
		if len(curRaw) == 0 || !curHasMotion {
			return
		}
		layer.Segments = append(layer.Segments, Segment{
			Kind:           curKind,
			Path:           curPath,
			ExtrusionPerMM: curExtrusion,
			Feedrate:       curFeedrate,
			Tags:           append([]string(nil), curTags...),
			Raw:            curRaw,
		})
		curRaw = nil
		curPath = nil
		curHasMotion = false
	}

	inWipe := false

	for _, raw := range lines {
		trimmed := strings.TrimSpace(raw)

		if strings.HasPrefix(trimmed, ";Z:") {
			if z, err := strconv.ParseFloat(strings.TrimPrefix(trimmed, ";Z:"), 64); err == nil {
				layer.Z = z
			}
			layer.HeaderLines = append(layer.HeaderLines, raw)
			continue
		}

		if strings.HasPrefix(trimmed, ";TYPE:") {
			flush()
			label := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(trimmed, ";TYPE:")))
			if kind, ok := typeKinds[label]; ok {
				curKind = kind
			} else {
				curKind = KindOther
			}
			curTags = []string{label}
			curRaw = append(curRaw, raw)
			continue
		}

		if strings.Contains(trimmed, ";WIPE_START") {
			inWipe = true
			curRaw = append(curRaw, raw)
			continue
		}
		if strings.Contains(trimmed, ";WIPE_END") {
			inWipe = false
			curRaw = append(curRaw, raw)
			continue
		}

		if trimmed == "" || strings.HasPrefix(trimmed, ";") {
			if len(curRaw) == 0 && len(layer.Segments) == 0 {
				layer.HeaderLines = append(layer.HeaderLines, raw)
			} else {
				curRaw = append(curRaw, raw)
			}
			continue
		}

		cmd, hasMove, hasExtrude, x, y, extrude, feed, ok := parseMotionLine(trimmed)
		if !ok {
			curRaw = append(curRaw, raw)
			continue
		}

		if feed > 0 {
			curFeedrate = feed
		}

		if cmd == "G0" || (cmd == "G1" && hasMove && !hasExtrude) {
			// travel move: ends the current path segment's accumulation
			// but is itself captured as its own travel segment, matching
			// isTravelMove's treatment in the original. The enclosing
			// feature's kind/tags resume afterward so a positioning move
			// at the start of a feature doesn't lose its classification.
			resumeKind := curKind
			resumeTags := curTags
			flush()
			curKind = KindTravel
			curRaw = append(curRaw, raw)
			curHasMotion = true
			if hasMove {
				pos = geometry.NewPoint(x, y)
				havePos = true
				curPath = geometry.LineString{pos}
			}
			flush()
			curKind = resumeKind
			curTags = resumeTags
			continue
		}

		if inWipe {
			curRaw = append(curRaw, raw)
			curHasMotion = true
			if hasMove {
				pos = geometry.NewPoint(x, y)
				havePos = true
			}
			continue
		}

		curRaw = append(curRaw, raw)
		curHasMotion = true
		if hasMove {
			if !havePos {
				pos = geometry.NewPoint(x, y)
				havePos = true
				curPath = append(curPath, pos)
			} else {
				if len(curPath) == 0 {
					curPath = append(curPath, pos)
				}
				pos = geometry.NewPoint(x, y)
				curPath = append(curPath, pos)
			}
			if hasExtrude {
				curExtrusion = extrude
			}
		}
	}
	flush()

	// Any trailing marker-only lines (e.g. a ";TYPE:" with no motion
	// after it before the layer ends) never found a segment to attach
	// to; keep them rather than silently dropping source lines.
	if len(curRaw) > 0 {
		if n := len(layer.Segments); n > 0 {
			layer.Segments[n-1].Raw = append(layer.Segments[n-1].Raw, curRaw...)
		} else {
			layer.HeaderLines = append(layer.HeaderLines, curRaw...)
		}
	}

	return layer, nil
}

// parseMotionLine extracts the command word and X/Y coordinates from a
// single G-code line, the way the original's getPtfromCmd does,
// stripping trailing comments first.
func parseMotionLine(line string) (cmd string, hasMove, hasExtrude bool, x, y, extrude, feed float64, ok bool) {
	if idx := strings.IndexByte(line, ';'); idx >= 0 {
		line = line[:idx]
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return "", false, false, 0, 0, 0, 0, false
	}
	fields := strings.Fields(line)
	cmd = strings.ToUpper(fields[0])
	switch cmd {
	case "G0", "G1", "G2", "G3":
	default:
		return cmd, false, false, 0, 0, 0, 0, false
	}

	for _, f := range fields[1:] {
		if len(f) < 2 {
			continue
		}
		val, err := strconv.ParseFloat(f[1:], 64)
		if err != nil {
			continue
		}
		switch f[0] {
		case 'X', 'x':
			x = val
			hasMove = true
		case 'Y', 'y':
			y = val
			hasMove = true
		case 'E', 'e':
			hasExtrude = true
			extrude = val
		case 'F', 'f':
			feed = val
		}
	}
	return cmd, hasMove, hasExtrude, x, y, extrude, feed, true
}

// buildSurroundingPerimeter assembles a layer's outer boundary from its
// external-perimeter segments, unioning them the way the original's
// makeExternalPerimeter2Polys does.
func buildSurroundingPerimeter(layer *Layer) geometry.Polygon {
	var rings []geometry.Ring
	for _, seg := range layer.Segments {
		if seg.Kind != KindOuterPerimeter || len(seg.Path) < 3 {
			continue
		}
		rings = append(rings, geometry.Ring(seg.Path))
	}
	if len(rings) == 0 {
		return geometry.Polygon{}
	}
	polys := make([]geometry.Polygon, len(rings))
	for i, r := range rings {
		polys[i] = geometry.NewPolygon(r)
	}
	merged := geometry.Union(polys...)
	if len(merged) == 0 {
		return geometry.Polygon{}
	}
	best := merged[0]
	for _, p := range merged[1:] {
		if p.Area() > best.Area() {
			best = p
		}
	}
	return best
}

func buildExternalPerimeter(layer *Layer) geometry.Polygon {
	return buildSurroundingPerimeter(layer)
}

// perimeterIslands returns each external-perimeter loop of layer as its
// own polygon, unmerged, the way the original's extPerimeterPolys list
// holds one Shapely polygon per loop rather than a single union. A
// multi-object plate produces several disjoint loops here; a
// single-object plate produces one, matching buildExternalPerimeter.
func perimeterIslands(layer *Layer) []geometry.Polygon {
	var islands []geometry.Polygon
	for _, seg := range layer.Segments {
		if seg.Kind != KindOuterPerimeter || len(seg.Path) < 3 {
			continue
		}
		poly := geometry.NewPolygon(geometry.Ring(seg.Path))
		if !poly.IsEmpty() {
			islands = append(islands, poly)
		}
	}
	return islands
}
