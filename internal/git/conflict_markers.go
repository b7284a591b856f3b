package git

import (
	"strings"
)

// ConflictSections holds the text found between conflict markers. Each side
// concatenates every hunk of the file; nil means the side had no lines.
type ConflictSections struct {
	Ours       *string
	Theirs     *string
	Ancestor   *string
	HasMarkers bool
}

type markerState int

const (
	outsideHunk markerState = iota
	inOurs
	inAncestor
	inTheirs
)

// ParseConflictMarkers splits marker-annotated content into its sides.
// Segments are trimmed of surrounding whitespace.
func ParseConflictMarkers(content string) ConflictSections {
	var ours, theirs, ancestor strings.Builder
	var sawOurs, sawTheirs, sawAncestor bool
	state := outsideHunk
	hasMarkers := false

	for _, line := range strings.Split(content, "\n") {
		switch {
		case isMarkerLine(line, MarkerOurs):
			state = inOurs
			hasMarkers = true
		case isMarkerLine(line, MarkerBase) && state == inOurs:
			state = inAncestor
		case line == MarkerSplit && (state == inOurs || state == inAncestor):
			state = inTheirs
		case isMarkerLine(line, MarkerTheirs) && state == inTheirs:
			state = outsideHunk
			hasMarkers = true
		default:
			switch state {
			case inOurs:
				ours.WriteString(line + "\n")
				sawOurs = true
			case inAncestor:
				ancestor.WriteString(line + "\n")
				sawAncestor = true
			case inTheirs:
				theirs.WriteString(line + "\n")
				sawTheirs = true
			}
		}
	}

	return ConflictSections{
		Ours:       trimmedOrNil(sawOurs, ours.String()),
		Theirs:     trimmedOrNil(sawTheirs, theirs.String()),
		Ancestor:   trimmedOrNil(sawAncestor, ancestor.String()),
		HasMarkers: hasMarkers,
	}
}

// isMarkerLine matches a marker alone on its line or followed by a label
func isMarkerLine(line, marker string) bool {
	return line == marker || strings.HasPrefix(line, marker+" ")
}

func trimmedOrNil(seen bool, s string) *string {
	if !seen {
		return nil
	}
	trimmed := strings.TrimSpace(s)
	return &trimmed
}
