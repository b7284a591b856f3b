package git

import (
	"bytes"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// ConflictStyle selects how conflict hunks are rendered
type ConflictStyle string

const (
	// ConflictStyleMerge renders ours and theirs
	ConflictStyleMerge ConflictStyle = "merge"
	// ConflictStyleDiff3 also renders the common ancestor
	ConflictStyleDiff3 ConflictStyle = "diff3"
)

// Conflict marker prefixes, seven characters each
const (
	MarkerOurs     = "<<<<<<<"
	MarkerBase     = "|||||||"
	MarkerSplit    = "======="
	MarkerTheirs   = ">>>>>>>"
	binarySniffLen = 8000
)

// MergeLabels names the sides in conflict markers
type MergeLabels struct {
	Ours   string
	Base   string
	Theirs string
}

// FileMergeResult is the outcome of a three-way line merge
type FileMergeResult struct {
	Content   []byte
	Conflicts int
}

// IsBinary reports whether content looks binary (NUL within the first 8000 bytes)
func IsBinary(content []byte) bool {
	if len(content) > binarySniffLen {
		content = content[:binarySniffLen]
	}
	return bytes.IndexByte(content, 0) >= 0
}

// splitLines splits content after each newline, keeping terminators so a
// missing final newline survives the merge
func splitLines(content []byte) []string {
	if len(content) == 0 {
		return nil
	}
	lines := strings.SplitAfter(string(content), "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func matchingBlocks(a, b []string) []difflib.Match {
	return difflib.NewMatcherWithJunk(a, b, false, nil).GetMatchingBlocks()
}

// syncRegion is a run of base lines kept unchanged by both sides
type syncRegion struct {
	baseStart, baseEnd     int
	oursStart, oursEnd     int
	theirsStart, theirsEnd int
}

func findSyncRegions(base, ours, theirs []string) []syncRegion {
	oursMatches := matchingBlocks(base, ours)
	theirsMatches := matchingBlocks(base, theirs)

	var regions []syncRegion
	for i, j := 0, 0; i < len(oursMatches) && j < len(theirsMatches); {
		om, tm := oursMatches[i], theirsMatches[j]
		start := max(om.A, tm.A)
		end := min(om.A+om.Size, tm.A+tm.Size)
		if start < end {
			oursStart := om.B + (start - om.A)
			theirsStart := tm.B + (start - tm.A)
			regions = append(regions, syncRegion{
				baseStart: start, baseEnd: end,
				oursStart: oursStart, oursEnd: oursStart + (end - start),
				theirsStart: theirsStart, theirsEnd: theirsStart + (end - start),
			})
		}
		if om.A+om.Size < tm.A+tm.Size {
			i++
		} else {
			j++
		}
	}

	regions = append(regions, syncRegion{
		baseStart: len(base), baseEnd: len(base),
		oursStart: len(ours), oursEnd: len(ours),
		theirsStart: len(theirs), theirsEnd: len(theirs),
	})
	return regions
}

func sameLines(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// MergeLines performs a diff3 merge of ours and theirs against base.
// Overlapping edits become conflict hunks rendered in the given style.
func MergeLines(base, ours, theirs []byte, labels MergeLabels, style ConflictStyle) FileMergeResult {
	baseLines, oursLines, theirsLines := splitLines(base), splitLines(ours), splitLines(theirs)

	var out bytes.Buffer
	conflicts := 0
	writeLines := func(lines []string) {
		for _, l := range lines {
			out.WriteString(l)
		}
	}
	writeSection := func(marker, label string, lines []string) {
		out.WriteString(marker)
		if label != "" {
			out.WriteString(" " + label)
		}
		out.WriteString("\n")
		writeLines(lines)
		if n := len(lines); n > 0 && !strings.HasSuffix(lines[n-1], "\n") {
			out.WriteString("\n")
		}
	}

	bi, oi, ti := 0, 0, 0
	for _, region := range findSyncRegions(baseLines, oursLines, theirsLines) {
		baseChunk := baseLines[bi:region.baseStart]
		oursChunk := oursLines[oi:region.oursStart]
		theirsChunk := theirsLines[ti:region.theirsStart]

		if len(oursChunk) > 0 || len(theirsChunk) > 0 || len(baseChunk) > 0 {
			oursSame := sameLines(oursChunk, baseChunk)
			theirsSame := sameLines(theirsChunk, baseChunk)
			switch {
			case sameLines(oursChunk, theirsChunk):
				writeLines(oursChunk)
			case oursSame:
				writeLines(theirsChunk)
			case theirsSame:
				writeLines(oursChunk)
			default:
				conflicts++
				writeSection(MarkerOurs, labels.Ours, oursChunk)
				if style == ConflictStyleDiff3 {
					writeSection(MarkerBase, labels.Base, baseChunk)
				}
				writeSection(MarkerSplit, "", theirsChunk)
				out.WriteString(MarkerTheirs)
				if labels.Theirs != "" {
					out.WriteString(" " + labels.Theirs)
				}
				out.WriteString("\n")
			}
		}

		writeLines(baseLines[region.baseStart:region.baseEnd])
		bi, oi, ti = region.baseEnd, region.oursEnd, region.theirsEnd
	}

	return FileMergeResult{Content: out.Bytes(), Conflicts: conflicts}
}
