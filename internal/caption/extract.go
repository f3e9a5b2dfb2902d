package caption

import (
	"regexp"
	"strings"

	"recue/internal/timecode"
)

var (
	blockTimingRe = regexp.MustCompile(`^` + timecode.Pattern + ` --> ` + timecode.Pattern)
	markerRe      = regexp.MustCompile(`<` + timecode.Pattern + `>`)
	captionTagRe  = regexp.MustCompile(`</?c>`)
)

// ExtractTokens parses the 4-line groups of a raw caption track into a flat
// token sequence. The first group is the track header and is skipped; groups
// whose first line does not carry a timing span are skipped as malformed or
// trailing noise.
func ExtractTokens(groups [][]string) TokenSequence {
	var tokens TokenSequence
	for i, group := range groups {
		if i == 0 {
			continue
		}
		tokens = append(tokens, blockTokens(group)...)
	}
	return tokens
}

// ExtractBlocks parses the same groups but additionally preserves the block
// structure, returning one Block per well-formed group alongside the flat
// sequence. Both views share the same token pointers.
func ExtractBlocks(groups [][]string) ([]*Block, TokenSequence) {
	var (
		blocks []*Block
		tokens TokenSequence
	)
	for i, group := range groups {
		if i == 0 {
			continue
		}
		parsed := blockTokens(group)
		if parsed == nil && !wellFormed(group) {
			continue
		}
		tokens = append(tokens, parsed...)
		blocks = append(blocks, NewBlock(parsed))
	}
	return blocks, tokens
}

func wellFormed(group []string) bool {
	return len(group) > 0 && blockTimingRe.MatchString(group[0])
}

// blockTokens extracts the timed tokens of one 4-line group, or nil when the
// group is malformed. The timing line carries the block window at fixed
// character offsets; the third line carries the spoken text with optional
// inline timestamp markers.
func blockTokens(group []string) []*TimedToken {
	if !wellFormed(group) || len(group) < 3 {
		return nil
	}
	timing := group[0]
	if len(timing) < 29 {
		return nil
	}
	blockStart := timing[:12]
	blockEnd := timing[17:29]

	line := captionTagRe.ReplaceAllString(group[2], "")

	var tokens []*TimedToken
	for _, seg := range splitTimedSegments(line) {
		start := seg.start
		if start == "" {
			start = blockStart
		}
		end := seg.end
		if end == "" {
			end = blockEnd
		}
		tokens = append(tokens, &TimedToken{Start: start, End: end, Text: seg.text})
	}
	return tokens
}

type timedSegment struct {
	start string
	end   string
	text  string
}

// splitTimedSegments splits a text line on its inline <HH:MM:SS.mmm> markers.
// Empty segments are dropped before timestamps are assigned, so a line opening
// with a marker still leaves its first word to inherit the block start. A
// segment with no marker after it is left without an end time.
func splitTimedSegments(line string) []timedSegment {
	marks := markerRe.FindAllString(line, -1)
	parts := markerRe.Split(line, -1)

	var texts []string
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			texts = append(texts, trimmed)
		}
	}

	segments := make([]timedSegment, 0, len(texts))
	for i, text := range texts {
		seg := timedSegment{text: text}
		if i > 0 {
			seg.start = stripAngles(marks[i-1])
		}
		if i < len(marks) {
			seg.end = stripAngles(marks[i])
		}
		segments = append(segments, seg)
	}
	return segments
}

func stripAngles(mark string) string {
	return strings.Trim(mark, "<>")
}
