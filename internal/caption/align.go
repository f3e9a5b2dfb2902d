package caption

import (
	"fmt"
	"regexp"
	"strings"
)

var cleanRe = regexp.MustCompile(`[;:!?.,-]`)

// cleanText strips sentence punctuation and surrounding whitespace so token
// text and line text compare independent of the restorer's insertions.
func cleanText(s string) string {
	return cleanRe.ReplaceAllString(strings.TrimSpace(s), "")
}

// AlignmentError reports a display line whose text could not be matched
// against the remaining token stream. Index is 1-based to match the cue
// numbering a reader sees in the output file.
type AlignmentError struct {
	Index int
	Text  string
}

func (e *AlignmentError) Error() string {
	return fmt.Sprintf("alignment failed at output line %d: no token timing for %q", e.Index, e.Text)
}

// consume walks tokens forward from cursor while the cleaned remainder of line
// still starts with the cleaned token text, returning the consumed tokens and
// the advanced cursor. Consuming slices the matched text plus its following
// separator off the remainder.
func consume(line string, tokens TokenSequence, cursor int) (consumed []*TimedToken, next int) {
	remainder := cleanText(line)
	for cursor < len(tokens) {
		cleaned := cleanText(tokens[cursor].Text)
		if !strings.HasPrefix(remainder, cleaned) {
			break
		}
		if cut := len(cleaned) + 1; cut < len(remainder) {
			remainder = remainder[cut:]
		} else {
			remainder = ""
		}
		consumed = append(consumed, tokens[cursor])
		cursor++
	}
	return consumed, cursor
}

// AlignNonIterative emits one cue per display line: the line's start is the
// start of the first token it consumes and its end is the end of the last.
// A line that consumes nothing is a fatal mismatch; nothing downstream can
// invent timing for it.
func AlignNonIterative(lines []string, tokens TokenSequence) ([]TimedLine, error) {
	cues := make([]TimedLine, 0, len(lines))
	cursor := 0
	for i, line := range lines {
		consumed, next := consume(line, tokens, cursor)
		if len(consumed) == 0 {
			return nil, &AlignmentError{Index: i + 1, Text: line}
		}
		cursor = next
		cues = append(cues, TimedLine{
			Start: consumed[0].Start,
			End:   consumed[len(consumed)-1].End,
			Text:  line,
		})
	}
	return cues, nil
}

// AlignIterative emits one cue per consumed token, each carrying that token's
// own timing and the cumulative text of the line so far. Played back, the line
// reveals itself word by word the way the source track did. A line that
// consumes no tokens is dropped from the output; the count of dropped lines
// is returned so callers can report a truncated variant.
func AlignIterative(lines []string, tokens TokenSequence) ([]TimedLine, int) {
	var cues []TimedLine
	cursor := 0
	dropped := 0
	for _, line := range lines {
		consumed, next := consume(line, tokens, cursor)
		if len(consumed) == 0 {
			dropped++
			continue
		}
		cursor = next
		cumulative := ""
		for _, token := range consumed {
			cumulative += token.Text + " "
			cues = append(cues, TimedLine{Start: token.Start, End: token.End, Text: cumulative})
		}
	}
	return cues, dropped
}

// AlignDirectIterative bypasses display lines entirely: for every valid source
// block it emits one cue per token with the cumulative text of that block so
// far. Invalid blocks are skipped. Block tokens already carry their final
// boundaries, so no mismatch is possible on this path.
func AlignDirectIterative(blocks []*Block) []TimedLine {
	var cues []TimedLine
	for _, block := range blocks {
		if block.Invalid() {
			continue
		}
		cumulative := ""
		for _, token := range block.Tokens {
			cumulative += token.Text + " "
			cues = append(cues, TimedLine{Start: token.Start, End: token.End, Text: cumulative + " "})
		}
	}
	return cues
}
