package caption

import (
	"sort"
	"strings"

	"recue/internal/timecode"
)

// TimedToken is the smallest unit of timed text the engine operates on,
// typically one word. Start and End keep the source's HH:MM:SS.mmm form.
// Text is fixed once the token joins a sequence; End is adjusted at most once,
// by deduplication, to close the gap with the following token.
type TimedToken struct {
	Start string
	End   string
	Text  string
}

// TokenSequence is an ordered sequence of tokens, ascending by Start with ties
// kept in source order. Tokens are shared by pointer so that an adjustment made
// while deduplicating the flat sequence is visible to any Block holding the
// same token.
type TokenSequence []*TimedToken

// Transcript joins every token's text with single-space separators. The result
// carries a trailing space, which the punctuation restorer tolerates and the
// alignment strategies rely on when slicing consumed text.
func (s TokenSequence) Transcript() string {
	var b strings.Builder
	for _, token := range s {
		b.WriteString(token.Text)
		b.WriteByte(' ')
	}
	return b.String()
}

// Block is one display window from the source track together with the tokens
// parsed out of it, ordered by start time.
type Block struct {
	Start  string
	End    string
	Tokens []*TimedToken
}

// NewBlock orders tokens by start time and derives the block window from the
// first and last token. A block with no tokens is invalid.
func NewBlock(tokens []*TimedToken) *Block {
	block := &Block{Tokens: tokens}
	sort.SliceStable(block.Tokens, func(i, j int) bool {
		return timecode.Before(block.Tokens[i].Start, block.Tokens[j].Start)
	})
	if len(block.Tokens) > 0 {
		block.Start = block.Tokens[0].Start
		block.End = block.Tokens[len(block.Tokens)-1].End
	}
	return block
}

// Invalid reports whether the block holds no tokens and must be skipped by any
// output that iterates blocks directly.
func (b *Block) Invalid() bool {
	return b == nil || len(b.Tokens) == 0
}

// TimedLine is one emitted cue: a display text with re-derived timing. Start
// and End are empty until alignment assigns them; an empty value surviving to
// emission is an alignment failure.
type TimedLine struct {
	Start string
	End   string
	Text  string
}
