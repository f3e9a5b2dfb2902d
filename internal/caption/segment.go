package caption

import (
	"context"
	"regexp"
	"strings"
)

// Restorer inserts sentence punctuation into an unpunctuated transcript. The
// output must keep a 1:1 word correspondence with the input; beyond that no
// semantic behavior is assumed, so tests can use a deterministic stub.
type Restorer interface {
	Restore(ctx context.Context, text string) (string, error)
}

// SegmentConfig carries the line-wrapping knobs. Values are injected at
// construction instead of read from shared state so the segmenter and the
// alignment engine can be exercised independently.
type SegmentConfig struct {
	// MaxLineWidth is the display width ceiling for a wrapped line.
	MaxLineWidth int
	// CommaBreakRatio is the fill ratio past which a comma becomes a
	// preferred break point.
	CommaBreakRatio float64
}

// DefaultSegmentConfig returns the standard 42-column configuration.
func DefaultSegmentConfig() SegmentConfig {
	return SegmentConfig{MaxLineWidth: 42, CommaBreakRatio: 0.8}
}

var sentenceDelimiterRe = regexp.MustCompile(`[;:!?.]`)

// SegmentLines converts a token sequence into display lines: the joined
// transcript is punctuated by the restorer, split into sentences, and each
// sentence wrapped to the configured width. The returned lines carry text
// only; timing is assigned later by alignment.
func SegmentLines(ctx context.Context, tokens TokenSequence, restorer Restorer, cfg SegmentConfig) ([]string, error) {
	punctuated, err := restorer.Restore(ctx, tokens.Transcript())
	if err != nil {
		return nil, err
	}
	var lines []string
	for _, sentence := range splitSentences(punctuated) {
		lines = append(lines, wrapSentence(sentence, cfg)...)
	}
	return lines, nil
}

func splitSentences(text string) []string {
	return sentenceDelimiterRe.Split(text, -1)
}

// wrapSentence accumulates words up to the width ceiling. A word that would
// overflow flushes the accumulated line first; a single word longer than the
// whole line is emitted verbatim rather than split. Once the accumulator fills
// past the comma-break ratio, the last comma becomes the break point, except
// when digits flank it (a decimal or thousands separator).
func wrapSentence(sentence string, cfg SegmentConfig) []string {
	var lines []string
	current := ""
	for _, word := range strings.Fields(sentence) {
		if len(current)+len(word)+1 > cfg.MaxLineWidth {
			if current != "" {
				lines = append(lines, strings.TrimSpace(current))
				current = ""
			} else if len(word) > cfg.MaxLineWidth {
				lines = append(lines, word)
				continue
			}
		}

		current += word + " "

		if strings.Contains(current, ",") && float64(len(strings.TrimSpace(current))) > float64(cfg.MaxLineWidth)*cfg.CommaBreakRatio {
			split := strings.LastIndex(current, ",")
			if split != -1 {
				if split > 0 && split < len(current)-1 && isDigit(current[split-1]) && isDigit(current[split+1]) {
					continue
				}
				lines = append(lines, strings.TrimSpace(current[:split+1]))
				current = strings.TrimSpace(current[split+1:]) + " "
			}
		}
	}
	if current != "" {
		lines = append(lines, strings.TrimSpace(current))
	}
	return lines
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
