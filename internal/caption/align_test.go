package caption

import (
	"errors"
	"strings"
	"testing"

	"recue/internal/timecode"
)

func sampleTokens() TokenSequence {
	return TokenSequence{
		tok("Hello", "00:00:01.000", "00:00:01.500"),
		tok("world", "00:00:01.500", "00:00:02.000"),
		tok("how", "00:00:02.000", "00:00:02.400"),
		tok("are", "00:00:02.400", "00:00:02.800"),
		tok("you", "00:00:02.800", "00:00:03.200"),
	}
}

func TestAlignNonIterative(t *testing.T) {
	lines := []string{"Hello world", "how are you"}
	cues, err := AlignNonIterative(lines, sampleTokens())
	if err != nil {
		t.Fatalf("AlignNonIterative: %v", err)
	}
	if len(cues) != 2 {
		t.Fatalf("expected one cue per line, got %d", len(cues))
	}
	if cues[0].Start != "00:00:01.000" || cues[0].End != "00:00:02.000" || cues[0].Text != "Hello world" {
		t.Fatalf("unexpected first cue: %+v", cues[0])
	}
	if cues[1].Start != "00:00:02.000" || cues[1].End != "00:00:03.200" {
		t.Fatalf("unexpected second cue: %+v", cues[1])
	}
}

func TestAlignNonIterativePunctuationIgnored(t *testing.T) {
	lines := []string{"Hello, world!", "how are you?"}
	cues, err := AlignNonIterative(lines, sampleTokens())
	if err != nil {
		t.Fatalf("AlignNonIterative: %v", err)
	}
	if cues[0].Text != "Hello, world!" {
		t.Fatalf("line text must be preserved verbatim: %q", cues[0].Text)
	}
	if cues[0].Start != "00:00:01.000" || cues[1].End != "00:00:03.200" {
		t.Fatalf("punctuation disturbed timing: %+v %+v", cues[0], cues[1])
	}
}

func TestAlignNonIterativeMismatchReportsLineIndex(t *testing.T) {
	lines := []string{"Hello world", "completely different text"}
	_, err := AlignNonIterative(lines, sampleTokens())
	if err == nil {
		t.Fatal("expected alignment error")
	}
	var alignErr *AlignmentError
	if !errors.As(err, &alignErr) {
		t.Fatalf("expected AlignmentError, got %T", err)
	}
	if alignErr.Index != 2 {
		t.Fatalf("expected failure at line 2, got %d", alignErr.Index)
	}
	if !strings.Contains(alignErr.Error(), "completely different text") {
		t.Fatalf("error should carry the offending line: %v", alignErr)
	}
}

func TestAlignNonIterativeTokensExhausted(t *testing.T) {
	lines := []string{"Hello world how are you", "and then some more"}
	_, err := AlignNonIterative(lines, sampleTokens())
	var alignErr *AlignmentError
	if !errors.As(err, &alignErr) || alignErr.Index != 2 {
		t.Fatalf("expected exhaustion failure at line 2, got %v", err)
	}
}

func TestAlignIterativeTypewriterCues(t *testing.T) {
	lines := []string{"Hello world"}
	cues, dropped := AlignIterative(lines, sampleTokens()[:2])
	if dropped != 0 {
		t.Fatalf("expected no dropped lines, got %d", dropped)
	}
	if len(cues) != 2 {
		t.Fatalf("expected one cue per consumed token, got %d", len(cues))
	}
	if cues[0].Text != "Hello " || cues[1].Text != "Hello world " {
		t.Fatalf("cumulative text wrong: %q then %q", cues[0].Text, cues[1].Text)
	}
	if cues[0].Start != "00:00:01.000" || cues[0].End != "00:00:01.500" {
		t.Fatalf("cue must carry its own token timing: %+v", cues[0])
	}
	if cues[1].Start != "00:00:01.500" || cues[1].End != "00:00:02.000" {
		t.Fatalf("cue must carry its own token timing: %+v", cues[1])
	}
}

func TestAlignIterativeReportsDroppedLines(t *testing.T) {
	lines := []string{"Hello world how are you", "and then some more"}
	cues, dropped := AlignIterative(lines, sampleTokens())
	if dropped != 1 {
		t.Fatalf("expected 1 dropped line after token exhaustion, got %d", dropped)
	}
	if len(cues) != 5 {
		t.Fatalf("expected cues only for the first line's tokens, got %d", len(cues))
	}
	if cues[len(cues)-1].Text != "Hello world how are you " {
		t.Fatalf("last cue should complete the consumed line: %q", cues[len(cues)-1].Text)
	}
}

func TestAlignDirectIterative(t *testing.T) {
	blocks := []*Block{
		NewBlock([]*TimedToken{
			tok("Hello", "00:00:01.000", "00:00:01.500"),
			tok("world", "00:00:01.500", "00:00:02.000"),
		}),
		NewBlock(nil),
		NewBlock([]*TimedToken{
			tok("again", "00:00:03.000", "00:00:03.500"),
		}),
	}

	cues := AlignDirectIterative(blocks)
	if len(cues) != 3 {
		t.Fatalf("expected 3 cues (invalid block skipped), got %d", len(cues))
	}
	if !strings.HasPrefix(cues[1].Text, "Hello world") {
		t.Fatalf("cumulative block text wrong: %q", cues[1].Text)
	}
	if !strings.HasPrefix(cues[2].Text, "again") {
		t.Fatalf("cumulative text must reset per block: %q", cues[2].Text)
	}
}

func TestAlignmentMonotonicity(t *testing.T) {
	tokens := sampleTokens()
	lines := []string{"Hello world", "how are you"}

	nonIter, err := AlignNonIterative(lines, tokens)
	if err != nil {
		t.Fatalf("AlignNonIterative: %v", err)
	}
	iter, _ := AlignIterative(lines, tokens)
	direct := AlignDirectIterative([]*Block{NewBlock(tokens)})

	for name, cues := range map[string][]TimedLine{"non-iterative": nonIter, "iterative": iter, "direct-iterative": direct} {
		for i, cue := range cues {
			start, err := timecode.Parse(cue.Start)
			if err != nil {
				t.Fatalf("%s cue %d start: %v", name, i, err)
			}
			end, err := timecode.Parse(cue.End)
			if err != nil {
				t.Fatalf("%s cue %d end: %v", name, i, err)
			}
			if end < start {
				t.Fatalf("%s cue %d ends before it starts", name, i)
			}
			if i > 0 {
				prev, _ := timecode.Parse(cues[i-1].Start)
				if start < prev {
					t.Fatalf("%s cue %d start regressed", name, i)
				}
			}
		}
	}
}

func TestCleanText(t *testing.T) {
	cases := map[string]string{
		"  Hello, world!  ": "Hello world",
		"well-known":        "wellknown",
		"end; stop:":        "end stop",
	}
	for input, want := range cases {
		if got := cleanText(input); got != want {
			t.Fatalf("cleanText(%q) = %q, want %q", input, got, want)
		}
	}
}
