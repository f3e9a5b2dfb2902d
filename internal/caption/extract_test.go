package caption

import (
	"strings"
	"testing"
)

func trackGroups(t *testing.T, blocks ...[]string) [][]string {
	t.Helper()
	groups := [][]string{{"WEBVTT", "Kind: captions", "Language: en", ""}}
	for _, block := range blocks {
		if len(block) != 4 {
			t.Fatalf("test block must have 4 lines, got %d", len(block))
		}
		groups = append(groups, block)
	}
	return groups
}

func TestExtractTokensInlineMarkers(t *testing.T) {
	groups := trackGroups(t, []string{
		"00:00:01.000 --> 00:00:03.000 align:start position:0%",
		"",
		"<00:00:01.500><c>Hello</c> <00:00:02.000><c>world</c>",
		"",
	})

	tokens := ExtractTokens(groups)
	if len(tokens) != 2 {
		t.Fatalf("expected 2 tokens, got %d", len(tokens))
	}
	first := tokens[0]
	if first.Text != "Hello" || first.Start != "00:00:01.000" || first.End != "00:00:01.500" {
		t.Fatalf("unexpected first token: %+v", *first)
	}
	second := tokens[1]
	if second.Text != "world" || second.Start != "00:00:01.500" || second.End != "00:00:02.000" {
		t.Fatalf("unexpected second token: %+v", *second)
	}
}

func TestExtractTokensTrailingSegmentInheritsBlockEnd(t *testing.T) {
	groups := trackGroups(t, []string{
		"00:00:01.000 --> 00:00:03.000",
		"",
		"Hello <00:00:02.000><c>world</c>",
		"",
	})

	tokens := ExtractTokens(groups)
	if len(tokens) != 2 {
		t.Fatalf("expected 2 tokens, got %d", len(tokens))
	}
	if tokens[0].Start != "00:00:01.000" || tokens[0].End != "00:00:02.000" {
		t.Fatalf("unexpected first token boundaries: %+v", *tokens[0])
	}
	if tokens[1].Start != "00:00:02.000" || tokens[1].End != "00:00:03.000" {
		t.Fatalf("trailing segment should inherit block end: %+v", *tokens[1])
	}
}

func TestExtractTokensSkipsMalformedBlocks(t *testing.T) {
	groups := trackGroups(t,
		[]string{"not a timing line", "", "ignored words", ""},
		[]string{"00:00:04.000 --> 00:00:05.000", "", "kept", ""},
	)

	tokens := ExtractTokens(groups)
	if len(tokens) != 1 || tokens[0].Text != "kept" {
		t.Fatalf("expected only the well-formed block's token, got %d tokens", len(tokens))
	}
}

func TestExtractTokensHeaderSkipped(t *testing.T) {
	// A header whose first line happens to look like a timing line must
	// still be skipped by position.
	groups := [][]string{
		{"00:00:00.000 --> 00:00:01.000", "", "header noise", ""},
		{"00:00:01.000 --> 00:00:02.000", "", "real", ""},
	}
	tokens := ExtractTokens(groups)
	if len(tokens) != 1 || tokens[0].Text != "real" {
		t.Fatalf("header block leaked into extraction: %d tokens", len(tokens))
	}
}

func TestExtractTokensCompleteness(t *testing.T) {
	groups := trackGroups(t,
		[]string{"00:00:01.000 --> 00:00:02.000", "", "<00:00:01.200><c>one</c> <00:00:01.400><c>two</c> <00:00:01.600><c>three</c>", ""},
		[]string{"00:00:02.000 --> 00:00:03.000", "", "   ", ""},
		[]string{"00:00:03.000 --> 00:00:04.000", "", "four <00:00:03.500><c>five</c>", ""},
	)

	tokens := ExtractTokens(groups)
	want := []string{"one", "two", "three", "four", "five"}
	if len(tokens) != len(want) {
		t.Fatalf("expected %d tokens, got %d", len(want), len(tokens))
	}
	for i, text := range want {
		if tokens[i].Text != text {
			t.Fatalf("token %d = %q, want %q", i, tokens[i].Text, text)
		}
	}
}

func TestTranscriptRoundTrip(t *testing.T) {
	groups := trackGroups(t,
		[]string{"00:00:01.000 --> 00:00:02.000", "", "<00:00:01.200><c>we</c> <00:00:01.500><c>said</c>", ""},
		[]string{"00:00:02.000 --> 00:00:03.000", "", "hello <00:00:02.500><c>there</c>", ""},
	)

	transcript := ExtractTokens(groups).Transcript()
	if strings.Join(strings.Fields(transcript), " ") != "we said hello there" {
		t.Fatalf("unexpected transcript %q", transcript)
	}
}

func TestExtractBlocksMarksEmptyInvalid(t *testing.T) {
	groups := trackGroups(t,
		[]string{"00:00:01.000 --> 00:00:02.000", "", "", ""},
		[]string{"00:00:02.000 --> 00:00:03.000", "", "words here", ""},
	)

	blocks, tokens := ExtractBlocks(groups)
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(blocks))
	}
	if !blocks[0].Invalid() {
		t.Fatal("token-less block should be invalid")
	}
	if blocks[1].Invalid() {
		t.Fatal("populated block should be valid")
	}
	if len(tokens) != 2 {
		t.Fatalf("expected 2 flat tokens, got %d", len(tokens))
	}
}

func TestExtractBlocksSharesTokenPointers(t *testing.T) {
	groups := trackGroups(t, []string{"00:00:01.000 --> 00:00:02.000", "", "shared", ""})

	blocks, tokens := ExtractBlocks(groups)
	if len(blocks) != 1 || len(tokens) != 1 {
		t.Fatalf("unexpected extraction shape: %d blocks, %d tokens", len(blocks), len(tokens))
	}
	if blocks[0].Tokens[0] != tokens[0] {
		t.Fatal("block and flat sequence must share token pointers")
	}
}
