package caption

import "testing"

func tok(text, start, end string) *TimedToken {
	return &TimedToken{Start: start, End: end, Text: text}
}

func texts(tokens TokenSequence) []string {
	out := make([]string, len(tokens))
	for i, token := range tokens {
		out[i] = token.Text
	}
	return out
}

func TestDedupeCollapsesRolloverPair(t *testing.T) {
	tokens := TokenSequence{
		tok("we", "00:00:01.000", "00:00:02.000"),
		tok("the", "00:00:04.000", "00:00:05.000"),
		tok("the", "00:00:05.000", "00:00:07.000"),
	}

	deduped := Dedupe(tokens)
	if len(deduped) != 2 {
		t.Fatalf("expected 2 tokens after dedupe, got %d", len(deduped))
	}
	survivor := deduped[1]
	if survivor.Text != "the" || survivor.Start != "00:00:04.000" || survivor.End != "00:00:05.000" {
		t.Fatalf("unexpected survivor: %+v", *survivor)
	}
}

func TestDedupeRequiresSharedBoundary(t *testing.T) {
	tokens := TokenSequence{
		tok("the", "00:00:01.000", "00:00:02.000"),
		tok("the", "00:00:03.000", "00:00:04.000"),
	}
	if got := Dedupe(tokens); len(got) != 2 {
		t.Fatalf("gap-separated repeats must not merge, got %d tokens", len(got))
	}
}

func TestDedupeRequiresEqualText(t *testing.T) {
	tokens := TokenSequence{
		tok("the", "00:00:01.000", "00:00:02.000"),
		tok("then", "00:00:02.000", "00:00:03.000"),
	}
	if got := Dedupe(tokens); len(got) != 2 {
		t.Fatalf("different texts must not merge, got %d tokens", len(got))
	}
}

func TestDedupeChainedRun(t *testing.T) {
	// Three chained repeats: the single pass compares original neighbours,
	// so both later copies are dropped in one sweep.
	tokens := TokenSequence{
		tok("the", "00:00:01.000", "00:00:02.000"),
		tok("the", "00:00:02.000", "00:00:03.000"),
		tok("the", "00:00:03.000", "00:00:04.000"),
	}
	deduped := Dedupe(tokens)
	if len(deduped) != 1 {
		t.Fatalf("expected 1 token, got %d: %v", len(deduped), texts(deduped))
	}
	if deduped[0].Start != "00:00:01.000" || deduped[0].End != "00:00:02.000" {
		t.Fatalf("survivor keeps its own boundaries: %+v", *deduped[0])
	}
}

func TestDedupeIdempotent(t *testing.T) {
	tokens := TokenSequence{
		tok("a", "00:00:01.000", "00:00:02.000"),
		tok("a", "00:00:02.000", "00:00:03.000"),
		tok("b", "00:00:03.000", "00:00:04.000"),
		tok("b", "00:00:04.000", "00:00:05.000"),
	}

	once := Dedupe(tokens)
	twice := Dedupe(once)
	if len(once) != len(twice) {
		t.Fatalf("second pass changed length: %d vs %d", len(once), len(twice))
	}
	for i := range once {
		if once[i] != twice[i] {
			t.Fatalf("second pass changed token %d", i)
		}
	}
}
