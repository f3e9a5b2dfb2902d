package caption

// Dedupe collapses rollover duplicates: tokens repeated because the source
// track re-displays the tail of one window at the head of the next. A single
// left-to-right pass compares each original adjacent pair; when the texts
// match and the first token ends exactly where the second starts, the first
// token absorbs the second's start boundary and the second is dropped.
//
// The pass deliberately compares original neighbours rather than re-scanning
// after a drop. Runs of three or more repeats collapse only as far as the
// original pairwise adjacency allows.
func Dedupe(tokens TokenSequence) TokenSequence {
	dropped := make(map[int]bool)
	for i := 0; i+1 < len(tokens); i++ {
		current := tokens[i]
		next := tokens[i+1]
		if current.Text == next.Text && current.End == next.Start {
			current.End = next.Start
			dropped[i+1] = true
		}
	}
	if len(dropped) == 0 {
		return tokens
	}
	kept := make(TokenSequence, 0, len(tokens)-len(dropped))
	for i, token := range tokens {
		if !dropped[i] {
			kept = append(kept, token)
		}
	}
	return kept
}
