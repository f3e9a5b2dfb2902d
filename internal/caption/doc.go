// Package caption implements the token-timing alignment and re-segmentation
// engine for auto-generated caption tracks.
//
// The pipeline extracts individually timed word tokens from a raw track,
// collapses rollover duplicates, regroups the transcript into readable display
// lines, and re-derives cue timing by replaying the token stream against the
// line text. The package is pure: it never touches the filesystem and keeps
// timestamps as the source's HH:MM:SS.mmm strings so that emitted cues
// reproduce the source bytes exactly.
package caption
