package vtt

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"recue/internal/timecode"
)

// Segment is one timed span of transcribed speech, as produced by the
// acoustic transcription collaborator.
type Segment struct {
	Start float64
	End   float64
	Text  string
}

// SynthesizedHeader is the header written for tracks built from a
// transcription rather than exported captions.
const SynthesizedHeader = "WEBVTT\n\n\n"

// WriteSegmentTrack synthesizes a caption track from transcription segments.
// The layout matches the exporter's block format (timing line, blank line,
// text line, blank line) so the token extractor can ingest the result like
// any other source track. Written atomically like WriteTrack.
func WriteSegmentTrack(path string, segments []Segment) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp track: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if tmpPath != "" {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	w := bufio.NewWriter(tmp)
	if _, err := fmt.Fprintf(w, "%s\n", SynthesizedHeader); err != nil {
		return err
	}
	for _, segment := range segments {
		_, err := fmt.Fprintf(w, "%s --> %s\n\n%s\n\n",
			timecode.Format(segment.Start), timecode.Format(segment.End), segment.Text)
		if err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush track: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp track: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("finalize track: %w", err)
	}
	tmpPath = ""
	return nil
}
