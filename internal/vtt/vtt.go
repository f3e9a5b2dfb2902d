// Package vtt reads and writes the block-oriented WEBVTT variant produced by
// caption exporters: a fixed 4-line header followed by repeating 4-line
// groups, each a timing line plus up to three text lines.
package vtt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"recue/internal/caption"
)

// headerLines is the fixed number of lines the track header occupies.
const headerLines = 4

// groupSize is the number of lines per caption block in the source format.
const groupSize = 4

// ReadGroups splits a track into 4-line groups, header group included.
// Trailing blank lines are discarded first. A final partial group is repaired
// rather than rejected: a single leftover line is dropped, two or three are
// padded with blanks to complete the group.
func ReadGroups(r io.Reader) ([][]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), " \t\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read track: %w", err)
	}

	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	switch leftover := len(lines) % groupSize; {
	case leftover == 1:
		lines = lines[:len(lines)-1]
	case leftover > 1:
		for i := leftover; i < groupSize; i++ {
			lines = append(lines, "")
		}
	}

	groups := make([][]string, 0, len(lines)/groupSize)
	for i := 0; i+groupSize <= len(lines); i += groupSize {
		groups = append(groups, lines[i:i+groupSize])
	}
	return groups, nil
}

// ReadFileGroups reads a track file into 4-line groups.
func ReadFileGroups(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open track: %w", err)
	}
	defer file.Close()
	return ReadGroups(file)
}

// ReadHeader returns the first four raw lines of a track, joined with
// newlines and without a trailing newline. The header is reproduced verbatim
// in every output track.
func ReadHeader(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open track: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lines := make([]string, 0, headerLines)
	for len(lines) < headerLines && scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("read header: %w", err)
	}
	return strings.Join(lines, "\n"), nil
}

// WriteCues renders a cue sequence in the source block format: the header
// line, then `start --> end \ntext\n\n\n` per cue, with any literal `&nbsp`
// replaced by a single space.
func WriteCues(w io.Writer, header string, cues []caption.TimedLine) error {
	if _, err := fmt.Fprintf(w, "%s\n", header); err != nil {
		return err
	}
	for _, cue := range cues {
		text := strings.ReplaceAll(cue.Text, "&nbsp", " ")
		if _, err := fmt.Fprintf(w, "%s --> %s \n%s\n\n\n", cue.Start, cue.End, text); err != nil {
			return err
		}
	}
	return nil
}

// WriteTrack writes a cue sequence to path atomically: the content lands in a
// temporary sibling file that is renamed into place only once fully written,
// so an aborted run never leaves a partial file that looks complete.
func WriteTrack(path, header string, cues []caption.TimedLine) error {
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

	buffered := bufio.NewWriter(tmp)
	if err := WriteCues(buffered, header, cues); err != nil {
		return fmt.Errorf("write track: %w", err)
	}
	if err := buffered.Flush(); err != nil {
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
