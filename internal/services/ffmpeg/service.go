package ffmpeg

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"recue/internal/config"
	"recue/internal/language"
)

// Command is the ffmpeg binary name resolved via PATH.
const Command = "ffmpeg"

// Service embeds subtitle tracks into media containers.
type Service struct {
	cfg           config.Embed
	languages     []string
	priority      []string
	binary        string
	commandRunner func(ctx context.Context, name string, args ...string) error
}

// NewService creates an embed service. languages and priority come from the
// subtitles configuration and control track ordering.
func NewService(cfg config.Embed, languages, priority []string) *Service {
	return &Service{
		cfg:       cfg,
		languages: languages,
		priority:  priority,
		binary:    Command,
	}
}

// WithBinary overrides the ffmpeg binary path.
func (s *Service) WithBinary(path string) {
	if path != "" {
		s.binary = path
	}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	s.commandRunner = runner
}

// Enabled reports whether embedding is configured on.
func (s *Service) Enabled() bool {
	return s.cfg.Enabled
}

func (s *Service) run(ctx context.Context, args ...string) error {
	if s.commandRunner != nil {
		return s.commandRunner(ctx, s.binary, args...)
	}
	cmd := exec.CommandContext(ctx, s.binary, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", s.binary, err, strings.TrimSpace(string(output)))
	}
	return nil
}

// OrderTracks sorts subtitle files by configured language order, then by
// variant priority within each language. Tracks whose tag matches no
// configured combination are dropped.
func (s *Service) OrderTracks(tracks []string) []string {
	tags := make([]string, len(tracks))
	for i, track := range tracks {
		tags[i] = language.TrackTag(track, s.languages)
	}

	var ordered []string
	for _, lang := range s.languages {
		for _, variant := range s.priority {
			want := lang
			if variant != "default" {
				want = lang + "." + variant
			}
			for i, tag := range tags {
				if tag == want {
					ordered = append(ordered, tracks[i])
				}
			}
		}
	}
	return ordered
}

// EmbedArgs constructs the ffmpeg invocation that muxes tracks into
// videoFile, writing to outputFile. tracks must already be ordered.
func (s *Service) EmbedArgs(videoFile string, tracks []string, outputFile string) []string {
	args := []string{"-y", "-hide_banner", "-loglevel", "error", "-i", videoFile}
	for _, track := range tracks {
		args = append(args, "-i", track)
	}
	args = append(args,
		"-map", "0:v",
		"-map", "0:a",
		"-map", "0:t?",
	)
	for i := range tracks {
		args = append(args, "-map", fmt.Sprintf("%d:s", i+1))
	}
	args = append(args, "-c:v", "copy", "-c:a", "copy")
	for i, track := range tracks {
		tag := language.TrackTag(track, s.languages)
		args = append(args,
			fmt.Sprintf("-c:s:%d", i), "webvtt",
			fmt.Sprintf("-metadata:s:s:%d", i), "language="+tag,
		)
	}
	return append(args, outputFile)
}

// Embed muxes the subtitle tracks into videoFile, writing through a
// temporary file in the same directory. With overwrite_existing on the
// original container is replaced in place; otherwise it is left untouched and
// the muxed container lands beside it with an .embedded suffix. Returns the
// path of the muxed container and the ordered tracks that were embedded.
func (s *Service) Embed(ctx context.Context, videoFile string, tracks []string) (string, []string, error) {
	ordered := s.OrderTracks(tracks)
	if len(ordered) == 0 {
		return "", nil, fmt.Errorf("embed: no tracks matched the configured languages and priorities")
	}

	ext := filepath.Ext(videoFile)
	tempFile := strings.TrimSuffix(videoFile, ext) + ".temp" + ext
	if err := s.run(ctx, s.EmbedArgs(videoFile, ordered, tempFile)...); err != nil {
		os.Remove(tempFile)
		return "", nil, fmt.Errorf("embed %s: %w", filepath.Base(videoFile), err)
	}

	if !s.cfg.OverwriteExisting {
		outputFile := strings.TrimSuffix(videoFile, ext) + ".embedded" + ext
		if err := os.Rename(tempFile, outputFile); err != nil {
			os.Remove(tempFile)
			return "", nil, fmt.Errorf("embed: finalize: %w", err)
		}
		return outputFile, ordered, nil
	}

	if err := os.Remove(videoFile); err != nil {
		os.Remove(tempFile)
		return "", nil, fmt.Errorf("embed: replace original: %w", err)
	}
	if err := os.Rename(tempFile, videoFile); err != nil {
		return "", nil, fmt.Errorf("embed: finalize: %w", err)
	}
	return videoFile, ordered, nil
}
