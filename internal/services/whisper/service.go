package whisper

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"recue/internal/config"
	"recue/internal/language"
	"recue/internal/vtt"
)

const (
	// Command is the whisper CLI binary resolved via PATH.
	Command = "whisper"
	// FFmpegCommand is the ffmpeg binary used for audio extraction.
	FFmpegCommand = "ffmpeg"

	// DefaultModel balances speed and accuracy for general speech.
	DefaultModel = "base"
)

// Service provides acoustic transcription for media without captions.
type Service struct {
	cfg           config.Transcribe
	binary        string
	ffmpegBinary  string
	commandRunner func(ctx context.Context, name string, args ...string) error
}

// NewService creates a whisper service with the given configuration.
func NewService(cfg config.Transcribe) *Service {
	return &Service{cfg: cfg, binary: Command, ffmpegBinary: FFmpegCommand}
}

// WithBinaries overrides the whisper and ffmpeg binary paths.
func (s *Service) WithBinaries(whisperBinary, ffmpegBinary string) {
	if whisperBinary != "" {
		s.binary = whisperBinary
	}
	if ffmpegBinary != "" {
		s.ffmpegBinary = ffmpegBinary
	}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	s.commandRunner = runner
}

// Enabled reports whether transcription fallback is configured on.
func (s *Service) Enabled() bool {
	return s.cfg.Enabled
}

// Model returns the configured model name for logging.
func (s *Service) Model() string {
	if s.cfg.Model != "" {
		return s.cfg.Model
	}
	return DefaultModel
}

func (s *Service) run(ctx context.Context, name string, args ...string) error {
	if s.commandRunner != nil {
		return s.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}

// ExtractAudio pulls the audio stream from a media file as mono 16kHz WAV,
// the input whisper handles best.
func (s *Service) ExtractAudio(ctx context.Context, source, dest string) error {
	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", source,
		"-vn",
		"-sn",
		"-dn",
		"-ac", "1",
		"-ar", "16000",
		"-c:a", "pcm_s16le",
		dest,
	}
	if err := s.run(ctx, s.ffmpegBinary, args...); err != nil {
		return fmt.Errorf("extract audio: %w", err)
	}
	return nil
}

// TranscribeArgs constructs the whisper CLI invocation for one audio file.
func (s *Service) TranscribeArgs(audioPath, outputDir, lang string) []string {
	args := []string{
		audioPath,
		"--model", s.Model(),
		"--output_dir", outputDir,
		"--output_format", "json",
		"--word_timestamps", "True",
		"--verbose", "False",
	}
	if iso := language.ToISO2(lang); iso != "" {
		args = append(args, "--language", iso)
	}
	return args
}

// Transcribe runs whisper on an audio file and returns the timed segments
// from its JSON output.
func (s *Service) Transcribe(ctx context.Context, audioPath, outputDir, lang string) ([]vtt.Segment, error) {
	if audioPath == "" {
		return nil, fmt.Errorf("transcribe: audio path required")
	}
	if outputDir == "" {
		outputDir = filepath.Dir(audioPath)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("transcribe: ensure output dir: %w", err)
	}
	if err := s.run(ctx, s.binary, s.TranscribeArgs(audioPath, outputDir, lang)...); err != nil {
		return nil, fmt.Errorf("whisper: %w", err)
	}

	baseName := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	jsonPath := filepath.Join(outputDir, baseName+".json")
	segments, err := LoadSegments(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("whisper: %w", err)
	}
	return segments, nil
}

// GenerateTrack transcribes a media file and writes the result as a caption
// track at trackPath. Temporary audio and JSON files live in workDir and are
// removed on success. The configured transcribe timeout bounds the whole
// extract-and-transcribe run.
func (s *Service) GenerateTrack(ctx context.Context, mediaPath, trackPath, workDir, lang string) error {
	if s.cfg.TimeoutSeconds > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(s.cfg.TimeoutSeconds)*time.Second)
		defer cancel()
	}

	if workDir == "" {
		return fmt.Errorf("generate track: work dir required")
	}
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return fmt.Errorf("generate track: ensure work dir: %w", err)
	}

	baseName := strings.TrimSuffix(filepath.Base(mediaPath), filepath.Ext(mediaPath))
	audioPath := filepath.Join(workDir, baseName+".wav")
	if err := s.ExtractAudio(ctx, mediaPath, audioPath); err != nil {
		return err
	}

	segments, err := s.Transcribe(ctx, audioPath, workDir, lang)
	if err != nil {
		return err
	}
	if len(segments) == 0 {
		return fmt.Errorf("generate track: transcription produced no segments")
	}
	if err := vtt.WriteSegmentTrack(trackPath, segments); err != nil {
		return err
	}

	os.Remove(audioPath)
	os.Remove(filepath.Join(workDir, baseName+".json"))
	return nil
}

type whisperSegment struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

type whisperPayload struct {
	Segments []whisperSegment `json:"segments"`
}

// LoadSegments reads segments from a whisper JSON output file. Whisper
// prefixes each segment text with a space, which is stripped here.
func LoadSegments(jsonPath string) ([]vtt.Segment, error) {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, err
	}
	var payload whisperPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("parse whisper json: %w", err)
	}
	segments := make([]vtt.Segment, 0, len(payload.Segments))
	for _, seg := range payload.Segments {
		segments = append(segments, vtt.Segment{
			Start: seg.Start,
			End:   seg.End,
			Text:  strings.TrimPrefix(seg.Text, " "),
		})
	}
	return segments, nil
}
