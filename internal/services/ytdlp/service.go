package ytdlp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"recue/internal/config"
)

// Command is the yt-dlp binary name resolved via PATH.
const Command = "yt-dlp"

// OutputTemplate names downloaded files so their metadata survives in the
// filename. The " ## " separator is assumed absent from uploader names and
// titles after yt-dlp's filename sanitization.
const OutputTemplate = "YouTube ## %(uploader)s ## %(upload_date)s ## %(title)s ## %(id)s.%(ext)s"

const fieldSeparator = " ## "

// ArchiveFileName is the download archive kept alongside the catalog.
const ArchiveFileName = "download_archive.txt"

// Service wraps yt-dlp invocations.
type Service struct {
	cfg           config.Download
	binary        string
	commandRunner func(ctx context.Context, name string, args ...string) (string, error)
}

// NewService creates a yt-dlp service with the given download configuration.
func NewService(cfg config.Download) *Service {
	return &Service{cfg: cfg, binary: Command}
}

// WithBinary overrides the yt-dlp binary path.
func (s *Service) WithBinary(path string) {
	if path != "" {
		s.binary = path
	}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) (string, error)) {
	s.commandRunner = runner
}

func (s *Service) run(ctx context.Context, args ...string) (string, error) {
	if s.commandRunner != nil {
		return s.commandRunner(ctx, s.binary, args...)
	}
	cmd := exec.CommandContext(ctx, s.binary, args...) //nolint:gosec
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("%s: %w: %s", s.binary, err, strings.TrimSpace(string(output)))
	}
	return string(output), nil
}

// formatSelector builds the format ladder capped at the configured height,
// preferring AV1 over VP9 over anything else, with an mp4a audio preference.
func (s *Service) formatSelector() string {
	height := s.cfg.MaxVideoHeight
	return fmt.Sprintf(
		"(bestvideo[height<=%d][vcodec~=av01]/bestvideo[height<=%d][vcodec~=vp09]/bestvideo[height<=%d])+(bestaudio[acodec~=mp4a]/bestaudio)",
		height, height, height,
	)
}

// DownloadArgs constructs the yt-dlp invocation for fetching one video into
// destDir. archivePath may be empty to disable archive tracking.
func (s *Service) DownloadArgs(url, destDir, archivePath string) []string {
	args := []string{
		"--format", s.formatSelector(),
		"--merge-output-format", "mkv",
		"--windows-filenames",
		"--output", filepath.Join(destDir, OutputTemplate),
		"--no-progress",
		"--write-info-json",
		"--write-thumbnail",
		"--write-subs",
		"--write-auto-subs",
		"--sub-langs", strings.Join(s.cfg.SubtitleLanguages, ","),
		"--sub-format", "vtt/best",
		"--embed-metadata",
		"--embed-thumbnail",
	}
	if s.cfg.RateLimitMB > 0 {
		args = append(args, "--limit-rate", fmt.Sprintf("%dM", s.cfg.RateLimitMB))
	}
	if archivePath != "" {
		args = append(args, "--download-archive", archivePath, "--break-on-existing")
	}
	return append(args, url)
}

// Download fetches the video at url into destDir.
func (s *Service) Download(ctx context.Context, url, destDir, archivePath string) error {
	if strings.TrimSpace(url) == "" {
		return fmt.Errorf("download: url required")
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return fmt.Errorf("download: ensure dest dir: %w", err)
	}
	if _, err := s.run(ctx, s.DownloadArgs(url, destDir, archivePath)...); err != nil {
		return fmt.Errorf("download %s: %w", url, err)
	}
	return nil
}

// PlaylistInfo describes a playlist or channel URL.
type PlaylistInfo struct {
	ID      string
	Title   string
	Channel string
}

type playlistPayload struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Channel string `json:"channel"`
	Entries []struct {
		URL string `json:"url"`
	} `json:"entries"`
}

// ExpandPlaylist returns the video URLs behind a playlist or channel URL
// without downloading anything.
func (s *Service) ExpandPlaylist(ctx context.Context, url string) ([]string, PlaylistInfo, error) {
	var info PlaylistInfo
	if strings.TrimSpace(url) == "" {
		return nil, info, fmt.Errorf("expand playlist: url required")
	}
	output, err := s.run(ctx, "--dump-single-json", "--flat-playlist", "--quiet", url)
	if err != nil {
		return nil, info, fmt.Errorf("expand playlist %s: %w", url, err)
	}
	var payload playlistPayload
	if err := json.Unmarshal([]byte(output), &payload); err != nil {
		return nil, info, fmt.Errorf("expand playlist %s: parse output: %w", url, err)
	}
	info = PlaylistInfo{ID: payload.ID, Title: payload.Title, Channel: payload.Channel}
	urls := make([]string, 0, len(payload.Entries))
	for _, entry := range payload.Entries {
		if entry.URL != "" {
			urls = append(urls, entry.URL)
		}
	}
	return urls, info, nil
}

// Metadata is what the output template encodes into a downloaded filename.
type Metadata struct {
	Uploader   string
	UploadDate string
	Title      string
	VideoID    string
}

// ParseFilename recovers template metadata from a downloaded file's name.
func ParseFilename(path string) (Metadata, error) {
	var meta Metadata
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	parts := strings.Split(name, fieldSeparator)
	if len(parts) != 5 || parts[0] != "YouTube" {
		return meta, fmt.Errorf("parse filename %q: not in template form", filepath.Base(path))
	}
	meta.Uploader = parts[1]
	meta.UploadDate = parts[2]
	meta.Title = parts[3]
	meta.VideoID = parts[4]
	if meta.VideoID == "" {
		return meta, fmt.Errorf("parse filename %q: empty video id", filepath.Base(path))
	}
	return meta, nil
}

// FindDownloads lists downloaded media files in dir that match the output
// template, newest last by name order.
func FindDownloads(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scan downloads: %w", err)
	}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.EqualFold(filepath.Ext(name), ".mkv") {
			continue
		}
		if _, err := ParseFilename(name); err != nil {
			continue
		}
		paths = append(paths, filepath.Join(dir, name))
	}
	return paths, nil
}

// SubtitleTracks lists the caption files yt-dlp wrote beside mediaPath, one
// per requested language.
func SubtitleTracks(mediaPath string, languages []string) []string {
	base := strings.TrimSuffix(mediaPath, filepath.Ext(mediaPath))
	var tracks []string
	for _, lang := range languages {
		candidate := base + "." + lang + ".vtt"
		if _, err := os.Stat(candidate); err == nil {
			tracks = append(tracks, candidate)
		}
	}
	return tracks
}
