package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"recue/internal/catalog"
	"recue/internal/config"
	"recue/internal/logging"
	"recue/internal/services"
	"recue/internal/services/whisper"
	"recue/internal/services/ytdlp"
	"recue/internal/stage"
)

// Fetch is the pipeline stage that downloads an item's media and locates or
// synthesizes its caption track.
type Fetch struct {
	cfg         *config.Config
	store       *catalog.Store
	downloader  *ytdlp.Service
	transcriber *whisper.Service
	logger      *slog.Logger
}

// NewFetch builds the download stage.
func NewFetch(cfg *config.Config, store *catalog.Store, downloader *ytdlp.Service, transcriber *whisper.Service, logger *slog.Logger) *Fetch {
	return &Fetch{
		cfg:         cfg,
		store:       store,
		downloader:  downloader,
		transcriber: transcriber,
		logger:      logging.NewComponentLogger(logger, "fetch"),
	}
}

// Prepare checks the item carries a URL to download.
func (f *Fetch) Prepare(ctx context.Context, item *catalog.Item) error {
	if strings.TrimSpace(item.URL) == "" {
		return services.Wrap(services.ErrValidation, "fetch", "check url",
			"item has no download URL", nil)
	}
	return nil
}

// Execute downloads the media into the staging directory and records the
// item's metadata, media path, and source caption track.
func (f *Fetch) Execute(ctx context.Context, item *catalog.Item) error {
	if f.cfg.Download.TimeoutSeconds > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(f.cfg.Download.TimeoutSeconds)*time.Second)
		defer cancel()
	}

	staging := f.cfg.Paths.StagingDir
	archive := ""
	if f.cfg.Download.ArchiveEnabled {
		archive = filepath.Join(f.cfg.Paths.CatalogDir, ytdlp.ArchiveFileName)
	}

	before, err := ytdlp.FindDownloads(staging)
	if err != nil {
		before = nil
	}
	known := make(map[string]struct{}, len(before))
	for _, path := range before {
		known[path] = struct{}{}
	}

	if err := f.downloader.Download(ctx, item.URL, staging, archive); err != nil {
		return services.Wrap(services.ErrExternalTool, "fetch", "download", item.URL, err)
	}

	after, err := ytdlp.FindDownloads(staging)
	if err != nil {
		return services.Wrap(services.ErrTransient, "fetch", "scan staging", "", err)
	}
	mediaPath := f.pickDownload(item, after, known)
	if mediaPath == "" {
		return services.Wrap(services.ErrNotFound, "fetch", "locate download",
			"no media file appeared; the URL may already be archived", nil)
	}

	meta, err := ytdlp.ParseFilename(mediaPath)
	if err != nil {
		return services.Wrap(services.ErrValidation, "fetch", "parse filename", "", err)
	}
	if existing, err := f.store.FindByVideoID(ctx, meta.VideoID); err == nil {
		if existing.ID != item.ID {
			return services.Wrap(services.ErrValidation, "fetch", "check duplicate",
				fmt.Sprintf("video %s already cataloged as item #%d", meta.VideoID, existing.ID), nil)
		}
	} else if !errors.Is(err, catalog.ErrNotFound) {
		return services.Wrap(services.ErrTransient, "fetch", "check duplicate", "", err)
	}
	item.VideoID = meta.VideoID
	item.Title = meta.Title
	item.Uploader = meta.Uploader
	item.UploadDate = meta.UploadDate
	item.MediaPath = mediaPath
	f.logger.Info("download complete",
		logging.String("item", item.Label()),
		logging.String("media", filepath.Base(mediaPath)))

	return f.resolveSourceTrack(ctx, item)
}

// pickDownload chooses the downloaded file belonging to item: a video ID
// match wins, then any file that was not present before the download.
func (f *Fetch) pickDownload(item *catalog.Item, paths []string, known map[string]struct{}) string {
	if item.VideoID != "" {
		for _, path := range paths {
			if meta, err := ytdlp.ParseFilename(path); err == nil && meta.VideoID == item.VideoID {
				return path
			}
		}
	}
	for _, path := range paths {
		if _, ok := known[path]; !ok {
			return path
		}
	}
	return ""
}

func (f *Fetch) resolveSourceTrack(ctx context.Context, item *catalog.Item) error {
	tracks := ytdlp.SubtitleTracks(item.MediaPath, f.cfg.Download.SubtitleLanguages)
	if len(tracks) > 0 {
		item.SourceTrack = tracks[0]
		return nil
	}

	if f.transcriber == nil || !f.transcriber.Enabled() {
		return services.Wrap(services.ErrValidation, "fetch", "locate captions",
			"no caption track downloaded and transcription is disabled", nil)
	}

	lang := "en"
	if len(f.cfg.Download.SubtitleLanguages) > 0 {
		lang = f.cfg.Download.SubtitleLanguages[0]
	}
	base := strings.TrimSuffix(item.MediaPath, filepath.Ext(item.MediaPath))
	trackPath := base + "." + lang + ".vtt"
	workDir := filepath.Join(f.cfg.Paths.StagingDir, "transcribe")

	f.logger.Info("no caption track, transcribing",
		logging.String("item", item.Label()),
		logging.String("model", f.transcriber.Model()))
	if err := f.transcriber.GenerateTrack(ctx, item.MediaPath, trackPath, workDir, lang); err != nil {
		return services.Wrap(services.ErrExternalTool, "fetch", "transcribe", item.Label(), err)
	}
	item.SourceTrack = trackPath
	return nil
}

// HealthCheck verifies the downloader binary is reachable.
func (f *Fetch) HealthCheck(ctx context.Context) stage.Health {
	if _, err := exec.LookPath(ytdlp.Command); err != nil {
		return stage.Unhealthy("fetch", fmt.Sprintf("%s not found in PATH", ytdlp.Command))
	}
	return stage.Healthy("fetch")
}
