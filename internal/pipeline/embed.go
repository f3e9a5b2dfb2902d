package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"recue/internal/catalog"
	"recue/internal/config"
	"recue/internal/fileutil"
	"recue/internal/logging"
	"recue/internal/services"
	"recue/internal/services/ffmpeg"
	"recue/internal/stage"
)

// Embed is the pipeline stage that muxes caption tracks into the media
// container and moves the finished file into the library.
type Embed struct {
	cfg    *config.Config
	store  *catalog.Store
	muxer  *ffmpeg.Service
	logger *slog.Logger
}

// NewEmbed builds the embed stage.
func NewEmbed(cfg *config.Config, store *catalog.Store, muxer *ffmpeg.Service, logger *slog.Logger) *Embed {
	return &Embed{
		cfg:    cfg,
		store:  store,
		muxer:  muxer,
		logger: logging.NewComponentLogger(logger, "embed"),
	}
}

// Prepare verifies the media file recorded on the item exists.
func (e *Embed) Prepare(ctx context.Context, item *catalog.Item) error {
	return stage.RequireFile("embed", "media file", item.MediaPath)
}

// Execute embeds the item's caption tracks and files the media into the
// library directory.
func (e *Embed) Execute(ctx context.Context, item *catalog.Item) error {
	if e.cfg.Embed.TimeoutSeconds > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(e.cfg.Embed.TimeoutSeconds)*time.Second)
		defer cancel()
	}

	finished := item.MediaPath
	if e.muxer.Enabled() {
		tracks := e.availableTracks(item)
		if len(tracks) == 0 {
			return services.Wrap(services.ErrValidation, "embed", "collect tracks",
				"no caption tracks recorded for item", nil)
		}
		output, embedded, err := e.muxer.Embed(ctx, item.MediaPath, tracks)
		if err != nil {
			return services.Wrap(services.ErrExternalTool, "embed", "mux tracks", item.Label(), err)
		}
		finished = output
		e.logger.Info("tracks embedded",
			logging.String("item", item.Label()),
			logging.Int("tracks", len(embedded)),
			logging.Bool("in_place", output == item.MediaPath))
	}

	// The library file keeps the original name even when the muxer wrote an
	// .embedded sibling instead of replacing the container in place.
	dest := filepath.Join(e.cfg.Paths.LibraryDir, filepath.Base(item.MediaPath))
	if err := fileutil.MoveFile(finished, dest); err != nil {
		return services.Wrap(services.ErrTransient, "embed", "move to library", "", err)
	}
	item.MediaPath = dest
	e.logger.Info("filed into library",
		logging.String("item", item.Label()),
		logging.String("media", filepath.Base(dest)))
	return nil
}

// availableTracks gathers the item's source and converted tracks that still
// exist on disk.
func (e *Embed) availableTracks(item *catalog.Item) []string {
	candidates := make([]string, 0, len(item.OutputTracks)+1)
	candidates = append(candidates, item.OutputTracks...)
	if item.SourceTrack != "" {
		candidates = append(candidates, item.SourceTrack)
	}
	var tracks []string
	for _, track := range candidates {
		if info, err := os.Stat(track); err == nil && !info.IsDir() {
			tracks = append(tracks, track)
		}
	}
	return tracks
}

// HealthCheck verifies the ffmpeg binary is reachable.
func (e *Embed) HealthCheck(ctx context.Context) stage.Health {
	if _, err := exec.LookPath(ffmpeg.Command); err != nil {
		return stage.Unhealthy("embed", fmt.Sprintf("%s not found in PATH", ffmpeg.Command))
	}
	return stage.Healthy("embed")
}
