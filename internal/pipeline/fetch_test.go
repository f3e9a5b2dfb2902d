package pipeline_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"recue/internal/catalog"
	"recue/internal/config"
	"recue/internal/logging"
	"recue/internal/pipeline"
	"recue/internal/services"
	"recue/internal/services/ytdlp"
	"recue/internal/testsupport"
)

const fetchTestFilename = "YouTube ## Channel ## 20260115 ## Title ## vid123.mkv"

// stubDownloader wires a ytdlp service whose runner drops a finished download
// plus an English caption track into the staging directory.
func stubDownloader(t *testing.T, cfg *config.Config) *ytdlp.Service {
	t.Helper()
	svc := ytdlp.NewService(cfg.Download)
	svc.WithCommandRunner(func(ctx context.Context, name string, args ...string) (string, error) {
		media := filepath.Join(cfg.Paths.StagingDir, fetchTestFilename)
		testsupport.WriteFile(t, media, "media")
		track := strings.TrimSuffix(media, ".mkv") + ".en.vtt"
		testsupport.WriteFile(t, track, testsupport.SampleTrack)
		return "", nil
	})
	return svc
}

func TestFetchExecuteRecordsMetadataAndTrack(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenCatalog(t, cfg)
	ctx := context.Background()

	item, err := store.NewItem(ctx, "https://example.com/watch?v=vid123")
	if err != nil {
		t.Fatalf("NewItem: %v", err)
	}

	fetch := pipeline.NewFetch(cfg, store, stubDownloader(t, cfg), nil, logging.NewNop())
	if err := fetch.Execute(ctx, item); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if item.VideoID != "vid123" {
		t.Fatalf("video id = %q", item.VideoID)
	}
	if item.Title != "Title" || item.Uploader != "Channel" || item.UploadDate != "20260115" {
		t.Fatalf("metadata = %q/%q/%q", item.Title, item.Uploader, item.UploadDate)
	}
	if filepath.Base(item.MediaPath) != fetchTestFilename {
		t.Fatalf("media path = %q", item.MediaPath)
	}
	if !strings.HasSuffix(item.SourceTrack, ".en.vtt") {
		t.Fatalf("source track = %q", item.SourceTrack)
	}
}

func TestFetchExecuteRejectsDuplicateVideo(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenCatalog(t, cfg)
	ctx := context.Background()

	first, err := store.NewItem(ctx, "https://example.com/watch?v=vid123")
	if err != nil {
		t.Fatalf("NewItem: %v", err)
	}
	first.VideoID = "vid123"
	if err := store.Update(ctx, first); err != nil {
		t.Fatalf("Update: %v", err)
	}

	second, err := store.NewItem(ctx, "https://example.com/other")
	if err != nil {
		t.Fatalf("NewItem: %v", err)
	}

	fetch := pipeline.NewFetch(cfg, store, stubDownloader(t, cfg), nil, logging.NewNop())
	err = fetch.Execute(ctx, second)
	if err == nil {
		t.Fatal("expected duplicate video error")
	}
	if !strings.Contains(err.Error(), "already cataloged as item #1") {
		t.Fatalf("error = %v", err)
	}
	if status := services.FailureStatus(err); status != catalog.StatusReview {
		t.Fatalf("failure status = %q", status)
	}
}
