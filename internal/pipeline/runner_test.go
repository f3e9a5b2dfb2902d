package pipeline_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"recue/internal/catalog"
	"recue/internal/config"
	"recue/internal/logging"
	"recue/internal/pipeline"
	"recue/internal/services"
	"recue/internal/services/ffmpeg"
	"recue/internal/stage"
	"recue/internal/testsupport"
)

type stubStage struct {
	name       string
	prepareErr error
	executeErr error
	executed   int
	onExecute  func(*catalog.Item)
}

func (s *stubStage) Prepare(ctx context.Context, item *catalog.Item) error {
	return s.prepareErr
}

func (s *stubStage) Execute(ctx context.Context, item *catalog.Item) error {
	s.executed++
	if s.onExecute != nil {
		s.onExecute(item)
	}
	return s.executeErr
}

func (s *stubStage) HealthCheck(ctx context.Context) stage.Health {
	return stage.Healthy(s.name)
}

func TestRunnerWalksItemThroughStages(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenCatalog(t, cfg)
	ctx := context.Background()

	fetch := &stubStage{name: "fetch"}
	convert := &stubStage{name: "convert"}
	embed := &stubStage{name: "embed"}
	runner := pipeline.NewRunner(cfg, store, logging.NewNop(), fetch, convert, embed)

	item := testsupport.NewItem(t, store, "https://example.com/v")
	if err := runner.ProcessItem(ctx, item); err != nil {
		t.Fatalf("ProcessItem: %v", err)
	}
	if item.Status != catalog.StatusCompleted {
		t.Fatalf("status = %q, want %q", item.Status, catalog.StatusCompleted)
	}
	if fetch.executed != 1 || convert.executed != 1 || embed.executed != 1 {
		t.Fatalf("stage executions: fetch=%d convert=%d embed=%d", fetch.executed, convert.executed, embed.executed)
	}

	persisted, err := store.GetByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if persisted.Status != catalog.StatusCompleted {
		t.Fatalf("persisted status = %q", persisted.Status)
	}
}

func TestRunnerMapsFailuresToStatus(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenCatalog(t, cfg)
	ctx := context.Background()

	validationErr := services.Wrap(services.ErrValidation, "convert", "check", "bad input", nil)
	fetch := &stubStage{name: "fetch"}
	convert := &stubStage{name: "convert", executeErr: validationErr}
	runner := pipeline.NewRunner(cfg, store, logging.NewNop(), fetch, convert, &stubStage{name: "embed"})

	item := testsupport.NewItem(t, store, "https://example.com/v")
	if err := runner.ProcessItem(ctx, item); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if item.Status != catalog.StatusReview {
		t.Fatalf("status = %q, want %q", item.Status, catalog.StatusReview)
	}
	if item.ErrorMessage == "" {
		t.Fatal("error message should be recorded")
	}

	persisted, err := store.GetByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if persisted.Status != catalog.StatusReview || persisted.ErrorMessage == "" {
		t.Fatalf("persisted = %q %q", persisted.Status, persisted.ErrorMessage)
	}
}

func TestRunnerRunDrainsCatalog(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenCatalog(t, cfg)
	ctx := context.Background()

	testsupport.NewItem(t, store, "https://example.com/a")
	testsupport.NewItem(t, store, "https://example.com/b")
	bad := testsupport.NewItem(t, store, "https://example.com/c")
	bad.Status = catalog.StatusFetched
	if err := store.Update(ctx, bad); err != nil {
		t.Fatalf("Update: %v", err)
	}

	failing := errors.New("boom")
	runner := pipeline.NewRunner(cfg, store, logging.NewNop(),
		&stubStage{name: "fetch"},
		&stubStage{name: "convert", executeErr: failing},
		&stubStage{name: "embed"})

	// Every item eventually hits convert and fails there.
	processed, failed, err := runner.Run(ctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if processed != 0 || failed != 3 {
		t.Fatalf("processed=%d failed=%d, want 0 and 3", processed, failed)
	}

	items, err := store.List(ctx, catalog.StatusFailed)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("failed items = %d", len(items))
	}
}

func TestRunnerLockIsExclusive(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenCatalog(t, cfg)

	first := pipeline.NewRunner(cfg, store, logging.NewNop(), &stubStage{name: "fetch"}, nil, nil)
	if err := first.Acquire(); err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	defer first.Release()

	second := pipeline.NewRunner(cfg, store, logging.NewNop(), &stubStage{name: "fetch"}, nil, nil)
	if err := second.Acquire(); err == nil {
		second.Release()
		t.Fatal("second Acquire should fail while lock is held")
	}
}

func TestRunnerConvertAndEmbedIntegration(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Embed = config.Embed{Enabled: true}
	store := testsupport.MustOpenCatalog(t, cfg)
	ctx := context.Background()

	media := filepath.Join(cfg.Paths.StagingDir, "YouTube ## Channel ## 20260115 ## Title ## abc123.mkv")
	testsupport.WriteFile(t, media, "media")
	track := media[:len(media)-len(".mkv")] + ".en.vtt"
	testsupport.WriteFile(t, track, testsupport.SampleTrack)

	item, err := store.NewLocalItem(ctx, media, track)
	if err != nil {
		t.Fatalf("NewLocalItem: %v", err)
	}

	muxer := ffmpeg.NewService(cfg.Embed, cfg.Download.SubtitleLanguages, cfg.Subtitles.VariantPriority)
	muxer.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		testsupport.WriteFile(t, args[len(args)-1], "muxed")
		return nil
	})

	convert := pipeline.NewConvert(cfg, store, identityRestorer, logging.NewNop())
	embed := pipeline.NewEmbed(cfg, store, muxer, logging.NewNop())
	runner := pipeline.NewRunner(cfg, store, logging.NewNop(), nil, convert, embed)

	if err := runner.ProcessItem(ctx, item); err != nil {
		t.Fatalf("ProcessItem: %v", err)
	}
	if item.Status != catalog.StatusCompleted {
		t.Fatalf("status = %q", item.Status)
	}

	finalPath := filepath.Join(cfg.Paths.LibraryDir, filepath.Base(media))
	if item.MediaPath != finalPath {
		t.Fatalf("media path = %q, want %q", item.MediaPath, finalPath)
	}
	data, err := os.ReadFile(finalPath)
	if err != nil {
		t.Fatalf("read library media: %v", err)
	}
	if string(data) != "muxed" {
		t.Fatalf("library media contents = %q", data)
	}
	if len(item.OutputTracks) != 3 {
		t.Fatalf("output tracks = %v", item.OutputTracks)
	}

	// overwrite_existing is off, so the staging original must survive.
	original, err := os.ReadFile(media)
	if err != nil {
		t.Fatalf("read staging original: %v", err)
	}
	if string(original) != "media" {
		t.Fatalf("staging original contents = %q", original)
	}
}

func TestRunnerHealthCheck(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenCatalog(t, cfg)

	runner := pipeline.NewRunner(cfg, store, logging.NewNop(),
		&stubStage{name: "fetch"}, &stubStage{name: "convert"}, nil)
	health := runner.HealthCheck(context.Background())
	if len(health) != 2 {
		t.Fatalf("health entries = %d", len(health))
	}
	for _, h := range health {
		if !h.Ready {
			t.Fatalf("stage %s unexpectedly unhealthy", h.Name)
		}
	}
}
