package ffmpeg_test

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"recue/internal/config"
	"recue/internal/services/ffmpeg"
	"recue/internal/testsupport"
)

func newTestService() *ffmpeg.Service {
	return ffmpeg.NewService(
		config.Embed{Enabled: true},
		[]string{"en", "de"},
		[]string{"non_iter", "iter", "dir_iter", "default"},
	)
}

func TestOrderTracks(t *testing.T) {
	svc := newTestService()
	tracks := []string{
		"video.de.vtt",
		"video.en.vtt",
		"video.en.dir_iter.vtt",
		"video.en.non_iter.vtt",
		"video.de.iter.vtt",
		"video.fr.vtt",
	}
	got := svc.OrderTracks(tracks)
	want := []string{
		"video.en.non_iter.vtt",
		"video.en.dir_iter.vtt",
		"video.en.vtt",
		"video.de.iter.vtt",
		"video.de.vtt",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("OrderTracks = %v, want %v", got, want)
	}
}

func TestEmbedArgs(t *testing.T) {
	svc := newTestService()
	args := svc.EmbedArgs("video.mkv", []string{"video.en.non_iter.vtt", "video.en.vtt"}, "video.temp.mkv")
	joined := strings.Join(args, " ")
	for _, want := range []string{
		"-i video.mkv",
		"-i video.en.non_iter.vtt",
		"-i video.en.vtt",
		"-map 0:v",
		"-map 0:a",
		"-map 0:t?",
		"-map 1:s",
		"-map 2:s",
		"-c:v copy",
		"-c:a copy",
		"-c:s:0 webvtt",
		"-c:s:1 webvtt",
		"-metadata:s:s:0 language=en.non_iter",
		"-metadata:s:s:1 language=en",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("args missing %q in %q", want, joined)
		}
	}
	if args[len(args)-1] != "video.temp.mkv" {
		t.Fatalf("output should be the final argument, got %q", args[len(args)-1])
	}
}

func TestEmbedReplacesOriginalWhenOverwriteOn(t *testing.T) {
	dir := t.TempDir()
	video := filepath.Join(dir, "video.mkv")
	testsupport.WriteFile(t, video, "original")
	track := filepath.Join(dir, "video.en.vtt")
	testsupport.WriteFile(t, track, testsupport.SampleTrack)

	svc := ffmpeg.NewService(
		config.Embed{Enabled: true, OverwriteExisting: true},
		[]string{"en"},
		[]string{"default"},
	)
	var gotOutput string
	svc.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		gotOutput = args[len(args)-1]
		testsupport.WriteFile(t, gotOutput, "muxed")
		return nil
	})

	output, embedded, err := svc.Embed(context.Background(), video, []string{track})
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if output != video {
		t.Fatalf("output = %q, want the original path %q", output, video)
	}
	if len(embedded) != 1 || embedded[0] != track {
		t.Fatalf("embedded = %v", embedded)
	}
	if !strings.Contains(gotOutput, ".temp.mkv") {
		t.Fatalf("mux target should be a temp file, got %q", gotOutput)
	}

	data, err := os.ReadFile(video)
	if err != nil {
		t.Fatalf("read video: %v", err)
	}
	if string(data) != "muxed" {
		t.Fatalf("original not replaced, contents %q", data)
	}
	if _, err := os.Stat(gotOutput); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind: %v", err)
	}
}

func TestEmbedPreservesOriginalWhenOverwriteOff(t *testing.T) {
	dir := t.TempDir()
	video := filepath.Join(dir, "video.mkv")
	testsupport.WriteFile(t, video, "original")
	track := filepath.Join(dir, "video.en.vtt")
	testsupport.WriteFile(t, track, testsupport.SampleTrack)

	svc := newTestService()
	svc.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		testsupport.WriteFile(t, args[len(args)-1], "muxed")
		return nil
	})

	output, _, err := svc.Embed(context.Background(), video, []string{track})
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if want := filepath.Join(dir, "video.embedded.mkv"); output != want {
		t.Fatalf("output = %q, want %q", output, want)
	}

	data, err := os.ReadFile(video)
	if err != nil {
		t.Fatalf("read video: %v", err)
	}
	if string(data) != "original" {
		t.Fatalf("original was modified, contents %q", data)
	}
	muxed, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(muxed) != "muxed" {
		t.Fatalf("output contents %q", muxed)
	}
}

func TestEmbedRejectsUnmatchedTracks(t *testing.T) {
	svc := newTestService()
	if _, _, err := svc.Embed(context.Background(), "video.mkv", []string{"video.fr.vtt"}); err == nil {
		t.Fatal("expected error when no tracks match configuration")
	}
}
