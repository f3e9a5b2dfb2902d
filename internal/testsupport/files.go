package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteFile creates the target path with the given contents, making parent
// directories as needed. Useful for standing in media files and caption
// tracks in pipeline tests.
func WriteFile(t testing.TB, path, contents string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// SampleTrack is a minimal caption track with inline word timing, shared by
// conversion and pipeline tests.
const SampleTrack = "WEBVTT\nKind: captions\nLanguage: en\n\n" +
	"00:00:01.000 --> 00:00:03.000 align:start position:0%\n" +
	" \n" +
	"<00:00:01.500><c>hello</c> <00:00:02.200><c>world</c>\n" +
	"\n" +
	"00:00:03.000 --> 00:00:05.000 align:start position:0%\n" +
	"hello world\n" +
	"<00:00:03.600><c>how</c> <00:00:04.100><c>are</c> <00:00:04.600><c>you</c>\n" +
	"\n"
