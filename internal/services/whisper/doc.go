// Package whisper synthesizes a caption track for downloads that ship
// without one. It extracts the audio with ffmpeg, transcribes it with the
// whisper CLI, and writes the resulting segments as a WEBVTT track the
// conversion pipeline can ingest like any other.
package whisper
