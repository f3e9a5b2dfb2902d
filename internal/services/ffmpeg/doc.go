// Package ffmpeg muxes caption tracks into their media container. Tracks
// are ordered by language first and then by variant priority before
// embedding, so players offer the preferred rendition by default.
package ffmpeg
