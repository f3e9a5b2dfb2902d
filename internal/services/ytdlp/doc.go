// Package ytdlp shells out to yt-dlp for media downloads, playlist
// expansion, and metadata capture. Downloaded files follow a fixed naming
// template so uploader, upload date, title, and video ID can be recovered
// from the filename alone.
package ytdlp
