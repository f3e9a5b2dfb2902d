// Package language provides language code normalization and caption track
// tag handling.
//
// A track tag is the dotted suffix naming a subtitle file's language and
// conversion variant: "video.en.vtt" carries tag "en", "video.en.iter.vtt"
// carries tag "en.iter". All conversions between codes, tags, and display
// names live here so the download, embed, and catalog paths agree on them.
package language
