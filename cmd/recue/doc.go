// Package main hosts the recue CLI entrypoint and command graph.
//
// The Cobra-based command tree translates terminal invocations into catalog
// maintenance, one-shot conversions, transcription and muxing runs, and full
// pipeline processing. It centralizes configuration resolution and service
// construction so subcommands can focus on user experience instead of wiring.
package main
