// Package catalog persists the record of every media item the pipeline has
// processed, backed by SQLite. It replaces ad-hoc bookkeeping files with one
// queryable store: item status drives the pipeline and the stored metadata
// serves the catalog CLI commands.
package catalog
