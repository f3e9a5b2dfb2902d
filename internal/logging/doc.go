// Package logging builds the slog loggers used across recue.
//
// Two handlers are provided: a human-oriented console handler that prefixes
// records with their component and colors levels when writing to a terminal,
// and a line-delimited JSON handler for log files and machine consumption.
package logging
