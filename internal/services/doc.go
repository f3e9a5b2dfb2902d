// Package services defines the shared error taxonomy for external
// collaborators and pipeline stages, plus helpers for classifying failures.
package services
