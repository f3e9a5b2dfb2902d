package catalog

import (
	"strings"
	"time"
)

// Status represents the lifecycle of a catalog item.
type Status string

const (
	StatusPending    Status = "pending"
	StatusFetching   Status = "fetching"
	StatusFetched    Status = "fetched"
	StatusConverting Status = "converting"
	StatusConverted  Status = "converted"
	StatusEmbedding  Status = "embedding"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusReview     Status = "review"
)

var allStatuses = []Status{
	StatusPending,
	StatusFetching,
	StatusFetched,
	StatusConverting,
	StatusConverted,
	StatusEmbedding,
	StatusCompleted,
	StatusFailed,
	StatusReview,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// ValidStatus reports whether value names a known status.
func ValidStatus(value string) bool {
	_, ok := statusSet[Status(strings.ToLower(strings.TrimSpace(value)))]
	return ok
}

// Statuses returns every status in lifecycle order.
func Statuses() []Status {
	return append([]Status(nil), allStatuses...)
}

// Terminal reports whether a status ends pipeline processing for an item.
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusReview:
		return true
	default:
		return false
	}
}

// Item is one processed (or in-flight) media item.
type Item struct {
	ID           int64
	VideoID      string
	URL          string
	Title        string
	Uploader     string
	UploadDate   string
	Status       Status
	ErrorMessage string
	MediaPath    string
	SourceTrack  string
	OutputTracks []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Label returns the friendliest available identifier for logs and tables.
func (i *Item) Label() string {
	if i == nil {
		return ""
	}
	if strings.TrimSpace(i.Title) != "" {
		return i.Title
	}
	if strings.TrimSpace(i.VideoID) != "" {
		return i.VideoID
	}
	return i.URL
}
