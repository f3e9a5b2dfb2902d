package catalog

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"recue/internal/config"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump when the schema changes;
// existing databases with a different version are rejected rather than
// silently reinterpreted.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version does not match the
// version this build expects.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// ErrNotFound indicates the requested item does not exist.
var ErrNotFound = errors.New("catalog item not found")

// Store manages catalog persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the catalog database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.CatalogDir, "catalog.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
		if _, err := s.db.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
			return fmt.Errorf("record schema version: %w", err)
		}
		return nil
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to rebuild)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

// NewItem inserts a pending item for a media URL.
func (s *Store) NewItem(ctx context.Context, url string) (*Item, error) {
	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO catalog_items (url, status, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		url, StatusPending, timestamp, timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert item: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("read insert id: %w", err)
	}
	return s.GetByID(ctx, id)
}

// NewLocalItem inserts an item for a media file that already exists on disk,
// entering the pipeline past the fetch stage.
func (s *Store) NewLocalItem(ctx context.Context, mediaPath, sourceTrack string) (*Item, error) {
	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO catalog_items (media_path, source_track, status, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?)`,
		mediaPath, sourceTrack, StatusFetched, timestamp, timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert local item: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("read insert id: %w", err)
	}
	return s.GetByID(ctx, id)
}

// GetByID fetches one item.
func (s *Store) GetByID(ctx context.Context, id int64) (*Item, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+" WHERE id = ?", id)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return item, err
}

// FindByVideoID fetches the item recorded for a video ID, or ErrNotFound.
func (s *Store) FindByVideoID(ctx context.Context, videoID string) (*Item, error) {
	videoID = strings.TrimSpace(videoID)
	if videoID == "" {
		return nil, ErrNotFound
	}
	row := s.db.QueryRowContext(ctx, selectColumns+" WHERE video_id = ?", videoID)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return item, err
}

// Update persists every mutable field of item and refreshes its UpdatedAt.
func (s *Store) Update(ctx context.Context, item *Item) error {
	if item == nil {
		return errors.New("nil item")
	}
	if _, ok := statusSet[item.Status]; !ok {
		return fmt.Errorf("invalid status %q", item.Status)
	}
	tracks, err := json.Marshal(item.OutputTracks)
	if err != nil {
		return fmt.Errorf("encode output tracks: %w", err)
	}
	item.UpdatedAt = time.Now().UTC()

	res, err := s.db.ExecContext(ctx,
		`UPDATE catalog_items SET
            video_id = ?, url = ?, title = ?, uploader = ?, upload_date = ?,
            status = ?, error_message = ?, media_path = ?, source_track = ?,
            output_tracks = ?, updated_at = ?
         WHERE id = ?`,
		item.VideoID, item.URL, item.Title, item.Uploader, item.UploadDate,
		item.Status, item.ErrorMessage, item.MediaPath, item.SourceTrack,
		string(tracks), item.UpdatedAt.Format(time.RFC3339Nano),
		item.ID,
	)
	if err != nil {
		return fmt.Errorf("update item %d: %w", item.ID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update item %d: %w", item.ID, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns items filtered to the provided statuses, newest first. With no
// statuses it returns everything.
func (s *Store) List(ctx context.Context, statuses ...Status) ([]*Item, error) {
	query := selectColumns
	args := make([]any, 0, len(statuses))
	if len(statuses) > 0 {
		placeholders := make([]string, len(statuses))
		for i, status := range statuses {
			placeholders[i] = "?"
			args = append(args, status)
		}
		query += " WHERE status IN (" + strings.Join(placeholders, ", ") + ")"
	}
	query += " ORDER BY id DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// NextForStatuses returns the oldest item whose status matches any of the
// provided statuses, or nil when none is waiting.
func (s *Store) NextForStatuses(ctx context.Context, statuses ...Status) (*Item, error) {
	if len(statuses) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(statuses))
	args := make([]any, 0, len(statuses))
	for i, status := range statuses {
		placeholders[i] = "?"
		args = append(args, status)
	}
	query := selectColumns + " WHERE status IN (" + strings.Join(placeholders, ", ") + ") ORDER BY id ASC LIMIT 1"

	row := s.db.QueryRowContext(ctx, query, args...)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return item, err
}

// Remove deletes an item, reporting whether a row existed.
func (s *Store) Remove(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM catalog_items WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("remove item %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("remove item %d: %w", id, err)
	}
	return affected > 0, nil
}

const selectColumns = `SELECT id, video_id, url, title, uploader, upload_date,
    status, error_message, media_path, source_track, output_tracks,
    created_at, updated_at
FROM catalog_items`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*Item, error) {
	var (
		item      Item
		status    string
		tracks    string
		createdAt string
		updatedAt string
	)
	err := row.Scan(
		&item.ID, &item.VideoID, &item.URL, &item.Title, &item.Uploader,
		&item.UploadDate, &status, &item.ErrorMessage, &item.MediaPath,
		&item.SourceTrack, &tracks, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	item.Status = Status(status)
	if err := json.Unmarshal([]byte(tracks), &item.OutputTracks); err != nil {
		return nil, fmt.Errorf("decode output tracks for item %d: %w", item.ID, err)
	}
	if item.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at for item %d: %w", item.ID, err)
	}
	if item.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at for item %d: %w", item.ID, err)
	}
	return &item, nil
}
