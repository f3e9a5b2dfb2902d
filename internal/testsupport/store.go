package testsupport

import (
	"context"
	"testing"

	"recue/internal/catalog"
	"recue/internal/config"
)

// MustOpenCatalog opens a catalog.Store for tests and registers cleanup.
func MustOpenCatalog(t testing.TB, cfg *config.Config) *catalog.Store {
	t.Helper()

	store, err := catalog.Open(cfg)
	if err != nil {
		t.Fatalf("catalog.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewItem inserts a pending item for tests using the provided store.
func NewItem(t testing.TB, store *catalog.Store, url string) *catalog.Item {
	t.Helper()

	item, err := store.NewItem(context.Background(), url)
	if err != nil {
		t.Fatalf("store.NewItem: %v", err)
	}
	return item
}
