package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"recue/internal/catalog"
	"recue/internal/config"
	"recue/internal/logging"
	"recue/internal/services"
	"recue/internal/stage"
)

// binding ties a stage handler to the statuses it moves items between.
type binding struct {
	name string
	from catalog.Status
	busy catalog.Status
	done catalog.Status
	h    stage.Handler
}

// Runner drives catalog items through the pipeline stages in order.
type Runner struct {
	cfg      *config.Config
	store    *catalog.Store
	logger   *slog.Logger
	bindings []binding

	lockPath string
	lock     *flock.Flock
}

// NewRunner wires the three pipeline stages. Any stage handler may be nil to
// skip it, which leaves items parked at that stage's entry status.
func NewRunner(cfg *config.Config, store *catalog.Store, logger *slog.Logger, fetch, convert, embed stage.Handler) *Runner {
	if logger == nil {
		logger = logging.NewNop()
	}
	r := &Runner{
		cfg:      cfg,
		store:    store,
		logger:   logging.NewComponentLogger(logger, "pipeline"),
		lockPath: filepath.Join(cfg.Paths.CatalogDir, "recue.lock"),
	}
	r.lock = flock.New(r.lockPath)

	add := func(name string, from, busy, done catalog.Status, h stage.Handler) {
		if h != nil {
			r.bindings = append(r.bindings, binding{name: name, from: from, busy: busy, done: done, h: h})
		}
	}
	add("fetch", catalog.StatusPending, catalog.StatusFetching, catalog.StatusFetched, fetch)
	add("convert", catalog.StatusFetched, catalog.StatusConverting, catalog.StatusConverted, convert)
	add("embed", catalog.StatusConverted, catalog.StatusEmbedding, catalog.StatusCompleted, embed)
	return r
}

// Acquire takes the process lock so only one pipeline mutates the staging
// area at a time.
func (r *Runner) Acquire() error {
	ok, err := r.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock %s: %w", r.lockPath, err)
	}
	if !ok {
		return fmt.Errorf("another recue process holds %s", r.lockPath)
	}
	return nil
}

// Release drops the process lock.
func (r *Runner) Release() {
	if err := r.lock.Unlock(); err != nil {
		r.logger.Warn("failed to release process lock", logging.Error(err))
	}
}

func (r *Runner) bindingFor(status catalog.Status) (binding, bool) {
	for _, b := range r.bindings {
		if b.from == status {
			return b, true
		}
	}
	return binding{}, false
}

// entryStatuses lists the statuses the runner picks items up at.
func (r *Runner) entryStatuses() []catalog.Status {
	statuses := make([]catalog.Status, 0, len(r.bindings))
	for _, b := range r.bindings {
		statuses = append(statuses, b.from)
	}
	return statuses
}

// ProcessItem runs the item through every remaining stage, stopping at the
// first failure. The item's status and error message are persisted after
// each transition.
func (r *Runner) ProcessItem(ctx context.Context, item *catalog.Item) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		b, ok := r.bindingFor(item.Status)
		if !ok {
			return nil
		}
		if err := r.runStage(ctx, b, item); err != nil {
			return err
		}
	}
}

func (r *Runner) runStage(ctx context.Context, b binding, item *catalog.Item) error {
	runID := uuid.NewString()
	stageLogger := r.logger.With(
		logging.String(logging.FieldStage, b.name),
		logging.String(logging.FieldRunID, runID),
		logging.Int64(logging.FieldItemID, item.ID),
	)

	item.Status = b.busy
	if err := r.store.Update(ctx, item); err != nil {
		return fmt.Errorf("persist %s status: %w", b.busy, err)
	}

	start := time.Now()
	stageLogger.Info("stage started", logging.String("item", item.Label()))

	err := b.h.Prepare(ctx, item)
	if err == nil {
		err = b.h.Execute(ctx, item)
	}
	if err != nil {
		item.Status = services.FailureStatus(err)
		item.ErrorMessage = err.Error()
		if updateErr := r.store.Update(ctx, item); updateErr != nil {
			stageLogger.Error("failed to persist failure", logging.Error(updateErr))
		}
		stageLogger.Error("stage failed",
			logging.String("status", string(item.Status)),
			logging.Duration("elapsed", time.Since(start)),
			logging.Error(err))
		return err
	}

	item.Status = b.done
	item.ErrorMessage = ""
	if err := r.store.Update(ctx, item); err != nil {
		return fmt.Errorf("persist %s status: %w", b.done, err)
	}
	stageLogger.Info("stage finished",
		logging.String("status", string(item.Status)),
		logging.Duration("elapsed", time.Since(start)))
	return nil
}

// ProcessNext picks up the oldest waiting item and runs it to completion.
// It reports whether an item was found.
func (r *Runner) ProcessNext(ctx context.Context) (bool, error) {
	item, err := r.store.NextForStatuses(ctx, r.entryStatuses()...)
	if err != nil {
		return false, err
	}
	if item == nil {
		return false, nil
	}
	return true, r.ProcessItem(ctx, item)
}

// Run drains the catalog, processing items until none are waiting. Failed
// items are recorded and skipped; processing continues with the next item.
// Returns the number of items that completed their stages and the number
// that failed.
func (r *Runner) Run(ctx context.Context) (processed, failed int, err error) {
	for {
		found, runErr := r.ProcessNext(ctx)
		if !found {
			return processed, failed, runErr
		}
		if runErr != nil {
			if errors.Is(runErr, context.Canceled) || errors.Is(runErr, context.DeadlineExceeded) {
				return processed, failed, runErr
			}
			failed++
			continue
		}
		processed++
	}
}

// HealthCheck reports the readiness of every configured stage.
func (r *Runner) HealthCheck(ctx context.Context) []stage.Health {
	health := make([]stage.Health, 0, len(r.bindings))
	for _, b := range r.bindings {
		health = append(health, b.h.HealthCheck(ctx))
	}
	return health
}
