package stage

import (
	"context"

	"recue/internal/catalog"
)

// Handler describes the contract the pipeline needs from each stage.
type Handler interface {
	Prepare(context.Context, *catalog.Item) error
	Execute(context.Context, *catalog.Item) error
	HealthCheck(context.Context) Health
}
