package ports

import (
	"context"

	"catalogclean/domain/core"
	"catalogclean/domain/run"
)

// RunRepository persists pipeline run summaries
type RunRepository interface {
	Record(ctx context.Context, summary *run.Summary) error
	Get(ctx context.Context, id core.RunID) (*run.Summary, error)
	ListRecent(ctx context.Context, limit int) ([]*run.Summary, error)
}
