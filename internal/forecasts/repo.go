package forecasts

import "context"

// Repo stores assessment records.
type Repo interface {
	Create(ctx context.Context, assessment Assessment) error
	GetByID(ctx context.Context, id string) (Assessment, error)
	List(ctx context.Context, limit, offset int) ([]Assessment, error)
}
