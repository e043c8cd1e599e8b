package ports

import (
	"context"
	"disruption-replay-service/internal/domain"
)

// Port: a boundary for loading the demo fixture tables from a data source.
type FixtureSource interface {
	// Load every table. Validation is the caller's job.
	LoadFixtures(ctx context.Context) (domain.Fixtures, error)
}
