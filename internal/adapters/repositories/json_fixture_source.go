package repositories

import (
	"context"
	"disruption-replay-service/internal/domain"
	"fmt"
)

// JSONFixtureSource loads fixtures from a JSON seed file, or from the
// compiled-in seed when Path is empty.
type JSONFixtureSource struct{ Path string }

func NewJSONFixtureSource(path string) *JSONFixtureSource {
	return &JSONFixtureSource{Path: path}
}

func (s *JSONFixtureSource) LoadFixtures(ctx context.Context) (domain.Fixtures, error) {
	if err := ctx.Err(); err != nil {
		return domain.Fixtures{}, err
	}

	b, err := ReadSeed(s.Path)
	if err != nil {
		return domain.Fixtures{}, fmt.Errorf("load fixtures: %w", err)
	}

	f, err := DecodeSeed(b)
	if err != nil {
		return domain.Fixtures{}, fmt.Errorf("load fixtures: %w", err)
	}
	return f, nil
}
