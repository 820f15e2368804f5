package orchestrator_test

import (
	"context"

	"github.com/goliatone/go-cvbuilder/pkg/draft"
)

// testsupportStore counts saves on top of an in-memory draft store.
type testsupportStore struct {
	*draft.Store
	saves int
}

func (s *testsupportStore) Save(ctx context.Context, d draft.Draft) (draft.Draft, error) {
	s.saves++
	return s.Store.Save(ctx, d)
}
