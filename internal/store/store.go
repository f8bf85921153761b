// Package store persists users, recipes and their relations. Every mutation
// is checked by the integrity enforcer before anything is written, and
// multi-row writes run in a single transaction.
package store

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/apperrors"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/integrity"
	"github.com/pageza/foodgram/backend/internal/shortlink"
	"github.com/pageza/foodgram/backend/internal/storage"
)

type Store struct {
	db         *gorm.DB
	enforcer   *integrity.Enforcer
	shortlinks *shortlink.Generator
	assets     storage.AssetCleaner
	log        *zap.SugaredLogger
}

func New(
	db *gorm.DB,
	enforcer *integrity.Enforcer,
	shortlinks *shortlink.Generator,
	assets storage.AssetCleaner,
	log *zap.SugaredLogger,
) *Store {
	if assets == nil {
		assets = storage.Nop{}
	}
	return &Store{
		db:         db,
		enforcer:   enforcer,
		shortlinks: shortlinks,
		assets:     assets,
		log:        log,
	}
}

// release hands every distinct, non-empty reference to the asset cleaner.
// It must only be called after the owning transaction committed.
func (s *Store) release(ctx context.Context, refs ...string) {
	seen := make(map[string]struct{}, len(refs))
	for _, ref := range refs {
		if ref == "" {
			continue
		}
		if _, dup := seen[ref]; dup {
			continue
		}
		seen[ref] = struct{}{}
		if err := s.assets.Release(ctx, ref); err != nil {
			s.log.Warnw("asset cleanup failed", "ref", ref, "error", err)
		}
	}
}

// replaced returns the old reference when it is being swapped for a
// different one, and "" otherwise.
func replaced(old, new string) string {
	if old == new {
		return ""
	}
	return old
}

func notFound(err error, what string) error {
	if database.IsNotFound(err) {
		return apperrors.NotFound(what + " not found")
	}
	return errors.Wrapf(err, "load %s", what)
}

// firstMissing returns the first id in want that is absent from got.
func firstMissing(want, got []uint64) (uint64, bool) {
	present := make(map[uint64]struct{}, len(got))
	for _, id := range got {
		present[id] = struct{}{}
	}
	for _, id := range want {
		if _, ok := present[id]; !ok {
			return id, true
		}
	}
	return 0, false
}
