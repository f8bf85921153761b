package store

import (
	"context"

	"github.com/pkg/errors"

	"github.com/pageza/foodgram/backend/internal/apperrors"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/integrity"
	"github.com/pageza/foodgram/backend/internal/models"
)

func (s *Store) CreateTag(ctx context.Context, w integrity.TagWrite) (*models.Tag, error) {
	if err := s.enforcer.CheckTag(w); err != nil {
		return nil, err
	}
	tag := &models.Tag{Name: w.Name, Slug: w.Slug}
	if err := s.db.WithContext(ctx).Create(tag).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return nil, apperrors.AlreadyExists("name", "a tag with this name or slug already exists")
		}
		return nil, errors.Wrap(err, "create tag")
	}
	return tag, nil
}

func (s *Store) GetTag(ctx context.Context, id uint64) (*models.Tag, error) {
	var tag models.Tag
	if err := s.db.WithContext(ctx).First(&tag, id).Error; err != nil {
		return nil, notFound(err, "tag")
	}
	return &tag, nil
}

// ListTags returns every tag ordered by name.
func (s *Store) ListTags(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	if err := s.db.WithContext(ctx).Order("name").Order("id").Find(&tags).Error; err != nil {
		return nil, errors.Wrap(err, "list tags")
	}
	return tags, nil
}
