package store

import (
	"context"

	"github.com/pkg/errors"

	"github.com/pageza/foodgram/backend/internal/apperrors"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/integrity"
	"github.com/pageza/foodgram/backend/internal/models"
)

func (s *Store) CreateIngredient(ctx context.Context, w integrity.IngredientWrite) (*models.Ingredient, error) {
	if err := s.enforcer.CheckIngredient(w); err != nil {
		return nil, err
	}
	ingredient := &models.Ingredient{Name: w.Name, MeasurementUnit: w.MeasurementUnit}
	if err := s.db.WithContext(ctx).Create(ingredient).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return nil, apperrors.AlreadyExists("name", "this ingredient already exists with the same measurement unit")
		}
		return nil, errors.Wrap(err, "create ingredient")
	}
	return ingredient, nil
}

func (s *Store) GetIngredient(ctx context.Context, id uint64) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	if err := s.db.WithContext(ctx).First(&ingredient, id).Error; err != nil {
		return nil, notFound(err, "ingredient")
	}
	return &ingredient, nil
}

// ListIngredients returns every ingredient ordered by name, then unit.
func (s *Store) ListIngredients(ctx context.Context) ([]models.Ingredient, error) {
	var ingredients []models.Ingredient
	err := s.db.WithContext(ctx).
		Order("name").
		Order("measurement_unit").
		Find(&ingredients).Error
	if err != nil {
		return nil, errors.Wrap(err, "list ingredients")
	}
	return ingredients, nil
}
