package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/apperrors"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/integrity"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/shortlink"
)

// RecipeFilter narrows ListRecipes. Zero values mean no restriction.
type RecipeFilter struct {
	AuthorID uint64
	IDs      []uint64
	Limit    int
}

// CreateRecipe stores a recipe with its ingredient lines, tag set and a fresh
// short link code in one transaction.
func (s *Store) CreateRecipe(ctx context.Context, authorID uint64, w integrity.RecipeWrite) (*models.Recipe, error) {
	if err := s.enforcer.CheckRecipeWrite(w); err != nil {
		return nil, err
	}
	if w.Image == nil || strings.TrimSpace(*w.Image) == "" {
		return nil, apperrors.Validation(apperrors.CodeInvalidField, "image", "this field is required")
	}

	recipe := &models.Recipe{
		AuthorID:    authorID,
		Name:        w.Name,
		Text:        w.Text,
		Image:       *w.Image,
		CookingTime: w.CookingTime,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var author models.User
		if err := tx.Select("id").First(&author, authorID).Error; err != nil {
			return notFound(err, "author")
		}
		if err := checkReferences(tx, w); err != nil {
			return err
		}
		if err := tx.Omit("Tags", "Ingredients", "Author").Create(recipe).Error; err != nil {
			return errors.Wrap(err, "create recipe")
		}
		if err := replaceLinesAndTags(tx, recipe.ID, w); err != nil {
			return err
		}

		code, err := s.shortlinks.Assign(authorID, w.CookingTime, func(code string) error {
			return setShortCode(tx, recipe.ID, code)
		})
		if err != nil {
			return err
		}
		recipe.ShortLinkCode = &code
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetRecipe(ctx, recipe.ID)
}

// UpdateRecipe replaces the recipe's fields, ingredient lines and tag set. A
// nil image keeps the stored one.
func (s *Store) UpdateRecipe(ctx context.Context, id uint64, w integrity.RecipeWrite) (*models.Recipe, error) {
	if err := s.enforcer.CheckRecipeWrite(w); err != nil {
		return nil, err
	}
	if w.Image != nil && strings.TrimSpace(*w.Image) == "" {
		return nil, apperrors.Validation(apperrors.CodeInvalidField, "image", "this field may not be blank")
	}

	var released string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.First(&recipe, id).Error; err != nil {
			return notFound(err, "recipe")
		}
		if err := checkReferences(tx, w); err != nil {
			return err
		}

		fields := map[string]interface{}{
			"name":         w.Name,
			"text":         w.Text,
			"cooking_time": w.CookingTime,
		}
		if w.Image != nil {
			fields["image"] = *w.Image
			released = replaced(recipe.Image, *w.Image)
		}
		if err := tx.Model(&recipe).Updates(fields).Error; err != nil {
			return errors.Wrap(err, "update recipe")
		}
		return replaceLinesAndTags(tx, id, w)
	})
	if err != nil {
		return nil, err
	}

	s.release(ctx, released)
	return s.GetRecipe(ctx, id)
}

// GetRecipe loads a recipe with its author, tags (by name) and ingredient
// lines with their ingredient rows.
func (s *Store) GetRecipe(ctx context.Context, id uint64) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.preloaded(ctx).First(&recipe, id).Error
	if err != nil {
		return nil, notFound(err, "recipe")
	}
	return &recipe, nil
}

// ListRecipes returns recipes newest first.
func (s *Store) ListRecipes(ctx context.Context, f RecipeFilter) ([]models.Recipe, error) {
	q := s.preloaded(ctx).Order("created_at DESC").Order("id DESC")
	if f.AuthorID != 0 {
		q = q.Where("author_id = ?", f.AuthorID)
	}
	if f.IDs != nil {
		if len(f.IDs) == 0 {
			return []models.Recipe{}, nil
		}
		q = q.Where("id IN ?", f.IDs)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	var recipes []models.Recipe
	if err := q.Find(&recipes).Error; err != nil {
		return nil, errors.Wrap(err, "list recipes")
	}
	return recipes, nil
}

// CountRecipes returns how many recipes each of the given authors has.
func (s *Store) CountRecipes(ctx context.Context, authorIDs []uint64) (map[uint64]int64, error) {
	counts := make(map[uint64]int64, len(authorIDs))
	if len(authorIDs) == 0 {
		return counts, nil
	}
	var rows []struct {
		AuthorID uint64
		Total    int64
	}
	err := s.db.WithContext(ctx).Model(&models.Recipe{}).
		Select("author_id, COUNT(*) AS total").
		Where("author_id IN ?", authorIDs).
		Group("author_id").
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "count recipes")
	}
	for _, r := range rows {
		counts[r.AuthorID] = r.Total
	}
	return counts, nil
}

// DeleteRecipe removes the recipe with its ingredient lines, tags and every
// favorite or cart entry that references it, then releases its image.
func (s *Store) DeleteRecipe(ctx context.Context, id uint64) error {
	var image string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.Select("id", "image").First(&recipe, id).Error; err != nil {
			return notFound(err, "recipe")
		}
		image = recipe.Image
		return deleteRecipeRows(tx, []uint64{id})
	})
	if err != nil {
		return err
	}

	s.release(ctx, image)
	return nil
}

// RecipeByShortCode is the lookup behind short link redirects. Only the id,
// author and code columns are loaded.
func (s *Store) RecipeByShortCode(ctx context.Context, code string) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).
		Select("id", "author_id", "short_link_code").
		Where("short_link_code = ?", code).
		First(&recipe).Error
	if err != nil {
		return nil, notFound(err, "recipe")
	}
	return &recipe, nil
}

// AssignShortLink gives a recipe without a code (rows created before codes
// existed) a fresh one. Each attempt is its own transaction.
func (s *Store) AssignShortLink(ctx context.Context, id uint64) (string, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, id).Error; err != nil {
		return "", notFound(err, "recipe")
	}
	if recipe.ShortLinkCode != nil && *recipe.ShortLinkCode != "" {
		return *recipe.ShortLinkCode, nil
	}

	var assigned string
	_, err := s.shortlinks.Assign(recipe.AuthorID, recipe.CookingTime, func(code string) error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			res := tx.Model(&models.Recipe{}).
				Where("id = ? AND short_link_code IS NULL", id).
				Update("short_link_code", code)
			if res.Error != nil {
				if database.IsUniqueViolation(res.Error) {
					return shortlink.ErrCodeTaken
				}
				return errors.Wrap(res.Error, "assign short link")
			}
			if res.RowsAffected == 0 {
				// someone else assigned a code in the meantime
				var current models.Recipe
				if err := tx.Select("short_link_code").First(&current, id).Error; err != nil {
					return notFound(err, "recipe")
				}
				if current.ShortLinkCode != nil {
					assigned = *current.ShortLinkCode
				}
				return nil
			}
			assigned = code
			return nil
		})
	})
	if err != nil {
		return "", err
	}
	return assigned, nil
}

// EnsureShortLink is AssignShortLink under the name the resolver expects.
func (s *Store) EnsureShortLink(ctx context.Context, id uint64) (string, error) {
	return s.AssignShortLink(ctx, id)
}

func (s *Store) preloaded(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Preload("Author").
		Preload("Tags", func(db *gorm.DB) *gorm.DB {
			return db.Order("tags.name")
		}).
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB {
			return db.Order("recipe_ingredients.id")
		}).
		Preload("Ingredients.Ingredient")
}

// checkReferences fails with UnknownIngredient or UnknownTag when a submitted
// id has no row. Lists are already known to be free of duplicates.
func checkReferences(tx *gorm.DB, w integrity.RecipeWrite) error {
	ingredientIDs := make([]uint64, 0, len(w.Ingredients))
	for _, line := range w.Ingredients {
		ingredientIDs = append(ingredientIDs, line.IngredientID)
	}
	var found []uint64
	if err := tx.Model(&models.Ingredient{}).Where("id IN ?", ingredientIDs).Pluck("id", &found).Error; err != nil {
		return errors.Wrap(err, "check ingredients")
	}
	if missing, ok := firstMissing(ingredientIDs, found); ok {
		return apperrors.Validation(apperrors.CodeUnknownIngredient, "ingredients",
			fmt.Sprintf("ingredient %d does not exist", missing))
	}

	var foundTags []uint64
	if err := tx.Model(&models.Tag{}).Where("id IN ?", w.Tags).Pluck("id", &foundTags).Error; err != nil {
		return errors.Wrap(err, "check tags")
	}
	if missing, ok := firstMissing(w.Tags, foundTags); ok {
		return apperrors.Validation(apperrors.CodeUnknownTag, "tags",
			fmt.Sprintf("tag %d does not exist", missing))
	}
	return nil
}

// replaceLinesAndTags deletes the recipe's ingredient lines and tag links and
// recreates them from w.
func replaceLinesAndTags(tx *gorm.DB, recipeID uint64, w integrity.RecipeWrite) error {
	if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.RecipeIngredient{}).Error; err != nil {
		return errors.Wrap(err, "clear ingredient lines")
	}
	if err := tx.Exec("DELETE FROM recipe_tags WHERE recipe_id = ?", recipeID).Error; err != nil {
		return errors.Wrap(err, "clear recipe tags")
	}

	lines := make([]models.RecipeIngredient, 0, len(w.Ingredients))
	for _, line := range w.Ingredients {
		lines = append(lines, models.RecipeIngredient{
			RecipeID:     recipeID,
			IngredientID: line.IngredientID,
			Amount:       line.Amount,
		})
	}
	if err := tx.Omit("Ingredient").Create(&lines).Error; err != nil {
		return errors.Wrap(err, "create ingredient lines")
	}

	links := make([]map[string]interface{}, 0, len(w.Tags))
	for _, tagID := range w.Tags {
		links = append(links, map[string]interface{}{"recipe_id": recipeID, "tag_id": tagID})
	}
	if err := tx.Table("recipe_tags").Create(links).Error; err != nil {
		return errors.Wrap(err, "create recipe tags")
	}
	return nil
}

// setShortCode writes a candidate code inside a savepoint so that a collision
// rolls back only this attempt.
func setShortCode(tx *gorm.DB, recipeID uint64, code string) error {
	return tx.Transaction(func(sp *gorm.DB) error {
		err := sp.Model(&models.Recipe{}).Where("id = ?", recipeID).Update("short_link_code", code).Error
		if database.IsUniqueViolation(err) {
			return shortlink.ErrCodeTaken
		}
		if err != nil {
			return errors.Wrap(err, "set short link")
		}
		return nil
	})
}

// deleteRecipeRows removes recipes and everything that references them.
func deleteRecipeRows(tx *gorm.DB, ids []uint64) error {
	if len(ids) == 0 {
		return nil
	}
	if err := tx.Where("recipe_id IN ?", ids).Delete(&models.UserRecipeRelation{}).Error; err != nil {
		return errors.Wrap(err, "delete recipe relations")
	}
	if err := tx.Where("recipe_id IN ?", ids).Delete(&models.RecipeIngredient{}).Error; err != nil {
		return errors.Wrap(err, "delete ingredient lines")
	}
	if err := tx.Exec("DELETE FROM recipe_tags WHERE recipe_id IN ?", ids).Error; err != nil {
		return errors.Wrap(err, "delete recipe tags")
	}
	if err := tx.Where("id IN ?", ids).Delete(&models.Recipe{}).Error; err != nil {
		return errors.Wrap(err, "delete recipes")
	}
	return nil
}
