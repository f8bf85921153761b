package store

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm/clause"

	"github.com/pageza/foodgram/backend/internal/apperrors"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/models"
)

// RelationSet reports which relations a user holds with one recipe.
type RelationSet struct {
	Favorited bool
	InCart    bool
}

var relationNames = map[models.RelationKind]string{
	models.RelationFavorite: "favorites",
	models.RelationCart:     "shopping cart",
}

// AddRelation records a favorite or cart entry. The unique index decides
// races: when no row is inserted the relation already existed.
func (s *Store) AddRelation(ctx context.Context, userID, recipeID uint64, kind models.RelationKind) error {
	if err := s.enforcer.CheckRelation(kind, userID, recipeID); err != nil {
		return err
	}
	if _, err := s.GetUser(ctx, userID); err != nil {
		return err
	}
	if _, err := s.GetRecipeAuthor(ctx, recipeID); err != nil {
		return err
	}

	rel := &models.UserRecipeRelation{UserID: userID, RecipeID: recipeID, Kind: kind}
	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(rel)
	if database.IsForeignKeyViolation(res.Error) {
		// user or recipe deleted since the checks above
		return apperrors.NotFound("user or recipe not found")
	}
	if res.Error != nil {
		return errors.Wrap(res.Error, "add relation")
	}
	if res.RowsAffected == 0 {
		return apperrors.AlreadyExists("recipe", "recipe is already in "+relationNames[kind])
	}
	return nil
}

// RemoveRelation fails with NotFound when there was nothing to remove.
func (s *Store) RemoveRelation(ctx context.Context, userID, recipeID uint64, kind models.RelationKind) error {
	if err := s.enforcer.CheckRelation(kind, userID, recipeID); err != nil {
		return err
	}
	if _, err := s.GetRecipeAuthor(ctx, recipeID); err != nil {
		return err
	}

	res := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ? AND kind = ?", userID, recipeID, kind).
		Delete(&models.UserRecipeRelation{})
	if res.Error != nil {
		return errors.Wrap(res.Error, "remove relation")
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("recipe is not in " + relationNames[kind])
	}
	return nil
}

// HasRelation reports whether the user holds the recipe in kind. Anonymous
// users (id 0) hold nothing.
func (s *Store) HasRelation(ctx context.Context, userID, recipeID uint64, kind models.RelationKind) (bool, error) {
	if userID == 0 {
		return false, nil
	}
	var n int64
	err := s.db.WithContext(ctx).Model(&models.UserRecipeRelation{}).
		Where("user_id = ? AND recipe_id = ? AND kind = ?", userID, recipeID, kind).
		Count(&n).Error
	if err != nil {
		return false, errors.Wrap(err, "check relation")
	}
	return n > 0, nil
}

// ListRelatedRecipes returns the recipes the user holds in kind, newest
// relation first.
func (s *Store) ListRelatedRecipes(ctx context.Context, userID uint64, kind models.RelationKind) ([]models.Recipe, error) {
	var ids []uint64
	err := s.db.WithContext(ctx).Model(&models.UserRecipeRelation{}).
		Where("user_id = ? AND kind = ?", userID, kind).
		Order("created_at DESC").Order("id DESC").
		Pluck("recipe_id", &ids).Error
	if err != nil {
		return nil, errors.Wrap(err, "list related recipes")
	}
	if len(ids) == 0 {
		return []models.Recipe{}, nil
	}

	recipes, err := s.ListRecipes(ctx, RecipeFilter{IDs: ids})
	if err != nil {
		return nil, err
	}
	pos := make(map[uint64]int, len(ids))
	for i, id := range ids {
		pos[id] = i
	}
	ordered := make([]models.Recipe, len(recipes))
	n := 0
	for _, r := range recipes {
		if i, ok := pos[r.ID]; ok && i < len(ordered) {
			ordered[i] = r
			n++
		}
	}
	if n != len(ids) {
		// recipe deleted between the two reads; fall back to list order
		return recipes, nil
	}
	return ordered, nil
}

// RelationsFor reports favorite and cart membership for each recipe id.
// Anonymous users (id 0) hold no relations.
func (s *Store) RelationsFor(ctx context.Context, userID uint64, recipeIDs []uint64) (map[uint64]RelationSet, error) {
	out := make(map[uint64]RelationSet, len(recipeIDs))
	if userID == 0 || len(recipeIDs) == 0 {
		return out, nil
	}
	var rels []models.UserRecipeRelation
	err := s.db.WithContext(ctx).
		Select("recipe_id", "kind").
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Find(&rels).Error
	if err != nil {
		return nil, errors.Wrap(err, "load relations")
	}
	for _, rel := range rels {
		set := out[rel.RecipeID]
		switch rel.Kind {
		case models.RelationFavorite:
			set.Favorited = true
		case models.RelationCart:
			set.InCart = true
		}
		out[rel.RecipeID] = set
	}
	return out, nil
}

// GetRecipeAuthor returns the author id of a recipe, or NotFound.
func (s *Store) GetRecipeAuthor(ctx context.Context, recipeID uint64) (uint64, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).Select("id", "author_id").First(&recipe, recipeID).Error; err != nil {
		return 0, notFound(err, "recipe")
	}
	return recipe.AuthorID, nil
}
