package integrity

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/apperrors"
	"github.com/pageza/foodgram/backend/internal/models"
)

func validRecipe() RecipeWrite {
	return RecipeWrite{
		Name:        "Pancakes",
		Text:        "Mix and fry.",
		CookingTime: 20,
		Ingredients: []IngredientLine{{IngredientID: 1, Amount: 200}, {IngredientID: 2, Amount: 1}},
		Tags:        []uint64{1, 2},
	}
}

func TestCheckRecipeWrite(t *testing.T) {
	e := New()

	tests := []struct {
		name   string
		mutate func(w *RecipeWrite)
		want   apperrors.Code
		field  string
	}{
		{"valid", func(w *RecipeWrite) {}, "", ""},
		{"no ingredients", func(w *RecipeWrite) { w.Ingredients = nil }, apperrors.CodeEmptyIngredientList, "ingredients"},
		{"duplicate ingredient", func(w *RecipeWrite) {
			w.Ingredients = append(w.Ingredients, IngredientLine{IngredientID: 1, Amount: 3})
		}, apperrors.CodeDuplicateIngredient, "ingredients"},
		{"no tags", func(w *RecipeWrite) { w.Tags = []uint64{} }, apperrors.CodeEmptyTagList, "tags"},
		{"duplicate tag", func(w *RecipeWrite) { w.Tags = []uint64{3, 3} }, apperrors.CodeDuplicateTag, "tags"},
		{"zero amount", func(w *RecipeWrite) { w.Ingredients[0].Amount = 0 }, apperrors.CodeInvalidAmount, "ingredients"},
		{"amount of one", func(w *RecipeWrite) { w.Ingredients[0].Amount = 1 }, "", ""},
		{"zero cooking time", func(w *RecipeWrite) { w.CookingTime = 0 }, apperrors.CodeInvalidCookingTime, "cooking_time"},
		{"negative cooking time", func(w *RecipeWrite) { w.CookingTime = -5 }, apperrors.CodeInvalidCookingTime, "cooking_time"},
		{"empty name", func(w *RecipeWrite) { w.Name = "" }, apperrors.CodeInvalidField, "name"},
		{"long name", func(w *RecipeWrite) { w.Name = strings.Repeat("a", 257) }, apperrors.CodeInvalidField, "name"},
		{"empty text", func(w *RecipeWrite) { w.Text = "" }, apperrors.CodeInvalidField, "text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := validRecipe()
			tt.mutate(&w)
			err := e.CheckRecipeWrite(w)
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.want, apperrors.CodeOf(err))
			assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

			var appErr *apperrors.Error
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, tt.field, appErr.Field)
		})
	}
}

func TestCheckRecipeWriteFailsFast(t *testing.T) {
	e := New()
	w := RecipeWrite{
		Name:        "",
		CookingTime: 0,
		Ingredients: []IngredientLine{{IngredientID: 1, Amount: 0}, {IngredientID: 1, Amount: 0}},
		Tags:        nil,
	}

	err := e.CheckRecipeWrite(w)
	assert.ErrorIs(t, err, apperrors.ErrDuplicateIngredient)

	w.Ingredients = w.Ingredients[:1]
	assert.ErrorIs(t, e.CheckRecipeWrite(w), apperrors.ErrEmptyTagList)

	w.Tags = []uint64{1}
	assert.ErrorIs(t, e.CheckRecipeWrite(w), apperrors.ErrInvalidAmount)

	w.Ingredients[0].Amount = 1
	assert.ErrorIs(t, e.CheckRecipeWrite(w), apperrors.ErrInvalidCookingTime)

	w.CookingTime = 1
	assert.ErrorIs(t, e.CheckRecipeWrite(w), apperrors.ErrInvalidField)
}

func TestCheckFollow(t *testing.T) {
	e := New()

	assert.NoError(t, e.CheckFollow(1, 2))

	err := e.CheckFollow(7, 7)
	assert.ErrorIs(t, err, apperrors.ErrSelfFollowForbidden)
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))

	assert.ErrorIs(t, e.CheckFollow(0, 2), apperrors.ErrInvalidField)
}

func TestCheckRelation(t *testing.T) {
	e := New()

	assert.NoError(t, e.CheckRelation(models.RelationFavorite, 1, 2))
	assert.NoError(t, e.CheckRelation(models.RelationCart, 1, 2))
	assert.ErrorIs(t, e.CheckRelation(models.RelationKind("wishlist"), 1, 2), apperrors.ErrInvalidField)
	assert.ErrorIs(t, e.CheckRelation(models.RelationCart, 0, 2), apperrors.ErrInvalidField)
	assert.ErrorIs(t, e.CheckRelation(models.RelationCart, 1, 0), apperrors.ErrInvalidField)
}

func TestCheckTagAndIngredient(t *testing.T) {
	e := New()

	assert.NoError(t, e.CheckTag(TagWrite{Name: "Breakfast", Slug: "breakfast"}))

	err := e.CheckTag(TagWrite{Name: "Breakfast", Slug: "break fast"})
	require.ErrorIs(t, err, apperrors.ErrInvalidField)
	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "slug", appErr.Field)

	assert.NoError(t, e.CheckIngredient(IngredientWrite{Name: "flour", MeasurementUnit: "g"}))
	assert.ErrorIs(t, e.CheckIngredient(IngredientWrite{Name: "flour"}), apperrors.ErrInvalidField)
}

func TestCheckUser(t *testing.T) {
	e := New()

	assert.NoError(t, e.CheckUser(UserWrite{Email: "cook@example.com", Username: "cook.42"}))
	assert.ErrorIs(t, e.CheckUser(UserWrite{Email: "not-an-email", Username: "cook"}), apperrors.ErrInvalidField)
	assert.ErrorIs(t, e.CheckUser(UserWrite{Email: "cook@example.com", Username: "me"}), apperrors.ErrInvalidField)
	assert.ErrorIs(t, e.CheckUser(UserWrite{Email: "cook@example.com", Username: "bad name"}), apperrors.ErrInvalidField)
}
