package shoppinglist

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

func addRecipe(t *testing.T, db *gorm.DB, authorID uint64, lines map[uint64]int) *models.Recipe {
	t.Helper()
	recipe := &models.Recipe{AuthorID: authorID, Name: "r", Text: "t", Image: "i.png", CookingTime: 10}
	require.NoError(t, db.Omit("Tags", "Ingredients", "Author").Create(recipe).Error)
	for ingredientID, amount := range lines {
		require.NoError(t, db.Create(&models.RecipeIngredient{
			RecipeID: recipe.ID, IngredientID: ingredientID, Amount: amount,
		}).Error)
	}
	return recipe
}

func addToCart(t *testing.T, db *gorm.DB, userID, recipeID uint64) {
	t.Helper()
	require.NoError(t, db.Create(&models.UserRecipeRelation{
		UserID: userID, RecipeID: recipeID, Kind: models.RelationCart,
	}).Error)
}

func TestDocumentSumsAcrossRecipes(t *testing.T) {
	db := testhelpers.NewSQLite(t)
	user := testhelpers.CreateUser(t, db, "shopper")
	author := testhelpers.CreateUser(t, db, "author")
	flour := testhelpers.CreateIngredient(t, db, "flour", "g")
	salt := testhelpers.CreateIngredient(t, db, "salt", "g")

	a := addRecipe(t, db, author.ID, map[uint64]int{flour.ID: 200})
	b := addRecipe(t, db, author.ID, map[uint64]int{flour.ID: 300, salt.ID: 5})
	addToCart(t, db, user.ID, a.ID)
	addToCart(t, db, user.ID, b.ID)

	// favorites and other users' carts do not count
	require.NoError(t, db.Create(&models.UserRecipeRelation{UserID: user.ID, RecipeID: a.ID, Kind: models.RelationFavorite}).Error)
	addToCart(t, db, author.ID, b.ID)

	doc, err := NewAggregator(db).Document(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "flour — 500 g\nsalt — 5 g", doc)
}

func TestDocumentGroupsByNameAndUnit(t *testing.T) {
	db := testhelpers.NewSQLite(t)
	user := testhelpers.CreateUser(t, db, "shopper")
	milk := testhelpers.CreateIngredient(t, db, "milk", "ml")
	milkCups := testhelpers.CreateIngredient(t, db, "milk", "cup")

	a := addRecipe(t, db, user.ID, map[uint64]int{milk.ID: 100, milkCups.ID: 1})
	b := addRecipe(t, db, user.ID, map[uint64]int{milk.ID: 150})
	addToCart(t, db, user.ID, a.ID)
	addToCart(t, db, user.ID, b.ID)

	items, err := NewAggregator(db).Build(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, []Item{
		{Name: "milk", Unit: "cup", Total: 1},
		{Name: "milk", Unit: "ml", Total: 250},
	}, items)
}

func TestDocumentEmptyCart(t *testing.T) {
	db := testhelpers.NewSQLite(t)
	user := testhelpers.CreateUser(t, db, "shopper")

	doc, err := NewAggregator(db).Document(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "", doc)
}

func TestAggregate(t *testing.T) {
	items := Aggregate([]Row{
		{Name: "salt", Unit: "g", Total: 5},
		{Name: "flour", Unit: "g", Total: 200},
		{Name: "Zest", Unit: "pcs", Total: 1},
		{Name: "flour", Unit: "g", Total: 300},
	})
	assert.Equal(t, []Item{
		{Name: "Zest", Unit: "pcs", Total: 1},
		{Name: "flour", Unit: "g", Total: 500},
		{Name: "salt", Unit: "g", Total: 5},
	}, items)
}

func TestRender(t *testing.T) {
	assert.Equal(t, "", Render(nil))
	assert.Equal(t, "flour — 500 g", Render([]Item{{Name: "flour", Unit: "g", Total: 500}}))
}
