package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/integrity"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/shortlink"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

type mockCleaner struct {
	mock.Mock
}

func (m *mockCleaner) Release(ctx context.Context, ref string) error {
	return m.Called(ctx, ref).Error(0)
}

type fixture struct {
	store   *Store
	db      *gorm.DB
	cleaner *mockCleaner

	author *models.User
	reader *models.User
	flour  *models.Ingredient
	salt   *models.Ingredient
	sugar  *models.Ingredient
	lunch  *models.Tag
	dinner *models.Tag
}

func newFixture(t *testing.T, opts ...shortlink.Option) *fixture {
	t.Helper()
	db := testhelpers.NewSQLite(t)
	return newFixtureWithDB(t, db, opts...)
}

func newFixtureWithDB(t *testing.T, db *gorm.DB, opts ...shortlink.Option) *fixture {
	t.Helper()
	gen, err := shortlink.NewGenerator(opts...)
	require.NoError(t, err)

	cleaner := new(mockCleaner)
	s := New(db, integrity.New(), gen, cleaner, zap.NewNop().Sugar())

	return &fixture{
		store:   s,
		db:      db,
		cleaner: cleaner,
		author:  testhelpers.CreateUser(t, db, "author"),
		reader:  testhelpers.CreateUser(t, db, "reader"),
		flour:   testhelpers.CreateIngredient(t, db, "flour", "g"),
		salt:    testhelpers.CreateIngredient(t, db, "salt", "g"),
		sugar:   testhelpers.CreateIngredient(t, db, "sugar", "tbsp"),
		lunch:   testhelpers.CreateTag(t, db, "lunch"),
		dinner:  testhelpers.CreateTag(t, db, "dinner"),
	}
}

func (f *fixture) write(image string) integrity.RecipeWrite {
	return integrity.RecipeWrite{
		Name:        "Bread",
		Text:        "Knead and bake.",
		Image:       &image,
		CookingTime: 90,
		Ingredients: []integrity.IngredientLine{
			{IngredientID: f.flour.ID, Amount: 200},
			{IngredientID: f.salt.ID, Amount: 5},
		},
		Tags: []uint64{f.lunch.ID},
	}
}

func (f *fixture) createRecipe(t *testing.T, authorID uint64, w integrity.RecipeWrite) *models.Recipe {
	t.Helper()
	recipe, err := f.store.CreateRecipe(context.Background(), authorID, w)
	require.NoError(t, err)
	return recipe
}

func (f *fixture) newUser(t *testing.T, name string) *models.User {
	t.Helper()
	return testhelpers.CreateUser(t, f.db, name)
}

func fixedClock(ms int64) shortlink.Option {
	return shortlink.WithClock(func() time.Time { return time.UnixMilli(ms) })
}

var errCleanup = errors.New("bucket unavailable")
