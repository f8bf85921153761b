package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/apperrors"
	"github.com/pageza/foodgram/backend/internal/integrity"
)

func TestTags(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	breakfast, err := f.store.CreateTag(ctx, integrity.TagWrite{Name: "breakfast", Slug: "breakfast"})
	require.NoError(t, err)

	_, err = f.store.CreateTag(ctx, integrity.TagWrite{Name: "breakfast", Slug: "morning"})
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)

	_, err = f.store.CreateTag(ctx, integrity.TagWrite{Name: "brunch", Slug: "bad slug"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidField)

	got, err := f.store.GetTag(ctx, breakfast.ID)
	require.NoError(t, err)
	assert.Equal(t, "breakfast", got.Slug)

	_, err = f.store.GetTag(ctx, 999)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	tags, err := f.store.ListTags(ctx)
	require.NoError(t, err)
	names := []string{}
	for _, tag := range tags {
		names = append(names, tag.Name)
	}
	assert.Equal(t, []string{"breakfast", "dinner", "lunch"}, names)
}

func TestIngredients(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	pinch, err := f.store.CreateIngredient(ctx, integrity.IngredientWrite{Name: "salt", MeasurementUnit: "pinch"})
	require.NoError(t, err)

	_, err = f.store.CreateIngredient(ctx, integrity.IngredientWrite{Name: "salt", MeasurementUnit: "g"})
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)

	got, err := f.store.GetIngredient(ctx, pinch.ID)
	require.NoError(t, err)
	assert.Equal(t, "pinch", got.MeasurementUnit)

	all, err := f.store.ListIngredients(ctx)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "flour", all[0].Name)
	assert.Equal(t, "g", all[1].MeasurementUnit)
	assert.Equal(t, "pinch", all[2].MeasurementUnit)
	assert.Equal(t, "sugar", all[3].Name)
}
