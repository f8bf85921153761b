package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/apperrors"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

func TestSelfFollowRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, u := range []*models.User{f.author, f.reader} {
		assert.ErrorIs(t, f.store.Follow(ctx, u.ID, u.ID), apperrors.ErrSelfFollowForbidden)
		assert.ErrorIs(t, f.store.Unfollow(ctx, u.ID, u.ID), apperrors.ErrSelfFollowForbidden)
	}
	assert.Zero(t, testhelpers.CountRows(t, f.db, &models.Follow{}, ""))
}

func TestFollowLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	third := f.newUser(t, "aaron")

	require.NoError(t, f.store.Follow(ctx, f.reader.ID, f.author.ID))
	require.NoError(t, f.store.Follow(ctx, f.reader.ID, third.ID))
	assert.ErrorIs(t, f.store.Follow(ctx, f.reader.ID, f.author.ID), apperrors.ErrAlreadyExists)
	assert.ErrorIs(t, f.store.Follow(ctx, f.reader.ID, 999), apperrors.ErrNotFound)
	assert.ErrorIs(t, f.store.Follow(ctx, 424242, f.author.ID), apperrors.ErrNotFound)

	following, err := f.store.IsFollowing(ctx, f.reader.ID, f.author.ID)
	require.NoError(t, err)
	assert.True(t, following)

	reverse, err := f.store.IsFollowing(ctx, f.author.ID, f.reader.ID)
	require.NoError(t, err)
	assert.False(t, reverse)

	list, err := f.store.ListFollowing(ctx, f.reader.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "aaron", list[0].Username)
	assert.Equal(t, "author", list[1].Username)

	set, err := f.store.FollowingSet(ctx, f.reader.ID, []uint64{f.author.ID, f.reader.ID})
	require.NoError(t, err)
	assert.Equal(t, map[uint64]bool{f.author.ID: true}, set)

	require.NoError(t, f.store.Unfollow(ctx, f.reader.ID, f.author.ID))
	assert.ErrorIs(t, f.store.Unfollow(ctx, f.reader.ID, f.author.ID), apperrors.ErrNotFound)
}
