package store

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm/clause"

	"github.com/pageza/foodgram/backend/internal/apperrors"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/models"
)

// Follow subscribes userID to followingID.
func (s *Store) Follow(ctx context.Context, userID, followingID uint64) error {
	if err := s.enforcer.CheckFollow(userID, followingID); err != nil {
		return err
	}
	if _, err := s.GetUser(ctx, userID); err != nil {
		return err
	}
	if _, err := s.GetUser(ctx, followingID); err != nil {
		return err
	}

	follow := &models.Follow{UserID: userID, FollowingID: followingID}
	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(follow)
	if database.IsForeignKeyViolation(res.Error) {
		return apperrors.NotFound("user not found")
	}
	if res.Error != nil {
		return errors.Wrap(res.Error, "follow")
	}
	if res.RowsAffected == 0 {
		return apperrors.AlreadyExists("following", "already subscribed to this user")
	}
	return nil
}

func (s *Store) Unfollow(ctx context.Context, userID, followingID uint64) error {
	if err := s.enforcer.CheckFollow(userID, followingID); err != nil {
		return err
	}
	if _, err := s.GetUser(ctx, followingID); err != nil {
		return err
	}

	res := s.db.WithContext(ctx).
		Where("user_id = ? AND following_id = ?", userID, followingID).
		Delete(&models.Follow{})
	if res.Error != nil {
		return errors.Wrap(res.Error, "unfollow")
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("not subscribed to this user")
	}
	return nil
}

func (s *Store) IsFollowing(ctx context.Context, userID, followingID uint64) (bool, error) {
	if userID == 0 {
		return false, nil
	}
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Follow{}).
		Where("user_id = ? AND following_id = ?", userID, followingID).
		Count(&n).Error
	if err != nil {
		return false, errors.Wrap(err, "check follow")
	}
	return n > 0, nil
}

// FollowingSet reports which of the given users userID follows.
func (s *Store) FollowingSet(ctx context.Context, userID uint64, candidates []uint64) (map[uint64]bool, error) {
	out := make(map[uint64]bool, len(candidates))
	if userID == 0 || len(candidates) == 0 {
		return out, nil
	}
	var ids []uint64
	err := s.db.WithContext(ctx).Model(&models.Follow{}).
		Where("user_id = ? AND following_id IN ?", userID, candidates).
		Pluck("following_id", &ids).Error
	if err != nil {
		return nil, errors.Wrap(err, "load follows")
	}
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}

// ListFollowing returns the users userID is subscribed to, ordered by
// username.
func (s *Store) ListFollowing(ctx context.Context, userID uint64) ([]models.User, error) {
	var users []models.User
	err := s.db.WithContext(ctx).
		Joins("JOIN follows ON follows.following_id = users.id").
		Where("follows.user_id = ?", userID).
		Order("users.username").
		Find(&users).Error
	if err != nil {
		return nil, errors.Wrap(err, "list following")
	}
	return users, nil
}
