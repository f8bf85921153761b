package store

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/apperrors"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/integrity"
	"github.com/pageza/foodgram/backend/internal/models"
)

// NewUser is a registration with an already hashed password.
type NewUser struct {
	integrity.UserWrite
	PasswordHash string
	IsStaff      bool
}

func (s *Store) CreateUser(ctx context.Context, u NewUser) (*models.User, error) {
	if err := s.enforcer.CheckUser(u.UserWrite); err != nil {
		return nil, err
	}
	if u.PasswordHash == "" {
		return nil, apperrors.Validation(apperrors.CodeInvalidField, "password", "this field is required")
	}

	user := &models.User{
		Email:        normalizeEmail(u.Email),
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		PasswordHash: u.PasswordHash,
		IsStaff:      u.IsStaff,
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return nil, s.userConflict(ctx, 0, user.Email)
		}
		return nil, errors.Wrap(err, "create user")
	}
	return user, nil
}

func (s *Store) GetUser(ctx context.Context, id uint64) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, notFound(err, "user")
	}
	return &user, nil
}

// GetUserByEmail matches case-insensitively; emails are stored lowercased.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&user).Error; err != nil {
		return nil, notFound(err, "user")
	}
	return &user, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, errors.Wrap(err, "list users")
	}
	return users, nil
}

// UpdateUser replaces the profile fields of a user.
func (s *Store) UpdateUser(ctx context.Context, id uint64, w integrity.UserWrite) (*models.User, error) {
	if err := s.enforcer.CheckUser(w); err != nil {
		return nil, err
	}
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	email := normalizeEmail(w.Email)
	err = s.db.WithContext(ctx).Model(user).Updates(map[string]interface{}{
		"email":      email,
		"username":   w.Username,
		"first_name": w.FirstName,
		"last_name":  w.LastName,
	}).Error
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, s.userConflict(ctx, id, email)
		}
		return nil, errors.Wrap(err, "update user")
	}
	return s.GetUser(ctx, id)
}

func (s *Store) SetPassword(ctx context.Context, id uint64, hash string) error {
	if hash == "" {
		return apperrors.Validation(apperrors.CodeInvalidField, "password", "this field is required")
	}
	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("password_hash", hash)
	if res.Error != nil {
		return errors.Wrap(res.Error, "set password")
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("user not found")
	}
	return nil
}

// SetAvatar replaces the user's avatar, or clears it when ref is nil. The
// previous avatar is released after commit unless it is unchanged.
func (s *Store) SetAvatar(ctx context.Context, id uint64, ref *string) (*models.User, error) {
	if ref != nil && strings.TrimSpace(*ref) == "" {
		return nil, apperrors.Validation(apperrors.CodeInvalidField, "avatar", "this field is required")
	}

	var old string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, id).Error; err != nil {
			return notFound(err, "user")
		}
		if user.Avatar != nil {
			old = *user.Avatar
		}
		return tx.Model(&user).Update("avatar", ref).Error
	})
	if err != nil {
		return nil, err
	}

	next := ""
	if ref != nil {
		next = *ref
	}
	s.release(ctx, replaced(old, next))
	return s.GetUser(ctx, id)
}

// DeleteUser removes the user with their recipes, relations and follows in
// both directions. Their avatar and recipe images are released after commit.
// It returns the short link codes of the removed recipes.
func (s *Store) DeleteUser(ctx context.Context, id uint64) ([]string, error) {
	var refs, codes []string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, id).Error; err != nil {
			return notFound(err, "user")
		}
		if user.Avatar != nil {
			refs = append(refs, *user.Avatar)
		}

		var recipes []models.Recipe
		if err := tx.Select("id", "image", "short_link_code").Where("author_id = ?", id).Find(&recipes).Error; err != nil {
			return errors.Wrap(err, "load user recipes")
		}
		ids := make([]uint64, 0, len(recipes))
		for _, r := range recipes {
			ids = append(ids, r.ID)
			refs = append(refs, r.Image)
			if r.ShortLinkCode != nil {
				codes = append(codes, *r.ShortLinkCode)
			}
		}
		if err := deleteRecipeRows(tx, ids); err != nil {
			return err
		}

		if err := tx.Where("user_id = ?", id).Delete(&models.UserRecipeRelation{}).Error; err != nil {
			return errors.Wrap(err, "delete user relations")
		}
		if err := tx.Where("user_id = ? OR following_id = ?", id, id).Delete(&models.Follow{}).Error; err != nil {
			return errors.Wrap(err, "delete user follows")
		}
		if err := tx.Delete(&models.User{}, id).Error; err != nil {
			return errors.Wrap(err, "delete user")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.release(ctx, refs...)
	return codes, nil
}

// userConflict works out which unique field a failed write collided on.
func (s *Store) userConflict(ctx context.Context, selfID uint64, email string) error {
	var n int64
	q := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email)
	if selfID != 0 {
		q = q.Where("id <> ?", selfID)
	}
	if err := q.Count(&n).Error; err == nil && n > 0 {
		return apperrors.AlreadyExists("email", "a user with this email already exists")
	}
	return apperrors.AlreadyExists("username", "a user with this username already exists")
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
