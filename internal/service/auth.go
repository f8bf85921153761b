package service

import (
	"context"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/pageza/foodgram/backend/internal/apperrors"
	"github.com/pageza/foodgram/backend/internal/integrity"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/store"
)

const (
	minPasswordLength = 8
	// bcrypt ignores anything past 72 bytes
	maxPasswordBytes = 72
)

var (
	ErrInvalidCredentials = apperrors.Validation(apperrors.CodeInvalidField, "", "unable to log in with provided credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

type AuthService struct {
	store     *store.Store
	jwtSecret []byte
	ttl       time.Duration
	now       func() time.Time
}

func NewAuthService(s *store.Store, jwtSecret string, ttl time.Duration) *AuthService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &AuthService{
		store:     s,
		jwtSecret: []byte(jwtSecret),
		ttl:       ttl,
		now:       time.Now,
	}
}

type RegisterInput struct {
	integrity.UserWrite
	Password string `json:"password"`
	// IsStaff is only set by the seed command, never from a request body.
	IsStaff bool `json:"-"`
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	return s.store.CreateUser(ctx, store.NewUser{UserWrite: in.UserWrite, PasswordHash: hash, IsStaff: in.IsStaff})
}

// Login checks the credentials and issues a signed token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindNotFound {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return s.GenerateToken(user.ID)
}

func (s *AuthService) ChangePassword(ctx context.Context, userID uint64, current, next string) error {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		return apperrors.Validation(apperrors.CodeInvalidField, "current_password", "wrong password")
	}
	hash, err := hashPassword(next)
	if err != nil {
		return err
	}
	return s.store.SetPassword(ctx, userID, hash)
}

func (s *AuthService) GenerateToken(userID uint64) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func (s *AuthService) ValidateToken(tokenString string) (*middleware.TokenClaims, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.jwtSecret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || userID == 0 {
		return nil, ErrInvalidToken
	}
	return &middleware.TokenClaims{UserID: userID}, nil
}

func hashPassword(password string) (string, error) {
	if len(password) < minPasswordLength {
		return "", apperrors.Validation(apperrors.CodeInvalidField, "password", "must be at least 8 characters")
	}
	if len(password) > maxPasswordBytes {
		return "", apperrors.Validation(apperrors.CodeInvalidField, "password", "must be at most 72 bytes")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}
