// Package seed loads reference data and the optional admin account. Every
// step is get-or-create, so running it twice changes nothing.
package seed

import (
	"context"
	"encoding/json"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/pageza/foodgram/backend/internal/apperrors"
	"github.com/pageza/foodgram/backend/internal/integrity"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/store"
)

const (
	EnvAdminEmail    = "FOODGRAM_SEED_ADMIN_EMAIL"
	EnvAdminPassword = "FOODGRAM_SEED_ADMIN_PASSWORD"
	EnvAdminUsername = "FOODGRAM_SEED_ADMIN_USERNAME"

	defaultAdminUsername = "admin"
)

type Fixtures struct {
	Tags        []integrity.TagWrite        `json:"tags"`
	Ingredients []integrity.IngredientWrite `json:"ingredients"`
}

type Admin struct {
	Email    string
	Username string
	Password string
}

// AdminFromEnv returns nil unless both the email and password are set.
func AdminFromEnv() *Admin {
	email, password := os.Getenv(EnvAdminEmail), os.Getenv(EnvAdminPassword)
	if email == "" || password == "" {
		return nil
	}
	username := os.Getenv(EnvAdminUsername)
	if username == "" {
		username = defaultAdminUsername
	}
	return &Admin{Email: email, Username: username, Password: password}
}

func LoadFixtures(path string) (*Fixtures, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read fixtures")
	}
	var f Fixtures
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, errors.Wrapf(err, "parse fixtures %s", path)
	}
	return &f, nil
}

// Result counts what a run created and what already existed.
type Result struct {
	Created int
	Skipped int
}

type Seeder struct {
	store *store.Store
	auth  *service.AuthService
	log   *zap.SugaredLogger
}

func New(s *store.Store, auth *service.AuthService, log *zap.SugaredLogger) *Seeder {
	return &Seeder{store: s, auth: auth, log: log}
}

func (s *Seeder) Run(ctx context.Context, admin *Admin, fixtures *Fixtures) (Result, error) {
	var res Result

	if admin == nil {
		s.log.Info("admin credentials not supplied, skipping admin user")
	} else {
		_, err := s.auth.Register(ctx, service.RegisterInput{
			UserWrite: integrity.UserWrite{Email: admin.Email, Username: admin.Username},
			Password:  admin.Password,
			IsStaff:   true,
		})
		if err := res.record(err); err != nil {
			return res, errors.Wrap(err, "seed admin")
		}
	}

	if fixtures == nil {
		return res, nil
	}
	for _, tag := range fixtures.Tags {
		_, err := s.store.CreateTag(ctx, tag)
		if err := res.record(err); err != nil {
			return res, errors.Wrapf(err, "seed tag %q", tag.Slug)
		}
	}
	for _, ingredient := range fixtures.Ingredients {
		_, err := s.store.CreateIngredient(ctx, ingredient)
		if err := res.record(err); err != nil {
			return res, errors.Wrapf(err, "seed ingredient %q", ingredient.Name)
		}
	}

	s.log.Infow("seed complete", "created", res.Created, "skipped", res.Skipped)
	return res, nil
}

func (r *Result) record(err error) error {
	switch {
	case err == nil:
		r.Created++
	case errors.Is(err, apperrors.ErrAlreadyExists):
		r.Skipped++
	default:
		return err
	}
	return nil
}
