// Package integrity holds the write-time invariants every store mutation is
// checked against. Checks fail fast and return *apperrors.Error values scoped
// to the offending field.
package integrity

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/pageza/foodgram/backend/internal/apperrors"
	"github.com/pageza/foodgram/backend/internal/models"
)

var (
	slugPattern     = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
	usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

	reservedUsernames = map[string]struct{}{"me": {}}
)

type IngredientLine struct {
	IngredientID uint64 `json:"id"`
	Amount       int    `json:"amount"`
}

// RecipeWrite is the full payload of a recipe create or update. A nil Image
// keeps the stored image on update.
type RecipeWrite struct {
	Name        string           `json:"name" validate:"required,max=256"`
	Text        string           `json:"text" validate:"required"`
	Image       *string          `json:"image" validate:"omitempty,max=255"`
	CookingTime int              `json:"cooking_time"`
	Ingredients []IngredientLine `json:"ingredients"`
	Tags        []uint64         `json:"tags"`
}

type TagWrite struct {
	Name string `json:"name" validate:"required,max=32"`
	Slug string `json:"slug" validate:"required,max=32,slug"`
}

type IngredientWrite struct {
	Name            string `json:"name" validate:"required,max=128"`
	MeasurementUnit string `json:"measurement_unit" validate:"required,max=64"`
}

type UserWrite struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	Username  string `json:"username" validate:"required,max=150,username"`
	FirstName string `json:"first_name" validate:"max=150"`
	LastName  string `json:"last_name" validate:"max=150"`
}

// Enforcer is safe for concurrent use.
type Enforcer struct {
	validate *validator.Validate
}

func New() *Enforcer {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		name := fl.Field().String()
		if _, reserved := reservedUsernames[strings.ToLower(name)]; reserved {
			return false
		}
		return usernamePattern.MatchString(name)
	})
	return &Enforcer{validate: v}
}

// CheckRecipeWrite validates a recipe create or update before anything is
// written. List checks run before scalar checks.
func (e *Enforcer) CheckRecipeWrite(w RecipeWrite) error {
	if len(w.Ingredients) == 0 {
		return apperrors.Validation(apperrors.CodeEmptyIngredientList, "ingredients", "at least one ingredient is required")
	}
	seenIngredients := make(map[uint64]struct{}, len(w.Ingredients))
	for _, line := range w.Ingredients {
		if _, dup := seenIngredients[line.IngredientID]; dup {
			return apperrors.Validation(apperrors.CodeDuplicateIngredient, "ingredients",
				fmt.Sprintf("ingredient %d is listed more than once", line.IngredientID))
		}
		seenIngredients[line.IngredientID] = struct{}{}
	}

	if len(w.Tags) == 0 {
		return apperrors.Validation(apperrors.CodeEmptyTagList, "tags", "at least one tag is required")
	}
	seenTags := make(map[uint64]struct{}, len(w.Tags))
	for _, id := range w.Tags {
		if _, dup := seenTags[id]; dup {
			return apperrors.Validation(apperrors.CodeDuplicateTag, "tags",
				fmt.Sprintf("tag %d is listed more than once", id))
		}
		seenTags[id] = struct{}{}
	}

	for _, line := range w.Ingredients {
		if line.Amount < 1 {
			return apperrors.Validation(apperrors.CodeInvalidAmount, "ingredients",
				fmt.Sprintf("amount for ingredient %d must be at least 1", line.IngredientID))
		}
	}

	if w.CookingTime < 1 {
		return apperrors.Validation(apperrors.CodeInvalidCookingTime, "cooking_time", "cooking time must be at least 1 minute")
	}

	return e.checkStruct(w)
}

func (e *Enforcer) CheckRelation(kind models.RelationKind, userID, recipeID uint64) error {
	if !kind.Valid() {
		return apperrors.Validation(apperrors.CodeInvalidField, "kind", fmt.Sprintf("unknown relation kind %q", kind))
	}
	if userID == 0 {
		return apperrors.Validation(apperrors.CodeInvalidField, "user", "user is required")
	}
	if recipeID == 0 {
		return apperrors.Validation(apperrors.CodeInvalidField, "recipe", "recipe is required")
	}
	return nil
}

// CheckFollow applies to subscribing and unsubscribing alike.
func (e *Enforcer) CheckFollow(userID, followingID uint64) error {
	if userID == 0 || followingID == 0 {
		return apperrors.Validation(apperrors.CodeInvalidField, "following", "both users are required")
	}
	if userID == followingID {
		return &apperrors.Error{
			Kind:    apperrors.KindForbidden,
			Code:    apperrors.CodeSelfFollowForbidden,
			Field:   "following",
			Message: "users cannot subscribe to themselves",
		}
	}
	return nil
}

func (e *Enforcer) CheckTag(w TagWrite) error {
	return e.checkStruct(w)
}

func (e *Enforcer) CheckIngredient(w IngredientWrite) error {
	return e.checkStruct(w)
}

func (e *Enforcer) CheckUser(w UserWrite) error {
	return e.checkStruct(w)
}

func (e *Enforcer) checkStruct(s interface{}) error {
	err := e.validate.Struct(s)
	if err == nil {
		return nil
	}
	if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
		fe := verrs[0]
		return apperrors.Validation(apperrors.CodeInvalidField, fe.Field(), describe(fe))
	}
	return err
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "email":
		return "must be a valid email address"
	case "slug":
		return "may contain only latin letters, digits, hyphens and underscores"
	case "username":
		return "contains forbidden characters or is reserved"
	default:
		return fmt.Sprintf("failed on the '%s' rule", fe.Tag())
	}
}
