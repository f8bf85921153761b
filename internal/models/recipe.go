package models

import (
	"time"
)

type Tag struct {
	ID   uint64 `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:32;not null;uniqueIndex" json:"name"`
	Slug string `gorm:"size:32;not null;uniqueIndex" json:"slug"`
}

func (Tag) TableName() string {
	return "tags"
}

// Ingredient is unique per (name, measurement unit); the same name may appear
// again under another unit as a separate row.
type Ingredient struct {
	ID              uint64 `gorm:"primaryKey" json:"id"`
	Name            string `gorm:"size:128;not null;uniqueIndex:idx_ingredient_name_unit" json:"name"`
	MeasurementUnit string `gorm:"size:64;not null;uniqueIndex:idx_ingredient_name_unit" json:"measurement_unit"`
}

func (Ingredient) TableName() string {
	return "ingredients"
}

type Recipe struct {
	ID            uint64             `gorm:"primaryKey" json:"id"`
	CreatedAt     time.Time          `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
	AuthorID      uint64             `gorm:"not null;index" json:"author_id"`
	Author        *User              `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author,omitempty"`
	Name          string             `gorm:"size:256;not null" json:"name"`
	Text          string             `gorm:"type:text;not null" json:"text"`
	Image         string             `gorm:"size:255" json:"image"`
	CookingTime   int                `gorm:"not null;check:chk_recipes_cooking_time,cooking_time >= 1" json:"cooking_time"`
	ShortLinkCode *string            `gorm:"size:64;uniqueIndex" json:"-"`
	Tags          []Tag              `gorm:"many2many:recipe_tags;constraint:OnDelete:CASCADE" json:"tags"`
	Ingredients   []RecipeIngredient `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"ingredients"`
}

func (Recipe) TableName() string {
	return "recipes"
}

// RecipeIngredient is the through row between a recipe and an ingredient,
// carrying the amount in the ingredient's measurement unit.
type RecipeIngredient struct {
	ID           uint64      `gorm:"primaryKey" json:"-"`
	RecipeID     uint64      `gorm:"not null;uniqueIndex:idx_recipe_ingredient" json:"-"`
	IngredientID uint64      `gorm:"not null;uniqueIndex:idx_recipe_ingredient;index" json:"id"`
	Ingredient   *Ingredient `gorm:"foreignKey:IngredientID;constraint:OnDelete:CASCADE" json:"-"`
	Amount       int         `gorm:"not null;check:chk_recipe_ingredients_amount,amount >= 1" json:"amount"`
}

func (RecipeIngredient) TableName() string {
	return "recipe_ingredients"
}
