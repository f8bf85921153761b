package models

import (
	"time"
)

// RelationKind distinguishes the user→recipe relations that share one table.
type RelationKind string

const (
	RelationFavorite RelationKind = "favorite"
	RelationCart     RelationKind = "cart"
)

func (k RelationKind) Valid() bool {
	return k == RelationFavorite || k == RelationCart
}

// UserRecipeRelation carries no state besides its existence.
type UserRecipeRelation struct {
	ID        uint64       `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time    `json:"created_at"`
	UserID    uint64       `gorm:"not null;uniqueIndex:idx_user_recipe_kind" json:"user_id"`
	RecipeID  uint64       `gorm:"not null;uniqueIndex:idx_user_recipe_kind;index" json:"recipe_id"`
	Kind      RelationKind `gorm:"size:16;not null;uniqueIndex:idx_user_recipe_kind" json:"kind"`
	User      *User        `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Recipe    *Recipe      `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"-"`
}

func (UserRecipeRelation) TableName() string {
	return "user_recipe_relations"
}

// All lists every model in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Tag{},
		&Ingredient{},
		&Recipe{},
		&RecipeIngredient{},
		&UserRecipeRelation{},
		&Follow{},
	}
}
