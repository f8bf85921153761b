package models

import (
	"time"
)

type User struct {
	ID           uint64    `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Email        string    `gorm:"size:254;not null;uniqueIndex" json:"email"`
	Username     string    `gorm:"size:150;not null;uniqueIndex" json:"username"`
	FirstName    string    `gorm:"size:150" json:"first_name"`
	LastName     string    `gorm:"size:150" json:"last_name"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Avatar       *string   `gorm:"size:255" json:"avatar"`
	IsStaff      bool      `gorm:"not null;default:false" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// Follow records that UserID is subscribed to FollowingID's recipes.
type Follow struct {
	ID          uint64    `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UserID      uint64    `gorm:"not null;uniqueIndex:idx_follow_pair;check:chk_follows_not_self,user_id <> following_id" json:"user_id"`
	FollowingID uint64    `gorm:"not null;uniqueIndex:idx_follow_pair;index" json:"following_id"`
	User        *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Following   *User     `gorm:"foreignKey:FollowingID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Follow) TableName() string {
	return "follows"
}
