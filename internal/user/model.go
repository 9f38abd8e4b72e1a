package user

import (
	"time"

	"questlog/internal/game"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:32;not null" json:"username"`
	PasswordHash string    `gorm:"size:128;not null"`
	Role         Role      `gorm:"type:varchar(10);not null;default:'user'" json:"role"`
	// Games tracked by this user. Handlers scope every query by user_id;
	// the association also lets callers preload a player's library.
	Games     []game.Game `gorm:"foreignKey:UserID" json:"-"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}
