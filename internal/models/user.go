package models

import "time"

type UserRole string

const (
	RoleEngineer UserRole = "engineer"
	RoleAdmin    UserRole = "admin"
)

type User struct {
	ID           uint     `gorm:"primaryKey" json:"id"`
	Username     string   `gorm:"uniqueIndex;size:150;not null" json:"username"`
	PasswordHash string   `gorm:"not null" json:"-"`
	Role         UserRole `gorm:"type:varchar(20);not null;default:engineer" json:"role"`
	Phone        string   `gorm:"size:20" json:"phone"`
	City         string   `gorm:"size:100" json:"city"`

	CreatedAt time.Time `json:"created_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
