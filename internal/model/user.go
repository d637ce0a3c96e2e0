package model

import (
	"time"
)

type UserRole string

const (
	Apprentice UserRole = "apprentice"
	Admin      UserRole = "admin"
)

// swagger:model User
type User struct {
	BaseModel
	Email     string    `gorm:"size:100;unique;not null" json:"email"`
	Password  string    `gorm:"size:100;not null" json:"-"`
	Name      string    `gorm:"size:100" json:"name"`
	Role      UserRole  `gorm:"type:enum('apprentice','admin');default:'apprentice'" json:"role"`
	Language  string    `gorm:"size:10;default:'da'" json:"language"`
	Disabled  bool      `gorm:"default:false" json:"disabled"`
	LastLogin time.Time `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastLogin"`
	LastSeen  time.Time `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastSeen"`
}

func (User) TableName() string {
	return "users"
}
