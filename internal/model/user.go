package model

import (
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	RoleAdmin   = "admin"
	RoleStudent = "student"
)

type User struct {
	ID           uint             `gorm:"primarykey" json:"id"`
	Username     string           `json:"username" gorm:"size:80;uniqueIndex;not null"`
	PasswordHash string           `json:"-" gorm:"size:256;not null"`
	Role         string           `json:"role" gorm:"size:20;not null;default:'student'"`
	Groups       []UserGroup      `json:"groups,omitempty" gorm:"many2many:user_group_memberships;"`
	Submissions  []ExamSubmission `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
	DeletedAt    gorm.DeletedAt   `gorm:"index" json:"-"`
}

// SetPassword hashes and stores the given plaintext password.
func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword reports whether the given plaintext matches the stored hash.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}
