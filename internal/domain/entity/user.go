package entity

import (
	"errors"
	"time"
)

type UserRole string

const (
	RoleUser  UserRole = "USER"
	RoleAdmin UserRole = "ADMIN"
)

type User struct {
	ID               string    `bson:"_id,omitempty"`
	Email            string    `bson:"email"`
	PasswordHash     string    `bson:"password_hash"`
	Name             string    `bson:"name"`
	Phone            string    `bson:"phone"`
	AvatarURL        string    `bson:"avatar_url,omitempty"`
	Role             UserRole  `bson:"role"`
	IsBanned         bool      `bson:"is_banned"`
	IsVerified       bool      `bson:"is_verified"`
	VerificationCode string    `bson:"verification_code,omitempty"`
	LastSeen         time.Time `bson:"last_seen"`
	CreatedAt        time.Time `bson:"created_at"`
}

func NewUser(email, passwordHash, name, phone string) (*User, error) {
	if email == "" {
		return nil, errors.New("email cannot be empty")
	}
	if passwordHash == "" {
		return nil, errors.New("password hash cannot be empty")
	}
	if phone == "" {
		return nil, errors.New("phone cannot be empty")
	}
	now := time.Now().UTC()
	return &User{
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
		Phone:        phone,
		Role:         RoleUser,
		LastSeen:     now,
		CreatedAt:    now,
	}, nil
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
