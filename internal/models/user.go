package models

import "time"

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PhoneNumber  string    `json:"phoneNumber"`
	PasswordHash string    `json:"-"` // never leaves the server
	CreatedAt    time.Time `json:"createdAt"`
}

// UserSummary is the public projection of a user embedded in other payloads.
type UserSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name}
}

// Identity is what a verified token says about its bearer.
type Identity struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
}

type SignUpRequest struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}
