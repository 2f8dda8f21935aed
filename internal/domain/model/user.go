package model

import "time"

// User mirrors the backend account record. Fields map 1:1 onto the JSON the
// profile and login endpoints return; the serialized form is also what the
// credential store persists between runs.
type User struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	Name          string    `json:"name"`
	EmailVerified bool      `json:"email_verified"`
	CreatedAt     time.Time `json:"created_at"`
}

func (u *User) IsZero() bool { return u == nil || u.ID == "" }
