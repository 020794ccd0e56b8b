package domain

import "time"

type (
	Email    = string
	Password = string
	UserId   = int64
)

// User is the authentication record. Profile carries the public identity.
type User struct {
	Id        UserId
	Email     Email
	Username  string
	PassHash  string
	Admin     bool
	CreatedAt time.Time
}

type Credentials struct {
	Email    Email
	Password Password
}

// ConfirmationData holds a pending registration until the emailed code
// is verified.
type ConfirmationData struct {
	Email                Email
	Username             string
	PasswordHash         string
	ConfirmationCodeHash string
	Expires              time.Time
}
