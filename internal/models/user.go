package models

import "time"

// User is a registered account. Email is stored normalized (trimmed,
// lowercased) and unique. PasswordHash is an argon2id encoding; the plaintext
// password never leaves the security package.
type User struct {
	ID           string
	Email        string
	PasswordHash []byte
	CreatedAt    time.Time
}
