// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is an account. Email is unique as stored; EmailVerified only ever
// flips from false to true.
type User struct {
	ID            string
	Name          string
	Email         string
	PasswordHash  string
	EmailVerified bool
	CreatedAt     time.Time
}
