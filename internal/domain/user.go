package domain

import "time"

// User is a learner account. HasPurchased caches the existence of a
// Purchase row for the course and is only written by the purchase recorder.
type User struct {
	ID           string
	Name         string
	Email        string
	Mobile       string
	PasswordHash string
	HasPurchased bool
	CreatedAt    time.Time
}
