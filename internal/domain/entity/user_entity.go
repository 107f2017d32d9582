package entity

import (
	"time"
)

// User is the aggregate root for the registration domain.
// Password holds the bcrypt hash, never the plaintext.
// Phones are owned by the user and persisted with it.
type User struct {
	ID        string
	Name      string
	Email     string
	Password  string
	Token     string
	Created   time.Time
	Modified  time.Time
	LastLogin time.Time
	IsActive  bool
	Phones    []Phone
}

// Phone has no lifecycle of its own.
type Phone struct {
	ID          int64
	Number      string
	CityCode    string
	CountryCode string
}
