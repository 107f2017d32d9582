package application

import (
	"context"
	"time"
)

type EmailValidator interface {
	Validate(email string) error
}

type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hash string) bool
}

type TokenIssuer interface {
	Issue(subject string) (token string, expiresAt time.Time, err error)
}

// Messages resolves message keys to user-facing text.
type Messages interface {
	Message(key string) string
}

// JobPublisher enqueues background jobs such as welcome emails.
type JobPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}
