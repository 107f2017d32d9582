package application

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-user-registration/internal/domain/entity"
	repo "github.com/oksasatya/go-user-registration/internal/domain/repository"
	"github.com/oksasatya/go-user-registration/pkg/helpers"
	"github.com/oksasatya/go-user-registration/pkg/i18n"
	"github.com/oksasatya/go-user-registration/pkg/mailer"
	"github.com/oksasatya/go-user-registration/pkg/mailer/templates"
)

// registrations is published on /debug/vars.
var registrations = expvar.NewMap("registrations")

type Service struct {
	Repo     repo.UserRepository
	Emails   EmailValidator
	Hasher   PasswordHasher
	Tokens   TokenIssuer
	Messages Messages
	Logger   *logrus.Logger

	// Optional. When nil the matching post-registration step is skipped.
	Redis     *redis.Client
	Publisher JobPublisher

	now func() time.Time
}

func NewService(repo repo.UserRepository, emails EmailValidator, hasher PasswordHasher, tokens TokenIssuer, messages Messages, logger *logrus.Logger) *Service {
	if logger == nil {
		logger = helpers.NewNopLogger()
	}
	return &Service{
		Repo:     repo,
		Emails:   emails,
		Hasher:   hasher,
		Tokens:   tokens,
		Messages: messages,
		Logger:   logger,
		now:      func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	}
}

// RegisterUser runs the registration pipeline. Every failure is an *Error whose kind is
// ErrInvalidEmail, ErrEmailAlreadyExists or ErrUnexpected. Nothing is written unless all
// checks and transformations succeed.
func (s *Service) RegisterUser(ctx context.Context, in RegisterInput) (*UserResponse, error) {
	log := s.Logger.WithField("email", in.Email)

	if err := s.Emails.Validate(in.Email); err != nil {
		registrations.Add("invalid_email", 1)
		log.Debug("rejected malformed email")
		return nil, s.fail(ErrInvalidEmail, i18n.EmailInvalid, nil)
	}

	existing, err := s.Repo.FindByEmail(ctx, in.Email)
	switch {
	case err == nil && existing != nil:
		registrations.Add("duplicate", 1)
		return nil, s.fail(ErrEmailAlreadyExists, i18n.EmailAlreadyRegistered, nil)
	case err != nil && !errors.Is(err, repo.ErrNotFound):
		return nil, s.unexpected(log, "lookup by email failed", err)
	}

	u := toUserEntity(in)

	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return nil, s.unexpected(log, "hash password failed", fmt.Errorf("hash password: %w", err))
	}
	u.Password = hash

	now := s.now()
	u.Created = now
	u.Modified = now
	u.LastLogin = now
	u.IsActive = true

	token, expiresAt, err := s.Tokens.Issue(u.Email)
	if err != nil {
		return nil, s.unexpected(log, "issue token failed", fmt.Errorf("issue token: %w", err))
	}
	u.Token = token

	saved, err := s.Repo.Save(ctx, u)
	if err != nil {
		if errors.Is(err, repo.ErrEmailTaken) {
			// another request registered the same email between lookup and insert
			registrations.Add("duplicate", 1)
			log.Info("email taken by concurrent registration")
			return nil, s.fail(ErrEmailAlreadyExists, i18n.EmailAlreadyRegistered, nil)
		}
		return nil, s.unexpected(log, "save user failed", err)
	}

	registrations.Add("success", 1)
	log.WithField("user_id", saved.ID).Info("user registered")

	s.openSession(ctx, saved, expiresAt)
	s.enqueueWelcome(ctx, saved)

	return toUserResponse(saved), nil
}

// GetProfile returns the registered user for email.
func (s *Service) GetProfile(ctx context.Context, email string) (*UserResponse, error) {
	u, err := s.Repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, s.fail(ErrUserNotFound, i18n.UserNotFound, nil)
		}
		return nil, s.unexpected(s.Logger.WithField("email", email), "lookup by email failed", err)
	}
	return toUserResponse(u), nil
}

func (s *Service) fail(kind error, key string, cause error) error {
	return &Error{Kind: kind, Message: s.Messages.Message(key), Err: cause}
}

func (s *Service) unexpected(log *logrus.Entry, msg string, err error) error {
	registrations.Add("error", 1)
	log.WithError(err).Error(msg)
	return s.fail(ErrUnexpected, i18n.ErrorUnexpected, err)
}

func (s *Service) openSession(ctx context.Context, u *entity.User, expiresAt time.Time) {
	if s.Redis == nil {
		return
	}
	fields := map[string]any{
		"user_id":    u.ID,
		"email":      u.Email,
		"name":       u.Name,
		"created_at": u.Created.Format(time.RFC3339Nano),
	}
	if err := helpers.StoreSession(ctx, s.Redis, u.Email, fields, time.Until(expiresAt)); err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("redis session write failed")
	}
}

func (s *Service) enqueueWelcome(ctx context.Context, u *entity.User) {
	if s.Publisher == nil {
		return
	}
	job := mailer.EmailJob{
		To:       u.Email,
		Template: templates.Welcome,
		Data:     map[string]any{"Name": u.Name, "Email": u.Email},
	}
	if err := s.Publisher.PublishJSON(ctx, job); err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("failed to publish welcome email")
	}
}
