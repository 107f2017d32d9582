package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/oksasatya/go-user-registration/config"
	"github.com/oksasatya/go-user-registration/internal/application"
	pginfra "github.com/oksasatya/go-user-registration/internal/infrastructure/postgres"
	"github.com/oksasatya/go-user-registration/pkg/helpers"
	"github.com/oksasatya/go-user-registration/pkg/i18n"
	"github.com/oksasatya/go-user-registration/pkg/validation"
)

// seed registers a demo user through the same pipeline as POST /users/register.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	emails, err := validation.NewEmailValidator(cfg.EmailPattern)
	if err != nil {
		log.Fatalf("email pattern: %v", err)
	}
	hasher, err := helpers.NewBcryptHasher(cfg.BcryptCost)
	if err != nil {
		log.Fatalf("bcrypt: %v", err)
	}
	tokens, err := helpers.NewJWTIssuer(cfg.JWTSecret, cfg.TokenTTL())
	if err != nil {
		log.Fatalf("jwt: %v", err)
	}

	svc := application.NewService(
		pginfra.NewUserRepository(pool),
		emails,
		hasher,
		tokens,
		i18n.New(cfg.Locale),
		helpers.NewLogger(cfg.AppName+"-seed", cfg.Env),
	)

	in := application.RegisterInput{
		Name:     "Demo User",
		Email:    "demo.user@example.com",
		Password: "password123",
		Phones: []application.PhoneDTO{
			{Number: "1234567", CityCode: "1", CountryCode: "57"},
		},
	}
	res, err := svc.RegisterUser(ctx, in)
	if errors.Is(err, application.ErrEmailAlreadyExists) {
		fmt.Printf("demo user already present: email=%s\n", in.Email)
		return
	}
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%s email=%s password=%s token=%s\n", res.ID, res.Email, in.Password, res.Token)
}
