package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/oksasatya/go-user-registration/internal/domain/entity"
	"github.com/oksasatya/go-user-registration/internal/domain/repository"
)

// uniqueViolation is the SQLSTATE for unique_violation.
const uniqueViolation = "23505"

// DB is the subset of *pgxpool.Pool used by the repository.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type UserRepository struct {
	db DB
}

func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

const (
	insertUserSQL = `
		INSERT INTO users (name, email, password_hash, token, created_at, modified_at, last_login, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id::text
	`
	insertPhoneSQL = `
		INSERT INTO phones (user_id, position, number, city_code, country_code)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	selectUserByEmailSQL = `
		SELECT id::text, name, email, password_hash, token, created_at, modified_at, last_login, is_active
		FROM users
		WHERE email = $1
	`
	selectPhonesSQL = `
		SELECT id, number, city_code, country_code
		FROM phones
		WHERE user_id = $1
		ORDER BY position, id
	`
)

// Save inserts the user and its phones in one transaction.
func (r *UserRepository) Save(ctx context.Context, u *entity.User) (*entity.User, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}

	saved := *u
	saved.Phones = make([]entity.Phone, len(u.Phones))
	copy(saved.Phones, u.Phones)

	err = tx.QueryRow(ctx, insertUserSQL,
		u.Name, u.Email, u.Password, u.Token, u.Created, u.Modified, u.LastLogin, u.IsActive,
	).Scan(&saved.ID)
	if err != nil {
		_ = tx.Rollback(ctx)
		if isUniqueViolation(err) {
			return nil, repository.ErrEmailTaken
		}
		return nil, err
	}

	for i := range saved.Phones {
		p := &saved.Phones[i]
		if err := tx.QueryRow(ctx, insertPhoneSQL, saved.ID, i, p.Number, p.CityCode, p.CountryCode).Scan(&p.ID); err != nil {
			_ = tx.Rollback(ctx)
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	u := &entity.User{}

	row := r.db.QueryRow(ctx, selectUserByEmailSQL, email)
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.Token,
		&u.Created, &u.Modified, &u.LastLogin, &u.IsActive); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	rows, err := r.db.Query(ctx, selectPhonesSQL, u.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	u.Phones = []entity.Phone{}
	for rows.Next() {
		var p entity.Phone
		if err := rows.Scan(&p.ID, &p.Number, &p.CityCode, &p.CountryCode); err != nil {
			return nil, err
		}
		u.Phones = append(u.Phones, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return u, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

var _ repository.UserRepository = (*UserRepository)(nil)
