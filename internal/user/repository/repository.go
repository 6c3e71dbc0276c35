package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgconn"
	pgx "github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/AlibekovAA/gql-user-auth/internal/common/db"
	commonerrors "github.com/AlibekovAA/gql-user-auth/internal/common/errors"
	"github.com/AlibekovAA/gql-user-auth/internal/common/resilience"
	"github.com/AlibekovAA/gql-user-auth/internal/user/domain"
)

var (
	ErrUserNotFound       = commonerrors.ErrUserNotFound
	ErrEmailAlreadyExists = commonerrors.ErrEmailAlreadyExists
)

type Repository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	UpdatePassword(ctx context.Context, id domain.ID, passwordHash, salt string) error
	SetResetToken(ctx context.Context, id domain.ID, token string, expires time.Time) error
	FindByID(ctx context.Context, id domain.ID) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	FindByResetToken(ctx context.Context, token string, now time.Time) (domain.User, error)
	ClearExpiredResetTokens(ctx context.Context, now time.Time) (int64, error)
}

const userColumns = `id, email, username, password, salt, reset_password_token, reset_password_expires`

// querier is the part of *pgxpool.Pool the repository uses.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type PgRepository struct {
	pool    querier
	breaker *resilience.CircuitBreaker
}

func NewPgRepository(pool *pgxpool.Pool, breaker *resilience.CircuitBreaker) *PgRepository {
	return &PgRepository{pool: pool, breaker: breaker}
}

func (r *PgRepository) call(ctx context.Context, fn func(context.Context) error) error {
	if r.breaker == nil {
		return fn(ctx)
	}
	return r.breaker.Call(ctx, fn)
}

func (r *PgRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	start := time.Now()
	err := r.call(ctx, func(ctx context.Context) error {
		return r.pool.QueryRow(
			ctx,
			`INSERT INTO users (email, username, password, salt) VALUES ($1, $2, $3, $4) RETURNING id`,
			user.Email,
			user.Username,
			user.PasswordHash,
			user.Salt,
		).Scan(&user.ID)
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			db.MeasureQueryDuration("create user", start)
			return domain.User{}, ErrEmailAlreadyExists.WithCause(err)
		}
		return domain.User{}, db.HandleExecError(err, "create user", start)
	}
	db.MeasureQueryDuration("create user", start)
	return user, nil
}

// UpdatePassword stores a new hash and salt and clears any reset token. Other
// columns are left as they are.
func (r *PgRepository) UpdatePassword(ctx context.Context, id domain.ID, passwordHash, salt string) error {
	return r.exec(
		ctx,
		"update user password",
		`UPDATE users
		 SET password = $2, salt = $3, reset_password_token = NULL, reset_password_expires = NULL
		 WHERE id = $1`,
		int64(id),
		passwordHash,
		salt,
	)
}

// SetResetToken writes only the reset token columns.
func (r *PgRepository) SetResetToken(ctx context.Context, id domain.ID, token string, expires time.Time) error {
	return r.exec(
		ctx,
		"set user reset token",
		`UPDATE users SET reset_password_token = $2, reset_password_expires = $3 WHERE id = $1`,
		int64(id),
		token,
		expires,
	)
}

// exec runs a single-row UPDATE and reports ErrUserNotFound when no row matched.
func (r *PgRepository) exec(ctx context.Context, operation, query string, args ...any) error {
	start := time.Now()
	var affected int64
	err := r.call(ctx, func(ctx context.Context) error {
		tag, err := r.pool.Exec(ctx, query, args...)
		affected = tag.RowsAffected()
		return err
	})
	if err := db.HandleExecError(err, operation, start); err != nil {
		return err
	}
	if affected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *PgRepository) FindByID(ctx context.Context, id domain.ID) (domain.User, error) {
	return r.findOne(ctx, "find user by id", `SELECT `+userColumns+` FROM users WHERE id = $1`, int64(id))
}

func (r *PgRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.findOne(ctx, "find user by email", `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *PgRepository) FindByResetToken(ctx context.Context, token string, now time.Time) (domain.User, error) {
	return r.findOne(
		ctx,
		"find user by reset token",
		`SELECT `+userColumns+` FROM users WHERE reset_password_token = $1 AND reset_password_expires > $2`,
		token,
		now,
	)
}

func (r *PgRepository) ClearExpiredResetTokens(ctx context.Context, now time.Time) (int64, error) {
	start := time.Now()
	var cleared int64
	err := r.call(ctx, func(ctx context.Context) error {
		tag, err := r.pool.Exec(
			ctx,
			`UPDATE users
			 SET reset_password_token = NULL, reset_password_expires = NULL
			 WHERE reset_password_expires IS NOT NULL AND reset_password_expires <= $1`,
			now,
		)
		cleared = tag.RowsAffected()
		return err
	})
	if err := db.HandleExecError(err, "clear expired reset tokens", start); err != nil {
		return 0, err
	}
	return cleared, nil
}

func (r *PgRepository) findOne(ctx context.Context, operation, query string, args ...any) (domain.User, error) {
	start := time.Now()
	var user domain.User
	err := r.call(ctx, func(ctx context.Context) error {
		var err error
		user, err = scanUser(r.pool.QueryRow(ctx, query, args...))
		return err
	})
	if err := db.HandleQueryError(err, ErrUserNotFound, operation, start); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func scanUser(row pgx.Row) (domain.User, error) {
	var (
		user  domain.User
		id    int64
		email *string
	)
	err := row.Scan(
		&id,
		&email,
		&user.Username,
		&user.PasswordHash,
		&user.Salt,
		&user.ResetPasswordToken,
		&user.ResetPasswordExpires,
	)
	if err != nil {
		return domain.User{}, err
	}
	user.ID = domain.ID(id)
	if email != nil {
		user.Email = *email
	}
	return user, nil
}

// IsNotFound reports whether err means no matching user row.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound)
}
