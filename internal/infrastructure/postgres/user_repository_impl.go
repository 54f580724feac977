package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/tasky/internal/domain/entity"
	"github.com/oksasatya/tasky/internal/domain/repository"
	"github.com/oksasatya/tasky/pkg/apperr"
)

const userColumns = `id, fullname, email, password_hash, google_id, github_id, avatar_url, role, created_at, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	err := row.Scan(&u.ID, &u.Fullname, &u.Email, &u.Password, &u.GoogleID, &u.GithubID,
		&u.AvatarURL, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.E(apperr.NotFound, "user not found")
		}
		return nil, err
	}
	return u, nil
}

// mapPgError translates unique-constraint violations into duplicate errors so
// the register path can rely on the store rejecting a concurrent retry.
func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch {
		case strings.Contains(pgErr.ConstraintName, "email"):
			return apperr.E(apperr.Duplicate, "a user with this email already exists")
		case strings.Contains(pgErr.ConstraintName, "google"), strings.Contains(pgErr.ConstraintName, "github"):
			return apperr.E(apperr.Duplicate, "this account is already linked to another user")
		default:
			return apperr.E(apperr.Duplicate, "duplicate value")
		}
	}
	return err
}

func providerColumn(p entity.OAuthProvider) (string, error) {
	switch p {
	case entity.ProviderGoogle:
		return "google_id", nil
	case entity.ProviderGithub:
		return "github_id", nil
	}
	return "", apperr.E(apperr.Validation, "unknown oauth provider")
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (fullname, email, password_hash, google_id, github_id, avatar_url, role)
		VALUES ($1, lower($2), $3, $4, $5, $6, $7)
		RETURNING id, email, created_at, updated_at
	`, u.Fullname, u.Email, u.Password, u.GoogleID, u.GithubID, u.AvatarURL, u.Role)

	if err := row.Scan(&u.ID, &u.Email, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return mapPgError(err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = lower($1)`, email)
	return scanUser(row)
}

func (r *UserRepository) GetByProviderID(ctx context.Context, provider entity.OAuthProvider, providerID string) (*entity.User, error) {
	col, err := providerColumn(provider)
	if err != nil {
		return nil, err
	}
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE `+col+` = $1`, providerID)
	return scanUser(row)
}

func (r *UserRepository) List(ctx context.Context) ([]*entity.User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*entity.User
	for rows.Next() {
		u := &entity.User{}
		if err := rows.Scan(&u.ID, &u.Fullname, &u.Email, &u.Password, &u.GoogleID, &u.GithubID,
			&u.AvatarURL, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Update applies the non-nil fields of upd in one statement.
func (r *UserRepository) Update(ctx context.Context, id string, upd repository.UserUpdate) (*entity.User, error) {
	sets := []string{"updated_at = now()"}
	args := []any{id}

	add := func(expr string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf(expr, len(args)))
	}
	if upd.Fullname != nil {
		add("fullname = $%d", *upd.Fullname)
	}
	if upd.Email != nil {
		add("email = lower($%d)", *upd.Email)
	}
	if upd.Password != nil {
		add("password_hash = $%d", *upd.Password)
	}
	if upd.AvatarURL != nil {
		add("avatar_url = $%d", *upd.AvatarURL)
	}

	q := `UPDATE users SET ` + strings.Join(sets, ", ") + ` WHERE id = $1 RETURNING ` + userColumns
	u, err := scanUser(r.pool.QueryRow(ctx, q, args...))
	if err != nil {
		return nil, mapPgError(err)
	}
	return u, nil
}

func (r *UserRepository) LinkProvider(ctx context.Context, id string, provider entity.OAuthProvider, providerID string) (*entity.User, error) {
	col, err := providerColumn(provider)
	if err != nil {
		return nil, err
	}
	q := `UPDATE users SET ` + col + ` = $2, updated_at = now() WHERE id = $1 RETURNING ` + userColumns
	u, err := scanUser(r.pool.QueryRow(ctx, q, id, providerID))
	if err != nil {
		return nil, mapPgError(err)
	}
	return u, nil
}

func (r *UserRepository) UpdateRole(ctx context.Context, id string, role entity.Role) (*entity.User, error) {
	q := `UPDATE users SET role = $2, updated_at = now() WHERE id = $1 RETURNING ` + userColumns
	return scanUser(r.pool.QueryRow(ctx, q, id, role))
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return apperr.E(apperr.NotFound, "user not found")
	}
	return nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
