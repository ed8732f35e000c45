package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/proxy201/nexus-auth/internal/common"
	"github.com/proxy201/nexus-auth/internal/dbx"
	"github.com/proxy201/nexus-auth/internal/server/models"
)

// uniqueViolation is the PostgreSQL SQLSTATE for unique constraint errors.
const uniqueViolation = "23505"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, name, passwordHash string) (*models.User, error) {
	query :=
		`INSERT INTO users (name, password_hash)
		 VALUES ($1, $2)
		 RETURNING id, created_at, updated_at
		 `

	user := &models.User{Name: name, PasswordHash: passwordHash}
	err := r.db.QueryRowContext(ctx, query, name, passwordHash).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByName(ctx context.Context, name string) (*models.User, error) {
	query :=
		`SELECT id, name, password_hash, created_at, updated_at FROM users
		 WHERE name = $1
		 `

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, name).
		Scan(&user.ID, &user.Name, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.PublicUser, error) {
	query :=
		`SELECT id, name, created_at FROM users
		 WHERE id = $1
		 `

	user := &models.PublicUser{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&user.ID, &user.Name, &user.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}
