package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/jbkamdem/ophtalmopro/core/user"
)

const uniqueViolation = "23505"

const userCols = `id, email, password_hash, full_name, specialite, role, is_active, last_login, created_date, updated_date`

type UserRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*UserRepository)(nil) // interface compliance check

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (repo *UserRepository) CheckEmailUniqueness(ctx context.Context, email string, excludedUsers ...user.User) error {
	exclIDs := make([]int64, 0, len(excludedUsers))
	for _, usr := range excludedUsers {
		exclIDs = append(exclIDs, int64(usr.ID))
	}

	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM user_table WHERE email = $1 AND id <> ALL($2))`
	if err := repo.db.GetContext(ctx, &exists, query, email, pq.Array(exclIDs)); err != nil {
		return errors.Wrap(err, "checking email uniqueness")
	}
	if exists {
		return user.ErrEmailExists
	}
	return nil
}

func (repo *UserRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	query := `
INSERT INTO user_table (email, password_hash, full_name, specialite, role, is_active, last_login, created_date, updated_date)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id`
	err := repo.db.QueryRowxContext(
		ctx, query,
		usr.Email, usr.PasswordHash, usr.FullName, usr.Specialty, usr.Role,
		usr.IsActive, usr.LastLogin, usr.CreatedAt, usr.UpdatedAt,
	).Scan(&usr.ID)
	if err != nil {
		if pqErr, ok := errors.Cause(err).(*pq.Error); ok && pqErr.Code == uniqueViolation {
			return user.User{}, user.ErrEmailExists
		}
		return user.User{}, errors.Wrap(err, "creating user")
	}
	return usr, nil
}

func (repo *UserRepository) QueryAllUsers(ctx context.Context) ([]user.User, error) {
	var users []user.User
	query := `SELECT ` + userCols + ` FROM user_table ORDER BY created_date`
	if err := repo.db.SelectContext(ctx, &users, query); err != nil {
		return nil, errors.Wrap(err, "querying users")
	}
	return users, nil
}

func (repo *UserRepository) GetUserByID(ctx context.Context, id int) (user.User, error) {
	var usr user.User
	query := `SELECT ` + userCols + ` FROM user_table WHERE id = $1`
	if err := repo.db.GetContext(ctx, &usr, query, id); err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "finding user by id")
	}
	return usr, nil
}

func (repo *UserRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	var usr user.User
	query := `SELECT ` + userCols + ` FROM user_table WHERE email = $1`
	if err := repo.db.GetContext(ctx, &usr, query, email); err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "finding user by email")
	}
	return usr, nil
}

func (repo *UserRepository) UpdateUser(ctx context.Context, usr user.User) (user.User, error) {
	// email is immutable here; password_hash is only written when provided
	query := `
UPDATE user_table
SET full_name = $1, specialite = $2, role = $3, is_active = $4, updated_date = $5
WHERE id = $6
RETURNING ` + userCols
	args := []interface{}{usr.FullName, usr.Specialty, usr.Role, usr.IsActive, usr.UpdatedAt, usr.ID}
	if len(usr.PasswordHash) > 0 {
		query = `
UPDATE user_table
SET full_name = $1, specialite = $2, role = $3, is_active = $4, updated_date = $5, password_hash = $7
WHERE id = $6
RETURNING ` + userCols
		args = append(args, usr.PasswordHash)
	}

	var updated user.User
	if err := repo.db.QueryRowxContext(ctx, query, args...).StructScan(&updated); err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "updating user")
	}
	return updated, nil
}

func (repo *UserRepository) UpdateOrCreateUser(ctx context.Context, usr user.User) (user.User, error) {
	query := `
INSERT INTO user_table (email, password_hash, full_name, specialite, role, is_active, last_login, created_date, updated_date)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (email) DO UPDATE
SET password_hash = EXCLUDED.password_hash, is_active = EXCLUDED.is_active, updated_date = EXCLUDED.updated_date
RETURNING ` + userCols
	var upserted user.User
	err := repo.db.QueryRowxContext(
		ctx, query,
		usr.Email, usr.PasswordHash, usr.FullName, usr.Specialty, usr.Role,
		usr.IsActive, usr.LastLogin, usr.CreatedAt, usr.UpdatedAt,
	).StructScan(&upserted)
	if err != nil {
		return user.User{}, errors.Wrap(err, "upserting user")
	}
	return upserted, nil
}

func (repo *UserRepository) SetLastLogin(ctx context.Context, usr user.User, t time.Time) (user.User, error) {
	query := `UPDATE user_table SET last_login = $1 WHERE id = $2 RETURNING ` + userCols
	var updated user.User
	if err := repo.db.QueryRowxContext(ctx, query, t, usr.ID).StructScan(&updated); err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "setting last login")
	}
	return updated, nil
}

func (repo *UserRepository) DeleteUsersByID(ctx context.Context, ids ...int) error {
	idArr := make([]int64, 0, len(ids))
	for _, id := range ids {
		idArr = append(idArr, int64(id))
	}
	query := `DELETE FROM user_table WHERE id = ANY($1)`
	if _, err := repo.db.ExecContext(ctx, query, pq.Array(idArr)); err != nil {
		return errors.Wrap(err, "deleting users")
	}
	return nil
}
