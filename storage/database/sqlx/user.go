package sqlxrepos

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/tathmini/tathmini/core/user"
)

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *sqlx.DB) user.Repository {
	return &userRepository{db: db}
}

const userColumns = `id, name, username, email, role, is_active, password_hash, created_at, updated_at`

func (repo *userRepository) CheckUsernameUniqueness(ctx context.Context, username, email string, excludedUsers ...user.User) error {
	args := []interface{}{username, email}
	q := `SELECT username, email FROM "user" WHERE (username = $1 OR email = $2)`
	if len(excludedUsers) > 0 {
		ids := make([]string, 0, len(excludedUsers))
		for i, usr := range excludedUsers {
			ids = append(ids, fmt.Sprintf("$%d", 3+i))
			args = append(args, usr.ID)
		}
		q += ` AND id NOT IN (` + strings.Join(ids, ", ") + `)`
	}

	var match struct {
		Username string `db:"username"`
		Email    string `db:"email"`
	}
	err := repo.db.GetContext(ctx, &match, q, args...)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "checking username uniqueness")
	}
	if match.Username == username {
		return user.ErrUsernameExists
	}
	return user.ErrEmailExists
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	q := `INSERT INTO "user" (name, username, email, role, is_active, password_hash, created_at, updated_at)
	      VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	err := repo.db.QueryRowContext(
		ctx, q,
		usr.Name, usr.Username, usr.Email, usr.Role, usr.IsActive, usr.PasswordHash, usr.CreatedAt, usr.UpdatedAt,
	).Scan(&usr.ID)
	if err != nil {
		return user.User{}, errors.Wrap(err, "creating user")
	}
	return usr, nil
}

func (repo *userRepository) QueryAllUsers(ctx context.Context) ([]user.User, error) {
	var users []user.User
	q := `SELECT ` + userColumns + ` FROM "user" ORDER BY id`
	if err := repo.db.SelectContext(ctx, &users, q); err != nil {
		return nil, errors.Wrap(err, "querying users")
	}
	return users, nil
}

func (repo *userRepository) GetUser(ctx context.Context, filter user.GetFilter) (user.User, error) {
	var (
		cond string
		arg  interface{}
	)
	switch {
	case filter.ID != 0:
		cond, arg = `id = $1`, filter.ID
	case filter.Username != "":
		cond, arg = `username = $1`, filter.Username
	case filter.Email != "":
		cond, arg = `email = $1`, filter.Email
	case filter.UsernameOrEmail != "":
		cond, arg = `(username = $1 OR email = $1)`, filter.UsernameOrEmail
	default:
		return user.User{}, user.ErrNotFound
	}

	var usr user.User
	q := `SELECT ` + userColumns + ` FROM "user" WHERE ` + cond
	if err := repo.db.GetContext(ctx, &usr, q, arg); err != nil {
		if err == sql.ErrNoRows {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "getting user")
	}
	return usr, nil
}

func (repo *userRepository) FilterUsers(ctx context.Context, filter user.QueryFilter) ([]user.User, error) {
	q := `SELECT ` + userColumns + ` FROM "user" WHERE 1=1`
	args := map[string]interface{}{}

	if filter.Search != "" {
		q += ` AND (name ILIKE :search OR username ILIKE :search OR email ILIKE :search)`
		args["search"] = "%" + filter.Search + "%"
	}
	if filter.Role != "" {
		q += ` AND role = :role`
		args["role"] = filter.Role
	}
	if filter.IsActive != nil {
		q += ` AND is_active = :is_active`
		args["is_active"] = *filter.IsActive
	}
	if !filter.CreatedFrom.IsZero() {
		q += ` AND created_at >= :created_from`
		args["created_from"] = filter.CreatedFrom.UTC()
	}
	if !filter.CreatedTo.IsZero() {
		q += ` AND created_at <= :created_to`
		args["created_to"] = filter.CreatedTo.UTC()
	}
	q += ` ORDER BY id`

	rows, err := repo.db.NamedQueryContext(ctx, q, args)
	if err != nil {
		return nil, errors.Wrap(err, "filtering users")
	}
	defer func() { _ = rows.Close() }()

	var users []user.User
	for rows.Next() {
		var usr user.User
		if err := rows.StructScan(&usr); err != nil {
			return nil, errors.Wrap(err, "scanning user")
		}
		users = append(users, usr)
	}
	return users, rows.Err()
}

func (repo *userRepository) UpdateUser(ctx context.Context, usr user.User, isActive ...*bool) (user.User, error) {
	origUsr, err := repo.GetUser(ctx, user.GetFilter{ID: usr.ID})
	if err != nil {
		return user.User{}, err
	}

	// only save set fields
	if usr.Name != "" {
		origUsr.Name = usr.Name
	}
	if usr.Username != "" {
		origUsr.Username = usr.Username
	}
	if usr.Email != "" {
		origUsr.Email = usr.Email
	}
	if usr.Role != "" {
		origUsr.Role = usr.Role
	}
	if usr.PasswordHash != nil {
		origUsr.PasswordHash = usr.PasswordHash
	}
	if len(isActive) > 0 && isActive[0] != nil {
		origUsr.IsActive = *isActive[0]
	}
	origUsr.UpdatedAt = usr.UpdatedAt

	q := `UPDATE "user" SET name = $2, username = $3, email = $4, role = $5, is_active = $6,
	      password_hash = $7, updated_at = $8 WHERE id = $1`
	if _, err := repo.db.ExecContext(
		ctx, q,
		origUsr.ID, origUsr.Name, origUsr.Username, origUsr.Email, origUsr.Role,
		origUsr.IsActive, origUsr.PasswordHash, origUsr.UpdatedAt,
	); err != nil {
		return user.User{}, errors.Wrap(err, "updating user")
	}
	return origUsr, nil
}

func (repo *userRepository) DeleteUsersByID(ctx context.Context, ids ...int) error {
	if len(ids) == 0 {
		return nil
	}
	q, args, err := sqlx.In(`DELETE FROM "user" WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "building delete query")
	}
	if _, err := repo.db.ExecContext(ctx, repo.db.Rebind(q), args...); err != nil {
		return errors.Wrap(err, "deleting users")
	}
	return nil
}
