package rest

import (
	"context"
	"log"

	"github.com/bwise1/love_map/internal/model"
)

func (repo *PGRepository) GetUserByUsername(ctx context.Context, username string) (model.User, error) {
	var user model.User
	stmt := `-- name: get-user-by-username
		SELECT id, username, password_hash, display_name, created_at, last_login
		FROM users WHERE username = $1`

	err := repo.DB.Pool().QueryRow(ctx, stmt, username).Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.DisplayName,
		&user.CreatedAt,
		&user.LastLogin,
	)
	if err != nil {
		return model.User{}, noRecord(err)
	}
	return user, nil
}

func (repo *PGRepository) GetUserByID(ctx context.Context, id int64) (model.User, error) {
	var user model.User
	stmt := `-- name: get-user-by-id
		SELECT id, username, display_name, created_at, last_login
		FROM users WHERE id = $1`

	err := repo.DB.Pool().QueryRow(ctx, stmt, id).Scan(
		&user.ID,
		&user.Username,
		&user.DisplayName,
		&user.CreatedAt,
		&user.LastLogin,
	)
	if err != nil {
		log.Println("error getting user by ID", err)
		return model.User{}, noRecord(err)
	}
	return user, nil
}

func (repo *PGRepository) CreateUser(ctx context.Context, user model.User) (int64, error) {
	var id int64
	stmt := `
		INSERT INTO users (
			username,
			password_hash,
			display_name
		) VALUES ($1, $2, $3)
		RETURNING id`

	err := repo.DB.Pool().QueryRow(ctx, stmt, user.Username, user.PasswordHash, user.DisplayName).Scan(&id)
	if err != nil {
		log.Println("error creating user", err)
		return 0, err
	}
	return id, nil
}

func (repo *PGRepository) TouchLastLogin(ctx context.Context, id int64) error {
	_, err := repo.DB.Pool().Exec(ctx, `UPDATE users SET last_login = NOW() WHERE id = $1`, id)
	return err
}
