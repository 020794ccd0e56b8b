package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/fieldnotes-dev/fieldnotes/shared/domain"
	internal_errors "github.com/fieldnotes-dev/fieldnotes/shared/errors"
)

// SaveUser creates the auth record and its profile in one transaction so
// a user never exists without a profile.
func (s *Storage) SaveUser(user domain.User) (domain.UserId, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var id domain.UserId
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		id, err = s.saveUser(tx, user)
		return err
	})
	return id, err
}

func (s *Storage) User(email domain.Email) (domain.User, error) {
	return s.user(s.db, email)
}

func (s *Storage) UpdatePassword(creds domain.Credentials) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.updatePassword(tx, creds)
	})
}

func (s *Storage) SaveConfirmationData(data domain.ConfirmationData) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.saveConfirmationData(tx, data)
	})
}

func (s *Storage) ConfirmationData(email domain.Email) (domain.ConfirmationData, error) {
	return s.confirmationData(s.db, email)
}

func (s *Storage) DeleteConfirmationData(email domain.Email) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.deleteConfirmationData(tx, email)
	})
}

func (s *Storage) saveUser(q Querier, user domain.User) (domain.UserId, error) {
	var id int64
	err := q.QueryRow("INSERT INTO users(email, username, password_hash, is_admin) VALUES($1, $2, $3, $4) RETURNING id",
		user.Email, user.Username, user.PassHash, user.Admin).Scan(&id)
	if err != nil {
		return -1, fmt.Errorf("failed to insert user: %w", err)
	}
	_, err = q.Exec("INSERT INTO profiles(user_id, username, email) VALUES($1, $2, $3)",
		id, user.Username, user.Email)
	if err != nil {
		return -1, fmt.Errorf("failed to insert profile: %w", err)
	}
	return id, nil
}

func (s *Storage) user(q Querier, email domain.Email) (domain.User, error) {
	var user domain.User
	err := q.QueryRow("SELECT id, email, username, password_hash, is_admin FROM users WHERE email = $1", email).
		Scan(&user.Id, &user.Email, &user.Username, &user.PassHash, &user.Admin)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, &internal_errors.ErrorWithStatusCode{Message: "User not found", StatusCode: http.StatusNotFound}
		}
		return domain.User{}, fmt.Errorf("failed to query user: %w", err)
	}
	return user, nil
}

func (s *Storage) updatePassword(q Querier, creds domain.Credentials) error {
	result, err := q.Exec("UPDATE users SET password_hash = $1 WHERE email = $2", creds.Password, creds.Email)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return &internal_errors.ErrorWithStatusCode{Message: "User not found", StatusCode: http.StatusNotFound}
	}
	return nil
}

func (s *Storage) saveConfirmationData(q Querier, data domain.ConfirmationData) error {
	_, err := q.Exec(`
	INSERT INTO confirmation_data(email, username, password_hash, confirmation_code_hash, expires)
	VALUES($1, $2, $3, $4, $5)
	ON CONFLICT (email) DO UPDATE SET
		username = EXCLUDED.username,
		password_hash = EXCLUDED.password_hash,
		confirmation_code_hash = EXCLUDED.confirmation_code_hash,
		expires = EXCLUDED.expires`,
		data.Email, data.Username, data.PasswordHash, data.ConfirmationCodeHash, data.Expires)
	if err != nil {
		return fmt.Errorf("failed to save confirmation data: %w", err)
	}
	return nil
}

func (s *Storage) confirmationData(q Querier, email domain.Email) (domain.ConfirmationData, error) {
	var data domain.ConfirmationData
	err := q.QueryRow("SELECT email, username, password_hash, confirmation_code_hash, expires FROM confirmation_data WHERE email = $1", email).
		Scan(&data.Email, &data.Username, &data.PasswordHash, &data.ConfirmationCodeHash, &data.Expires)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ConfirmationData{}, &internal_errors.ErrorWithStatusCode{Message: "Confirmation data not found", StatusCode: http.StatusNotFound}
		}
		return domain.ConfirmationData{}, fmt.Errorf("failed to query confirmation data: %w", err)
	}
	return data, nil
}

func (s *Storage) deleteConfirmationData(q Querier, email domain.Email) error {
	if _, err := q.Exec("DELETE FROM confirmation_data WHERE email = $1", email); err != nil {
		return fmt.Errorf("failed to delete confirmation data: %w", err)
	}
	return nil
}
