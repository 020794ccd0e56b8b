package pg

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/fieldnotes-dev/fieldnotes/shared/domain"
	internal_errors "github.com/fieldnotes-dev/fieldnotes/shared/errors"
)

func (s *Storage) ProfileByUsername(username string) (domain.Profile, error) {
	var p domain.Profile
	err := s.db.QueryRow("SELECT id, username, email, legacy_auth_id FROM profiles WHERE username = $1", username).
		Scan(&p.Id, &p.Username, &p.Email, &p.LegacyAuthId)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Profile{}, &internal_errors.ErrorWithStatusCode{Message: "Profile not found", StatusCode: http.StatusNotFound}
		}
		return domain.Profile{}, fmt.Errorf("failed to query profile: %w", err)
	}
	return p, nil
}

// EmailByLegacyId resolves a notification address through the old
// identity system's identifier, kept for accounts created before the
// migration.
func (s *Storage) EmailByLegacyId(legacyId string) (domain.Email, error) {
	var email domain.Email
	err := s.db.QueryRow("SELECT email FROM profiles WHERE legacy_auth_id = $1", legacyId).Scan(&email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", &internal_errors.ErrorWithStatusCode{Message: "Profile not found", StatusCode: http.StatusNotFound}
		}
		return "", fmt.Errorf("failed to query email by legacy id: %w", err)
	}
	return email, nil
}

func (s *Storage) EmailByUsername(username string) (domain.Email, error) {
	var email domain.Email
	err := s.db.QueryRow("SELECT email FROM profiles WHERE username = $1", username).Scan(&email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", &internal_errors.ErrorWithStatusCode{Message: "Profile not found", StatusCode: http.StatusNotFound}
		}
		return "", fmt.Errorf("failed to query email by username: %w", err)
	}
	return email, nil
}
