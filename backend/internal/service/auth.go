package service

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/fieldnotes-dev/fieldnotes/backend/internal/utils"
	"github.com/fieldnotes-dev/fieldnotes/shared/config"
	"github.com/fieldnotes-dev/fieldnotes/shared/domain"
	"github.com/fieldnotes-dev/fieldnotes/shared/errors"
	"github.com/fieldnotes-dev/fieldnotes/shared/logger"
)

type AuthService interface {
	Register(creds domain.Credentials, username string) error
	CheckConfirmationCode(email domain.Email, confirmationCode string) error
	Login(creds domain.Credentials) (string, error)
}

type Auth struct {
	storage   AuthStorage
	email     Email
	jwt       Jwt
	validator UsernameValidator
	cfg       *config.Public
}

type AuthStorage interface {
	SaveUser(user domain.User) (domain.UserId, error)
	User(email domain.Email) (domain.User, error)
	UpdatePassword(creds domain.Credentials) error
	SaveConfirmationData(data domain.ConfirmationData) error
	ConfirmationData(email domain.Email) (domain.ConfirmationData, error)
	DeleteConfirmationData(email domain.Email) error
}

type Email interface {
	Send(recipientEmail, subject, body string) error
	IsCorrect(email domain.Email) error
}

type Jwt interface {
	NewToken(user domain.User) (string, error)
}

type UsernameValidator interface {
	Username(name string) error
}

func NewAuth(storage AuthStorage, email Email, jwt Jwt, validator UsernameValidator, cfg *config.Public) *Auth {
	return &Auth{
		storage:   storage,
		email:     email,
		jwt:       jwt,
		validator: validator,
		cfg:       cfg,
	}
}

// Register generates a confirmation code, emails it, and parks the
// pending credentials until CheckConfirmationCode verifies them.
func (a *Auth) Register(creds domain.Credentials, username string) error {
	email := strings.ToLower(creds.Email)

	if err := a.email.IsCorrect(email); err != nil {
		return err
	}
	if err := a.validator.Username(username); err != nil {
		return err
	}

	cData, err := a.storage.ConfirmationData(email)
	if err != nil && !errors.IsNotFound(err) {
		return err
	}
	if err == nil { // data present, check expiration
		if cData.Expires.Before(time.Now()) {
			if err := a.storage.DeleteConfirmationData(email); err != nil {
				return err
			}
		} else {
			diff := time.Until(cData.Expires)
			return &errors.ErrorWithStatusCode{Message: fmt.Sprintf("Previous confirmation code is still valid. Retry after %.0fs", diff.Seconds()), StatusCode: http.StatusTooEarly}
		}
	}

	confirmationCode := utils.GenerateConfirmationCode(a.cfg.ConfirmationCodeLen)
	passHash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Error("failed to hash password", "error", err)
		return err
	}
	confirmationCodeHash, err := bcrypt.GenerateFromPassword([]byte(confirmationCode), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Error("failed to hash confirmation code", "error", err)
		return err
	}
	err = a.storage.SaveConfirmationData(domain.ConfirmationData{
		Email:                email,
		Username:             username,
		PasswordHash:         string(passHash),
		ConfirmationCodeHash: string(confirmationCodeHash),
		Expires:              time.Now().UTC().Add(5 * time.Minute),
	})
	if err != nil {
		return err
	}

	emailBody := fmt.Sprintf(`
		Hello,

		Your confirmation code is below

		%s

		If you did not request this, please ignore this email.
	`, confirmationCode)

	return a.email.Send(email, "Please confirm your email address", emailBody)
}

// CheckConfirmationCode verifies the emailed code and creates (or, for an
// existing account, re-keys) the user.
func (a *Auth) CheckConfirmationCode(email domain.Email, confirmationCode string) error {
	email = strings.ToLower(email)

	if err := a.email.IsCorrect(email); err != nil {
		return err
	}

	data, err := a.storage.ConfirmationData(email)
	if err != nil {
		return err
	}
	if data.Expires.Before(time.Now()) {
		return &errors.ErrorWithStatusCode{Message: "Confirmation time expired", StatusCode: http.StatusBadRequest}
	}
	if err := bcrypt.CompareHashAndPassword([]byte(data.ConfirmationCodeHash), []byte(confirmationCode)); err != nil {
		logger.Log.Warn("confirmation code verification failed", "error", err)
		return &errors.ErrorWithStatusCode{Message: "Wrong confirmation code", StatusCode: http.StatusBadRequest}
	}

	_, err = a.storage.User(email)
	if err != nil {
		if errors.IsNotFound(err) {
			if _, err := a.storage.SaveUser(domain.User{Email: email, Username: data.Username, PassHash: data.PasswordHash}); err != nil {
				return err
			}
		} else {
			return err
		}
	} else {
		if err := a.storage.UpdatePassword(domain.Credentials{Email: email, Password: data.PasswordHash}); err != nil {
			return err
		}
	}

	return a.storage.DeleteConfirmationData(email) // cleanup
}

// Login checks the credentials and returns an access token.
func (a *Auth) Login(creds domain.Credentials) (string, error) {
	email := strings.ToLower(creds.Email)

	user, err := a.storage.User(email)
	if err != nil {
		if errors.IsNotFound(err) {
			return "", &errors.ErrorWithStatusCode{Message: "Invalid email or password", StatusCode: http.StatusUnauthorized}
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PassHash), []byte(creds.Password)); err != nil {
		return "", &errors.ErrorWithStatusCode{Message: "Invalid email or password", StatusCode: http.StatusUnauthorized}
	}

	token, err := a.jwt.NewToken(user)
	if err != nil {
		return "", err
	}
	return token, nil
}
