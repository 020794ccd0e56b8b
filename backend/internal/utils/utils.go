package utils

import (
	"net/http"
	"regexp"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/fieldnotes-dev/fieldnotes/shared/errors"
)

var usernameRe = regexp.MustCompile(`^[a-z0-9_]{3,30}$`)

type UsernameValidator struct{}

func (v *UsernameValidator) Username(name string) error {
	if !usernameRe.MatchString(name) {
		return &errors.ErrorWithStatusCode{Message: "Username must be 3-30 characters: lowercase letters, digits, underscore", StatusCode: http.StatusBadRequest}
	}
	return nil
}

type MessageTextValidator struct{}

func (v *MessageTextValidator) Text(text string) error {
	if len(text) == 0 {
		return &errors.ErrorWithStatusCode{Message: "Text is too short", StatusCode: http.StatusBadRequest}
	}
	if utf8.RuneCountInString(text) > 10_000 {
		return &errors.ErrorWithStatusCode{Message: "Text is too long", StatusCode: http.StatusBadRequest}
	}
	return nil
}

type UpdateTitleValidator struct{}

func (v *UpdateTitleValidator) Title(title string) error {
	if utf8.RuneCountInString(title) > 120 {
		return &errors.ErrorWithStatusCode{Message: "Title is too long", StatusCode: http.StatusBadRequest}
	}
	return nil
}

func GenerateConfirmationCode(length int) string {
	code := uuid.NewString()
	return code[:length]
}
