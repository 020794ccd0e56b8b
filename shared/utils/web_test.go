package utils

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fieldnotes-dev/fieldnotes/shared/errors"
)

type decodeTarget struct {
	Name string `validate:"required" json:"name"`
}

func body(s string) io.ReadCloser {
	return io.NopCloser(strings.NewReader(s))
}

func TestDecodeValidate(t *testing.T) {
	t.Run("valid body", func(t *testing.T) {
		var target decodeTarget
		err := DecodeValidate(body(`{"name": "ada"}`), &target)
		assert.NoError(t, err)
		assert.Equal(t, "ada", target.Name)
	})

	t.Run("invalid json", func(t *testing.T) {
		var target decodeTarget
		err := DecodeValidate(body(`{not json`), &target)
		assert.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, err.(*errors.ErrorWithStatusCode).StatusCode)
	})

	t.Run("missing required field", func(t *testing.T) {
		var target decodeTarget
		err := DecodeValidate(body(`{}`), &target)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Required fields missing")
	})
}

func TestWriteErrorAndStatusCode(t *testing.T) {
	t.Run("status-carrying error", func(t *testing.T) {
		rr := httptest.NewRecorder()
		WriteErrorAndStatusCode(rr, &errors.ErrorWithStatusCode{Message: "nope", StatusCode: http.StatusTeapot})
		assert.Equal(t, http.StatusTeapot, rr.Code)
		assert.Equal(t, "nope\n", rr.Body.String())
	})

	t.Run("plain error defaults to 500", func(t *testing.T) {
		rr := httptest.NewRecorder()
		WriteErrorAndStatusCode(rr, io.ErrUnexpectedEOF)
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}
