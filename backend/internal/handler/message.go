package handler

import (
	"net/http"

	"github.com/fieldnotes-dev/fieldnotes/shared/domain"
	"github.com/fieldnotes-dev/fieldnotes/shared/errors"
	"github.com/fieldnotes-dev/fieldnotes/shared/logger"
	"github.com/fieldnotes-dev/fieldnotes/shared/middleware"
)

// SendMessage is registered for every method behind OptionalAuth: the
// endpoint owns its full validation sequence, auth before method, and
// each failure has a fixed body relied on by clients.
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r)
	if user == nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}

	to := r.PostFormValue("to")
	if to == "" {
		http.Error(w, "to is required", http.StatusBadRequest)
		return
	}
	text := r.PostFormValue("message")
	if text == "" {
		http.Error(w, "message is required", http.StatusBadRequest)
		return
	}
	if user.Email == "" {
		http.Error(w, "Unable to get messenger email address", http.StatusBadRequest)
		return
	}

	err := h.messages.Send(user, domain.MessageCreationData{
		To:          to,
		Text:        text,
		DisplayName: r.PostFormValue("name"),
	})
	if err != nil {
		if e, ok := err.(*errors.ErrorWithStatusCode); ok {
			http.Error(w, e.Message, e.StatusCode)
			return
		}
		// Wrapped storage errors land here and stay opaque to the client
		logger.Log.Error("message send failed", "sender", user.Username, "error", err)
		http.Error(w, "Error sending message", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
}
