package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fieldnotes-dev/fieldnotes/shared/utils"
)

// GetProfile is the public identity lookup; the notification email is
// never exposed here.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.profiles.Get(chi.URLParam(r, "username"))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	utils.WriteJSON(w, struct {
		Id       int64  `json:"id"`
		Username string `json:"username"`
	}{Id: profile.Id, Username: profile.Username})
}
