package handler

import (
	"net/http"

	"github.com/fieldnotes-dev/fieldnotes/shared/utils"
)

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.pinger.Ping(); err != nil {
		utils.WriteJSONStatus(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "database": err.Error()})
		return
	}
	utils.WriteJSON(w, map[string]string{"status": "ok"})
}
