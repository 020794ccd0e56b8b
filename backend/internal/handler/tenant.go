package handler

import (
	"net/http"

	"github.com/fieldnotes-dev/fieldnotes/shared/domain"
	"github.com/fieldnotes-dev/fieldnotes/shared/utils"
)

func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.tenants.Settings()
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, settings)
}

func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var settings domain.TenantSettings
	if err := utils.DecodeValidate(r.Body, &settings); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.tenants.SaveSettings(settings); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}
