package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fieldnotes-dev/fieldnotes/shared/domain"
	"github.com/fieldnotes-dev/fieldnotes/shared/errors"
	"github.com/fieldnotes-dev/fieldnotes/shared/middleware"
	"github.com/fieldnotes-dev/fieldnotes/shared/utils"
	"github.com/fieldnotes-dev/fieldnotes/shared/validation"
)

// multipart form fields besides the attachments take about this much
const formFieldsBuffer = 1 << 20

type createResearchRequest struct {
	Title string `json:"title" validate:"required"`
}

func (h *Handler) CreateResearch(w http.ResponseWriter, r *http.Request) {
	var req createResearchRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	id, err := h.research.Create(middleware.GetUserFromContext(r), req.Title)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	utils.WriteJSONStatus(w, http.StatusCreated, map[string]domain.ResearchId{"id": id})
}

func (h *Handler) GetResearch(w http.ResponseWriter, r *http.Request) {
	researchId, err := urlParamInt64(r, "research")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	res, err := h.research.Get(researchId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	utils.WriteJSON(w, res)
}

// upsertUpdateRequest is the `json` field of the multipart form; the
// attachments ride alongside as `images` and `files` file parts.
type upsertUpdateRequest struct {
	UpdateId    *domain.UpdateId `json:"update_id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	VideoURL    string           `json:"video_url"`
	Draft       bool             `json:"draft"`
	KeptImages  []string         `json:"kept_images"`
	KeptFiles   []string         `json:"kept_files"`
}

func (h *Handler) UpsertResearchUpdate(w http.ResponseWriter, r *http.Request) {
	researchId, err := urlParamInt64(r, "research")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	maxSize := validation.CalculateMaxRequestSize(h.cfg.MaxTotalAttachmentSize, formFieldsBuffer)
	if err := validation.ValidateAndParseMultipart(r, w, maxSize); err != nil {
		msg := fmt.Sprintf("Request too large, the attachment limit is %.0f MB", validation.FormatSizeMB(h.cfg.MaxTotalAttachmentSize))
		http.Error(w, msg, http.StatusRequestEntityTooLarge)
		return
	}

	var req upsertUpdateRequest
	if err := json.Unmarshal([]byte(r.FormValue("json")), &req); err != nil {
		http.Error(w, "Body is invalid json", http.StatusBadRequest)
		return
	}

	images, err := validation.ValidateUploads(
		r.MultipartForm.File["images"],
		validation.BuildAllowedMimeMap(h.cfg.AllowedImageMimeTypes),
	)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	files, err := validation.ValidateUploads(
		r.MultipartForm.File["files"],
		validation.BuildAllowedMimeMap(h.cfg.AllowedFileMimeTypes),
	)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	draft := domain.UpdateDraft{
		Title:       req.Title,
		Description: req.Description,
		VideoURL:    req.VideoURL,
		KeptImages:  req.KeptImages,
		KeptFiles:   req.KeptFiles,
	}

	update, err := h.research.UpsertUpdate(middleware.GetUserFromContext(r), researchId, req.UpdateId, draft, images, files, req.Draft)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if req.UpdateId == nil {
		utils.WriteJSONStatus(w, http.StatusCreated, update)
		return
	}
	utils.WriteJSON(w, update)
}

func (h *Handler) DeleteResearchUpdate(w http.ResponseWriter, r *http.Request) {
	researchId, err := urlParamInt64(r, "research")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	updateId, err := urlParamInt64(r, "update")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.research.DeleteUpdate(middleware.GetUserFromContext(r), researchId, updateId); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func urlParamInt64(r *http.Request, name string) (int64, error) {
	v, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		return 0, &errors.ErrorWithStatusCode{Message: fmt.Sprintf("Invalid %s id", name), StatusCode: http.StatusBadRequest}
	}
	return v, nil
}
