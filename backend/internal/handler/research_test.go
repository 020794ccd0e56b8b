package handler

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldnotes-dev/fieldnotes/shared/config"
	"github.com/fieldnotes-dev/fieldnotes/shared/domain"
	"github.com/fieldnotes-dev/fieldnotes/shared/middleware"
	"github.com/fieldnotes-dev/fieldnotes/shared/validation"
)

type upsertCall struct {
	researchId domain.ResearchId
	updateId   *domain.UpdateId
	draft      domain.UpdateDraft
	images     []*validation.PendingUpload
	files      []*validation.PendingUpload
	isDraft    bool
}

type mockResearchService struct {
	upserts []upsertCall
	deletes []domain.UpdateId
}

func (m *mockResearchService) Create(owner *domain.User, title string) (domain.ResearchId, error) {
	return 7, nil
}

func (m *mockResearchService) Get(id domain.ResearchId) (domain.Research, error) {
	return domain.Research{Id: id}, nil
}

func (m *mockResearchService) UpsertUpdate(owner *domain.User, researchId domain.ResearchId, updateId *domain.UpdateId, draft domain.UpdateDraft, images, files []*validation.PendingUpload, isDraft bool) (domain.ResearchUpdate, error) {
	m.upserts = append(m.upserts, upsertCall{researchId, updateId, draft, images, files, isDraft})
	return domain.ResearchUpdate{Id: 100, ResearchId: researchId, Title: draft.Title}, nil
}

func (m *mockResearchService) DeleteUpdate(owner *domain.User, researchId domain.ResearchId, id domain.UpdateId) error {
	m.deletes = append(m.deletes, id)
	return nil
}

func researchRouter(svc *mockResearchService) http.Handler {
	cfg := &config.Public{
		MaxTotalAttachmentSize: 50 << 20,
		AllowedImageMimeTypes:  []string{"image/png"},
		AllowedFileMimeTypes:   []string{"application/pdf"},
	}
	h := New(nil, nil, svc, nil, nil, nil, nil, cfg)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := context.WithValue(req.Context(), middleware.UserClaimsKey, testUser())
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	r.Get("/v1/research/{research}", h.GetResearch)
	r.Post("/v1/research/{research}/updates", h.UpsertResearchUpdate)
	r.Delete("/v1/research/{research}/updates/{update}", h.DeleteResearchUpdate)
	return r
}

func multipartUpsertBody(t *testing.T, jsonField string, imageNames ...string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("json", jsonField))

	for _, name := range imageNames {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", `form-data; name="images"; filename="`+name+`"`)
		header.Set("Content-Type", "image/png")
		part, err := mw.CreatePart(header)
		require.NoError(t, err)
		part.Write([]byte("png-bytes"))
	}

	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestUpsertResearchUpdateMultipart(t *testing.T) {
	svc := &mockResearchService{}
	router := researchRouter(svc)

	body, contentType := multipartUpsertBody(t,
		`{"title":"Week 3","description":"pH dropped","draft":true,"kept_images":["7/old.png"]}`,
		"chart.png")

	req := httptest.NewRequest(http.MethodPost, "/v1/research/7/updates", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	require.Len(t, svc.upserts, 1)
	call := svc.upserts[0]
	assert.Equal(t, domain.ResearchId(7), call.researchId)
	assert.Nil(t, call.updateId, "no update_id means create")
	assert.True(t, call.isDraft)
	assert.Equal(t, "Week 3", call.draft.Title)
	assert.Equal(t, []string{"7/old.png"}, call.draft.KeptImages)
	require.Len(t, call.images, 1)
	assert.Equal(t, "chart.png", call.images[0].Filename)
	assert.Equal(t, "image/png", call.images[0].MimeType)
	assert.Empty(t, call.files)
}

func TestUpsertResearchUpdateExistingReturns200(t *testing.T) {
	svc := &mockResearchService{}
	router := researchRouter(svc)

	body, contentType := multipartUpsertBody(t, `{"update_id":5,"title":"Week 3"}`)

	req := httptest.NewRequest(http.MethodPost, "/v1/research/7/updates", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, svc.upserts, 1)
	require.NotNil(t, svc.upserts[0].updateId)
	assert.Equal(t, domain.UpdateId(5), *svc.upserts[0].updateId)
}

func TestUpsertResearchUpdateRejectsDisallowedMime(t *testing.T) {
	svc := &mockResearchService{}
	router := researchRouter(svc)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("json", `{"title":"t"}`))
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="images"; filename="payload.svg"`)
	header.Set("Content-Type", "image/svg+xml")
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	part.Write([]byte("<svg/>"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/research/7/updates", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, svc.upserts)
}

func TestDeleteResearchUpdate(t *testing.T) {
	svc := &mockResearchService{}
	router := researchRouter(svc)

	req := httptest.NewRequest(http.MethodDelete, "/v1/research/7/updates/5", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []domain.UpdateId{5}, svc.deletes)
}

func TestGetResearchRejectsBadId(t *testing.T) {
	router := researchRouter(&mockResearchService{})

	req := httptest.NewRequest(http.MethodGet, "/v1/research/not-a-number", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
