package service

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldnotes-dev/fieldnotes/shared/domain"
	internal_errors "github.com/fieldnotes-dev/fieldnotes/shared/errors"
	"github.com/fieldnotes-dev/fieldnotes/shared/validation"
)

type MockResearchStorage struct {
	MockCreateResearch           func(ownerId domain.ProfileId, title string) (domain.ResearchId, error)
	MockResearch                 func(id domain.ResearchId) (domain.Research, error)
	MockResearchUpdate           func(id domain.UpdateId) (domain.ResearchUpdate, error)
	MockCreateResearchUpdate     func(u domain.ResearchUpdate) (domain.UpdateId, error)
	MockSaveResearchUpdate       func(u domain.ResearchUpdate) error
	MockSoftDeleteResearchUpdate func(researchId domain.ResearchId, id domain.UpdateId) error

	created []domain.ResearchUpdate
	saved   []domain.ResearchUpdate
	deleted []domain.UpdateId
}

func (m *MockResearchStorage) CreateResearch(ownerId domain.ProfileId, title string) (domain.ResearchId, error) {
	if m.MockCreateResearch != nil {
		return m.MockCreateResearch(ownerId, title)
	}
	return 1, nil
}

func (m *MockResearchStorage) Research(id domain.ResearchId) (domain.Research, error) {
	if m.MockResearch != nil {
		return m.MockResearch(id)
	}
	return domain.Research{Id: id, OwnerId: 1, Title: "Soil acidity"}, nil
}

func (m *MockResearchStorage) ResearchUpdate(id domain.UpdateId) (domain.ResearchUpdate, error) {
	if m.MockResearchUpdate != nil {
		return m.MockResearchUpdate(id)
	}
	if len(m.created) > 0 {
		u := m.created[len(m.created)-1]
		u.Id = id
		return u, nil
	}
	if len(m.saved) > 0 {
		return m.saved[len(m.saved)-1], nil
	}
	return domain.ResearchUpdate{Id: id, ResearchId: 7}, nil
}

func (m *MockResearchStorage) CreateResearchUpdate(u domain.ResearchUpdate) (domain.UpdateId, error) {
	m.created = append(m.created, u)
	if m.MockCreateResearchUpdate != nil {
		return m.MockCreateResearchUpdate(u)
	}
	return 100, nil
}

func (m *MockResearchStorage) SaveResearchUpdate(u domain.ResearchUpdate) error {
	m.saved = append(m.saved, u)
	if m.MockSaveResearchUpdate != nil {
		return m.MockSaveResearchUpdate(u)
	}
	return nil
}

func (m *MockResearchStorage) SoftDeleteResearchUpdate(researchId domain.ResearchId, id domain.UpdateId) error {
	m.deleted = append(m.deleted, id)
	if m.MockSoftDeleteResearchUpdate != nil {
		return m.MockSoftDeleteResearchUpdate(researchId, id)
	}
	return nil
}

type MockMediaStorage struct {
	saved []string // "<researchId>/<storedName>"
}

func (m *MockMediaStorage) Save(fileData io.Reader, researchId, storedName string) (string, error) {
	io.Copy(io.Discard, fileData)
	path := researchId + "/" + storedName
	m.saved = append(m.saved, path)
	return path, nil
}

type fakeTitleValidator struct{}

func (fakeTitleValidator) Title(title string) error { return nil }

type fakeUpload struct{ *bytes.Reader }

func (fakeUpload) Close() error { return nil }

func pendingUpload(name string) *validation.PendingUpload {
	return &validation.PendingUpload{
		Filename: name,
		Data:     fakeUpload{bytes.NewReader([]byte("data"))},
	}
}

func researchServiceForTest(storage *MockResearchStorage, media *MockMediaStorage) *Research {
	cfg := testConfig()
	cfg.MaxUpdateImages = 10
	return NewResearch(profilesForTest(), storage, media, NewRenderer(), fakeTitleValidator{}, cfg)
}

func TestUpsertUpdateCreatesDraft(t *testing.T) {
	storage := &MockResearchStorage{}
	media := &MockMediaStorage{}
	svc := researchServiceForTest(storage, media)

	u, err := svc.UpsertUpdate(sender(), 7, nil, domain.UpdateDraft{
		Title:       "Week 3",
		Description: "pH dropped to **5.4**",
		KeptImages:  []string{"7/existing.png"},
	}, []*validation.PendingUpload{pendingUpload("Chart Final.PNG")}, nil, true)
	require.NoError(t, err)

	require.Len(t, storage.created, 1)
	created := storage.created[0]
	assert.True(t, created.Draft)
	require.Len(t, created.Images, 2)
	assert.Equal(t, "7/existing.png", created.Images[0], "kept paths come first")
	assert.True(t, strings.HasPrefix(created.Images[1], "7/"))
	assert.True(t, strings.HasSuffix(created.Images[1], ".png"), "stored name keeps only the lowercased extension")
	assert.NotContains(t, created.Images[1], "Chart", "original filename never reaches the filesystem")

	assert.Contains(t, u.DescriptionHTML, "<strong>5.4</strong>")
}

func TestUpsertUpdatePublishRequiresTitle(t *testing.T) {
	storage := &MockResearchStorage{}
	svc := researchServiceForTest(storage, &MockMediaStorage{})

	_, err := svc.UpsertUpdate(sender(), 7, nil, domain.UpdateDraft{Description: "x"}, nil, nil, false)

	var e *internal_errors.ErrorWithStatusCode
	require.ErrorAs(t, err, &e)
	assert.Equal(t, http.StatusBadRequest, e.StatusCode)
	assert.Empty(t, storage.created)
}

func TestUpsertUpdateDraftAllowsEmptyTitle(t *testing.T) {
	storage := &MockResearchStorage{}
	svc := researchServiceForTest(storage, &MockMediaStorage{})

	_, err := svc.UpsertUpdate(sender(), 7, nil, domain.UpdateDraft{Description: "scratch"}, nil, nil, true)
	require.NoError(t, err)
	assert.Len(t, storage.created, 1)
}

func TestUpsertUpdateImageCap(t *testing.T) {
	storage := &MockResearchStorage{}
	svc := researchServiceForTest(storage, &MockMediaStorage{})

	kept := make([]string, 9)
	for i := range kept {
		kept[i] = "7/old.png"
	}

	_, err := svc.UpsertUpdate(sender(), 7, nil, domain.UpdateDraft{Title: "t", KeptImages: kept},
		[]*validation.PendingUpload{pendingUpload("a.png"), pendingUpload("b.png")}, nil, true)

	var e *internal_errors.ErrorWithStatusCode
	require.ErrorAs(t, err, &e)
	assert.Equal(t, http.StatusBadRequest, e.StatusCode)
	assert.Contains(t, e.Message, "Too many images")
	assert.Empty(t, storage.created)

	// 9 kept + 1 new is exactly at the cap
	_, err = svc.UpsertUpdate(sender(), 7, nil, domain.UpdateDraft{Title: "t", KeptImages: kept},
		[]*validation.PendingUpload{pendingUpload("a.png")}, nil, true)
	require.NoError(t, err)
}

func TestUpsertUpdateRejectsNonOwner(t *testing.T) {
	storage := &MockResearchStorage{
		MockResearch: func(id domain.ResearchId) (domain.Research, error) {
			return domain.Research{Id: id, OwnerId: 999}, nil
		},
	}
	svc := researchServiceForTest(storage, &MockMediaStorage{})

	_, err := svc.UpsertUpdate(sender(), 7, nil, domain.UpdateDraft{Title: "t"}, nil, nil, true)

	var e *internal_errors.ErrorWithStatusCode
	require.ErrorAs(t, err, &e)
	assert.Equal(t, http.StatusForbidden, e.StatusCode)
}

func TestUpsertUpdateAdminBypassesOwnership(t *testing.T) {
	storage := &MockResearchStorage{
		MockResearch: func(id domain.ResearchId) (domain.Research, error) {
			return domain.Research{Id: id, OwnerId: 999}, nil
		},
	}
	svc := researchServiceForTest(storage, &MockMediaStorage{})

	admin := sender()
	admin.Admin = true
	_, err := svc.UpsertUpdate(admin, 7, nil, domain.UpdateDraft{Title: "t"}, nil, nil, true)
	require.NoError(t, err)
}

func TestUpsertUpdatePublishIsOneWay(t *testing.T) {
	published := domain.ResearchUpdate{Id: 5, ResearchId: 7, Title: "Week 1", Draft: false}
	storage := &MockResearchStorage{
		MockResearchUpdate: func(id domain.UpdateId) (domain.ResearchUpdate, error) {
			return published, nil
		},
	}
	svc := researchServiceForTest(storage, &MockMediaStorage{})

	id := domain.UpdateId(5)
	_, err := svc.UpsertUpdate(sender(), 7, &id, domain.UpdateDraft{Title: "Week 1 edited"}, nil, nil, true)
	require.NoError(t, err)

	require.Len(t, storage.saved, 1)
	assert.False(t, storage.saved[0].Draft, "published update must not revert to draft")
}

func TestUpsertUpdateWrongResearchIs404(t *testing.T) {
	storage := &MockResearchStorage{
		MockResearchUpdate: func(id domain.UpdateId) (domain.ResearchUpdate, error) {
			return domain.ResearchUpdate{Id: id, ResearchId: 8}, nil
		},
	}
	svc := researchServiceForTest(storage, &MockMediaStorage{})

	id := domain.UpdateId(5)
	_, err := svc.UpsertUpdate(sender(), 7, &id, domain.UpdateDraft{Title: "t"}, nil, nil, true)

	var e *internal_errors.ErrorWithStatusCode
	require.ErrorAs(t, err, &e)
	assert.Equal(t, http.StatusNotFound, e.StatusCode)
	assert.Empty(t, storage.saved)
}

func TestDeleteUpdateSoftDeletes(t *testing.T) {
	storage := &MockResearchStorage{}
	svc := researchServiceForTest(storage, &MockMediaStorage{})

	require.NoError(t, svc.DeleteUpdate(sender(), 7, 5))
	assert.Equal(t, []domain.UpdateId{5}, storage.deleted)
}

func TestGetRendersSanitizedDescriptions(t *testing.T) {
	storage := &MockResearchStorage{
		MockResearch: func(id domain.ResearchId) (domain.Research, error) {
			return domain.Research{Id: id, OwnerId: 1, Updates: []domain.ResearchUpdate{
				{Id: 1, Description: "**bold** <script>alert(1)</script>"},
			}}, nil
		},
	}
	svc := researchServiceForTest(storage, &MockMediaStorage{})

	res, err := svc.Get(7)
	require.NoError(t, err)
	require.Len(t, res.Updates, 1)
	assert.Contains(t, res.Updates[0].DescriptionHTML, "<strong>bold</strong>")
	assert.NotContains(t, res.Updates[0].DescriptionHTML, "<script>")
}

func TestCreateResearchRequiresTitle(t *testing.T) {
	svc := researchServiceForTest(&MockResearchStorage{}, &MockMediaStorage{})

	_, err := svc.Create(sender(), "")

	var e *internal_errors.ErrorWithStatusCode
	require.ErrorAs(t, err, &e)
	assert.Equal(t, http.StatusBadRequest, e.StatusCode)
}
