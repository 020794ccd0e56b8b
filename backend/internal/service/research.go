package service

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/fieldnotes-dev/fieldnotes/shared/config"
	"github.com/fieldnotes-dev/fieldnotes/shared/domain"
	"github.com/fieldnotes-dev/fieldnotes/shared/errors"
	"github.com/fieldnotes-dev/fieldnotes/shared/validation"
)

type ResearchService interface {
	Create(owner *domain.User, title string) (domain.ResearchId, error)
	Get(id domain.ResearchId) (domain.Research, error)
	UpsertUpdate(owner *domain.User, researchId domain.ResearchId, updateId *domain.UpdateId, draft domain.UpdateDraft, images, files []*validation.PendingUpload, isDraft bool) (domain.ResearchUpdate, error)
	DeleteUpdate(owner *domain.User, researchId domain.ResearchId, id domain.UpdateId) error
}

type ResearchStorage interface {
	CreateResearch(ownerId domain.ProfileId, title string) (domain.ResearchId, error)
	Research(id domain.ResearchId) (domain.Research, error)
	ResearchUpdate(id domain.UpdateId) (domain.ResearchUpdate, error)
	CreateResearchUpdate(u domain.ResearchUpdate) (domain.UpdateId, error)
	SaveResearchUpdate(u domain.ResearchUpdate) error
	SoftDeleteResearchUpdate(researchId domain.ResearchId, id domain.UpdateId) error
}

type MediaStorage interface {
	Save(fileData io.Reader, researchId, storedName string) (string, error)
}

type TitleValidator interface {
	Title(title string) error
}

type Research struct {
	profiles  ProfileStorage
	storage   ResearchStorage
	media     MediaStorage
	renderer  *Renderer
	validator TitleValidator
	cfg       *config.Public
}

func NewResearch(profiles ProfileStorage, storage ResearchStorage, media MediaStorage, renderer *Renderer, validator TitleValidator, cfg *config.Public) *Research {
	return &Research{
		profiles:  profiles,
		storage:   storage,
		media:     media,
		renderer:  renderer,
		validator: validator,
		cfg:       cfg,
	}
}

func (r *Research) Create(owner *domain.User, title string) (domain.ResearchId, error) {
	if title == "" {
		return -1, &errors.ErrorWithStatusCode{Message: "Title is required", StatusCode: http.StatusBadRequest}
	}
	if err := r.validator.Title(title); err != nil {
		return -1, err
	}

	profile, err := r.profiles.ProfileByUsername(owner.Username)
	if err != nil {
		return -1, fmt.Errorf("failed to resolve owner profile: %w", err)
	}

	return r.storage.CreateResearch(profile.Id, title)
}

// Get returns the research with its visible updates, descriptions
// rendered to sanitized HTML.
func (r *Research) Get(id domain.ResearchId) (domain.Research, error) {
	res, err := r.storage.Research(id)
	if err != nil {
		return domain.Research{}, err
	}

	for i := range res.Updates {
		html, err := r.renderer.RenderHTML(res.Updates[i].Description)
		if err != nil {
			return domain.Research{}, err
		}
		res.Updates[i].DescriptionHTML = html
	}

	return res, nil
}

// UpsertUpdate creates a new update (updateId == nil) or overwrites an
// existing one. The saved image list is the client's kept paths followed
// by the freshly stored uploads, capped at cfg.MaxUpdateImages. Publish
// is one way: an already published update never reverts to draft.
func (r *Research) UpsertUpdate(owner *domain.User, researchId domain.ResearchId, updateId *domain.UpdateId, draft domain.UpdateDraft, images, files []*validation.PendingUpload, isDraft bool) (domain.ResearchUpdate, error) {
	if !isDraft && draft.Title == "" {
		return domain.ResearchUpdate{}, &errors.ErrorWithStatusCode{Message: "Title is required", StatusCode: http.StatusBadRequest}
	}
	if err := r.validator.Title(draft.Title); err != nil {
		return domain.ResearchUpdate{}, err
	}

	if err := r.checkOwnership(owner, researchId); err != nil {
		return domain.ResearchUpdate{}, err
	}

	if len(draft.KeptImages)+len(images) > r.cfg.MaxUpdateImages {
		return domain.ResearchUpdate{}, &errors.ErrorWithStatusCode{
			Message:    fmt.Sprintf("Too many images, the limit is %d", r.cfg.MaxUpdateImages),
			StatusCode: http.StatusBadRequest,
		}
	}

	imagePaths, err := r.storeUploads(researchId, draft.KeptImages, images)
	if err != nil {
		return domain.ResearchUpdate{}, err
	}
	filePaths, err := r.storeUploads(researchId, draft.KeptFiles, files)
	if err != nil {
		return domain.ResearchUpdate{}, err
	}

	u := domain.ResearchUpdate{
		ResearchId:  researchId,
		Title:       draft.Title,
		Description: draft.Description,
		Images:      imagePaths,
		Files:       filePaths,
		VideoURL:    draft.VideoURL,
		Draft:       isDraft,
	}

	if updateId == nil {
		id, err := r.storage.CreateResearchUpdate(u)
		if err != nil {
			return domain.ResearchUpdate{}, err
		}
		return r.finishedUpdate(id)
	}

	existing, err := r.storage.ResearchUpdate(*updateId)
	if err != nil {
		return domain.ResearchUpdate{}, err
	}
	if existing.ResearchId != researchId || existing.Deleted {
		return domain.ResearchUpdate{}, &errors.ErrorWithStatusCode{Message: "Update not found", StatusCode: http.StatusNotFound}
	}
	if !existing.Draft {
		u.Draft = false
	}

	u.Id = *updateId
	if err := r.storage.SaveResearchUpdate(u); err != nil {
		return domain.ResearchUpdate{}, err
	}
	return r.finishedUpdate(*updateId)
}

// DeleteUpdate soft deletes: the row and its attachments stay on disk so
// the operation is reversible by support.
func (r *Research) DeleteUpdate(owner *domain.User, researchId domain.ResearchId, id domain.UpdateId) error {
	if err := r.checkOwnership(owner, researchId); err != nil {
		return err
	}
	return r.storage.SoftDeleteResearchUpdate(researchId, id)
}

func (r *Research) checkOwnership(owner *domain.User, researchId domain.ResearchId) error {
	profile, err := r.profiles.ProfileByUsername(owner.Username)
	if err != nil {
		return fmt.Errorf("failed to resolve owner profile: %w", err)
	}

	res, err := r.storage.Research(researchId)
	if err != nil {
		return err
	}
	if res.OwnerId != profile.Id && !owner.Admin {
		return &errors.ErrorWithStatusCode{Message: "You don't own this research", StatusCode: http.StatusForbidden}
	}
	return nil
}

// storeUploads writes each pending upload under the research's media
// directory and returns kept paths followed by the new ones.
func (r *Research) storeUploads(researchId domain.ResearchId, kept []string, uploads []*validation.PendingUpload) (domain.AttachmentPaths, error) {
	paths := make(domain.AttachmentPaths, 0, len(kept)+len(uploads))
	paths = append(paths, kept...)

	for _, up := range uploads {
		storedName := storedAttachmentName(up.Filename)
		path, err := r.media.Save(up.Data, strconv.FormatInt(researchId, 10), storedName)
		up.Data.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to store attachment %s: %w", up.Filename, err)
		}
		paths = append(paths, path)
	}

	return paths, nil
}

func (r *Research) finishedUpdate(id domain.UpdateId) (domain.ResearchUpdate, error) {
	u, err := r.storage.ResearchUpdate(id)
	if err != nil {
		return domain.ResearchUpdate{}, err
	}
	html, err := r.renderer.RenderHTML(u.Description)
	if err != nil {
		return domain.ResearchUpdate{}, err
	}
	u.DescriptionHTML = html
	return u, nil
}

// storedAttachmentName keeps only the original extension; the rest of
// the name comes from a fresh uuid so client input never reaches the
// filesystem.
func storedAttachmentName(original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	return uuid.NewString() + ext
}
