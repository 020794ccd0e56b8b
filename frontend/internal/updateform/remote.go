package updateform

import (
	"net/http"

	"github.com/fieldnotes-dev/fieldnotes/frontend/internal/apiclient"
	"github.com/fieldnotes-dev/fieldnotes/shared/domain"
)

// apiRemote binds the API client to one research item and the browser
// request whose cookies carry the session, so the form only ever deals
// with payloads.
type apiRemote struct {
	client     *apiclient.APIClient
	req        *http.Request
	researchId int64
}

// RemoteFor adapts the API client to the form's Remote seam.
func RemoteFor(client *apiclient.APIClient, r *http.Request, researchId int64) Remote {
	return &apiRemote{client: client, req: r, researchId: researchId}
}

// NewWithClient constructs a create-mode form backed by the real API.
func NewWithClient(client *apiclient.APIClient, r *http.Request, researchId int64, nav Navigator) *Form {
	return New(researchId, RemoteFor(client, r, researchId), nav)
}

// EditWithClient constructs an edit-mode form backed by the real API.
func EditWithClient(client *apiclient.APIClient, r *http.Request, u domain.ResearchUpdate, nav Navigator) *Form {
	return FromUpdate(u, RemoteFor(client, r, u.ResearchId), nav)
}

func (a *apiRemote) Upsert(payload apiclient.UpdatePayload, images, files []apiclient.Attachment) (*domain.ResearchUpdate, error) {
	return a.client.UpsertUpdate(a.req, a.researchId, payload, images, files)
}

func (a *apiRemote) Delete(updateId int64) error {
	return a.client.DeleteUpdate(a.req, a.researchId, updateId)
}
