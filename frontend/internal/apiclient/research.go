package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/fieldnotes-dev/fieldnotes/shared/domain"
)

// UpdatePayload is the `json` part of the upsert form.
type UpdatePayload struct {
	UpdateId    *int64   `json:"update_id,omitempty"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	VideoURL    string   `json:"video_url"`
	Draft       bool     `json:"draft"`
	KeptImages  []string `json:"kept_images"`
	KeptFiles   []string `json:"kept_files"`
}

// Attachment is a file part riding alongside the payload.
type Attachment struct {
	Filename    string
	ContentType string
	Data        io.Reader
}

func (c *APIClient) GetResearch(r *http.Request, researchId int64) (*domain.Research, error) {
	resp, err := c.do("GET", fmt.Sprintf("/v1/research/%d", researchId), "", nil, r.Cookies()...)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errorFromResponse("get research", resp)
	}

	var research domain.Research
	if err := json.NewDecoder(resp.Body).Decode(&research); err != nil {
		return nil, fmt.Errorf("failed to parse research JSON: %w", err)
	}
	return &research, nil
}

// UpsertUpdate posts the multipart form the backend expects: a `json`
// field with the payload plus `images`/`files` parts.
func (c *APIClient) UpsertUpdate(r *http.Request, researchId int64, payload UpdatePayload, images, files []Attachment) (*domain.ResearchUpdate, error) {
	body, contentType, err := buildUpsertForm(payload, images, files)
	if err != nil {
		return nil, err
	}

	path := fmt.Sprintf("/v1/research/%d/updates", researchId)
	resp, err := c.do("POST", path, contentType, body, r.Cookies()...)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, errorFromResponse("save update", resp)
	}

	var update domain.ResearchUpdate
	if err := json.NewDecoder(resp.Body).Decode(&update); err != nil {
		return nil, fmt.Errorf("failed to parse update JSON: %w", err)
	}
	return &update, nil
}

func (c *APIClient) DeleteUpdate(r *http.Request, researchId, updateId int64) error {
	path := fmt.Sprintf("/v1/research/%d/updates/%d", researchId, updateId)
	resp, err := c.do("DELETE", path, "", nil, r.Cookies()...)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return errorFromResponse("delete update", resp)
	}
	return nil
}

func buildUpsertForm(payload UpdatePayload, images, files []Attachment) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return nil, "", fmt.Errorf("failed to marshal update payload: %w", err)
	}
	if err := mw.WriteField("json", string(payloadJSON)); err != nil {
		return nil, "", err
	}

	writeAttachments := func(field string, attachments []Attachment) error {
		for _, a := range attachments {
			header := textproto.MIMEHeader{}
			header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, escapeQuotes(a.Filename)))
			if a.ContentType != "" {
				header.Set("Content-Type", a.ContentType)
			}
			part, err := mw.CreatePart(header)
			if err != nil {
				return err
			}
			if _, err := io.Copy(part, a.Data); err != nil {
				return fmt.Errorf("failed to write attachment %s: %w", a.Filename, err)
			}
		}
		return nil
	}

	if err := writeAttachments("images", images); err != nil {
		return nil, "", err
	}
	if err := writeAttachments("files", files); err != nil {
		return nil, "", err
	}

	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return &buf, mw.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
