package handler

import (
	"io"

	"github.com/fieldnotes-dev/fieldnotes/backend/internal/service"
	"github.com/fieldnotes-dev/fieldnotes/shared/config"
)

// MediaReader serves stored attachments back to clients.
type MediaReader interface {
	Read(filePath string) (io.ReadCloser, error)
}

type Pinger interface {
	Ping() error
}

type Handler struct {
	auth     service.AuthService
	messages service.MessageService
	research service.ResearchService
	tenants  service.TenantService
	profiles service.ProfileService
	media    MediaReader
	pinger   Pinger
	cfg      *config.Public
}

func New(
	auth service.AuthService,
	messages service.MessageService,
	research service.ResearchService,
	tenants service.TenantService,
	profiles service.ProfileService,
	media MediaReader,
	pinger Pinger,
	cfg *config.Public,
) *Handler {
	return &Handler{
		auth:     auth,
		messages: messages,
		research: research,
		tenants:  tenants,
		profiles: profiles,
		media:    media,
		pinger:   pinger,
		cfg:      cfg,
	}
}
