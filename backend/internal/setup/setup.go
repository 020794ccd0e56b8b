package setup

import (
	"fmt"
	"net/http"

	"github.com/fieldnotes-dev/fieldnotes/backend/internal/email"
	"github.com/fieldnotes-dev/fieldnotes/backend/internal/handler"
	"github.com/fieldnotes-dev/fieldnotes/backend/internal/router"
	"github.com/fieldnotes-dev/fieldnotes/backend/internal/service"
	"github.com/fieldnotes-dev/fieldnotes/backend/internal/storage/fs"
	"github.com/fieldnotes-dev/fieldnotes/backend/internal/storage/pg"
	"github.com/fieldnotes-dev/fieldnotes/backend/internal/utils"
	"github.com/fieldnotes-dev/fieldnotes/shared/config"
	"github.com/fieldnotes-dev/fieldnotes/shared/jwt"
	"github.com/fieldnotes-dev/fieldnotes/shared/middleware"
)

// App wires storage, services and the HTTP surface together.
type App struct {
	Handler http.Handler
	Storage *pg.Storage
}

func NewApp(cfg *config.Config) (*App, error) {
	storage, err := pg.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	media, err := fs.New(cfg.Public.MediaDir)
	if err != nil {
		storage.Cleanup()
		return nil, fmt.Errorf("failed to init media storage: %w", err)
	}

	mailer := email.New(&cfg.Private.Email)
	jwtService := jwt.New(cfg.JwtKey(), cfg.JwtTTL())

	authService := service.NewAuth(storage, mailer, jwtService, &utils.UsernameValidator{}, &cfg.Public)
	messageService := service.NewMessage(storage, storage, storage, mailer, &utils.MessageTextValidator{}, &cfg.Public)
	researchService := service.NewResearch(storage, storage, media, service.NewRenderer(), &utils.UpdateTitleValidator{}, &cfg.Public)
	tenantService := service.NewTenant(storage, cfg.Public.TenantId)
	profileService := service.NewProfiles(storage)

	h := handler.New(authService, messageService, researchService, tenantService, profileService, media, storage, &cfg.Public)
	auth := middleware.NewAuth(jwtService, cfg.Public.SecureCookies)

	return &App{
		Handler: router.New(h, auth, &cfg.Public),
		Storage: storage,
	}, nil
}
