package pg

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/fieldnotes-dev/fieldnotes/shared/domain"
)

// TenantSettings returns the raw settings row, or nil when the tenant has
// none. Defaults are applied by the caller (domain.SettingsWithDefaults),
// not here.
func (s *Storage) TenantSettings(tenantId int64) (*domain.TenantSettings, error) {
	var raw domain.TenantSettings
	err := s.db.QueryRow(`
	SELECT site_name, site_url, message_signoff, sender_email, logo_url
	FROM tenant_settings
	WHERE tenant_id = $1`, tenantId).
		Scan(&raw.SiteName, &raw.SiteURL, &raw.MessageSignoff, &raw.SenderEmail, &raw.LogoURL)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query tenant settings: %w", err)
	}
	return &raw, nil
}

func (s *Storage) SaveTenantSettings(tenantId int64, settings domain.TenantSettings) error {
	_, err := s.db.Exec(`
	INSERT INTO tenant_settings(tenant_id, site_name, site_url, message_signoff, sender_email, logo_url)
	VALUES($1, $2, $3, $4, $5, $6)
	ON CONFLICT (tenant_id) DO UPDATE SET
		site_name = EXCLUDED.site_name,
		site_url = EXCLUDED.site_url,
		message_signoff = EXCLUDED.message_signoff,
		sender_email = EXCLUDED.sender_email,
		logo_url = EXCLUDED.logo_url`,
		tenantId, settings.SiteName, settings.SiteURL, settings.MessageSignoff, settings.SenderEmail, settings.LogoURL)
	if err != nil {
		return fmt.Errorf("failed to save tenant settings: %w", err)
	}
	return nil
}
