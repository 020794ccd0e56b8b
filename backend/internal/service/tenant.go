package service

import (
	"github.com/fieldnotes-dev/fieldnotes/shared/domain"
)

type TenantService interface {
	Settings() (domain.TenantSettings, error)
	SaveSettings(settings domain.TenantSettings) error
}

type TenantStorage interface {
	TenantSettings(tenantId int64) (*domain.TenantSettings, error)
	SaveTenantSettings(tenantId int64, settings domain.TenantSettings) error
}

type Tenant struct {
	storage  TenantStorage
	tenantId int64
}

func NewTenant(storage TenantStorage, tenantId int64) *Tenant {
	return &Tenant{storage: storage, tenantId: tenantId}
}

// Settings returns the tenant's branding with the documented defaults
// applied to any unset field.
func (t *Tenant) Settings() (domain.TenantSettings, error) {
	raw, err := t.storage.TenantSettings(t.tenantId)
	if err != nil {
		return domain.TenantSettings{}, err
	}
	return domain.SettingsWithDefaults(raw), nil
}

func (t *Tenant) SaveSettings(settings domain.TenantSettings) error {
	return t.storage.SaveTenantSettings(t.tenantId, settings)
}
