package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldnotes-dev/fieldnotes/shared/domain"
)

type MockTenantStorageFull struct {
	MockTenantSettings     func(tenantId int64) (*domain.TenantSettings, error)
	MockSaveTenantSettings func(tenantId int64, settings domain.TenantSettings) error
}

func (m *MockTenantStorageFull) TenantSettings(tenantId int64) (*domain.TenantSettings, error) {
	if m.MockTenantSettings != nil {
		return m.MockTenantSettings(tenantId)
	}
	return nil, nil
}

func (m *MockTenantStorageFull) SaveTenantSettings(tenantId int64, settings domain.TenantSettings) error {
	if m.MockSaveTenantSettings != nil {
		return m.MockSaveTenantSettings(tenantId, settings)
	}
	return nil
}

func TestSettingsNoRowYieldsAllDefaults(t *testing.T) {
	svc := NewTenant(&MockTenantStorageFull{}, 1)

	settings, err := svc.Settings()
	require.NoError(t, err)

	assert.Equal(t, domain.TenantSettings{
		SiteName:       domain.DefaultSiteName,
		SiteURL:        domain.DefaultSiteURL,
		MessageSignoff: domain.DefaultMessageSignoff,
		SenderEmail:    domain.DefaultSenderEmail,
		LogoURL:        domain.DefaultLogoURL,
	}, settings)
}

func TestSettingsPartialRowFallsBackPerField(t *testing.T) {
	svc := NewTenant(&MockTenantStorageFull{
		MockTenantSettings: func(tenantId int64) (*domain.TenantSettings, error) {
			return &domain.TenantSettings{SiteName: "Ocean Lab", SenderEmail: "hello@oceanlab.org"}, nil
		},
	}, 1)

	settings, err := svc.Settings()
	require.NoError(t, err)

	assert.Equal(t, "Ocean Lab", settings.SiteName)
	assert.Equal(t, "hello@oceanlab.org", settings.SenderEmail)
	assert.Equal(t, domain.DefaultSiteURL, settings.SiteURL)
	assert.Equal(t, domain.DefaultMessageSignoff, settings.MessageSignoff)
	assert.Equal(t, domain.DefaultLogoURL, settings.LogoURL)
}
