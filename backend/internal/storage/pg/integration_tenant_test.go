package pg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldnotes-dev/fieldnotes/shared/domain"
)

func TestTenantSettingsNoRow(t *testing.T) {
	settings, err := storage.TenantSettings(424242)
	require.NoError(t, err, "a missing row is not an error")
	assert.Nil(t, settings)
}

func TestTenantSettingsRoundTrip(t *testing.T) {
	want := domain.TenantSettings{
		SiteName:       "Ocean Lab",
		SiteURL:        "https://oceanlab.org",
		MessageSignoff: "— Ocean Lab",
		SenderEmail:    "no-reply@oceanlab.org",
		LogoURL:        "https://oceanlab.org/logo.png",
	}
	require.NoError(t, storage.SaveTenantSettings(7, want))

	got, err := storage.TenantSettings(7)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want, *got)

	// saving again overwrites in place
	want.SiteName = "Ocean Lab v2"
	require.NoError(t, storage.SaveTenantSettings(7, want))

	got, err = storage.TenantSettings(7)
	require.NoError(t, err)
	assert.Equal(t, "Ocean Lab v2", got.SiteName)
}
