package domain

// TenantSettings is per-deployment branding. A deployment without a
// settings row falls back to the documented defaults, applied
// field-by-field by SettingsWithDefaults.
type TenantSettings struct {
	SiteName       string
	SiteURL        string
	MessageSignoff string
	SenderEmail    string
	LogoURL        string
}

const (
	DefaultSiteName       = "Fieldnotes"
	DefaultSiteURL        = "https://fieldnotes.example.org"
	DefaultMessageSignoff = "— the Fieldnotes team"
	DefaultSenderEmail    = "no-reply@fieldnotes.example.org"
	DefaultLogoURL        = "https://fieldnotes.example.org/static/logo.png"
)

// SettingsWithDefaults maps a raw settings row (or nil when the tenant
// has none) to a fully-populated TenantSettings. Pure: no I/O, each
// empty field independently falls back to its default.
func SettingsWithDefaults(raw *TenantSettings) TenantSettings {
	s := TenantSettings{}
	if raw != nil {
		s = *raw
	}
	if s.SiteName == "" {
		s.SiteName = DefaultSiteName
	}
	if s.SiteURL == "" {
		s.SiteURL = DefaultSiteURL
	}
	if s.MessageSignoff == "" {
		s.MessageSignoff = DefaultMessageSignoff
	}
	if s.SenderEmail == "" {
		s.SenderEmail = DefaultSenderEmail
	}
	if s.LogoURL == "" {
		s.LogoURL = DefaultLogoURL
	}
	return s
}
