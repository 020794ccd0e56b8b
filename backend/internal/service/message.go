package service

import (
	"fmt"
	"net/http"
	"time"

	"github.com/fieldnotes-dev/fieldnotes/shared/config"
	"github.com/fieldnotes-dev/fieldnotes/shared/domain"
	"github.com/fieldnotes-dev/fieldnotes/shared/errors"
)

// SpamProtectionMessage is the user-facing 429 body when a sender hits
// the rolling 24h cap.
const SpamProtectionMessage = "You've hit the daily message limit. To protect our community from spam, messages are limited to 20 per day."

const messageWindow = 24 * time.Hour

type MessageService interface {
	Send(sender *domain.User, data domain.MessageCreationData) error
}

type Message struct {
	profiles ProfileStorage
	messages MessageStorage
	tenants  TenantSettingsStorage
	email    EmailSender
	text     TextValidator
	cfg      *config.Public
	now      func() time.Time
}

type ProfileStorage interface {
	ProfileByUsername(username string) (domain.Profile, error)
	EmailByLegacyId(legacyId string) (domain.Email, error)
	EmailByUsername(username string) (domain.Email, error)
}

type MessageStorage interface {
	CreateMessage(msg domain.Message) (domain.MsgId, error)
	CountSentSince(senderId domain.ProfileId, since time.Time) (int, error)
}

type TenantSettingsStorage interface {
	TenantSettings(tenantId int64) (*domain.TenantSettings, error)
}

type EmailSender interface {
	SendFrom(fromName, fromAddr, recipient, subject, body string) error
}

// TextValidator bounds the message body before anything is resolved or
// persisted.
type TextValidator interface {
	Text(text string) error
}

func NewMessage(profiles ProfileStorage, messages MessageStorage, tenants TenantSettingsStorage, email EmailSender, text TextValidator, cfg *config.Public) *Message {
	return &Message{
		profiles: profiles,
		messages: messages,
		tenants:  tenants,
		email:    email,
		text:     text,
		cfg:      cfg,
		now:      time.Now,
	}
}

// Send runs the full message flow: resolve sender and recipient, enforce
// the rolling 24h cap, persist, then notify by email with the tenant's
// branding.
//
// Two deliberate gaps, kept as-is from the original product decision:
// the count check and the insert are not transactionally guarded, so two
// concurrent sends at the cap boundary can both pass; and a failed email
// does not roll back the already-inserted row (caller sees 429, message
// stays).
//
// Storage failures are wrapped as plain errors so the handler reports
// them as a generic 500 rather than leaking repository status codes.
func (m *Message) Send(sender *domain.User, data domain.MessageCreationData) error {
	if err := m.text.Text(data.Text); err != nil {
		return err
	}

	senderProfile, err := m.profiles.ProfileByUsername(sender.Username)
	if err != nil {
		return fmt.Errorf("failed to resolve sender profile: %w", err)
	}

	recipient, err := m.profiles.ProfileByUsername(data.To)
	if err != nil {
		return fmt.Errorf("failed to resolve recipient profile: %w", err)
	}

	cutoff := m.now().Add(-messageWindow)
	count, err := m.messages.CountSentSince(senderProfile.Id, cutoff)
	if err != nil {
		return fmt.Errorf("failed to count recent messages: %w", err)
	}
	if count >= m.cfg.DailyMessageLimit {
		// Expected user-facing condition, nothing persisted
		return &errors.ErrorWithStatusCode{Message: SpamProtectionMessage, StatusCode: http.StatusTooManyRequests}
	}

	if _, err := m.messages.CreateMessage(domain.Message{
		SenderId:   senderProfile.Id,
		ReceiverId: recipient.Id,
		Text:       data.Text,
		TenantId:   m.cfg.TenantId,
	}); err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}

	raw, err := m.tenants.TenantSettings(m.cfg.TenantId)
	if err != nil {
		return fmt.Errorf("failed to load tenant settings: %w", err)
	}
	settings := domain.SettingsWithDefaults(raw)

	recipientEmail, err := m.recipientEmail(recipient)
	if err != nil {
		return fmt.Errorf("failed to resolve recipient email: %w", err)
	}

	subject := fmt.Sprintf("New message on %s", settings.SiteName)
	body := notificationBody(sender.Username, data.DisplayName, recipient.Username, data.Text, settings)
	if err := m.email.SendFrom(settings.SiteName, settings.SenderEmail, recipientEmail, subject, body); err != nil {
		// The message row is already committed at this point
		return &errors.ErrorWithStatusCode{Message: err.Error(), StatusCode: http.StatusTooManyRequests}
	}

	return nil
}

// recipientEmail prefers the legacy-id lookup for accounts that predate
// the identity migration.
func (m *Message) recipientEmail(recipient domain.Profile) (domain.Email, error) {
	if recipient.LegacyAuthId != nil {
		return m.profiles.EmailByLegacyId(*recipient.LegacyAuthId)
	}
	return m.profiles.EmailByUsername(recipient.Username)
}

func notificationBody(senderUsername, displayName, recipientUsername, text string, s domain.TenantSettings) string {
	from := senderUsername
	if displayName != "" {
		from = fmt.Sprintf("%s (@%s)", displayName, senderUsername)
	}

	return fmt.Sprintf(`Hi %s,

%s sent you a message on %s:

%s

Reply at %s/messages/%s

%s
%s`,
		recipientUsername, from, s.SiteName, text, s.SiteURL, senderUsername, s.MessageSignoff, s.LogoURL)
}
