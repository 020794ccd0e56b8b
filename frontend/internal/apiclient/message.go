package apiclient

import (
	"net/http"
	"net/url"
	"strings"
)

// SendMessage posts the form-encoded message endpoint. The backend owns
// the full validation sequence; any non-201 body is surfaced verbatim.
func (c *APIClient) SendMessage(r *http.Request, to, text, displayName string) error {
	form := url.Values{"to": {to}, "message": {text}}
	if displayName != "" {
		form.Set("name", displayName)
	}

	resp, err := c.do("POST", "/v1/messages", "application/x-www-form-urlencoded", strings.NewReader(form.Encode()), r.Cookies()...)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return errorFromResponse("send message", resp)
	}
	return nil
}
