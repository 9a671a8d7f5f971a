package model

import (
	"strings"
	"time"
)

// EmailTemplate is an admin-console template. The set lives in process
// memory only; edits are lost on restart.
type EmailTemplate struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"` // HTML with {{variable}} placeholders
	Variables []string  `json:"variables"`
	Bulk      bool      `json:"bulk"` // eligible for mass-send workflows
	UpdatedAt time.Time `json:"updated_at"`
}

// Render substitutes every {{key}} occurrence in subject and body with the
// supplied value (global, case-sensitive, exact key). Unresolved placeholders
// are left verbatim: substitution fails open.
func (t *EmailTemplate) Render(vars map[string]string) (subject, body string) {
	subject, body = t.Subject, t.Body
	for key, value := range vars {
		token := "{{" + key + "}}"
		subject = strings.ReplaceAll(subject, token, value)
		body = strings.ReplaceAll(body, token, value)
	}
	return subject, body
}

// SeedTemplates is the fixed set present at process start.
func SeedTemplates() []*EmailTemplate {
	now := time.Now()
	return []*EmailTemplate{
		{
			ID:      1,
			Name:    "Welcome",
			Subject: "Welcome to your {{challenge}} challenge, {{firstName}}",
			Body: `<html><body style="font-family:Arial,sans-serif">` +
				`<h2>You're in, {{firstName}}!</h2>` +
				`<p>Your {{challenge}} challenge ({{accountSize}}) is being provisioned. ` +
				`Credentials for your {{platform}} account will follow shortly.</p>` +
				`<p>Trade well,<br/>The Funding Desk</p></body></html>`,
			Variables: []string{"firstName", "challenge", "accountSize", "platform"},
			UpdatedAt: now,
		},
		{
			ID:      2,
			Name:    "Credentials",
			Subject: "Your {{platform}} credentials are ready",
			Body: `<html><body style="font-family:Arial,sans-serif">` +
				`<p>Hi {{firstName}},</p>` +
				`<p>Login: <b>{{login}}</b><br/>Server: <b>{{server}}</b></p>` +
				`<p>Your password was sent separately. Good luck on the {{accountSize}} account.</p>` +
				`</body></html>`,
			Variables: []string{"firstName", "platform", "login", "server", "accountSize"},
			UpdatedAt: now,
		},
		{
			ID:      3,
			Name:    "Reset Confirmation",
			Subject: "Your challenge reset is confirmed",
			Body: `<html><body style="font-family:Arial,sans-serif">` +
				`<p>Hi {{firstName}},</p>` +
				`<p>Your {{challenge}} challenge has been reset. Fresh start, same rules.</p>` +
				`</body></html>`,
			Variables: []string{"firstName", "challenge"},
			UpdatedAt: now,
		},
		{
			ID:      4,
			Name:    "NYE Campaign",
			Subject: "{{firstName}}, your New Year funding offer expires soon",
			Body: `<html><body style="font-family:Arial,sans-serif">` +
				`<h2>Last call, {{firstName}}</h2>` +
				`<p>Activate your discounted {{challenge}} challenge before the offer closes. ` +
				`Use code <b>{{promoCode}}</b> at checkout.</p>` +
				`</body></html>`,
			Variables: []string{"firstName", "challenge", "promoCode"},
			Bulk:      true,
			UpdatedAt: now,
		},
		{
			ID:      5,
			Name:    "Gauntlet Announcement",
			Subject: "The Gauntlet is open",
			Body: `<html><body style="font-family:Arial,sans-serif">` +
				`<p>Hi {{firstName}},</p>` +
				`<p>The Gauntlet tier you asked about is live. 90% split, three phases, no time limit.</p>` +
				`</body></html>`,
			Variables: []string{"firstName"},
			Bulk:      true,
			UpdatedAt: now,
		},
	}
}
