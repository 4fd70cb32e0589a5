package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"net/url"
	"strings"
	"time"
)

const (
	welcomeSubject = "Welcome to GPA Tracker!"
	resetSubject   = "GPA Tracker Password Reset"
)

var welcomeTmpl = template.Must(template.New("welcome").Parse(`<div style="font-family: Arial; max-width: 600px; margin: 0 auto;">
  <h1>Thank you for registering to GPA Tracker, {{.UserName}}!</h1>
  <h4>Where tracking class grades and GPA becomes a breeze.</h4>
  <p>Click the button below to get started!</p>
  <a href="{{.DashboardURL}}" style="display: inline-block; background: linear-gradient(135deg, #2563eb 0%, #059669 100%); color: white; border-radius: 4px;">Get Started!</a>
</div>`))

var resetTmpl = template.Must(template.New("reset").Parse(`<div style="font-family: Arial; max-width: 600px; margin: 0 auto;">
  <h2>Password Reset Request</h2>
  <p>Click the button below to reset your password:</p>
  <a href="{{.ResetURL}}" style="display: inline-block; background: linear-gradient(135deg, #2563eb 0%, #059669 100%); color: white; border-radius: 4px;">Reset Password</a>
  <p>Or copy and paste this URL</p>
  <p style="word-break: break-all;">{{.ResetURL}}</p>
  <p><strong>This link will expire in {{.ValidFor}}.</strong></p>
  <p>If you didn't make this request, you can safely ignore this email.</p>
</div>`))

// Composer renders account emails with links into the frontend.
type Composer struct {
	frontendURL string
}

func NewComposer(frontendURL string) *Composer {
	return &Composer{frontendURL: strings.TrimRight(frontendURL, "/")}
}

func (c *Composer) Welcome(to, userName string) (Message, error) {
	var buf bytes.Buffer
	err := welcomeTmpl.Execute(&buf, struct {
		UserName     string
		DashboardURL string
	}{userName, c.frontendURL + "/dashboard"})
	if err != nil {
		return Message{}, err
	}
	return Message{To: to, Subject: welcomeSubject, HTML: buf.String()}, nil
}

func (c *Composer) PasswordReset(to, token string, validFor time.Duration) (Message, error) {
	var buf bytes.Buffer
	err := resetTmpl.Execute(&buf, struct {
		ResetURL string
		ValidFor string
	}{c.ResetURL(token), humanDuration(validFor)})
	if err != nil {
		return Message{}, err
	}
	return Message{To: to, Subject: resetSubject, HTML: buf.String()}, nil
}

// ResetURL is the frontend link carrying the reset token.
func (c *Composer) ResetURL(token string) string {
	return c.frontendURL + "/reset-password?token=" + url.QueryEscape(token)
}

func humanDuration(d time.Duration) string {
	switch {
	case d == time.Hour:
		return "1 hour"
	case d > 0 && d%time.Hour == 0:
		return fmt.Sprintf("%d hours", int(d/time.Hour))
	case d > 0 && d%time.Minute == 0:
		return fmt.Sprintf("%d minutes", int(d/time.Minute))
	default:
		return d.String()
	}
}
