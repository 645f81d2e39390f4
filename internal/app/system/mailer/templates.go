// internal/app/system/mailer/templates.go
package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

// VerificationEmailData holds data for the account verification email.
type VerificationEmailData struct {
	SiteName   string
	VerifyLink string
	ExpiresIn  string // e.g., "24 hours"
}

// BuildVerificationEmail creates the account verification email with both
// HTML and text bodies. The caller sets To.
func BuildVerificationEmail(data VerificationEmailData) Email {
	return Email{
		Subject:  fmt.Sprintf("Verify your %s account", data.SiteName),
		TextBody: buildVerificationText(data),
		HTMLBody: buildLinkHTML(data.SiteName, "Verify your account", "Verify Account", data.VerifyLink, data.ExpiresIn),
	}
}

// ResetEmailData holds data for the password reset email.
type ResetEmailData struct {
	SiteName  string
	ResetLink string
	ExpiresIn string
}

// BuildResetEmail creates the password reset email.
func BuildResetEmail(data ResetEmailData) Email {
	return Email{
		Subject:  fmt.Sprintf("Reset your %s password", data.SiteName),
		TextBody: buildResetText(data),
		HTMLBody: buildLinkHTML(data.SiteName, "Reset your password", "Reset Password", data.ResetLink, data.ExpiresIn),
	}
}

func buildVerificationText(data VerificationEmailData) string {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("Welcome to %s!\n\n", data.SiteName))
	buf.WriteString("Click this link to verify your account and set your password:\n")
	buf.WriteString(data.VerifyLink + "\n\n")
	buf.WriteString(fmt.Sprintf("This link expires in %s.\n\n", data.ExpiresIn))
	buf.WriteString("If you did not create this account, you can safely ignore this email.\n")
	return buf.String()
}

func buildResetText(data ResetEmailData) string {
	var buf bytes.Buffer
	buf.WriteString("Click this link to reset your password:\n")
	buf.WriteString(data.ResetLink + "\n\n")
	buf.WriteString(fmt.Sprintf("This link expires in %s.\n\n", data.ExpiresIn))
	buf.WriteString("If you did not request a reset, you can safely ignore this email.\n")
	return buf.String()
}

type linkEmailData struct {
	SiteName string
	Heading  string
	Button   string
	Link     string
	Expires  string
}

func buildLinkHTML(site, heading, button, link, expires string) string {
	tmpl := template.Must(template.New("link").Parse(linkHTMLTemplate))
	var buf bytes.Buffer
	_ = tmpl.Execute(&buf, linkEmailData{
		SiteName: site,
		Heading:  heading,
		Button:   button,
		Link:     link,
		Expires:  expires,
	})
	return buf.String()
}

const linkHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Heading}}</title>
</head>
<body style="margin: 0; padding: 0; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif; background-color: #f3f4f6;">
  <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="background-color: #f3f4f6;">
    <tr>
      <td align="center" style="padding: 40px 20px;">
        <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="max-width: 480px; background-color: #ffffff; border-radius: 8px;">
          <tr>
            <td style="padding: 32px 32px 24px; text-align: center; border-bottom: 1px solid #e5e7eb;">
              <h1 style="margin: 0; font-size: 24px; font-weight: 600; color: #4f46e5;">{{.SiteName}}</h1>
            </td>
          </tr>
          <tr>
            <td style="padding: 32px;">
              <p style="margin: 0 0 24px; font-size: 16px; color: #374151; line-height: 1.5;">{{.Heading}}:</p>
              <p style="text-align: center; margin: 0 0 24px;">
                <a href="{{.Link}}" style="display: inline-block; background-color: #4f46e5; color: #ffffff; font-size: 16px; font-weight: 600; text-decoration: none; padding: 12px 32px; border-radius: 6px;">{{.Button}}</a>
              </p>
              <p style="margin: 0; font-size: 14px; color: #6b7280; text-align: center;">This link expires in {{.Expires}}.</p>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`
