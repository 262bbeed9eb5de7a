package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"
	texttemplate "text/template"

	"hotel-concierge-platform/internal/config"
	"hotel-concierge-platform/models"
)

// Mailer delivers tenant email templates and operator alerts over SMTP.
type Mailer struct {
	config *config.Config
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{config: cfg}
}

// SendTemplate renders a stored email template against its field set and
// sends it to one recipient.
func (m *Mailer) SendTemplate(ctx context.Context, tmpl models.EmailTemplate, recipient string) error {
	subject, htmlBody, textBody, err := RenderEmailTemplate(tmpl)
	if err != nil {
		return fmt.Errorf("render template %q: %w", tmpl.Name, err)
	}
	return m.send([]string{recipient}, subject, htmlBody, textBody)
}

// SendOperatorAlert mails the configured platform admins.
func (m *Mailer) SendOperatorAlert(subject, body string) error {
	recipients := make([]string, 0, len(m.config.AdminEmails))
	for _, addr := range m.config.AdminEmails {
		if strings.TrimSpace(addr) != "" {
			recipients = append(recipients, strings.TrimSpace(addr))
		}
	}
	if len(recipients) == 0 {
		return fmt.Errorf("no admin emails configured")
	}
	return m.send(recipients, subject, "<html><body><p>"+template.HTMLEscapeString(body)+"</p></body></html>", body)
}

// RenderEmailTemplate executes a tenant template's subject, HTML and text
// bodies against its template fields. HTML goes through html/template so
// field values are escaped; the text body stays plain.
func RenderEmailTemplate(tmpl models.EmailTemplate) (subject, htmlBody, textBody string, err error) {
	data := tmpl.TemplateFields

	subjectT, err := texttemplate.New("subject").Parse(tmpl.Subject)
	if err != nil {
		return "", "", "", fmt.Errorf("parse subject: %w", err)
	}
	htmlT, err := template.New("html").Parse(tmpl.HTMLBody)
	if err != nil {
		return "", "", "", fmt.Errorf("parse html body: %w", err)
	}
	textT, err := texttemplate.New("text").Parse(tmpl.TextBody)
	if err != nil {
		return "", "", "", fmt.Errorf("parse text body: %w", err)
	}

	var subjectBuf, htmlBuf, textBuf bytes.Buffer
	if err := subjectT.Execute(&subjectBuf, data); err != nil {
		return "", "", "", err
	}
	if err := htmlT.Execute(&htmlBuf, data); err != nil {
		return "", "", "", err
	}
	if err := textT.Execute(&textBuf, data); err != nil {
		return "", "", "", err
	}

	return subjectBuf.String(), htmlBuf.String(), textBuf.String(), nil
}

func (m *Mailer) send(recipients []string, subject, htmlBody, textBody string) error {
	if m.config.SMTPHost == "" {
		return fmt.Errorf("SMTP_HOST not configured")
	}

	auth := smtp.PlainAuth("", m.config.SMTPUser, m.config.SMTPPass, m.config.SMTPHost)

	message := fmt.Sprintf(`From: %s
To: %s
Subject: %s
MIME-Version: 1.0
Content-Type: multipart/alternative; boundary="boundary123"

--boundary123
Content-Type: text/plain; charset=UTF-8

%s

--boundary123
Content-Type: text/html; charset=UTF-8

%s

--boundary123--`,
		m.config.SMTPFrom,
		strings.Join(recipients, ", "),
		subject,
		textBody,
		htmlBody)

	addr := fmt.Sprintf("%s:%s", m.config.SMTPHost, m.config.SMTPPort)
	return smtp.SendMail(addr, auth, m.config.SMTPFrom, recipients, []byte(message))
}
