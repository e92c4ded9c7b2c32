// internal/services/notification_service.go
package services

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"

	mail "github.com/go-mail/mail/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/grantdesk/grantdesk-backend/internal/config"
	"github.com/grantdesk/grantdesk-backend/internal/models"
)

type NotificationService struct {
	db     *gorm.DB
	config *config.Config
}

func NewNotificationService(db *gorm.DB, config *config.Config) *NotificationService {
	return &NotificationService{
		db:     db,
		config: config,
	}
}

var approvedEmailTemplate = template.Must(template.New("approved").Parse(`
<p>Hi {{.Username}},</p>
<p>Your application for access to <strong>{{.PartnerName}}</strong> has been approved.</p>
<p>Your access grant runs until at least {{.ExpiryDate}}. You can review your
application at <a href="{{.ApplicationURL}}">{{.ApplicationURL}}</a>.</p>
`))

var deniedEmailTemplate = template.Must(template.New("denied").Parse(`
<p>Hi {{.Username}},</p>
<p>Unfortunately your application for access to <strong>{{.PartnerName}}</strong>
was not approved.</p>
{{if .Comments}}<p>Reviewer comments: {{.Comments}}</p>{{end}}
<p>You are welcome to apply again; see <a href="{{.ApplicationURL}}">{{.ApplicationURL}}</a>
for details.</p>
`))

func (s *NotificationService) SendApplicationApprovedEmail(application *models.Application) error {
	expiry := ""
	if application.EarliestExpiryDate != nil {
		expiry = application.EarliestExpiryDate.Format("2 January 2006")
	}

	data := map[string]interface{}{
		"Username":       application.Editor.Username,
		"PartnerName":    application.Partner.CompanyName,
		"ExpiryDate":     expiry,
		"ApplicationURL": s.config.Frontend.BaseURL + application.URLPath(),
	}

	subject := "Your access application was approved - " + application.Partner.CompanyName
	return s.sendTemplated(application.Editor.Email, subject, approvedEmailTemplate, data)
}

func (s *NotificationService) SendApplicationDeniedEmail(application *models.Application) error {
	data := map[string]interface{}{
		"Username":       application.Editor.Username,
		"PartnerName":    application.Partner.CompanyName,
		"Comments":       application.Comments,
		"ApplicationURL": s.config.Frontend.BaseURL + application.URLPath(),
	}

	subject := "Your access application was not approved - " + application.Partner.CompanyName
	return s.sendTemplated(application.Editor.Email, subject, deniedEmailTemplate, data)
}

func (s *NotificationService) sendTemplated(to, subject string, tmpl *template.Template, data map[string]interface{}) error {
	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}
	return s.sendEmail(to, subject, body.String())
}

func (s *NotificationService) sendEmail(to, subject, html string) error {
	if s.config.Email.SMTPHost == "" {
		logrus.WithFields(logrus.Fields{
			"to":      to,
			"subject": subject,
		}).Info("SMTP not configured, skipping email")
		return nil
	}

	m := mail.NewMessage()
	m.SetHeader("From", s.config.Email.FromAddress)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", html)

	d := mail.NewDialer(s.config.Email.SMTPHost, s.config.Email.SMTPPort,
		s.config.Email.SMTPUsername, s.config.Email.SMTPPassword)
	d.StartTLSPolicy = mail.MandatoryStartTLS
	d.TLSConfig = &tls.Config{
		ServerName:         s.config.Email.SMTPHost,
		InsecureSkipVerify: s.config.Email.SkipTLSVerify,
	}

	if err := d.DialAndSend(m); err != nil {
		logrus.WithError(err).WithField("to", to).Error("Failed to send email")
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
