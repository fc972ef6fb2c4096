package services

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"log"
	"meetings_app_go/config"
	"strings"
	texttemplate "text/template"

	"github.com/resend/resend-go/v2"
)

//go:embed templates/emails/*
var emailTemplates embed.FS

// Email represents an email message
type Email struct {
	To       []string
	Subject  string
	HTMLBody string
	TextBody string
}

// loadTemplate renders templates/emails/<name>.html and <name>.txt with data
func loadTemplate(templateName string, data interface{}) (html string, text string, err error) {
	htmlPath := "templates/emails/" + templateName + ".html"
	htmlTmpl, err := htmltemplate.ParseFS(emailTemplates, htmlPath)
	if err != nil {
		return "", "", fmt.Errorf("failed to parse template %s: %v", htmlPath, err)
	}
	var htmlBuf bytes.Buffer
	if err := htmlTmpl.Execute(&htmlBuf, data); err != nil {
		return "", "", fmt.Errorf("failed to execute template %s: %v", htmlPath, err)
	}

	textPath := "templates/emails/" + templateName + ".txt"
	textTmpl, err := texttemplate.ParseFS(emailTemplates, textPath)
	if err != nil {
		return "", "", fmt.Errorf("failed to parse template %s: %v", textPath, err)
	}
	var textBuf bytes.Buffer
	if err := textTmpl.Execute(&textBuf, data); err != nil {
		return "", "", fmt.Errorf("failed to execute template %s: %v", textPath, err)
	}

	return htmlBuf.String(), textBuf.String(), nil
}

// buildEmail renders a template pair into an email for one recipient.
// A template that fails to render is logged and leaves the bodies empty,
// which SendEmail then refuses.
func buildEmail(templateName, subject string, data interface{}, toEmail string) *Email {
	htmlBody, textBody, err := loadTemplate(templateName, data)
	if err != nil {
		log.Printf("Error loading %s email template: %v", templateName, err)
	}

	return &Email{
		To:       []string{toEmail},
		Subject:  subject,
		HTMLBody: htmlBody,
		TextBody: textBody,
	}
}

// SendEmail sends an email using Resend API
func SendEmail(cfg *config.Config, email *Email) error {
	// In development mode, log the email instead of sending
	if cfg.EmailTestMode {
		logEmailToConsole(email)
		return nil
	}

	if cfg.ResendAPIKey == "" {
		return fmt.Errorf("RESEND_API_KEY not configured")
	}

	client := resend.NewClient(cfg.ResendAPIKey)

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", cfg.EmailFromName, cfg.EmailFrom),
		To:      email.To,
		Subject: email.Subject,
		Html:    email.HTMLBody,
		Text:    email.TextBody,
	}

	if params.Html == "" && params.Text == "" {
		return fmt.Errorf("email must have either HTMLBody or TextBody")
	}

	sent, err := client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("failed to send email via Resend: %v", err)
	}

	log.Printf("Email sent successfully via Resend (ID: %s) to: %v", sent.Id, email.To)
	return nil
}

// logEmailToConsole logs email details to console in development mode
func logEmailToConsole(email *Email) {
	separator := strings.Repeat("=", 80)
	log.Printf("\n%s\nEMAIL (test mode, not sent)\n%s", separator, separator)
	log.Printf("To: %v", email.To)
	log.Printf("Subject: %s", email.Subject)
	log.Printf("\n--- TEXT BODY ---\n%s", email.TextBody)
	log.Printf("\n--- HTML BODY (first 500 chars) ---\n%s...", truncate(email.HTMLBody, 500))
	log.Printf("%s\n", separator)
}

// truncate truncates a string to a maximum length
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}

// SendEmailAsync sends an email from a goroutine so handlers do not block on Resend
func SendEmailAsync(cfg *config.Config, email *Email) {
	emailCopy := &Email{
		To:       append([]string{}, email.To...),
		Subject:  email.Subject,
		HTMLBody: email.HTMLBody,
		TextBody: email.TextBody,
	}

	go func(cfg *config.Config, email *Email) {
		if err := SendEmail(cfg, email); err != nil {
			log.Printf("Error sending async email: %v", err)
		}
	}(cfg, emailCopy)
}

// WelcomeEmailData contains data for the welcome email template
type WelcomeEmailData struct {
	UserName string
	AppURL   string
}

// BuildWelcomeEmail creates a welcome email for newly registered users
func BuildWelcomeEmail(userEmail, userName, appURL string) *Email {
	return buildEmail("welcome", "Welcome to Meetings", WelcomeEmailData{
		UserName: userName,
		AppURL:   appURL,
	}, userEmail)
}

// MeetingEmailData contains data for the meeting scheduled and reminder templates.
// Date and Time are already in display form.
type MeetingEmailData struct {
	UserName    string
	Agenda      string
	Description string
	Date        string
	Time        string
	Status      string
	MeetingURL  string
}

// BuildMeetingScheduledEmail confirms a newly created meeting to its owner
func BuildMeetingScheduledEmail(userEmail string, data MeetingEmailData) *Email {
	subject := fmt.Sprintf("Meeting scheduled: %s", data.Agenda)
	return buildEmail("meeting_scheduled", subject, data, userEmail)
}

// BuildMeetingReminderEmail reminds an owner of tomorrow's meeting
func BuildMeetingReminderEmail(userEmail string, data MeetingEmailData) *Email {
	subject := fmt.Sprintf("Reminder: %s at %s", data.Agenda, data.Time)
	return buildEmail("meeting_reminder", subject, data, userEmail)
}
