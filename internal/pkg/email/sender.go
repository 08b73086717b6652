package email

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/gomail.v2"
)

// SMTPSender delivers mail through gomail. Every send is bounded by the
// configured timeout; a slow SMTP server fails the send instead of stalling
// the dispatch batch.
type SMTPSender struct {
	config    Config
	templates *TemplateManager
	dialer    *gomail.Dialer
}

// NewSMTPSender creates the SMTP gateway.
func NewSMTPSender(config Config) (Sender, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid email config: %w", err)
	}

	tm, err := NewTemplateManager(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create template manager: %w", err)
	}

	dialer := gomail.NewDialer(config.SMTPHost, config.SMTPPort, config.Username, config.Password)
	dialer.SSL = !config.UseTLS && config.SMTPPort == 465

	return &SMTPSender{
		config:    config,
		templates: tm,
		dialer:    dialer,
	}, nil
}

// Send delivers one email.
func (s *SMTPSender) Send(email *Email) error {
	if len(email.To) == 0 {
		return fmt.Errorf("no recipients specified")
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.config.FromEmail, s.config.FromName)
	m.SetHeader("To", email.To...)
	m.SetHeader("Subject", email.Subject)

	if email.Body != "" {
		m.SetBody("text/plain", email.Body)
		if email.HTMLBody != "" {
			m.AddAlternative("text/html", email.HTMLBody)
		}
	} else {
		m.SetBody("text/html", email.HTMLBody)
	}

	return s.sendWithTimeout(m)
}

// SendTemplate renders the named template and sends the result.
func (s *SMTPSender) SendTemplate(to []string, subject, templateName string, data interface{}) error {
	htmlBody, err := s.templates.Render(templateName, data)
	if err != nil {
		return fmt.Errorf("failed to render template: %w", err)
	}

	email := &Email{
		To:       to,
		Subject:  subject,
		Body:     htmlToText(htmlBody),
		HTMLBody: htmlBody,
	}

	return s.Send(email)
}

// SendNotification sends a plain notification email.
func (s *SMTPSender) SendNotification(to, subject, message string) error {
	data := TemplateData{
		Subject: subject,
		Message: message,
	}

	return s.SendTemplate([]string{to}, subject, "notification", data)
}

// SendPropertyMatch sends the alert-match email.
func (s *SMTPSender) SendPropertyMatch(to, userName, propertyTitle, city, priceText, actionURL string) error {
	data := PropertyMatchData{
		TemplateData: TemplateData{
			UserName:   userName,
			Subject:    "New matching property",
			ActionURL:  actionURL,
			ActionText: "View property",
		},
		PropertyTitle: propertyTitle,
		City:          city,
		PriceText:     priceText,
	}

	return s.SendTemplate([]string{to}, "A new property matches your alert", "property_match", data)
}

// SendSubscriptionExpiring warns about an upcoming expiry.
func (s *SMTPSender) SendSubscriptionExpiring(to, userName string, daysRemaining int) error {
	data := SubscriptionData{
		TemplateData: TemplateData{
			UserName: userName,
			Subject:  "Your subscription is expiring soon",
		},
		DaysRemaining: daysRemaining,
	}

	return s.SendTemplate([]string{to}, "Your subscription is expiring soon", "subscription_expiring", data)
}

// SendSubscriptionExpired reports an expired subscription.
func (s *SMTPSender) SendSubscriptionExpired(to, userName string) error {
	data := SubscriptionData{
		TemplateData: TemplateData{
			UserName: userName,
			Subject:  "Your subscription has expired",
		},
	}

	return s.SendTemplate([]string{to}, "Your subscription has expired", "subscription_expired", data)
}

// sendWithTimeout runs DialAndSend under the configured deadline. gomail has
// no context support, so the send runs in its own goroutine and is abandoned
// on timeout.
func (s *SMTPSender) sendWithTimeout(m *gomail.Message) error {
	timeout := time.Duration(s.config.Timeout) * time.Second

	done := make(chan error, 1)
	go func() {
		done <- s.dialer.DialAndSend(m)
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(timeout):
		return fmt.Errorf("smtp send timed out after %s", timeout)
	}
}

// htmlToText produces a crude plain-text alternative from the HTML body.
func htmlToText(html string) string {
	text := strings.ReplaceAll(html, "<br/>", "\n")
	text = strings.ReplaceAll(text, "<br>", "\n")
	text = strings.ReplaceAll(text, "<p>", "\n")
	text = strings.ReplaceAll(text, "</p>", "\n")

	for {
		start := strings.Index(text, "<")
		if start == -1 {
			break
		}
		end := strings.Index(text[start:], ">")
		if end == -1 {
			break
		}
		text = text[:start] + text[start+end+1:]
	}

	return strings.TrimSpace(text)
}
