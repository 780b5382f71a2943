package mailer

import (
	"fmt"
	"html"
	"strings"

	"intituas-ai-be/internal/entity"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendContactNotification(toEmail string, contact *entity.Contact) error
	SendWelcome(toEmail string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	senderName  string
}

// NewEmailService returns a no-op sender when host is empty so local setups
// work without SMTP.
func NewEmailService(host string, port int, username, password, senderEmail, senderName string) IEmailService {
	if host == "" {
		return nopEmailService{}
	}
	return &emailService{
		dialer:      gomail.NewDialer(host, port, username, password),
		senderEmail: senderEmail,
		senderName:  senderName,
	}
}

func (s *emailService) newMessage(toEmail, subject string) *gomail.Message {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.senderEmail, s.senderName)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", subject)
	return m
}

func (s *emailService) SendContactNotification(toEmail string, contact *entity.Contact) error {
	m := s.newMessage(toEmail, fmt.Sprintf("New contact message from %s", contact.Name))
	m.SetHeader("Reply-To", contact.Email)
	m.SetBody("text/html", contactBody(contact))

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send contact notification: %w", err)
	}
	return nil
}

func (s *emailService) SendWelcome(toEmail string) error {
	m := s.newMessage(toEmail, "Welcome to Intituas AI")
	m.SetBody("text/html", `
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Welcome to Intituas AI!</h2>
			<p>Paste a document, ask a question, and get an answer with its sources.</p>
			<p>Your five most recent searches are kept on your dashboard.</p>
		</div>
	`)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send welcome: %w", err)
	}
	return nil
}

// contactBody escapes every submitted field; the form is public.
func contactBody(c *entity.Contact) string {
	message := strings.ReplaceAll(html.EscapeString(c.Message), "\n", "<br>")
	return fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>New contact message</h2>
			<p><strong>Name:</strong> %s</p>
			<p><strong>Email:</strong> %s</p>
			<p><strong>Received:</strong> %s</p>
			<p>%s</p>
		</div>
	`, html.EscapeString(c.Name), html.EscapeString(c.Email), c.CreatedAt.Format("2006-01-02 15:04 MST"), message)
}

type nopEmailService struct{}

func (nopEmailService) SendContactNotification(string, *entity.Contact) error { return nil }
func (nopEmailService) SendWelcome(string) error                              { return nil }
