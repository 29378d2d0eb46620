package mailer

import (
	"fmt"
	"os"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendJobCompleted(toEmail, sessionName, sessionId string) error
	SendJobFailed(toEmail, sessionName, errorMessage string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	frontendURL string // used to construct workspace links
}

func NewEmailService(host string, port int, username, password, senderEmail string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	frontendURL := os.Getenv("FRONTEND_URL")

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
		frontendURL: frontendURL,
	}
}

func (s *emailService) SendJobCompleted(toEmail, sessionName, sessionId string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "Your messaging assets are ready")

	sessionLink := fmt.Sprintf("%s/sessions/%s", s.frontendURL, sessionId)

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Generation finished</h2>
			<p>Your session <strong>%s</strong> has finished generating. Every asset has been scored and is ready for review.</p>
			<a href="%s" style="background-color: #007BFF; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; display: inline-block;">Open workspace</a>
			<p>Or copy this link:</p>
			<p>%s</p>
		</div>
	`, sessionName, sessionLink, sessionLink)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send completion mail to %s: %v\n", toEmail, err)
		return err
	}

	return nil
}

func (s *emailService) SendJobFailed(toEmail, sessionName, errorMessage string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "Generation failed")

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Generation failed</h2>
			<p>Your session <strong>%s</strong> could not finish generating.</p>
			<p style="color: #B00020;">%s</p>
			<p>You can retry the generation from your workspace; your inputs were kept.</p>
		</div>
	`, sessionName, errorMessage)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send failure mail to %s: %v\n", toEmail, err)
		return err
	}

	return nil
}
