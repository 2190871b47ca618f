package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendCriticalTicketAlert(toEmail, ticketId, category, severity, sessionKey string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
}

func NewEmailService(host string, port int, username, password, senderEmail string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
	}
}

// SendCriticalTicketAlert notifies the on-call inbox about a CRITICAL ticket.
func (s *emailService) SendCriticalTicketAlert(toEmail, ticketId, category, severity, sessionKey string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", fmt.Sprintf("[%s] Help desk ticket %s", severity, ticketId))

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>New %s ticket</h2>
			<p><strong>Ticket:</strong> %s</p>
			<p><strong>Category:</strong> %s</p>
			<p><strong>Session:</strong> %s</p>
			<p>This ticket was escalated automatically by the help desk pipeline.</p>
		</div>
	`, severity, ticketId, category, sessionKey)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send ticket alert to %s: %v\n", toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] Ticket alert sent to %s\n", toEmail)
	return nil
}
