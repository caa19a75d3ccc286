// Package mail sends login OTP emails over SMTP.
package mail

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// Sender delivers a login OTP to an email address. Implementations must not
// log the OTP.
type Sender interface {
	SendLoginOTP(toEmail, otp string) error
}

// SMTPSender sends OTP emails via an SMTP server using gomail.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPSender returns a Sender that dials the given SMTP server for every send.
func NewSMTPSender(host string, port int, user, password, from string) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(host, port, user, password),
		from:   from,
	}
}

// SendLoginOTP emails the OTP. Returns an error if the SMTP dial or send fails;
// the caller translates that into its delivery-unavailable outcome.
func (s *SMTPSender) SendLoginOTP(toEmail, otp string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "Your ReactiQuiz login code")

	body := fmt.Sprintf(`
		<h3>Login verification</h3>
		<p>Your one-time login code is: <strong>%s</strong></p>
		<p>It expires in 10 minutes. If you did not try to log in, you can ignore this email.</p>
	`, otp)
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send login OTP email: %w", err)
	}
	return nil
}
