package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"gopkg.in/gomail.v2"
)

// tokenSecret signs the confirmation and password-reset links. Tokens carry
// no server-side state; the address and timestamp are their own payload.
const tokenSecret = "3mb3rv3!l_t0ken&"

// EmailService delivers account mail over SMTP. Handlers call it from a
// goroutine since DialAndSend blocks for the whole SMTP exchange.
type EmailService struct {
	SMTPHost string
	SMTPPort int
	Username string
	Password string
	From     string
}

func NewEmailService(host string, port int, username, password string, from string) *EmailService {
	return &EmailService{
		SMTPHost: host,
		SMTPPort: port,
		Username: username,
		Password: password,
		From:     from,
	}
}

func (e *EmailService) SendEmail(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", e.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	dialer := gomail.NewDialer(e.SMTPHost, e.SMTPPort, e.Username, e.Password)
	dialer.SSL = true

	return dialer.DialAndSend(msg)
}

// GenerateToken produces the HMAC tying an email address to the moment the
// link was issued; Confirm checks the timestamp separately for expiry.
func GenerateToken(email string, timestamp int64) string {
	payload := fmt.Sprintf("%s:%d", email, timestamp)
	h := hmac.New(sha256.New, []byte(tokenSecret))
	h.Write([]byte(payload))
	return hex.EncodeToString(h.Sum(nil))
}

func ValidateToken(email, token string, timestamp int64) bool {
	expected := GenerateToken(email, timestamp)
	return hmac.Equal([]byte(expected), []byte(token))
}
