// utils/mailer.go
package utils

import (
	"fmt"
	"os"

	"gopkg.in/gomail.v2"
)

// SendPasswordResetEmail emails a reset code to the given address
func SendPasswordResetEmail(toEmail, username, code string) error {
	subject := "Password Reset Code"
	body := fmt.Sprintf(
		"Hi %s,\n\nYour password reset code is: %s\n\nThe code expires in 15 minutes. If you did not request a reset, you can ignore this email.\n",
		username, code)

	return sendMail(toEmail, subject, body)
}

// sendMail delivers a plain-text email through the configured SMTP relay
func sendMail(toEmail, subject, body string) error {
	smtpHost := os.Getenv("SMTP_HOST")
	smtpUser := os.Getenv("SMTP_USER")
	smtpPass := os.Getenv("SMTP_PASS")
	smtpPort := 2525
	if portStr := os.Getenv("SMTP_PORT"); portStr != "" {
		fmt.Sscanf(portStr, "%d", &smtpPort)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", smtpUser)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPass)
	return d.DialAndSend(m)
}
