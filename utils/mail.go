package utils

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/smtp"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

var orderTemplate = template.Must(template.ParseFS(templateFS, "templates/order_placed.html"))

type MailConfig struct {
	From     string
	Password string
	SMTPHost string
	// Address is host:port of the SMTP server.
	Address string
}

type OrderEmailLine struct {
	Name        string
	Ingredients []string
	Quantity    int
	Total       string
}

type OrderEmailData struct {
	PlacedAt time.Time
	Lines    []OrderEmailLine
	Total    string
}

func RenderOrderEmail(data OrderEmailData) (string, error) {
	var body bytes.Buffer
	if err := orderTemplate.Execute(&body, data); err != nil {
		return "", fmt.Errorf("template execution error: %w", err)
	}
	return body.String(), nil
}

// SendOrderEmail mails the summary of a placed order to the kitchen.
func SendOrderEmail(cfg MailConfig, emailTo string, data OrderEmailData) error {
	body, err := RenderOrderEmail(data)
	if err != nil {
		return err
	}

	message := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-version: 1.0;\r\nContent-Type: text/html; charset=\"UTF-8\";\r\n\r\n%s",
		cfg.From,
		emailTo,
		"New order",
		body,
	)

	auth := smtp.PlainAuth("", cfg.From, cfg.Password, cfg.SMTPHost)
	if err := smtp.SendMail(cfg.Address, auth, cfg.From, []string{emailTo}, []byte(message)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
