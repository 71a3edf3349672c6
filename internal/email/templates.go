package email

import (
	"bytes"
	"embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"strings"

	"github.com/BruksfildServices01/tour-booking/internal/events"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

func firstName(name string) string {
	if f := strings.Fields(name); len(f) > 0 {
		return f[0]
	}
	return name
}

func Welcome(to, name, url string) (Message, error) {
	html, err := render("welcome.html", map[string]string{"FirstName": firstName(name), "URL": url})
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      to,
		Subject: "Welcome to the Natours Family!",
		HTML:    html,
		Text:    fmt.Sprintf("Hi %s, welcome to Natours! Upload a photo on your account page: %s", firstName(name), url),
	}, nil
}

func PasswordReset(to, name, url string) (Message, error) {
	html, err := render("password_reset.html", map[string]string{"FirstName": firstName(name), "URL": url})
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      to,
		Subject: "Your password reset token (valid for only 10 minutes)",
		HTML:    html,
		Text: fmt.Sprintf("Forgot your password? Submit a PATCH request with your new password and passwordConfirm to: %s.\n"+
			"If you didn't forget your password, please ignore this email!", url),
	}, nil
}

// BookingConfirmed attaches the ticket PDF when one is given.
func BookingConfirmed(ev events.BookingConfirmed, ticketPDF []byte) (Message, error) {
	html, err := render("booking_confirmed.html", map[string]any{
		"FirstName": firstName(ev.UserName),
		"TourName":  ev.TourName,
		"Price":     fmt.Sprintf("%.2f", ev.Price),
		"BookingID": ev.BookingID.String(),
	})
	if err != nil {
		return Message{}, err
	}

	msg := Message{
		To:      ev.UserEmail,
		Subject: fmt.Sprintf("Your booking for %s is confirmed", ev.TourName),
		HTML:    html,
		Text:    fmt.Sprintf("Your booking %s for %s is confirmed.", ev.BookingID, ev.TourName),
	}
	if len(ticketPDF) > 0 {
		msg.Attachments = []Attachment{{
			Filename: fmt.Sprintf("ticket-%s.pdf", ev.BookingID),
			Content:  base64.StdEncoding.EncodeToString(ticketPDF),
		}}
	}
	return msg, nil
}
