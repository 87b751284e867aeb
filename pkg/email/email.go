package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"log"
	"net/http"
	"time"

	"stayhere_backend/pkg/events"
)

const resendEndpoint = "https://api.resend.com/emails"

type EmailService struct {
	apiKey     string
	from       string
	endpoint   string
	httpClient *http.Client
	templates  *template.Template
}

type EmailData struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Html    string `json:"html"`
}

type WelcomeEmailData struct {
	Name string
}

type BookingEmailData struct {
	BookingID     string
	GuestName     string
	PropertyTitle string
	CheckIn       time.Time
	CheckOut      time.Time
}

func NewEmailService(apiKey, from string) (*EmailService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("resend API key is required")
	}

	templates, err := loadTemplates()
	if err != nil {
		return nil, fmt.Errorf("error loading email templates: %v", err)
	}

	return &EmailService{
		apiKey:     apiKey,
		from:       from,
		endpoint:   resendEndpoint,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		templates:  templates,
	}, nil
}

func (s *EmailService) sendTemplateEmail(ctx context.Context, to, subject, templateName string, data interface{}) error {
	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, templateName, data); err != nil {
		return fmt.Errorf("template execution error: %v", err)
	}

	jsonData, err := json.Marshal(EmailData{
		From:    s.from,
		To:      to,
		Subject: subject,
		Html:    body.String(),
	})
	if err != nil {
		return fmt.Errorf("error marshaling email data: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("error creating request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error sending email: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response body: %v", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("resend API error: %s", string(respBody))
	}

	log.Printf("Sent %q email to %s", subject, to)
	return nil
}

func (s *EmailService) SendWelcomeEmail(ctx context.Context, email, name string) error {
	return s.sendTemplateEmail(ctx, email, "Welcome to StayHere! 🎉", "welcome.html", WelcomeEmailData{Name: name})
}

// SendBookingStatusEmail tells the guest about a confirmed or cancelled
// booking. Other transitions send nothing.
func (s *EmailService) SendBookingStatusEmail(ctx context.Context, ev events.BookingStatusChanged) error {
	data := BookingEmailData{
		BookingID:     ev.BookingID,
		GuestName:     ev.GuestName,
		PropertyTitle: ev.PropertyTitle,
		CheckIn:       ev.CheckIn,
		CheckOut:      ev.CheckOut,
	}

	switch ev.To {
	case "confirmed":
		return s.sendTemplateEmail(ctx, ev.Email, "Your booking is confirmed ✅", "booking_confirmed.html", data)
	case "cancelled":
		return s.sendTemplateEmail(ctx, ev.Email, "Your booking was cancelled", "booking_cancelled.html", data)
	}
	return nil
}
