package mail

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Message is one outbound email.
type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
	HTML    string `json:"html,omitempty"`
}

// Mailer is an interface for sending email.
type Mailer interface {
	Send(msg Message) error
}

// HTTPMailer implements Mailer against a JSON email API (Resend-style:
// POST with a bearer key).
type HTTPMailer struct {
	APIURL      string
	APIKey      string
	FromAddress string
	FromName    string
	client      *http.Client
}

func NewHTTPMailer(apiURL, apiKey, fromAddress, fromName string) *HTTPMailer {
	return &HTTPMailer{
		APIURL:      apiURL,
		APIKey:      apiKey,
		FromAddress: fromAddress,
		FromName:    fromName,
		client:      &http.Client{Timeout: 30 * time.Second},
	}
}

type apiPayload struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Text    string   `json:"text"`
	HTML    string   `json:"html,omitempty"`
}

// Send posts the message to the provider API.
func (m *HTTPMailer) Send(msg Message) error {
	payload := apiPayload{
		From:    fmt.Sprintf("%s <%s>", m.FromName, m.FromAddress),
		To:      []string{msg.To},
		Subject: msg.Subject,
		Text:    msg.Text,
		HTML:    msg.HTML,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal mail request: %w", err)
	}

	req, err := http.NewRequest("POST", m.APIURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create mail request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.APIKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("mail API error (status %d): %s", resp.StatusCode, string(body))
	}

	return nil
}

// MockMailer is a mock implementation for testing (prints mail to console
// and records what was sent).
type MockMailer struct {
	Sent    []Message
	FailFor map[string]bool // addresses Send should fail for
}

func NewMockMailer() *MockMailer {
	return &MockMailer{FailFor: make(map[string]bool)}
}

func (m *MockMailer) Send(msg Message) error {
	if m.FailFor[msg.To] {
		return fmt.Errorf("mock mail failure for %s", msg.To)
	}
	fmt.Printf("\n========== MOCK MAIL ==========\n")
	fmt.Printf("To: %s\nSubject: %s\n%s\n", msg.To, msg.Subject, msg.Text)
	fmt.Printf("===============================\n\n")
	m.Sent = append(m.Sent, msg)
	return nil
}
