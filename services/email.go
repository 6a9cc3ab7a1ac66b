package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"time"

	"github.com/rpupo63/portfolio-blog-backend/errs"
	"github.com/rpupo63/portfolio-blog-backend/models"
	"github.com/rs/zerolog/log"
)

const resendEndpoint = "https://api.resend.com/emails"

// ResendEmailRequest represents the request payload for Resend API
type ResendEmailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Html    string   `json:"html,omitempty"`
	Text    string   `json:"text,omitempty"`
}

// ResendEmailResponse represents the response from Resend API
type ResendEmailResponse struct {
	ID string `json:"id"`
}

// ResendErrorResponse represents an error response from Resend API
type ResendErrorResponse struct {
	Message string `json:"message"`
}

type EmailConfig struct {
	APIKey   string
	From     string
	To       []string
	BaseURL  string
	SiteName string
	// Endpoint overrides the Resend API address.
	Endpoint   string
	HTTPClient *http.Client
}

// EmailNotifier mails new posts through Resend.
type EmailNotifier struct {
	cfg EmailConfig
}

func NewEmailNotifier(cfg EmailConfig) (*EmailNotifier, error) {
	if cfg.APIKey == "" {
		return nil, errs.NewConfigError("RESEND_API_KEY")
	}
	if cfg.From == "" {
		return nil, errs.NewConfigError("RESEND_FROM_EMAIL")
	}
	if len(cfg.To) == 0 {
		return nil, fmt.Errorf("at least one recipient is required")
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = resendEndpoint
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &EmailNotifier{cfg: cfg}, nil
}

func (n *EmailNotifier) PostPublished(ctx context.Context, post models.BlogPost) error {
	subject := fmt.Sprintf("[%s] New post: %s", n.cfg.SiteName, post.Title)
	return n.Send(ctx, subject, n.render(post))
}

func (n *EmailNotifier) render(post models.BlogPost) string {
	url := BuildBlogPostURL(n.cfg.BaseURL, post.Slug)
	return fmt.Sprintf(
		`<h1>%s</h1><p>%s</p><p>%d min read</p><p><a href="%s">%s</a></p>`,
		html.EscapeString(post.Title),
		html.EscapeString(post.Excerpt),
		post.ReadingTime,
		html.EscapeString(url),
		html.EscapeString(url),
	)
}

// Send delivers one HTML email to the configured recipients.
func (n *EmailNotifier) Send(ctx context.Context, subject, body string) error {
	payload := ResendEmailRequest{
		From:    n.cfg.From,
		To:      n.cfg.To,
		Subject: subject,
		Html:    body,
	}

	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.cfg.Endpoint, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return fmt.Errorf("failed to create Resend API request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+n.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.cfg.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request to Resend API: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read Resend API response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp ResendErrorResponse
		if err := json.Unmarshal(bodyBytes, &errorResp); err == nil && errorResp.Message != "" {
			return fmt.Errorf("resend API error (status %d): %s", resp.StatusCode, errorResp.Message)
		}
		return fmt.Errorf("resend API error (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var emailResponse ResendEmailResponse
	if err := json.Unmarshal(bodyBytes, &emailResponse); err != nil {
		log.Warn().Err(err).Msg("Failed to parse Resend email response, but email was sent")
	} else {
		log.Info().Str("emailId", emailResponse.ID).Msg("Successfully sent email via Resend")
	}
	return nil
}
