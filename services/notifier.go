package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rpupo63/portfolio-blog-backend/config"
	"github.com/rpupo63/portfolio-blog-backend/models"
	"github.com/rs/zerolog/log"
)

// Notifier is told about every post that becomes published.
type Notifier interface {
	PostPublished(ctx context.Context, post models.BlogPost) error
}

// Channel is a named Notifier.
type Channel struct {
	Name     string
	Notifier Notifier
}

// Notifiers fans a publish event out to every configured channel. A failing
// channel does not stop the others.
type Notifiers []Channel

func (n Notifiers) PostPublished(ctx context.Context, post models.BlogPost) error {
	var failures []error
	var successes []string

	for _, ch := range n {
		if err := ch.Notifier.PostPublished(ctx, post); err != nil {
			log.Error().Err(err).Str("channel", ch.Name).Str("slug", post.Slug).Msg("Failed to send publish notification")
			failures = append(failures, fmt.Errorf("%s: %w", ch.Name, err))
			continue
		}
		successes = append(successes, ch.Name)
	}

	if len(successes) > 0 {
		log.Info().Strs("channels", successes).Str("slug", post.Slug).Msg("Sent publish notifications")
	}
	return errors.Join(failures...)
}

// NewNotifiers builds a channel for every notification target that is fully
// configured and skips the rest.
func NewNotifiers(cfg map[string]string) (Notifiers, error) {
	baseURL := config.GetString(cfg, "BASE_URL", "")
	siteName := config.GetString(cfg, "SITE_NAME", "Blog")

	var channels Notifiers

	if to := config.GetList(cfg, "NOTIFY_EMAIL_TO"); len(to) > 0 {
		email, err := NewEmailNotifier(EmailConfig{
			APIKey:   config.GetString(cfg, "RESEND_API_KEY", ""),
			From:     config.GetString(cfg, "RESEND_FROM_EMAIL", ""),
			To:       to,
			BaseURL:  baseURL,
			SiteName: siteName,
		})
		if err != nil {
			return nil, err
		}
		channels = append(channels, Channel{Name: "email", Notifier: email})
	}

	if to := config.GetList(cfg, "NOTIFY_SMS_TO"); len(to) > 0 {
		sms, err := NewSMSNotifier(SMSConfig{
			AccountSID: config.GetString(cfg, "TWILIO_ACCOUNT_SID", ""),
			AuthToken:  config.GetString(cfg, "TWILIO_AUTH_TOKEN", ""),
			From:       config.GetString(cfg, "TWILIO_FROM_NUMBER", ""),
			To:         to,
			BaseURL:    baseURL,
		})
		if err != nil {
			return nil, err
		}
		channels = append(channels, Channel{Name: "sms", Notifier: sms})
	}

	return channels, nil
}

// BuildBlogPostURL returns the public address of the post with the given slug.
func BuildBlogPostURL(baseURL, slug string) string {
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		return "/blog/" + slug
	}
	return baseURL + "/blog/" + slug
}

// FormatHashtag turns a tag into a hashtag body: letters, digits and
// underscores only, lower-cased. Tags that would start with a digit yield "".
func FormatHashtag(tag string) string {
	var result strings.Builder
	for _, r := range strings.TrimSpace(tag) {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' {
			result.WriteRune(r)
		}
	}

	formatted := strings.ToLower(result.String())
	if len(formatted) > 0 && formatted[0] >= '0' && formatted[0] <= '9' {
		return ""
	}
	return formatted
}
