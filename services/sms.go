package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rpupo63/portfolio-blog-backend/errs"
	"github.com/rpupo63/portfolio-blog-backend/models"
	"github.com/rs/zerolog/log"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// MessageCreator is the part of the Twilio messaging API used here.
type MessageCreator interface {
	CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error)
}

type SMSConfig struct {
	AccountSID string
	AuthToken  string
	From       string
	To         []string
	BaseURL    string
}

// SMSNotifier texts a short announcement of new posts through Twilio.
type SMSNotifier struct {
	messages MessageCreator
	from     string
	to       []string
	baseURL  string
}

func NewSMSNotifier(cfg SMSConfig) (*SMSNotifier, error) {
	if cfg.AccountSID == "" {
		return nil, errs.NewConfigError("TWILIO_ACCOUNT_SID")
	}
	if cfg.AuthToken == "" {
		return nil, errs.NewConfigError("TWILIO_AUTH_TOKEN")
	}
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	return NewSMSNotifierWithClient(client.Api, cfg)
}

func NewSMSNotifierWithClient(messages MessageCreator, cfg SMSConfig) (*SMSNotifier, error) {
	if cfg.From == "" {
		return nil, errs.NewConfigError("TWILIO_FROM_NUMBER")
	}
	if len(cfg.To) == 0 {
		return nil, fmt.Errorf("at least one recipient is required")
	}
	return &SMSNotifier{messages: messages, from: cfg.From, to: cfg.To, baseURL: cfg.BaseURL}, nil
}

func (n *SMSNotifier) PostPublished(ctx context.Context, post models.BlogPost) error {
	body := n.render(post)
	for _, to := range n.to {
		if err := ctx.Err(); err != nil {
			return err
		}

		params := &openapi.CreateMessageParams{}
		params.SetTo(to)
		params.SetFrom(n.from)
		params.SetBody(body)

		msg, err := n.messages.CreateMessage(params)
		if err != nil {
			return fmt.Errorf("sending SMS to %s: %w", to, err)
		}
		if msg != nil && msg.Sid != nil {
			log.Info().Str("sid", *msg.Sid).Msg("Successfully sent SMS via Twilio")
		}
	}
	return nil
}

func (n *SMSNotifier) render(post models.BlogPost) string {
	var hashtags []string
	for _, tag := range post.Tags {
		if h := FormatHashtag(tag); h != "" {
			hashtags = append(hashtags, "#"+h)
		}
	}

	body := fmt.Sprintf("New post: %s %s", post.Title, BuildBlogPostURL(n.baseURL, post.Slug))
	if len(hashtags) > 0 {
		body += " " + strings.Join(hashtags, " ")
	}
	return body
}
