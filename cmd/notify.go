package cmd

import (
	"github.com/rpupo63/portfolio-blog-backend/services"
	"github.com/rs/zerolog/log"
)

func newNotifiers(c map[string]string) (services.Notifiers, error) {
	notifiers, err := services.NewNotifiers(c)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(notifiers))
	for _, ch := range notifiers {
		names = append(names, ch.Name)
	}
	log.Info().Strs("channels", names).Msg("Publish notifications configured")
	return notifiers, nil
}
