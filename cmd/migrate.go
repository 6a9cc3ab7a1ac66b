package cmd

import (
	"github.com/rpupo63/portfolio-blog-backend/database"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newMigrateCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the blog_posts table",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := database.Open(a.config)
			if err != nil {
				return err
			}
			if err := database.Migrate(db); err != nil {
				return err
			}
			log.Info().Msg("Database migration completed successfully")
			return nil
		},
	}
}
