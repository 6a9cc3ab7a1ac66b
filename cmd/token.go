package cmd

import (
	"fmt"
	"time"

	"github.com/go-extras/cobraflags"
	"github.com/rpupo63/portfolio-blog-backend/auth"
	"github.com/rpupo63/portfolio-blog-backend/config"
	"github.com/rpupo63/portfolio-blog-backend/models"
	"github.com/spf13/cobra"
)

const (
	subjectFlag = "sub"
	emailFlag   = "email"
	nameFlag    = "name"
	ttlFlag     = "ttl"
)

var tokenFlags = map[string]cobraflags.Flag{
	subjectFlag: &cobraflags.StringFlag{
		Name:  subjectFlag,
		Value: "admin",
		Usage: "User id placed in the sub claim",
	},
	emailFlag: &cobraflags.StringFlag{
		Name:  emailFlag,
		Value: "",
		Usage: "Email claim (defaults to ADMIN_EMAIL)",
	},
	nameFlag: &cobraflags.StringFlag{
		Name:  nameFlag,
		Value: "",
		Usage: "Display name claim",
	},
	ttlFlag: &cobraflags.StringFlag{
		Name:  ttlFlag,
		Value: "24h",
		Usage: "Token lifetime as a Go duration",
	},
}

func newTokenCommand(a *app) *cobra.Command {
	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a JWT accepted by the jwt identity provider",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ttl, err := time.ParseDuration(tokenFlags[ttlFlag].GetString())
			if err != nil {
				return fmt.Errorf("invalid --%s: %w", ttlFlag, err)
			}

			email := tokenFlags[emailFlag].GetString()
			if email == "" {
				email = config.GetString(a.config, "ADMIN_EMAIL", "")
			}

			token, err := auth.IssueToken(
				config.GetString(a.config, "JWT_SECRET", ""),
				config.GetString(a.config, "JWT_ISSUER", ""),
				models.User{
					ID:    tokenFlags[subjectFlag].GetString(),
					Email: email,
					Name:  tokenFlags[nameFlag].GetString(),
				},
				ttl,
			)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cobraflags.RegisterMap(tokenCmd, tokenFlags)
	return tokenCmd
}
