package cmd

import (
	"os"

	"github.com/go-extras/cobraflags"
	"github.com/rpupo63/portfolio-blog-backend/database"
	"github.com/rpupo63/portfolio-blog-backend/models"
	"github.com/spf13/cobra"
)

const outPathFlag = "out"

var generateFlags = map[string]cobraflags.Flag{
	outPathFlag: &cobraflags.StringFlag{
		Name:  outPathFlag,
		Value: "./generated",
		Usage: "Directory for the generated query code",
	},
}

func newGenerateCommand(a *app) *cobra.Command {
	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Migrate, then generate gorm/gen query helpers for the models",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := database.Open(a.config)
			if err != nil {
				return err
			}
			return models.GenerateModels(db, generateFlags[outPathFlag].GetString())
		},
	}
	cobraflags.RegisterMap(generateCmd, generateFlags)
	return generateCmd
}

func newReportCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Report database columns the Go models do not map",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := database.Open(a.config)
			if err != nil {
				return err
			}
			_, err = models.GenerateColumnMismatchReport(db, os.Stdout)
			return err
		},
	}
}
