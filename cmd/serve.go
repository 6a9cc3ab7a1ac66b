package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-extras/cobraflags"
	"github.com/rpupo63/portfolio-blog-backend/api"
	"github.com/rpupo63/portfolio-blog-backend/auth"
	"github.com/rpupo63/portfolio-blog-backend/blog"
	"github.com/rpupo63/portfolio-blog-backend/config"
	"github.com/rpupo63/portfolio-blog-backend/database"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const (
	storageFlag     = "storage"
	autoMigrateFlag = "auto-migrate"
)

var serveFlags = map[string]cobraflags.Flag{
	storageFlag: &cobraflags.StringFlag{
		Name:  storageFlag,
		Value: "postgres",
		Usage: "Post storage backend (postgres, memory)",
	},
}

func newServeCommand(a *app) *cobra.Command {
	var autoMigrate bool

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serve(serveFlags[storageFlag].GetString(), autoMigrate)
		},
	}

	cobraflags.RegisterMap(serveCmd, serveFlags)
	serveCmd.Flags().BoolVar(&autoMigrate, autoMigrateFlag, false, "Migrate the schema before serving (postgres only)")
	return serveCmd
}

func (a *app) serve(storage string, autoMigrate bool) error {
	currentDB, err := a.openDatabase(storage, autoMigrate)
	if err != nil {
		return err
	}

	adminEmail := config.GetString(a.config, "ADMIN_EMAIL", "")
	if adminEmail == "" {
		log.Warn().Msg("ADMIN_EMAIL is not set; admin operations will fail")
	}
	authz := auth.NewAuthorizer(adminEmail)

	identity, err := auth.NewProvider(a.config)
	if err != nil {
		return fmt.Errorf("initializing identity provider: %w", err)
	}

	notifiers, err := newNotifiers(a.config)
	if err != nil {
		return fmt.Errorf("initializing notifications: %w", err)
	}

	manager := blog.NewManager(currentDB.BlogPosts(), authz,
		blog.WithNotifier(notifiers),
		blog.WithCacheTTL(config.GetSeconds(a.config, "POST_CACHE_TTL_SECONDS", blog.DefaultCacheTTL)),
	)

	server, err := api.NewServer(a.config, manager, authz, identity)
	if err != nil {
		return fmt.Errorf("initializing server: %w", err)
	}

	errChannel := make(chan error, 2)

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Info().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully(30 * time.Second)
	return nil
}

func (a *app) openDatabase(storage string, autoMigrate bool) (database.Database, error) {
	switch storage {
	case "memory":
		log.Warn().Msg("Using in-memory storage; posts are lost on restart")
		return database.NewInMemory(), nil
	case "postgres":
		db, err := database.Open(a.config)
		if err != nil {
			return database.Database{}, err
		}
		if autoMigrate {
			if err := database.Migrate(db); err != nil {
				return database.Database{}, err
			}
		}
		return database.New(db), nil
	default:
		return database.Database{}, fmt.Errorf("unknown storage %q (want postgres or memory)", storage)
	}
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
