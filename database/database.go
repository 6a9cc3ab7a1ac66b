package database

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/rpupo63/portfolio-blog-backend/config"
	"github.com/rpupo63/portfolio-blog-backend/models"
	zlog "github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"
)

type Database struct {
	blogPosts BlogPostStore
}

// New initializes a Database backed by a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		blogPosts: NewBlogPostRepo(db),
	}
}

// NewInMemory initializes a Database that lives only as long as the process.
func NewInMemory() Database {
	return Database{
		blogPosts: NewMemoryStore(),
	}
}

func (d Database) BlogPosts() BlogPostStore {
	return d.blogPosts
}

// DSN builds the primary connection string from DB_TYPE.
func DSN(c map[string]string) (string, error) {
	dbType := config.GetString(c, "DB_TYPE", "postgres")
	switch dbType {
	case "supa":
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=require",
			config.GetString(c, "SUPABASE_DB_HOST", ""),
			config.GetString(c, "SUPABASE_DB_USER", ""),
			config.GetString(c, "SUPABASE_DB_PASSWORD", ""),
			config.GetString(c, "SUPABASE_DB_NAME", ""),
			config.GetString(c, "SUPABASE_DB_PORT", "5432"),
		), nil
	case "postgres":
		dsn := config.GetString(c, "DATABASE_URL", "")
		if dsn == "" {
			return "", fmt.Errorf("DATABASE_URL is required when DB_TYPE=postgres")
		}
		return dsn, nil
	default:
		return "", fmt.Errorf("unsupported DB_TYPE %q", dbType)
	}
}

// Open connects to PostgreSQL. When DATABASE_REPLICA_URL is set (comma
// separated for several replicas) reads are routed to the replicas and writes
// to the primary.
func Open(c map[string]string) (*gorm.DB, error) {
	dsn, err := DSN(c)
	if err != nil {
		return nil, err
	}

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             10 * time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		PrepareStmt:    false,
		Logger:         newLogger,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	if replicas := replicaDialectors(config.GetString(c, "DATABASE_REPLICA_URL", "")); len(replicas) > 0 {
		err := db.Use(dbresolver.Register(dbresolver.Config{
			Replicas: replicas,
			Policy:   dbresolver.RandomPolicy{},
		}))
		if err != nil {
			return nil, fmt.Errorf("registering read replicas: %w", err)
		}
		zlog.Info().Int("replicas", len(replicas)).Msg("Read replicas registered")
	}

	var result int
	if err := db.Raw("SELECT 1").Scan(&result).Error; err != nil {
		return nil, fmt.Errorf("testing database connection: %w", err)
	}

	return db, nil
}

func replicaDialectors(urls string) []gorm.Dialector {
	var dialectors []gorm.Dialector
	for _, u := range strings.Split(urls, ",") {
		if u = strings.TrimSpace(u); u != "" {
			dialectors = append(dialectors, postgres.New(postgres.Config{
				DSN:                  u,
				PreferSimpleProtocol: true,
			}))
		}
	}
	return dialectors
}

// Migrate creates or updates the blog_posts table and its indexes.
func Migrate(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "pgcrypto"`).Error; err != nil {
		return fmt.Errorf("enabling pgcrypto extension: %w", err)
	}
	if err := db.AutoMigrate(&models.BlogPost{}); err != nil {
		return fmt.Errorf("migrating blog posts: %w", err)
	}
	return nil
}
