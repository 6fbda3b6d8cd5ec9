package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/socialsimple/backend/internal/logger"
	"github.com/socialsimple/backend/internal/models"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Options tunes the connection pool and gorm logging.
type Options struct {
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	Verbose         bool
}

// DefaultOptions returns the pool settings used by the server.
func DefaultOptions() Options {
	return Options{
		MaxIdleConns:    10,
		MaxOpenConns:    100,
		ConnMaxLifetime: time.Hour,
	}
}

// Open connects to the database named by databaseURL. postgres:// URLs and
// key=value DSNs use the postgres driver; sqlite:// and file: URLs use sqlite.
func Open(databaseURL string, opts Options) (*gorm.DB, error) {
	dialector, err := dialectorFor(databaseURL)
	if err != nil {
		return nil, err
	}

	gormLogger := gormlogger.Default.LogMode(gormlogger.Warn)
	if opts.Verbose {
		gormLogger = gormlogger.Default.LogMode(gormlogger.Info)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormLogger,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if opts.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}

	logger.Log.Info("Database connected", zap.String("dialect", db.Dialector.Name()))
	return db, nil
}

func dialectorFor(databaseURL string) (gorm.Dialector, error) {
	switch {
	case strings.HasPrefix(databaseURL, "postgres://"),
		strings.HasPrefix(databaseURL, "postgresql://"),
		strings.Contains(databaseURL, "host="):
		return postgres.Open(databaseURL), nil
	case strings.HasPrefix(databaseURL, "sqlite://"):
		return sqlite.Open(sqliteDSN(strings.TrimPrefix(databaseURL, "sqlite://"))), nil
	case strings.HasPrefix(databaseURL, "file:"):
		return sqlite.Open(sqliteDSN(databaseURL)), nil
	default:
		return nil, fmt.Errorf("unsupported DATABASE_URL %q", databaseURL)
	}
}

// sqliteDSN turns on foreign key enforcement so post rows follow their owner.
func sqliteDSN(path string) string {
	if strings.Contains(path, "_foreign_keys=") {
		return path
	}
	if strings.Contains(path, "?") {
		return path + "&_foreign_keys=on"
	}
	return path + "?_foreign_keys=on"
}

// Migrate creates or updates the user, credential and post tables.
func Migrate(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("database not initialized")
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Credential{},
		&models.Post{},
	); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Feed reads every post newest-first
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_posts_created_at_desc ON posts (created_at DESC)").Error; err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	logger.Log.Info("Database migrations completed")
	return nil
}

// Close closes the database connection
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}

// Health checks database connectivity
func Health(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("database not initialized")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	return sqlDB.Ping()
}
