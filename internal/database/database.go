package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/wooauto/internal/database/settings"
	"github.com/mrlokans/wooauto/internal/entities"
	"github.com/mrlokans/wooauto/internal/logging"
)

type Database struct {
	DB *gorm.DB

	settings *settings.Repository
}

// Option configures NewDatabase.
type Option func(*options)

type options struct {
	logLevel logger.LogLevel
	log      *zap.Logger
}

// WithLogLevel sets the gorm query log level. Default: logger.Warn.
func WithLogLevel(level logger.LogLevel) Option {
	return func(o *options) { o.logLevel = level }
}

// WithLogger sets the logger used for lifecycle messages and gorm query logs.
func WithLogger(log *zap.Logger) Option {
	return func(o *options) { o.log = log }
}

func NewDatabase(dbPath string, opts ...Option) (*Database, error) {
	o := options{logLevel: logger.Warn, log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logging.NewGormLogger(o.log, o.logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql handle: %w", err)
	}
	// sqlite allows a single writer.
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&entities.Setting{}); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	o.log.Info("database initialized", zap.String("path", dbPath))

	return &Database{
		DB:       db,
		settings: settings.NewRepository(db),
	}, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks that the underlying connection is usable.
func (d *Database) Ping() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// Settings returns the settings repository bound to this database.
func (d *Database) Settings() *settings.Repository {
	return d.settings
}
