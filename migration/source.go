package migration

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Row is one source record, keyed by column name.
type Row = map[string]any

// Source pages through a source table in a fixed order. Implementations must
// return fewer than limit rows only on the final page.
type Source interface {
	FetchPage(ctx context.Context, table, orderColumn string, offset, limit int) ([]Row, error)
}

// SourceConfig carries the Supabase Postgres connection pieces.
type SourceConfig struct {
	Host     string
	User     string
	Password string
	DBName   string
	Port     string
}

type postgresSource struct {
	db *gorm.DB
}

// NewPostgresSource connects to the Supabase source database.
func NewPostgresSource(cfg SourceConfig) (Source, error) {
	connStr := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=require",
		cfg.Host, cfg.User, cfg.Password, cfg.DBName, cfg.Port)

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
		DSN:                  connStr,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		PrepareStmt: false,
		Logger:      newLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to source database: %w", err)
	}

	var result int
	if err := db.Raw("SELECT 1").Scan(&result).Error; err != nil {
		return nil, fmt.Errorf("testing source connection: %w", err)
	}

	return &postgresSource{db: db}, nil
}

func (s *postgresSource) FetchPage(ctx context.Context, table, orderColumn string, offset, limit int) ([]Row, error) {
	var rows []map[string]any
	err := s.db.WithContext(ctx).
		Table(table).
		Order(orderColumn + " ASC").
		Offset(offset).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("fetching %s page at offset %d: %w", table, offset, err)
	}
	return rows, nil
}
