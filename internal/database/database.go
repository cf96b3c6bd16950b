package database

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/mavi-suporte/helpdesk-service/internal/config"
	"github.com/mavi-suporte/helpdesk-service/internal/model"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open connects GORM using the configured dialect. Postgres schemas come from
// the SQL migrations; the sqlite dev path auto-migrates instead.
func Open(cfg *config.Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{TranslateError: true}
	switch cfg.DBDriver {
	case "postgres":
		return gorm.Open(postgres.Open(cfg.DSN()), gormCfg)
	case "sqlite":
		db, err := gorm.Open(sqlite.Open(cfg.SQLitePath), gormCfg)
		if err != nil {
			return nil, err
		}
		if err := db.AutoMigrate(&model.Ticket{}, &model.TicketNote{}, &model.User{}, &model.Product{}, &model.AuditLog{}); err != nil {
			return nil, fmt.Errorf("sqlite automigrate: %w", err)
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER %q", cfg.DBDriver)
	}
}
