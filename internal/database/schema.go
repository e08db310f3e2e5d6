package database

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"warbler/internal/config"
	"warbler/internal/middleware"

	"gorm.io/gorm"
)

// SchemaMode selects how ApplySchema brings tables up to date (DB_SCHEMA_MODE).
type SchemaMode string

const (
	// SchemaModeHybrid runs SQL migrations, then AutoMigrate outside production.
	SchemaModeHybrid SchemaMode = "hybrid"
	SchemaModeSQL    SchemaMode = "sql"
	SchemaModeAuto   SchemaMode = "auto"
)

// ParseSchemaMode reads cfg.DBSchemaMode, defaulting to hybrid. Auto mode is
// refused in production.
func ParseSchemaMode(cfg *config.Config) (SchemaMode, error) {
	mode := SchemaMode(strings.ToLower(strings.TrimSpace(cfg.DBSchemaMode)))
	switch mode {
	case "":
		return SchemaModeHybrid, nil
	case SchemaModeHybrid, SchemaModeSQL:
		return mode, nil
	case SchemaModeAuto:
		if cfg.IsProduction() {
			return "", fmt.Errorf("refusing DB_SCHEMA_MODE=auto in %q", cfg.Env)
		}
		return mode, nil
	}
	return "", fmt.Errorf("unsupported DB_SCHEMA_MODE %q", cfg.DBSchemaMode)
}

func (m SchemaMode) runsSQL() bool { return m != SchemaModeAuto }

func (m SchemaMode) runsAuto(cfg *config.Config) bool {
	return m == SchemaModeAuto || (m == SchemaModeHybrid && !cfg.IsProduction())
}

// ApplySchema brings the database schema up to date according to DB_SCHEMA_MODE.
func ApplySchema(ctx context.Context, db *gorm.DB, cfg *config.Config) error {
	mode, err := ParseSchemaMode(cfg)
	if err != nil {
		return err
	}

	if mode.runsSQL() {
		if err := RunMigrations(ctx, db); err != nil {
			return fmt.Errorf("run sql migrations: %w", err)
		}
	}
	if mode.runsAuto(cfg) {
		middleware.Logger.InfoContext(ctx, "Running GORM AutoMigrate", slog.String("mode", string(mode)))
		if err := db.WithContext(ctx).AutoMigrate(PersistentModels()...); err != nil {
			return fmt.Errorf("auto-migrate: %w", err)
		}
	}
	return nil
}

// Status is what `migrate status` reports.
type Status struct {
	Mode    SchemaMode
	Applied []int
	Pending []Migration
}

// GetStatus reports the schema mode with applied and pending SQL migrations.
func GetStatus(ctx context.Context, db *gorm.DB, cfg *config.Config) (*Status, error) {
	mode, err := ParseSchemaMode(cfg)
	if err != nil {
		return nil, err
	}
	m := NewMigrator(db)
	applied, err := m.Applied(ctx)
	if err != nil {
		return nil, err
	}
	pending, err := m.diff(applied)
	if err != nil {
		return nil, err
	}
	return &Status{Mode: mode, Applied: applied, Pending: pending}, nil
}
