package database

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"warbler/internal/middleware"

	"gorm.io/gorm"
)

// appliedMigration is one row of the migration_logs bookkeeping table.
type appliedMigration struct {
	Version   int       `gorm:"primaryKey;autoIncrement:false"`
	Name      string    `gorm:"size:255;not null"`
	AppliedAt time.Time `gorm:"autoCreateTime"`
}

func (appliedMigration) TableName() string { return "migration_logs" }

// Migrator applies and reverts the embedded SQL migrations.
type Migrator struct {
	db         *gorm.DB
	registered []Migration
}

// NewMigrator returns a Migrator over the migrations embedded in the binary.
func NewMigrator(db *gorm.DB) *Migrator {
	return &Migrator{db: db, registered: GetMigrations()}
}

// Applied lists applied versions in ascending order. A database that has never
// been migrated reports none.
func (m *Migrator) Applied(ctx context.Context) ([]int, error) {
	var versions []int
	err := m.db.WithContext(ctx).Model(&appliedMigration{}).Order("version").Pluck("version", &versions).Error
	if err != nil {
		if missingTable(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read migration_logs: %w", err)
	}
	return versions, nil
}

// Pending lists registered migrations that have not been applied. It fails
// when the database records a version this binary does not know about.
func (m *Migrator) Pending(ctx context.Context) ([]Migration, error) {
	applied, err := m.Applied(ctx)
	if err != nil {
		return nil, err
	}
	return m.diff(applied)
}

func (m *Migrator) diff(applied []int) ([]Migration, error) {
	var unknown []string
	for _, v := range applied {
		if !slices.ContainsFunc(m.registered, func(r Migration) bool { return r.Version == v }) {
			unknown = append(unknown, fmt.Sprintf("%06d", v))
		}
	}
	if len(unknown) > 0 {
		return nil, fmt.Errorf("database has migrations this build does not know: %s", strings.Join(unknown, ", "))
	}

	var pending []Migration
	for _, r := range m.registered {
		if !slices.Contains(applied, r.Version) {
			pending = append(pending, r)
		}
	}
	return pending, nil
}

// Up applies every pending migration in version order and reports how many ran.
func (m *Migrator) Up(ctx context.Context) (int, error) {
	if err := m.db.WithContext(ctx).AutoMigrate(&appliedMigration{}); err != nil {
		return 0, fmt.Errorf("create migration_logs: %w", err)
	}
	pending, err := m.Pending(ctx)
	if err != nil {
		return 0, err
	}
	for i, mig := range pending {
		if err := m.apply(ctx, mig); err != nil {
			return i, err
		}
	}
	return len(pending), nil
}

// Down reverts one applied migration.
func (m *Migrator) Down(ctx context.Context, version int) error {
	i := slices.IndexFunc(m.registered, func(r Migration) bool { return r.Version == version })
	if i < 0 {
		return fmt.Errorf("migration version %d not found", version)
	}
	applied, err := m.Applied(ctx)
	if err != nil {
		return err
	}
	if !slices.Contains(applied, version) {
		return fmt.Errorf("migration %d has not been applied", version)
	}
	return m.revert(ctx, m.registered[i])
}

// apply runs the up script and records it atomically.
func (m *Migrator) apply(ctx context.Context, mig Migration) error {
	middleware.Logger.InfoContext(ctx, "Applying migration", slog.String("migration", mig.String()))
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(mig.UpScript).Error; err != nil {
			return fmt.Errorf("apply %s: %w", mig.String(), err)
		}
		return tx.Create(&appliedMigration{Version: mig.Version, Name: mig.Name}).Error
	})
}

func (m *Migrator) revert(ctx context.Context, mig Migration) error {
	middleware.Logger.InfoContext(ctx, "Reverting migration", slog.String("migration", mig.String()))
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(mig.DownScript).Error; err != nil {
			return fmt.Errorf("revert %s: %w", mig.String(), err)
		}
		return tx.Delete(&appliedMigration{}, "version = ?", mig.Version).Error
	})
}

// RunMigrations applies all pending embedded migrations.
func RunMigrations(ctx context.Context, db *gorm.DB) error {
	_, err := NewMigrator(db).Up(ctx)
	return err
}

// missingTable matches the sqlite and postgres errors for an absent relation.
func missingTable(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "no such table") || strings.Contains(msg, "does not exist")
}
