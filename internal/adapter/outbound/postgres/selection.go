package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/teamdeck/console/internal/model"
	"github.com/teamdeck/console/internal/port/outbound"
)

// selectionAdapter implements outbound.SelectionStore on a gorm database.
type selectionAdapter struct {
	db  *gorm.DB
	ttl time.Duration
	now func() time.Time
}

// NewSelectionAdapter creates a Postgres backed selection store. Rows older
// than ttl are treated as absent.
func NewSelectionAdapter(db *gorm.DB, ttl time.Duration) outbound.SelectionStore {
	return &selectionAdapter{db: db, ttl: ttl, now: time.Now}
}

// Migrate creates the selection table when missing.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.TenantSelection{}); err != nil {
		return fmt.Errorf("migrate tenant selections: %w", err)
	}
	return nil
}

func (a *selectionAdapter) Load(ctx context.Context, kind, userKey string) (int64, error) {
	var row model.TenantSelection
	err := a.db.WithContext(ctx).
		Where("kind = ? AND user_key = ?", kind, userKey).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, outbound.ErrNoSelection
		}
		return 0, fmt.Errorf("load selection: %w", err)
	}
	if row.Stale(a.ttl, a.now()) {
		return 0, outbound.ErrNoSelection
	}
	return row.TenantID, nil
}

func (a *selectionAdapter) Save(ctx context.Context, kind, userKey string, id int64) error {
	row := model.TenantSelection{
		Kind:      kind,
		UserKey:   userKey,
		TenantID:  id,
		UpdatedAt: a.now(),
	}
	err := a.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "kind"}, {Name: "user_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"tenant_id", "updated_at"}),
		}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("save selection: %w", err)
	}
	return nil
}

func (a *selectionAdapter) Clear(ctx context.Context, kind, userKey string) error {
	err := a.db.WithContext(ctx).
		Delete(&model.TenantSelection{}, "kind = ? AND user_key = ?", kind, userKey).Error
	if err != nil {
		return fmt.Errorf("clear selection: %w", err)
	}
	return nil
}

// Compile-time check
var _ outbound.SelectionStore = (*selectionAdapter)(nil)
