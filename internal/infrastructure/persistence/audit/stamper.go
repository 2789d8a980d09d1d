package audit

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/storehub/backend/internal/domain/shared"
	"github.com/storehub/backend/internal/infrastructure/logger"
)

// SoftDelete marks matching live rows deleted, writing deleted_at and
// deleted_by in one statement. It returns shared.ErrNotFound when nothing
// matched.
func SoftDelete(ctx context.Context, db *gorm.DB, model any, query any, args ...any) error {
	var deletedBy any
	if actor := actorPtr(ctx); actor != nil {
		deletedBy = *actor
	}
	result := db.WithContext(ctx).Model(model).Where(query, args...).UpdateColumns(map[string]any{
		"deleted_at":    time.Now(),
		columnDeletedBy: deletedBy,
	})
	if result.Error != nil {
		return fmt.Errorf("soft delete: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Restore clears deleted_at and deleted_by of matching soft-deleted rows in
// one statement and stamps updated_by. It returns shared.ErrNotFound when no
// trashed row matched.
func Restore(ctx context.Context, db *gorm.DB, model any, query any, args ...any) error {
	values := map[string]any{
		"deleted_at":    nil,
		columnDeletedBy: nil,
		"updated_at":    time.Now(),
	}
	if actor := actorPtr(ctx); actor != nil {
		values[columnUpdatedBy] = *actor
	}
	result := db.WithContext(ctx).Unscoped().Model(model).
		Where(query, args...).
		Where("deleted_at IS NOT NULL").
		UpdateColumns(values)
	if result.Error != nil {
		return fmt.Errorf("restore: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ForceDelete erases the row with the given id. Inside one transaction it
// stamps deleted_by (when the table has the column) immediately before the
// erasure and records an audit log entry, so the actor survives the row.
func ForceDelete(ctx context.Context, db *gorm.DB, model any, id uint) error {
	stmt := &gorm.Statement{DB: db}
	if err := stmt.Parse(model); err != nil {
		return fmt.Errorf("force delete: %w", err)
	}
	actor := actorPtr(ctx)

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if actor != nil && stmt.Schema.LookUpField(columnDeletedBy) != nil {
			if err := tx.Unscoped().Model(model).Where("id = ?", id).
				UpdateColumn(columnDeletedBy, *actor).Error; err != nil {
				return fmt.Errorf("stamp deleted_by: %w", err)
			}
		}

		result := tx.Unscoped().Delete(model, id)
		if result.Error != nil {
			return fmt.Errorf("force delete: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}

		logger.L(ctx).Named("audit").Info("record force deleted",
			zap.String("table", stmt.Schema.Table),
			zap.Uint("id", id),
			zap.Uintp("deleted_by", actor),
		)
		return nil
	})
}
