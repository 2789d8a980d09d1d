package audit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/storehub/backend/internal/domain/identity"
	"github.com/storehub/backend/internal/domain/shared"
	"github.com/storehub/backend/internal/infrastructure/logger"
)

type widget struct {
	ID        uint `gorm:"primaryKey"`
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
	CreatedBy *uint
	UpdatedBy *uint
	DeletedBy *uint
	DeletedAt gorm.DeletedAt
}

type plain struct {
	ID   uint `gorm:"primaryKey"`
	Name string
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, Register(db))
	require.NoError(t, db.AutoMigrate(&widget{}, &plain{}))
	return db
}

func reload(t *testing.T, db *gorm.DB, id uint) widget {
	t.Helper()
	var w widget
	require.NoError(t, db.Unscoped().First(&w, id).Error)
	return w
}

func TestActorFrom(t *testing.T) {
	_, ok := ActorFrom(context.Background())
	assert.False(t, ok)

	principal := &identity.User{}
	principal.ID = 4
	ctx := identity.WithPrincipal(context.Background(), principal)
	id, ok := ActorFrom(ctx)
	assert.True(t, ok)
	assert.Equal(t, uint(4), id)

	id, ok = ActorFrom(WithActor(ctx, 9))
	assert.True(t, ok)
	assert.Equal(t, uint(9), id)
}

func TestCreate_StampsActor(t *testing.T) {
	db := setupTestDB(t)

	w := widget{Name: "a"}
	require.NoError(t, db.WithContext(WithActor(context.Background(), 7)).Create(&w).Error)

	got := reload(t, db, w.ID)
	require.NotNil(t, got.CreatedBy)
	assert.Equal(t, uint(7), *got.CreatedBy)
	require.NotNil(t, got.UpdatedBy)
	assert.Equal(t, uint(7), *got.UpdatedBy)
}

func TestCreate_NoActorLeavesNull(t *testing.T) {
	db := setupTestDB(t)

	w := widget{Name: "anon"}
	require.NoError(t, db.WithContext(context.Background()).Create(&w).Error)

	got := reload(t, db, w.ID)
	assert.Nil(t, got.CreatedBy)
	assert.Nil(t, got.UpdatedBy)
}

func TestCreate_KeepsExplicitValue(t *testing.T) {
	db := setupTestDB(t)

	explicit := uint(3)
	w := widget{Name: "seeded", CreatedBy: &explicit}
	require.NoError(t, db.WithContext(WithActor(context.Background(), 7)).Create(&w).Error)

	got := reload(t, db, w.ID)
	assert.Equal(t, uint(3), *got.CreatedBy)
	assert.Equal(t, uint(7), *got.UpdatedBy)
}

func TestCreate_Batch(t *testing.T) {
	db := setupTestDB(t)

	ws := []widget{{Name: "x"}, {Name: "y"}}
	require.NoError(t, db.WithContext(WithActor(context.Background(), 2)).Create(&ws).Error)

	for _, w := range ws {
		assert.Equal(t, uint(2), *reload(t, db, w.ID).CreatedBy)
	}
}

func TestCreate_ModelWithoutAuditColumns(t *testing.T) {
	db := setupTestDB(t)
	p := plain{Name: "p"}
	assert.NoError(t, db.WithContext(WithActor(context.Background(), 2)).Create(&p).Error)
}

func TestUpdate_StampsUpdatedByOnly(t *testing.T) {
	db := setupTestDB(t)

	w := widget{Name: "a"}
	require.NoError(t, db.WithContext(WithActor(context.Background(), 7)).Create(&w).Error)

	w.Name = "b"
	require.NoError(t, db.WithContext(WithActor(context.Background(), 8)).Save(&w).Error)
	got := reload(t, db, w.ID)
	assert.Equal(t, uint(7), *got.CreatedBy)
	assert.Equal(t, uint(8), *got.UpdatedBy)

	require.NoError(t, db.WithContext(WithActor(context.Background(), 9)).
		Model(&widget{}).Where("id = ?", w.ID).
		Updates(map[string]any{"name": "c"}).Error)
	got = reload(t, db, w.ID)
	assert.Equal(t, "c", got.Name)
	assert.Equal(t, uint(9), *got.UpdatedBy)
	assert.Equal(t, uint(7), *got.CreatedBy)
}

func TestSoftDeleteAndRestore(t *testing.T) {
	db := setupTestDB(t)

	w := widget{Name: "a"}
	require.NoError(t, db.WithContext(WithActor(context.Background(), 1)).Create(&w).Error)

	ctx := WithActor(context.Background(), 5)
	require.NoError(t, SoftDelete(ctx, db, &widget{}, "id = ?", w.ID))

	got := reload(t, db, w.ID)
	assert.True(t, got.DeletedAt.Valid)
	require.NotNil(t, got.DeletedBy)
	assert.Equal(t, uint(5), *got.DeletedBy)
	assert.ErrorIs(t, db.First(&widget{}, w.ID).Error, gorm.ErrRecordNotFound)

	assert.ErrorIs(t, SoftDelete(ctx, db, &widget{}, "id = ?", w.ID), shared.ErrNotFound)

	require.NoError(t, Restore(WithActor(context.Background(), 6), db, &widget{}, "id = ?", w.ID))
	got = reload(t, db, w.ID)
	assert.False(t, got.DeletedAt.Valid)
	assert.Nil(t, got.DeletedBy)
	assert.Equal(t, uint(6), *got.UpdatedBy)
	assert.NoError(t, db.First(&widget{}, w.ID).Error)

	assert.ErrorIs(t, Restore(ctx, db, &widget{}, "id = ?", w.ID), shared.ErrNotFound)
}

func TestSoftDelete_NoActor(t *testing.T) {
	db := setupTestDB(t)

	w := widget{Name: "a"}
	require.NoError(t, db.Create(&w).Error)
	require.NoError(t, SoftDelete(context.Background(), db, &widget{}, "id = ?", w.ID))

	got := reload(t, db, w.ID)
	assert.True(t, got.DeletedAt.Valid)
	assert.Nil(t, got.DeletedBy)
}

func TestForceDelete(t *testing.T) {
	db := setupTestDB(t)

	w := widget{Name: "gone"}
	require.NoError(t, db.Create(&w).Error)

	core, recorded := observer.New(zapcore.InfoLevel)
	ctx := logger.WithContext(WithActor(context.Background(), 3), zap.New(core))

	require.NoError(t, ForceDelete(ctx, db, &widget{}, w.ID))

	var count int64
	require.NoError(t, db.Unscoped().Model(&widget{}).Where("id = ?", w.ID).Count(&count).Error)
	assert.Zero(t, count)

	entries := recorded.FilterMessage("record force deleted").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "widgets", fields["table"])
	assert.EqualValues(t, 3, fields["deleted_by"])

	assert.ErrorIs(t, ForceDelete(ctx, db, &widget{}, w.ID), shared.ErrNotFound)
}

func TestForceDelete_TableWithoutDeletedBy(t *testing.T) {
	db := setupTestDB(t)

	p := plain{Name: "p"}
	require.NoError(t, db.Create(&p).Error)
	require.NoError(t, ForceDelete(WithActor(context.Background(), 3), db, &plain{}, p.ID))
	assert.ErrorIs(t, db.First(&plain{}, p.ID).Error, gorm.ErrRecordNotFound)
}
