package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/storehub/backend/internal/domain/identity"
	"github.com/storehub/backend/internal/domain/tenancy"
	"github.com/storehub/backend/internal/infrastructure/persistence/models"
)

// setupRepoDB opens an in-memory sqlite database with the full schema and
// the audit and store callbacks installed
func setupRepoDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, RegisterCallbacks(db))
	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func seedStore(t *testing.T, db *gorm.DB, name string) *tenancy.Store {
	t.Helper()
	store, err := tenancy.NewStore(name)
	require.NoError(t, err)
	require.NoError(t, NewGormStoreRepository(db).Create(context.Background(), store))
	return store
}

func seedPermissions(t *testing.T, db *gorm.DB, names ...string) []identity.Permission {
	t.Helper()
	for _, name := range names {
		require.NoError(t, db.Create(&models.PermissionModel{Name: name}).Error)
	}
	perms, err := NewGormPermissionRepository(db).FindByNames(context.Background(), names)
	require.NoError(t, err)
	return perms
}

// newTestUser builds a user without paying for bcrypt
func newTestUser(email string) *identity.User {
	return &identity.User{
		FirstName:    "Test",
		LastName:     "User",
		Email:        email,
		PasswordHash: "$2a$04$hash",
		Status:       identity.UserStatusActive,
		StoreIDs:     []uint{},
		Roles:        []*identity.Role{},
	}
}

func uintPtr(v uint) *uint { return &v }
