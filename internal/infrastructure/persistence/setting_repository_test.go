package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storehub/backend/internal/domain/setting"
	"github.com/storehub/backend/internal/domain/shared"
	"github.com/storehub/backend/internal/infrastructure/persistence/models"
)

func TestGormSettingRepository(t *testing.T) {
	db := setupRepoDB(t)
	ctx := context.Background()
	repo := NewGormSettingRepository(db)
	s1 := seedStore(t, db, "One")
	s2 := seedStore(t, db, "Two")

	currency, err := setting.New(s1.ID, "currency", setting.TypeString, "MAD")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, currency))
	require.NotZero(t, currency.ID)

	limit, err := setting.New(s1.ID, "max_items", setting.TypeInteger, 10)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, limit))

	other, err := setting.New(s2.ID, "currency", setting.TypeString, "EUR")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, other))

	all, err := repo.FindAll(ctx, s1.ID)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "currency", all[0].Key)
	assert.Equal(t, "max_items", all[1].Key)

	t.Run("save updates in place", func(t *testing.T) {
		require.NoError(t, currency.Assign(setting.TypeString, "USD"))
		require.NoError(t, repo.Save(ctx, currency))

		found, err := repo.FindByKey(ctx, s1.ID, "currency")
		require.NoError(t, err)
		assert.Equal(t, "USD", *found.Value)
		assert.Equal(t, currency.ID, found.ID)
	})

	t.Run("save restores a deleted key", func(t *testing.T) {
		require.NoError(t, repo.SoftDelete(ctx, s1.ID, "max_items"))
		_, err := repo.FindByKey(ctx, s1.ID, "max_items")
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.ErrorIs(t, repo.SoftDelete(ctx, s1.ID, "max_items"), shared.ErrNotFound)

		again, err := setting.New(s1.ID, "max_items", setting.TypeInteger, 25)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, again))
		assert.Equal(t, limit.ID, again.ID)
		assert.Nil(t, again.DeletedAt)

		v, err := again.TypedValue()
		require.NoError(t, err)
		assert.Equal(t, int64(25), v)
	})

	t.Run("keys are per store", func(t *testing.T) {
		found, err := repo.FindByKey(ctx, s2.ID, "currency")
		require.NoError(t, err)
		assert.Equal(t, "EUR", *found.Value)
	})
}

func TestSettingModel_StoreKeyUnique(t *testing.T) {
	db := setupRepoDB(t)
	s1 := seedStore(t, db, "One")
	s2 := seedStore(t, db, "Two")

	require.NoError(t, db.Create(&models.SettingModel{StoreID: s1.ID, Key: "currency", Type: "string"}).Error)

	err := db.Create(&models.SettingModel{StoreID: s1.ID, Key: "currency", Type: "string"}).Error
	require.Error(t, err, "same key twice in one store")

	require.NoError(t, db.Create(&models.SettingModel{StoreID: s2.ID, Key: "currency", Type: "string"}).Error)

	t.Run("soft deleted rows still hold the key", func(t *testing.T) {
		require.NoError(t, NewGormSettingRepository(db).SoftDelete(context.Background(), s2.ID, "currency"))
		err := db.Create(&models.SettingModel{StoreID: s2.ID, Key: "currency", Type: "string"}).Error
		assert.Error(t, err)
	})
}
