package setting

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/storehub/backend/internal/domain/setting"
	"github.com/storehub/backend/internal/domain/shared"
	"github.com/storehub/backend/internal/domain/tenancy"
)

// MockRepository is a mock implementation of setting.Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) FindAll(ctx context.Context, storeID uint) ([]*setting.Setting, error) {
	args := m.Called(ctx, storeID)
	return args.Get(0).([]*setting.Setting), args.Error(1)
}

func (m *MockRepository) FindByKey(ctx context.Context, storeID uint, key string) (*setting.Setting, error) {
	args := m.Called(ctx, storeID, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*setting.Setting), args.Error(1)
}

func (m *MockRepository) Save(ctx context.Context, s *setting.Setting) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockRepository) SoftDelete(ctx context.Context, storeID uint, key string) error {
	return m.Called(ctx, storeID, key).Error(0)
}

func mustSetting(t *testing.T, key string, typ setting.ValueType, v any) *setting.Setting {
	t.Helper()
	s, err := setting.New(1, key, typ, v)
	require.NoError(t, err)
	return s
}

func inStore(id uint) context.Context {
	return tenancy.WithActiveStore(context.Background(), id)
}

func TestService_List(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, zap.NewNop())
	repo.On("FindAll", mock.Anything, uint(1)).Return([]*setting.Setting{
		mustSetting(t, "currency", setting.TypeString, "MAD"),
		mustSetting(t, "max_items", setting.TypeInteger, 20),
		mustSetting(t, "tax_enabled", setting.TypeBoolean, true),
	}, nil)

	out, err := svc.List(inStore(1))
	require.NoError(t, err)
	assert.Equal(t, []SettingDTO{
		{Key: "currency", Value: "MAD", Type: "string"},
		{Key: "max_items", Value: int64(20), Type: "integer"},
		{Key: "tax_enabled", Value: true, Type: "boolean"},
	}, out)

	t.Run("empty without an active store", func(t *testing.T) {
		out, err := svc.List(context.Background())
		require.NoError(t, err)
		assert.Empty(t, out)
		repo.AssertNumberOfCalls(t, "FindAll", 1)
	})
}

func TestService_Get(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, zap.NewNop())
	repo.On("FindByKey", mock.Anything, uint(1), "layout").
		Return(mustSetting(t, "layout", setting.TypeJSON, map[string]any{"cols": 3}), nil)
	repo.On("FindByKey", mock.Anything, uint(1), "missing").Return(nil, shared.ErrNotFound)

	dto, err := svc.Get(inStore(1), "layout")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"cols": float64(3)}, dto.Value)

	_, err = svc.Get(inStore(1), "missing")
	assert.Equal(t, ErrSettingNotFound, err)

	_, err = svc.Get(context.Background(), "layout")
	assert.Equal(t, ErrSettingNotFound, err)
}

func TestService_Put(t *testing.T) {
	t.Run("keeps the stored type when omitted", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, zap.NewNop())
		repo.On("FindByKey", mock.Anything, uint(1), "max_items").
			Return(mustSetting(t, "max_items", setting.TypeInteger, 5), nil)
		repo.On("Save", mock.Anything, mock.MatchedBy(func(s *setting.Setting) bool {
			return s.Type == setting.TypeInteger && *s.Value == "12" && s.StoreID == 1
		})).Return(nil)

		dto, err := svc.Put(inStore(1), "max_items", PutInput{Value: "12"})
		require.NoError(t, err)
		assert.Equal(t, int64(12), dto.Value)
	})

	t.Run("new key defaults to string", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, zap.NewNop())
		repo.On("FindByKey", mock.Anything, uint(1), "motto").Return(nil, shared.ErrNotFound)
		repo.On("Save", mock.Anything, mock.Anything).Return(nil)

		dto, err := svc.Put(inStore(1), "motto", PutInput{Value: "hello"})
		require.NoError(t, err)
		assert.Equal(t, "string", dto.Type)
	})

	t.Run("rejects a value of the wrong type", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, zap.NewNop())

		_, err := svc.Put(inStore(1), "enabled", PutInput{Value: "maybe", Type: setting.TypeBoolean})
		var verr *shared.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "value")
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("requires an active store", func(t *testing.T) {
		svc := NewService(new(MockRepository), zap.NewNop())
		_, err := svc.Put(context.Background(), "k", PutInput{Value: "v"})
		var verr *shared.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "X-Store-ID")
	})
}

func TestService_Delete(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, zap.NewNop())
	repo.On("SoftDelete", mock.Anything, uint(1), "motto").Return(nil)
	repo.On("SoftDelete", mock.Anything, uint(1), "ghost").Return(shared.ErrNotFound)

	require.NoError(t, svc.Delete(inStore(1), "motto"))
	assert.Equal(t, ErrSettingNotFound, svc.Delete(inStore(1), "ghost"))
	assert.Equal(t, ErrSettingNotFound, svc.Delete(context.Background(), "motto"))
}
