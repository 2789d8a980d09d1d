package tenancy

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/storehub/backend/internal/domain/shared"
	"github.com/storehub/backend/internal/domain/tenancy"
	"github.com/storehub/backend/internal/infrastructure/cache"
)

type membershipFixture struct {
	users      *MockUserRepository
	stores     *MockStoreRepository
	principals *cache.PrincipalCache
	svc        *MembershipService
}

func newMembershipFixture() *membershipFixture {
	f := &membershipFixture{
		users:      new(MockUserRepository),
		stores:     new(MockStoreRepository),
		principals: cache.NewPrincipalCache(time.Minute),
	}
	f.svc = NewMembershipService(f.users, f.stores, f.principals, zap.NewNop())
	return f
}

func TestMembershipService_ListUserStores(t *testing.T) {
	f := newMembershipFixture()
	user := principal(4, 1, 2)
	user.DefaultStoreID = uintPtr(2)
	f.users.On("FindByID", mock.Anything, uint(4)).Return(user, nil)
	f.stores.On("FindByIDs", mock.Anything, []uint{1, 2}).
		Return([]*tenancy.Store{store(1, "Main"), store(2, "Branch")}, nil)

	dto, err := f.svc.ListUserStores(context.Background(), 4)
	require.NoError(t, err)
	assert.Len(t, dto.Stores, 2)
	assert.Equal(t, uint(2), *dto.DefaultStoreID)

	t.Run("no memberships", func(t *testing.T) {
		f := newMembershipFixture()
		f.users.On("FindByID", mock.Anything, uint(5)).Return(principal(5), nil)

		dto, err := f.svc.ListUserStores(context.Background(), 5)
		require.NoError(t, err)
		assert.Empty(t, dto.Stores)
		assert.Nil(t, dto.DefaultStoreID)
		f.stores.AssertNotCalled(t, "FindByIDs", mock.Anything, mock.Anything)
	})
}

func TestMembershipService_Assign(t *testing.T) {
	t.Run("assigns and flushes the principal", func(t *testing.T) {
		f := newMembershipFixture()
		f.principals.Set(principal(4))
		f.users.On("FindByID", mock.Anything, uint(4)).Return(principal(4), nil)
		f.stores.On("FindByID", mock.Anything, uint(2)).Return(store(2, "Branch"), nil)
		f.users.On("AddMembership", mock.Anything, uint(4), uint(2)).Return(nil)

		dto, err := f.svc.Assign(context.Background(), 4, 2)
		require.NoError(t, err)
		assert.Equal(t, "Branch", dto.Name)
		_, cached := f.principals.Get(4)
		assert.False(t, cached)
	})

	t.Run("rejects a duplicate assignment", func(t *testing.T) {
		f := newMembershipFixture()
		f.users.On("FindByID", mock.Anything, uint(4)).Return(principal(4, 2), nil)
		f.stores.On("FindByID", mock.Anything, uint(2)).Return(store(2, "Branch"), nil)

		_, err := f.svc.Assign(context.Background(), 4, 2)
		require.Error(t, err)
		assert.Equal(t, "User is already assigned to this store.", err.Error())
		f.users.AssertNotCalled(t, "AddMembership", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing store is a 404", func(t *testing.T) {
		f := newMembershipFixture()
		f.users.On("FindByID", mock.Anything, uint(4)).Return(principal(4), nil)
		f.stores.On("FindByID", mock.Anything, uint(9)).Return(nil, shared.NotFound("Store not found."))

		_, err := f.svc.Assign(context.Background(), 4, 9)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("unknown user", func(t *testing.T) {
		f := newMembershipFixture()
		f.users.On("FindByID", mock.Anything, uint(8)).Return(nil, shared.NotFound("User not found."))
		_, err := f.svc.Assign(context.Background(), 8, 2)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestMembershipService_Remove(t *testing.T) {
	t.Run("clears the default store with the membership", func(t *testing.T) {
		f := newMembershipFixture()
		user := principal(4, 2, 3)
		user.DefaultStoreID = uintPtr(2)
		f.users.On("FindByID", mock.Anything, uint(4)).Return(user, nil)
		f.stores.On("FindByID", mock.Anything, uint(2)).Return(store(2, "Branch"), nil)
		f.users.On("RemoveMembership", mock.Anything, uint(4), uint(2), true).Return(nil)

		require.NoError(t, f.svc.Remove(context.Background(), 4, 2))
		f.users.AssertExpectations(t)
	})

	t.Run("keeps an unrelated default store", func(t *testing.T) {
		f := newMembershipFixture()
		user := principal(4, 2, 3)
		user.DefaultStoreID = uintPtr(3)
		f.users.On("FindByID", mock.Anything, uint(4)).Return(user, nil)
		f.stores.On("FindByID", mock.Anything, uint(2)).Return(store(2, "Branch"), nil)
		f.users.On("RemoveMembership", mock.Anything, uint(4), uint(2), false).Return(nil)

		require.NoError(t, f.svc.Remove(context.Background(), 4, 2))
		f.users.AssertExpectations(t)
	})

	t.Run("not assigned", func(t *testing.T) {
		f := newMembershipFixture()
		f.users.On("FindByID", mock.Anything, uint(4)).Return(principal(4), nil)
		f.stores.On("FindByID", mock.Anything, uint(2)).Return(store(2, "Branch"), nil)

		err := f.svc.Remove(context.Background(), 4, 2)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.Equal(t, "User is not assigned to this store.", err.Error())
	})

	t.Run("missing store is a 404", func(t *testing.T) {
		f := newMembershipFixture()
		f.users.On("FindByID", mock.Anything, uint(4)).Return(principal(4), nil)
		f.stores.On("FindByID", mock.Anything, uint(9)).Return(nil, shared.NotFound("Store not found."))

		err := f.svc.Remove(context.Background(), 4, 9)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestMembershipService_SetDefault(t *testing.T) {
	t.Run("sets an accessible store", func(t *testing.T) {
		f := newMembershipFixture()
		f.users.On("FindByID", mock.Anything, uint(4)).Return(principal(4, 2), nil)
		f.stores.On("FindByID", mock.Anything, uint(2)).Return(store(2, "Branch"), nil)
		f.users.On("UpdateDefaultStore", mock.Anything, uint(4), uintPtr(2)).Return(nil)

		dto, err := f.svc.SetDefault(context.Background(), 4, 2)
		require.NoError(t, err)
		assert.Equal(t, uint(2), dto.ID)
	})

	t.Run("reports a missing store as invalid input", func(t *testing.T) {
		f := newMembershipFixture()
		f.users.On("FindByID", mock.Anything, uint(4)).Return(principal(4), nil)
		f.stores.On("FindByID", mock.Anything, uint(9)).Return(nil, shared.NotFound("Store not found."))

		_, err := f.svc.SetDefault(context.Background(), 4, 9)
		var verr *shared.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "store_id")
	})

	t.Run("leaves the user untouched without access", func(t *testing.T) {
		f := newMembershipFixture()
		user := principal(4, 2)
		user.DefaultStoreID = uintPtr(2)
		f.users.On("FindByID", mock.Anything, uint(4)).Return(user, nil)
		f.stores.On("FindByID", mock.Anything, uint(3)).Return(store(3, "Other"), nil)

		_, err := f.svc.SetDefault(context.Background(), 4, 3)
		require.Error(t, err)
		assert.Equal(t, "User does not have access to this store.", err.Error())
		assert.Equal(t, uint(2), *user.DefaultStoreID)
		f.users.AssertNotCalled(t, "UpdateDefaultStore", mock.Anything, mock.Anything, mock.Anything)
	})
}
