package identity

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/storehub/backend/internal/domain/identity"
	"github.com/storehub/backend/internal/domain/shared"
	"github.com/storehub/backend/internal/domain/tenancy"
)

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *identity.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *identity.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) SoftDelete(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, filter identity.UserFilter) ([]*identity.User, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*identity.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string, excludeID uint) (bool, error) {
	args := m.Called(ctx, email, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmployeeID(ctx context.Context, employeeID string, excludeID uint) (bool, error) {
	args := m.Called(ctx, employeeID, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) AddMembership(ctx context.Context, userID, storeID uint) error {
	return m.Called(ctx, userID, storeID).Error(0)
}

func (m *MockUserRepository) RemoveMembership(ctx context.Context, userID, storeID uint, clearDefault bool) error {
	return m.Called(ctx, userID, storeID, clearDefault).Error(0)
}

func (m *MockUserRepository) UpdateDefaultStore(ctx context.Context, userID uint, storeID *uint) error {
	return m.Called(ctx, userID, storeID).Error(0)
}

func (m *MockUserRepository) SyncRoles(ctx context.Context, userID uint, roleIDs []uint) error {
	return m.Called(ctx, userID, roleIDs).Error(0)
}

// MockRoleRepository is a mock implementation of identity.RoleRepository
type MockRoleRepository struct {
	mock.Mock
}

func (m *MockRoleRepository) Create(ctx context.Context, role *identity.Role) error {
	return m.Called(ctx, role).Error(0)
}

func (m *MockRoleRepository) Update(ctx context.Context, role *identity.Role) error {
	return m.Called(ctx, role).Error(0)
}

func (m *MockRoleRepository) Delete(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockRoleRepository) FindByID(ctx context.Context, id uint) (*identity.Role, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Role), args.Error(1)
}

func (m *MockRoleRepository) FindByName(ctx context.Context, name string) (*identity.Role, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Role), args.Error(1)
}

func (m *MockRoleRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*identity.Role, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*identity.Role), args.Get(1).(int64), args.Error(2)
}

func (m *MockRoleRepository) ExistsByName(ctx context.Context, name string, excludeID uint) (bool, error) {
	args := m.Called(ctx, name, excludeID)
	return args.Bool(0), args.Error(1)
}

// MockPermissionRepository is a mock implementation of identity.PermissionRepository
type MockPermissionRepository struct {
	mock.Mock
}

func (m *MockPermissionRepository) FindAll(ctx context.Context) ([]identity.Permission, error) {
	args := m.Called(ctx)
	return args.Get(0).([]identity.Permission), args.Error(1)
}

func (m *MockPermissionRepository) FindByNames(ctx context.Context, names []string) ([]identity.Permission, error) {
	args := m.Called(ctx, names)
	return args.Get(0).([]identity.Permission), args.Error(1)
}

// MockStoreRepository is a mock implementation of tenancy.StoreRepository
type MockStoreRepository struct {
	mock.Mock
}

func (m *MockStoreRepository) Create(ctx context.Context, store *tenancy.Store) error {
	return m.Called(ctx, store).Error(0)
}

func (m *MockStoreRepository) Update(ctx context.Context, store *tenancy.Store) error {
	return m.Called(ctx, store).Error(0)
}

func (m *MockStoreRepository) SoftDelete(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockStoreRepository) Restore(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockStoreRepository) FindByID(ctx context.Context, id uint) (*tenancy.Store, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tenancy.Store), args.Error(1)
}

func (m *MockStoreRepository) FindByIDWithTrashed(ctx context.Context, id uint) (*tenancy.Store, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tenancy.Store), args.Error(1)
}

func (m *MockStoreRepository) FindByIDs(ctx context.Context, ids []uint) ([]*tenancy.Store, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]*tenancy.Store), args.Error(1)
}

func (m *MockStoreRepository) FindAll(ctx context.Context, filter shared.Filter) ([]tenancy.StoreSummary, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]tenancy.StoreSummary), args.Get(1).(int64), args.Error(2)
}

func (m *MockStoreRepository) FindMembers(ctx context.Context, storeID uint) ([]tenancy.StoreMember, error) {
	args := m.Called(ctx, storeID)
	return args.Get(0).([]tenancy.StoreMember), args.Error(1)
}

func (m *MockStoreRepository) ExistsByCode(ctx context.Context, code string, excludeID uint) (bool, error) {
	args := m.Called(ctx, code, excludeID)
	return args.Bool(0), args.Error(1)
}
