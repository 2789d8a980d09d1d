package identity

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/storehub/backend/internal/domain/identity"
	"github.com/storehub/backend/internal/domain/shared"
	"github.com/storehub/backend/internal/domain/tenancy"
	"github.com/storehub/backend/internal/infrastructure/auth"
	"github.com/storehub/backend/internal/infrastructure/cache"
	"github.com/storehub/backend/internal/infrastructure/logger"
	"github.com/storehub/backend/internal/infrastructure/telemetry"
)

// Authentication errors
var (
	ErrInvalidCredentials = shared.NewDomainError(shared.CodeUnauthorized, "Invalid credentials")
	ErrAccountInactive    = shared.Forbidden("Your account is not active.")
)

// AuthService handles registration, login, logout, the caller's profile
// and token authentication
type AuthService struct {
	userRepo   identity.UserRepository
	users      userAssembler
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	principals *cache.PrincipalCache
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo identity.UserRepository,
	storeRepo tenancy.StoreRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	principals *cache.PrincipalCache,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		users:      userAssembler{stores: storeRepo},
		jwtService: jwtService,
		blacklist:  blacklist,
		principals: principals,
		logger:     logger,
	}
}

// Register creates an account and signs it in
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (result *AuthResult, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "auth", "register")
	defer func() { telemetry.EndSpan(span, err) }()

	user, err := identity.NewUser(input.FirstName, input.LastName, input.Email, input.Password)
	if err != nil {
		return nil, err
	}
	if err := s.ensureUniqueEmail(ctx, user.Email, 0); err != nil {
		return nil, err
	}
	if err := s.applyProfile(ctx, user, input.Profile); err != nil {
		return nil, err
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	logger.For(ctx, s.logger).Info("User registered", zap.Uint("user_id", user.ID))

	return s.issue(ctx, user)
}

// Login verifies credentials and issues a token
func (s *AuthService) Login(ctx context.Context, input LoginInput) (result *AuthResult, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "auth", "login")
	defer func() { telemetry.EndSpan(span, err) }()
	log := logger.For(ctx, s.logger)

	user, err := s.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			log.Warn("Login for unknown email")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !user.VerifyPassword(input.Password) {
		log.Warn("Invalid password attempt", zap.Uint("user_id", user.ID))
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive() {
		log.Warn("Login attempt for inactive account",
			zap.Uint("user_id", user.ID),
			zap.String("status", string(user.Status)))
		return nil, ErrAccountInactive
	}

	log.Info("User logged in", zap.Uint("user_id", user.ID))
	return s.issue(ctx, user)
}

// Logout revokes the presented token for the rest of its lifetime
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) (err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "auth", "logout")
	defer func() { telemetry.EndSpan(span, err) }()

	if claims == nil || claims.ID == "" {
		return shared.ErrUnauthorized
	}
	if err := s.blacklist.Revoke(ctx, claims.ID, claims.RemainingTTL()); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	logger.For(ctx, s.logger).Info("User logged out", zap.Uint("user_id", claims.UserID))
	return nil
}

// Authenticate validates a bearer token and returns the user it belongs to
// with roles and memberships loaded
func (s *AuthService) Authenticate(ctx context.Context, token string) (*identity.User, *auth.Claims, error) {
	claims, err := s.jwtService.Validate(token)
	if err != nil {
		return nil, nil, err
	}

	revoked, err := s.blacklist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("check token revocation: %w", err)
	}
	if !revoked {
		revoked, err = s.blacklist.IsUserRevoked(ctx, claims.UserID, claims.IssuedAtTime())
		if err != nil {
			return nil, nil, fmt.Errorf("check user revocation: %w", err)
		}
	}
	if revoked {
		return nil, nil, auth.ErrTokenRevoked
	}

	user, err := s.principals.Load(ctx, claims.UserID, s.userRepo.FindByID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil, auth.ErrInvalidToken
		}
		return nil, nil, fmt.Errorf("load principal: %w", err)
	}
	if !user.IsActive() {
		return nil, nil, ErrAccountInactive
	}
	return user, claims, nil
}

// Profile returns the authenticated user
func (s *AuthService) Profile(ctx context.Context) (dto *UserDTO, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "auth", "profile")
	defer func() { telemetry.EndSpan(span, err) }()

	principal, ok := identity.PrincipalFrom(ctx)
	if !ok {
		return nil, shared.ErrUnauthorized
	}
	user, err := s.userRepo.FindByID(ctx, principal.ID)
	if err != nil {
		return nil, err
	}
	return s.users.one(ctx, user)
}

// UpdateProfile applies a partial update to the authenticated user
func (s *AuthService) UpdateProfile(ctx context.Context, input ProfileInput) (dto *UserDTO, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "auth", "update_profile")
	defer func() { telemetry.EndSpan(span, err) }()

	principal, ok := identity.PrincipalFrom(ctx)
	if !ok {
		return nil, shared.ErrUnauthorized
	}
	span.SetAttributes(attribute.Int64("user.id", int64(principal.ID)))

	user, err := s.userRepo.FindByID(ctx, principal.ID)
	if err != nil {
		return nil, err
	}
	if input.Email != nil {
		if err := user.SetEmail(*input.Email); err != nil {
			return nil, err
		}
		if err := s.ensureUniqueEmail(ctx, user.Email, user.ID); err != nil {
			return nil, err
		}
	}
	if input.Password != nil {
		if err := user.SetPassword(*input.Password); err != nil {
			return nil, err
		}
	}
	if err := s.applyProfile(ctx, user, input); err != nil {
		return nil, err
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	s.principals.Invalidate(ctx, user.ID)
	logger.For(ctx, s.logger).Info("Profile updated")

	fresh, err := s.userRepo.FindByID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return s.users.one(ctx, fresh)
}

func (s *AuthService) issue(ctx context.Context, user *identity.User) (*AuthResult, error) {
	token, err := s.jwtService.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	dto, err := s.users.one(ctx, user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{
		User:      dto,
		Token:     token.AccessToken,
		TokenType: token.TokenType,
		ExpiresAt: token.ExpiresAt,
	}, nil
}

func (s *AuthService) ensureUniqueEmail(ctx context.Context, email string, excludeID uint) error {
	exists, err := s.userRepo.ExistsByEmail(ctx, email, excludeID)
	if err != nil {
		return fmt.Errorf("check email: %w", err)
	}
	if exists {
		return shared.NewValidationError("email", "The email has already been taken.")
	}
	return nil
}

// applyProfile copies the optional profile fields onto u. Email and
// password are handled by the callers since registration requires them.
func (s *AuthService) applyProfile(ctx context.Context, u *identity.User, in ProfileInput) error {
	fields := shared.FieldErrors{}

	if in.FirstName != nil {
		u.FirstName = *in.FirstName
		if u.FirstName == "" {
			fields.Add("first_name", "The first name field is required.")
		}
	}
	if in.LastName != nil {
		u.LastName = *in.LastName
		if u.LastName == "" {
			fields.Add("last_name", "The last name field is required.")
		}
	}
	if in.Age != nil && (*in.Age < 1 || *in.Age > 150) {
		fields.Add("age", "The age field must be between 1 and 150.")
	}
	if in.Gender != nil && *in.Gender != "" && !in.Gender.IsValid() {
		fields.Add("gender", "The selected gender is invalid.")
	}
	if in.Status != nil && *in.Status != "" && !in.Status.IsValid() {
		fields.Add("status", "The selected status is invalid.")
	}
	if in.Salary != nil && in.Salary.IsNegative() {
		fields.Add("salary", "The salary field must be at least 0.")
	}
	if in.EmployeeID != nil && *in.EmployeeID != "" {
		taken, err := s.userRepo.ExistsByEmployeeID(ctx, *in.EmployeeID, u.ID)
		if err != nil {
			return fmt.Errorf("check employee id: %w", err)
		}
		if taken {
			fields.Add("employee_id", "The employee id has already been taken.")
		}
	}
	if in.StoreID != nil && *in.StoreID != 0 {
		if _, err := s.users.stores.FindByID(ctx, *in.StoreID); err != nil {
			if !errors.Is(err, shared.ErrNotFound) {
				return fmt.Errorf("find store: %w", err)
			}
			fields.Add("store_id", "The selected store id is invalid.")
		}
	}
	if len(fields) > 0 {
		return &shared.ValidationError{Message: "Validation failed", Fields: fields}
	}

	if in.Age != nil {
		u.Age = in.Age
	}
	setString(&u.CIN, in.CIN)
	setString(&u.Avatar, in.Avatar)
	setString(&u.Phone, in.Phone)
	setString(&u.Address, in.Address)
	setString(&u.City, in.City)
	setString(&u.State, in.State)
	setString(&u.Country, in.Country)
	setString(&u.PostalCode, in.PostalCode)
	if in.Gender != nil {
		u.Gender = *in.Gender
	}
	if in.EmployeeID != nil {
		u.EmployeeID = nil
		if *in.EmployeeID != "" {
			id := *in.EmployeeID
			u.EmployeeID = &id
		}
	}
	if in.HireDate != nil {
		u.HireDate = in.HireDate
	}
	if in.Salary != nil {
		u.Salary = in.Salary
	}
	if in.Status != nil && *in.Status != "" {
		u.Status = *in.Status
	}
	if in.StoreID != nil {
		u.StoreID = nil
		if *in.StoreID != 0 {
			id := *in.StoreID
			u.StoreID = &id
		}
	}
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
