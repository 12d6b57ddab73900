package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"
)

// UserRepository captures the persistence operations needed by the user service.
type UserRepository interface {
	CreateUser(ctx context.Context, user User, passwordHash string) (User, error)
	GetUser(ctx context.Context, id string) (User, error)
	UpdateUser(ctx context.Context, user User) (User, error)
	// DeleteUser removes the identity, its sessions and the profile together.
	DeleteUser(ctx context.Context, id string) error
	ListUsers(ctx context.Context, filter UserFilter, page PageRequest) ([]User, int, error)
}

// UserService orchestrates validation, authorization, and persistence for users.
type UserService struct {
	users        UserRepository
	hashPassword PasswordHasher
	idGenerator  func() string
	now          func() time.Time
	logger       *slog.Logger
}

// NewUserService wires dependencies for the user service.
func NewUserService(users UserRepository, hash PasswordHasher, idGenerator func() string, now func() time.Time) *UserService {
	return NewUserServiceWithLogger(users, hash, idGenerator, now, nil)
}

// NewUserServiceWithLogger wires dependencies for the user service with a logger.
func NewUserServiceWithLogger(users UserRepository, hash PasswordHasher, idGenerator func() string, now func() time.Time, logger *slog.Logger) *UserService {
	if hash == nil {
		hash = HashPassword
	}
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &UserService{users: users, hashPassword: hash, idGenerator: idGenerator, now: now, logger: defaultLogger(logger)}
}

func (s *UserService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "UserService", operation, attrs...)
}

// CreateUser validates input, hashes the password and stores the identity with its profile.
func (s *UserService) CreateUser(ctx context.Context, params CreateUserParams) (user User, err error) {
	if s == nil {
		err = fmt.Errorf("UserService is nil")
		return
	}
	logger := s.loggerWith(ctx, "CreateUser", "principal_id", params.Principal.UserID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create user", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "user created", "user_id", user.ID, "role", user.Role)
	}()

	if !params.Principal.IsAdmin() {
		err = ErrUnauthorized
		return
	}
	user, err = s.create(ctx, params.Input)
	return
}

// EnsureAdmin creates the bootstrap administrator unless the email is already registered.
func (s *UserService) EnsureAdmin(ctx context.Context, input UserInput) (created bool, err error) {
	if s == nil {
		return false, fmt.Errorf("UserService is nil")
	}
	input.Role = string(RoleAdmin)
	input.ConfirmPassword = input.Password

	logger := s.loggerWith(ctx, "EnsureAdmin", "email", strings.ToLower(strings.TrimSpace(input.Email)))
	user, err := s.create(ctx, input)
	switch {
	case errors.Is(err, ErrAlreadyExists):
		logger.InfoContext(ctx, "bootstrap admin already present")
		return false, nil
	case err != nil:
		logger.ErrorContext(ctx, "failed to bootstrap admin", "error", err, "error_kind", ErrorKind(err))
		return false, err
	}
	logger.InfoContext(ctx, "bootstrap admin created", "user_id", user.ID)
	return true, nil
}

func (s *UserService) create(ctx context.Context, input UserInput) (User, error) {
	if s.users == nil {
		return User{}, fmt.Errorf("user repository not configured")
	}
	normalized := normalizeUserInput(input)
	role, vErr := validateUserInput(normalized)
	validatePassword(vErr, input.Password, input.ConfirmPassword)
	if vErr.HasErrors() {
		return User{}, vErr
	}

	hash, err := s.hashPassword(input.Password)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	user := User{
		ID:        s.idGenerator(),
		Name:      normalized.Name,
		Email:     normalized.Email,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	persisted, err := s.users.CreateUser(ctx, user, hash)
	if err != nil {
		return User{}, mapRepoError(err)
	}
	return persisted, nil
}

// GetUser returns one user for administrators.
func (s *UserService) GetUser(ctx context.Context, principal Principal, userID string) (User, error) {
	if s == nil {
		return User{}, fmt.Errorf("UserService is nil")
	}
	if !principal.IsAdmin() {
		return User{}, ErrUnauthorized
	}
	if s.users == nil {
		return User{}, fmt.Errorf("user repository not configured")
	}
	user, err := s.users.GetUser(ctx, strings.TrimSpace(userID))
	if err != nil {
		return User{}, mapRepoError(err)
	}
	return user, nil
}

// UpdateUser changes the name and role of an existing user. Email and password stay as they are.
func (s *UserService) UpdateUser(ctx context.Context, params UpdateUserParams) (user User, err error) {
	if s == nil {
		err = fmt.Errorf("UserService is nil")
		return
	}
	logger := s.loggerWith(ctx, "UpdateUser", "principal_id", params.Principal.UserID, "user_id", params.UserID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update user", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "user updated", "role", user.Role)
	}()

	if !params.Principal.IsAdmin() {
		err = ErrUnauthorized
		return
	}
	if s.users == nil {
		err = fmt.Errorf("user repository not configured")
		return
	}

	var existing User
	if existing, err = s.users.GetUser(ctx, params.UserID); err != nil {
		err = mapRepoError(err)
		return
	}

	normalized := normalizeUserInput(params.Input)
	normalized.Email = existing.Email
	role, vErr := validateUserInput(normalized)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	updated := existing
	updated.Name = normalized.Name
	updated.Role = role
	updated.UpdatedAt = s.now()

	if user, err = s.users.UpdateUser(ctx, updated); err != nil {
		err = mapRepoError(err)
	}
	return
}

// DeleteUser removes the account, its sessions and its profile.
func (s *UserService) DeleteUser(ctx context.Context, principal Principal, userID string) (err error) {
	if s == nil {
		return fmt.Errorf("UserService is nil")
	}
	id := strings.TrimSpace(userID)
	logger := s.loggerWith(ctx, "DeleteUser", "principal_id", principal.UserID, "user_id", id)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to delete user", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "user deleted")
	}()

	if !principal.IsAdmin() {
		return ErrUnauthorized
	}
	if s.users == nil {
		return fmt.Errorf("user repository not configured")
	}
	if id == "" {
		return ErrNotFound
	}
	return mapRepoError(s.users.DeleteUser(ctx, id))
}

// ListUsers returns one page of users sorted by name for administrators.
func (s *UserService) ListUsers(ctx context.Context, params ListUsersParams) (Paged[User], error) {
	if s == nil {
		return Paged[User]{}, fmt.Errorf("UserService is nil")
	}
	if !params.Principal.IsAdmin() {
		return Paged[User]{}, ErrUnauthorized
	}
	if s.users == nil {
		return Paged[User]{}, fmt.Errorf("user repository not configured")
	}

	page := params.Page.Normalize()
	users, total, err := s.users.ListUsers(ctx, UserFilter{Name: strings.TrimSpace(params.Name)}, page)
	if err != nil {
		s.loggerWith(ctx, "ListUsers").ErrorContext(ctx, "failed to list users", "error", err, "error_kind", ErrorKind(err))
		return Paged[User]{}, mapRepoError(err)
	}
	return newPaged(users, page, total), nil
}

func normalizeUserInput(input UserInput) UserInput {
	return UserInput{
		Name:  strings.TrimSpace(input.Name),
		Email: strings.ToLower(strings.TrimSpace(input.Email)),
		Role:  strings.TrimSpace(input.Role),
	}
}

func validateUserInput(input UserInput) (Role, *ValidationError) {
	vErr := &ValidationError{}

	if input.Name == "" {
		vErr.add("name", "name is required")
	}
	if input.Email == "" {
		vErr.add("email", "email is required")
	} else if addr, err := mail.ParseAddress(input.Email); err != nil || addr.Address != input.Email {
		vErr.add("email", "email is invalid")
	}

	role, ok := ParseRole(input.Role)
	if !ok {
		vErr.add("role", "role must be ADMIN or GUARD")
	}
	return role, vErr
}

func validatePassword(vErr *ValidationError, password, confirm string) {
	switch {
	case password == "":
		vErr.add("password", "password is required")
	case len(password) < MinPasswordLength:
		vErr.add("password", fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}
	if confirm != password {
		vErr.add("confirm_password", "passwords do not match")
	}
}
