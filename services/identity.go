package services

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"SafeEduBackend/logger"
	"SafeEduBackend/models"
)

// IdentityService owns user records and credential checks. Session tokens
// are issued by the transport layer.
type IdentityService struct {
	users UserRepository
	cost  int
	log   *logger.Logger
}

func NewIdentityService(users UserRepository, bcryptCost int, log *logger.Logger) *IdentityService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &IdentityService{users: users, cost: bcryptCost, log: log.With("service", "IdentityService")}
}

// Register stores a new user. The returned user never carries the
// password hash.
func (s *IdentityService) Register(ctx context.Context, signup models.UserSignup) (*models.User, error) {
	signup.Username = strings.TrimSpace(signup.Username)
	signup.Email = strings.TrimSpace(signup.Email)
	signup.Department = strings.TrimSpace(signup.Department)
	if err := validateStruct("invalid user data", signup); err != nil {
		return nil, err
	}
	role := signup.Role
	if role == "" {
		role = models.RoleUser
	}
	if !role.Valid() {
		return nil, NewValidationError("invalid user data", FieldError{Field: "role", Error: "role must be admin or user"})
	}

	_, err := s.users.GetUserByEmail(ctx, models.NormalizeEmail(signup.Email))
	if err == nil {
		return nil, NewConflictError("user with this email already exists")
	}
	if !errors.Is(err, ErrRecordNotFound) {
		return nil, NewInternalError("failed to create user", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(signup.Password), s.cost)
	if err != nil {
		return nil, NewInternalError("error processing password", err)
	}

	user, err := models.NewUser(signup.Username, signup.Email, string(hashed), signup.Department, role)
	if err != nil {
		return nil, NewValidationError(err.Error())
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return nil, NewConflictError("user with this email already exists")
		}
		return nil, NewInternalError("failed to create user", err)
	}

	s.log.Info("user registered", "user_id", user.ID, "role", user.Role)
	out := *user
	out.Password = ""
	return &out, nil
}

// Authenticate checks an email/password pair. Unknown emails and wrong
// passwords fail the same way.
func (s *IdentityService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, NewValidationError("email and password are required")
	}

	user, err := s.users.GetUserByEmail(ctx, models.NormalizeEmail(email))
	if errors.Is(err, ErrRecordNotFound) {
		return nil, NewUnauthorizedError("invalid email or password")
	}
	if err != nil {
		return nil, NewInternalError("login failed", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, NewUnauthorizedError("invalid email or password")
	}

	out := *user
	out.Password = ""
	return &out, nil
}

func (s *IdentityService) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.users.GetUserByID(ctx, id)
	if errors.Is(err, ErrRecordNotFound) {
		return nil, NewNotFoundError("user not found")
	}
	if err != nil {
		return nil, NewInternalError("failed to fetch user", err)
	}
	out := *user
	out.Password = ""
	return &out, nil
}
