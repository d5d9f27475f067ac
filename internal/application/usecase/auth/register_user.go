// Package auth contains the sign-up and session token use cases.
package auth

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/nivi-finance/backend/internal/application/adapter"
	"github.com/nivi-finance/backend/internal/domain/entity"
	domainerror "github.com/nivi-finance/backend/internal/domain/error"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// RegisterUserInput represents the input for user registration.
type RegisterUserInput struct {
	Email    string
	Name     string
	Password string
}

// SessionOutput is what a successful sign-up, login or refresh returns.
type SessionOutput struct {
	Tokens *adapter.TokenPair
	User   *entity.User
}

// RegisterUserUseCase creates an account and signs it in.
type RegisterUserUseCase struct {
	userRepo        adapter.UserRepository
	passwordService adapter.PasswordService
	tokenService    adapter.TokenService
}

// NewRegisterUserUseCase creates a new RegisterUserUseCase instance.
func NewRegisterUserUseCase(
	userRepo adapter.UserRepository,
	passwordService adapter.PasswordService,
	tokenService adapter.TokenService,
) *RegisterUserUseCase {
	return &RegisterUserUseCase{
		userRepo:        userRepo,
		passwordService: passwordService,
		tokenService:    tokenService,
	}
}

// Execute performs the registration.
func (uc *RegisterUserUseCase) Execute(ctx context.Context, input RegisterUserInput) (*SessionOutput, error) {
	email := normalizeEmail(input.Email)
	if !emailPattern.MatchString(email) {
		return nil, domainerror.NewAuthError(domainerror.ErrCodeInvalidEmail, "invalid email format", domainerror.ErrInvalidEmail)
	}
	if err := uc.passwordService.ValidatePasswordStrength(input.Password); err != nil {
		return nil, domainerror.NewAuthError(domainerror.ErrCodeWeakPassword, err.Error(), domainerror.ErrWeakPassword)
	}

	exists, err := uc.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email existence: %w", err)
	}
	if exists {
		return nil, domainerror.NewAuthError(domainerror.ErrCodeEmailExists, "email already exists", domainerror.ErrEmailAlreadyExists)
	}

	hash, err := uc.passwordService.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user := entity.NewUser(email, strings.TrimSpace(input.Name), hash)
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	tokens, err := uc.tokenService.GenerateTokenPair(ctx, user.ID, user.Email, false)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}
	return &SessionOutput{Tokens: tokens, User: user}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
