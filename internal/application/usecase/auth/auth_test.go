package auth

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nivi-finance/backend/internal/application/adapter"
	"github.com/nivi-finance/backend/internal/domain/entity"
	domainerror "github.com/nivi-finance/backend/internal/domain/error"
)

type memoryUsers struct {
	byID map[uuid.UUID]*entity.User
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{byID: make(map[uuid.UUID]*entity.User)}
}

func (r *memoryUsers) Create(_ context.Context, user *entity.User) error {
	r.byID[user.ID] = user
	return nil
}

func (r *memoryUsers) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	if user, ok := r.byID[id]; ok {
		return user, nil
	}
	return nil, domainerror.ErrUserNotFound
}

func (r *memoryUsers) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, user := range r.byID {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, domainerror.ErrUserNotFound
}

func (r *memoryUsers) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.FindByEmail(ctx, email)
	return err == nil, nil
}

type plainPasswords struct{}

func (plainPasswords) HashPassword(password string) (string, error) { return "hashed:" + password, nil }

func (plainPasswords) VerifyPassword(hashed, password string) error {
	if hashed != "hashed:"+password {
		return errors.New("mismatch")
	}
	return nil
}

func (plainPasswords) ValidatePasswordStrength(password string) error {
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters long")
	}
	return nil
}

// fakeTokens issues opaque tokens of the form "<kind>:<user id>:<serial>".
type fakeTokens struct {
	serial  int
	allowed map[string]bool
}

func newFakeTokens() *fakeTokens {
	return &fakeTokens{allowed: make(map[string]bool)}
}

func (s *fakeTokens) GenerateTokenPair(_ context.Context, userID uuid.UUID, _ string, _ bool) (*adapter.TokenPair, error) {
	s.serial++
	refresh := "refresh:" + userID.String() + ":" + strconv.Itoa(s.serial)
	s.allowed[refresh] = true
	return &adapter.TokenPair{AccessToken: "access:" + userID.String(), RefreshToken: refresh, ExpiresIn: time.Minute}, nil
}

func (s *fakeTokens) ValidateAccessToken(_ context.Context, token string) (*adapter.TokenClaims, error) {
	return s.parse(token, "access")
}

func (s *fakeTokens) ValidateRefreshToken(_ context.Context, token string) (*adapter.TokenClaims, error) {
	return s.parse(token, "refresh")
}

func (s *fakeTokens) parse(token, kind string) (*adapter.TokenClaims, error) {
	parts := strings.Split(token, ":")
	if len(parts) < 2 || parts[0] != kind {
		return nil, errors.New("malformed")
	}
	id, err := uuid.Parse(parts[1])
	if err != nil {
		return nil, err
	}
	return &adapter.TokenClaims{UserID: id}, nil
}

func (s *fakeTokens) InvalidateRefreshToken(_ context.Context, token string) error {
	delete(s.allowed, token)
	return nil
}

func (s *fakeTokens) IsRefreshTokenValid(_ context.Context, token string) (bool, error) {
	return s.allowed[token], nil
}

func requireAuthCode(t *testing.T, err error, code domainerror.AuthErrorCode) {
	t.Helper()
	var authErr *domainerror.AuthError
	require.True(t, errors.As(err, &authErr), "expected AuthError, got %v", err)
	assert.Equal(t, code, authErr.Code)
}

func TestRegisterUser(t *testing.T) {
	users := newMemoryUsers()
	uc := NewRegisterUserUseCase(users, plainPasswords{}, newFakeTokens())
	ctx := context.Background()

	out, err := uc.Execute(ctx, RegisterUserInput{Email: " Priya@Example.com ", Name: "Priya", Password: "long enough"})
	require.NoError(t, err)
	assert.Equal(t, "priya@example.com", out.User.Email)
	assert.NotEmpty(t, out.Tokens.RefreshToken)

	tests := []struct {
		name  string
		input RegisterUserInput
		code  domainerror.AuthErrorCode
	}{
		{name: "duplicate email", input: RegisterUserInput{Email: "priya@example.com", Password: "long enough"}, code: domainerror.ErrCodeEmailExists},
		{name: "bad email", input: RegisterUserInput{Email: "not-an-email", Password: "long enough"}, code: domainerror.ErrCodeInvalidEmail},
		{name: "short password", input: RegisterUserInput{Email: "sam@example.com", Password: "short"}, code: domainerror.ErrCodeWeakPassword},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(ctx, tt.input)
			requireAuthCode(t, err, tt.code)
		})
	}
}

func TestLoginAndRefresh(t *testing.T) {
	users := newMemoryUsers()
	tokens := newFakeTokens()
	ctx := context.Background()
	_, err := NewRegisterUserUseCase(users, plainPasswords{}, tokens).Execute(ctx, RegisterUserInput{
		Email: "ana@example.com", Password: "correct horse",
	})
	require.NoError(t, err)

	login := NewLoginUserUseCase(users, plainPasswords{}, tokens)
	_, err = login.Execute(ctx, LoginUserInput{Email: "ana@example.com", Password: "wrong"})
	requireAuthCode(t, err, domainerror.ErrCodeInvalidCredentials)
	_, err = login.Execute(ctx, LoginUserInput{Email: "nobody@example.com", Password: "correct horse"})
	requireAuthCode(t, err, domainerror.ErrCodeInvalidCredentials)

	session, err := login.Execute(ctx, LoginUserInput{Email: "ANA@example.com", Password: "correct horse"})
	require.NoError(t, err)

	refresh := NewRefreshTokenUseCase(users, tokens)
	rotated, err := refresh.Execute(ctx, RefreshTokenInput{RefreshToken: session.Tokens.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, session.Tokens.RefreshToken, rotated.Tokens.RefreshToken)

	_, err = refresh.Execute(ctx, RefreshTokenInput{RefreshToken: session.Tokens.RefreshToken})
	requireAuthCode(t, err, domainerror.ErrCodeInvalidToken)

	require.NoError(t, NewLogoutUserUseCase(tokens).Execute(ctx, LogoutUserInput{RefreshToken: rotated.Tokens.RefreshToken}))
	_, err = refresh.Execute(ctx, RefreshTokenInput{RefreshToken: rotated.Tokens.RefreshToken})
	requireAuthCode(t, err, domainerror.ErrCodeInvalidToken)

	_, err = refresh.Execute(ctx, RefreshTokenInput{RefreshToken: "garbage"})
	requireAuthCode(t, err, domainerror.ErrCodeInvalidToken)
}
