package auth_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/hospital-api/internal/application/auth"
	"github.com/jhoicas/hospital-api/internal/application/dto"
	"github.com/jhoicas/hospital-api/internal/domain"
	"github.com/jhoicas/hospital-api/internal/infrastructure/memory"
	"github.com/jhoicas/hospital-api/pkg/jwt"
)

var testJWT = auth.JWTConfig{
	AccessSecret:      "access-secret",
	RefreshSecret:     "refresh-secret",
	AccessExpMinutes:  15,
	RefreshExpMinutes: 0,
	Issuer:            "hospital-api-test",
}

func newAuth(t *testing.T) (*auth.AuthUseCase, *memory.TokenStore) {
	t.Helper()
	tokens := memory.NewTokenStore()
	uc := auth.NewAuthUseCase(memory.NewStore().Users(), tokens, testJWT, zerolog.Nop())
	_, err := uc.RegisterUser(context.Background(), dto.RegisterUserRequest{
		UserName:    "Front Desk",
		Email:       "Desk@Hospital.test",
		PhoneNumber: "9000000000",
		Password:    "s3cret-pass",
	})
	require.NoError(t, err)
	return uc, tokens
}

func TestRegister_DuplicateEmail(t *testing.T) {
	uc, _ := newAuth(t)
	_, err := uc.RegisterUser(context.Background(), dto.RegisterUserRequest{
		UserName: "Other", Email: " desk@hospital.test ", PhoneNumber: "9000000001", Password: "another-pass",
	})
	var conflict *domain.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "email", conflict.Field)

	users, err := uc.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestLogin(t *testing.T) {
	uc, _ := newAuth(t)
	ctx := context.Background()

	_, err := uc.Login(ctx, dto.LoginRequest{Email: "desk@hospital.test", Password: "wrong-pass"})
	assert.EqualError(t, err, "Invalid credentials")
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nobody@hospital.test", Password: "s3cret-pass"})
	assert.EqualError(t, err, "Invalid credentials")

	out, err := uc.Login(ctx, dto.LoginRequest{Email: "DESK@hospital.test", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.Equal(t, "Front Desk", out.UserName)
	assert.Equal(t, "desk@hospital.test", out.EmailID)

	claims, err := jwt.Parse(testJWT.AccessSecret, out.AccessToken, jwt.TokenAccess)
	require.NoError(t, err)
	assert.Equal(t, out.UserID, claims.UserID)
	assert.Equal(t, testJWT.Issuer, claims.Issuer)

	_, err = jwt.Parse(testJWT.AccessSecret, out.RefreshToken, jwt.TokenAccess)
	assert.Error(t, err, "el refresh token no sirve como access token")
}

func TestRefresh_RotatesOnce(t *testing.T) {
	uc, _ := newAuth(t)
	ctx := context.Background()
	login, err := uc.Login(ctx, dto.LoginRequest{Email: "desk@hospital.test", Password: "s3cret-pass"})
	require.NoError(t, err)

	_, err = uc.Refresh(ctx, "")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = uc.Refresh(ctx, "not-a-jwt")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	pair, err := uc.Refresh(ctx, login.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, pair.RefreshToken)

	_, err = uc.Refresh(ctx, login.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrForbidden, "un refresh token usado queda invalidado")

	_, err = uc.Refresh(ctx, pair.RefreshToken)
	assert.NoError(t, err)
}

func TestLogout_RevokesBothTokens(t *testing.T) {
	uc, _ := newAuth(t)
	ctx := context.Background()
	login, err := uc.Login(ctx, dto.LoginRequest{Email: "desk@hospital.test", Password: "s3cret-pass"})
	require.NoError(t, err)

	assert.ErrorIs(t, uc.Logout(ctx, dto.RefreshRequest{}), domain.ErrInvalidInput)

	require.NoError(t, uc.Logout(ctx, dto.RefreshRequest{Token: login.RefreshToken, AccessToken: login.AccessToken}))
	_, err = uc.Refresh(ctx, login.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	claims, err := jwt.Parse(testJWT.AccessSecret, login.AccessToken, jwt.TokenAccess)
	require.NoError(t, err)
	revoked, err := uc.IsAccessRevoked(ctx, claims.ID)
	require.NoError(t, err)
	assert.True(t, revoked)

	// Un segundo logout con tokens ya inválidos no es error.
	assert.NoError(t, uc.Logout(ctx, dto.RefreshRequest{Token: login.RefreshToken, AccessToken: "garbage"}))
}

func TestUpdateUser(t *testing.T) {
	uc, _ := newAuth(t)
	ctx := context.Background()
	other, err := uc.RegisterUser(ctx, dto.RegisterUserRequest{
		UserName: "Pharmacy", Email: "pharmacy@hospital.test", PhoneNumber: "9000000002", Password: "pharma-pass",
	})
	require.NoError(t, err)
	users, err := uc.ListUsers(ctx)
	require.NoError(t, err)
	var deskID string
	for _, u := range users {
		if u.ID != other.ID {
			deskID = u.ID
		}
	}

	name, pass := "Recepción", "new-s3cret-pass"
	out, err := uc.UpdateUser(ctx, deskID, dto.UpdateUserRequest{UserName: &name, Password: &pass})
	require.NoError(t, err)
	assert.Equal(t, "User updated successfully", out.Message)
	assert.Equal(t, "Recepción", out.User.UserName)
	assert.Equal(t, "desk@hospital.test", out.User.Email, "los campos ausentes se conservan")

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "desk@hospital.test", Password: "s3cret-pass"})
	assert.EqualError(t, err, "Invalid credentials")
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "desk@hospital.test", Password: pass})
	assert.NoError(t, err)

	taken := "9000000002"
	_, err = uc.UpdateUser(ctx, deskID, dto.UpdateUserRequest{PhoneNumber: &taken})
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = uc.UpdateUser(ctx, "ghost", dto.UpdateUserRequest{UserName: &name})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.EqualError(t, err, "User not found")
}
