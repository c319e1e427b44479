package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/hospital-api/internal/application/dto"
	"github.com/jhoicas/hospital-api/internal/domain"
	"github.com/jhoicas/hospital-api/internal/domain/entity"
	"github.com/jhoicas/hospital-api/internal/domain/repository"
	"github.com/jhoicas/hospital-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	AccessSecret      string
	RefreshSecret     string
	AccessExpMinutes  int
	RefreshExpMinutes int // 0 = sin expiración
	Issuer            string
}

// AuthUseCase casos de uso de autenticación: registro, login, rotación y revocación de tokens.
type AuthUseCase struct {
	userRepo repository.UserRepository
	tokens   TokenStore
	jwtCfg   JWTConfig
	log      zerolog.Logger
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, tokens TokenStore, jwtCfg JWTConfig, log zerolog.Logger) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, tokens: tokens, jwtCfg: jwtCfg, log: log}
}

// RegisterUser crea un usuario: hashea password con bcrypt y persiste. Email duplicado → ConflictError.
func (uc *AuthUseCase) RegisterUser(ctx context.Context, in dto.RegisterUserRequest) (*dto.UserResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	existing, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, &domain.ConflictError{Field: "email"}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		UserName:     strings.TrimSpace(in.UserName),
		Email:        email,
		PhoneNumber:  strings.TrimSpace(in.PhoneNumber),
		PasswordHash: string(hash),
		UserType:     in.UserType,
		CreatedAt:    time.Now(),
	}
	if in.Age.Set {
		age := int(in.Age.Int64())
		user.Age = &age
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, &domain.ConflictError{Field: "email or phoneNumber"}
		}
		return nil, err
	}
	out := dto.FromUser(user)
	return &out, nil
}

// ListUsers todos los usuarios.
func (uc *AuthUseCase) ListUsers(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := uc.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, dto.FromUser(u))
	}
	return out, nil
}

// GetUser obtiene un usuario por id.
func (uc *AuthUseCase) GetUser(ctx context.Context, id string) (*dto.UserResponse, error) {
	u, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, &domain.NotFoundError{Entity: "User"}
	}
	out := dto.FromUser(u)
	return &out, nil
}

// UpdateUser aplica cambios parciales. Un password nuevo se vuelve a hashear; email o
// teléfono ya usados por otro usuario → ConflictError.
func (uc *AuthUseCase) UpdateUser(ctx context.Context, id string, in dto.UpdateUserRequest) (*dto.UpdateUserResponse, error) {
	u, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, &domain.NotFoundError{Entity: "User"}
	}
	if in.UserName != nil {
		if strings.TrimSpace(*in.UserName) == "" {
			return nil, domain.NewValidationError("userName cannot be empty")
		}
		u.UserName = strings.TrimSpace(*in.UserName)
	}
	if in.Email != nil {
		u.Email = strings.ToLower(strings.TrimSpace(*in.Email))
	}
	if in.PhoneNumber != nil {
		u.PhoneNumber = strings.TrimSpace(*in.PhoneNumber)
	}
	if in.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = string(hash)
	}
	if in.Age.Set {
		age := int(in.Age.Int64())
		u.Age = &age
	}
	if in.UserType != nil {
		u.UserType = *in.UserType
	}
	if err := uc.userRepo.Update(ctx, u); err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicate):
			return nil, &domain.ConflictError{Field: "email or phoneNumber"}
		case errors.Is(err, domain.ErrNotFound):
			return nil, &domain.NotFoundError{Entity: "User"}
		}
		return nil, err
	}
	return &dto.UpdateUserResponse{Message: "User updated successfully", User: dto.FromUser(u)}, nil
}

// Login verifica email/password y emite el par access/refresh.
// Usuario inexistente y password incorrecto responden igual.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.NewValidationError("Invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.NewValidationError("Invalid credentials")
	}
	access, refresh, err := uc.issue(ctx, user.ID, user.UserName)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		UserID:       user.ID,
		UserName:     user.UserName,
		Age:          user.Age,
		UserType:     user.UserType,
		EmailID:      user.Email,
	}, nil
}

// Refresh rota el par de tokens. Sin token → ErrUnauthorized; token inválido o no registrado → ErrForbidden.
// El refresh token usado deja de ser válido.
func (uc *AuthUseCase) Refresh(ctx context.Context, token string) (*dto.TokenPairResponse, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, domain.ErrUnauthorized
	}
	claims, err := jwt.Parse(uc.jwtCfg.RefreshSecret, token, jwt.TokenRefresh)
	if err != nil {
		return nil, domain.ErrForbidden
	}
	ok, err := uc.tokens.ConsumeRefresh(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrForbidden
	}
	access, refresh, err := uc.issue(ctx, claims.UserID, claims.Username)
	if err != nil {
		return nil, err
	}
	return &dto.TokenPairResponse{AccessToken: access, RefreshToken: refresh}, nil
}

// Logout revoca el refresh token y, si se envía, también el access token hasta su expiración.
// Tokens ya inválidos no son error.
func (uc *AuthUseCase) Logout(ctx context.Context, in dto.RefreshRequest) error {
	token := strings.TrimSpace(in.Token)
	if token == "" {
		return domain.NewValidationError("token is required")
	}
	if claims, err := jwt.Parse(uc.jwtCfg.RefreshSecret, token, jwt.TokenRefresh); err == nil {
		if _, err := uc.tokens.ConsumeRefresh(ctx, claims.ID); err != nil {
			return err
		}
	}
	if at := strings.TrimSpace(in.AccessToken); at != "" {
		claims, err := jwt.Parse(uc.jwtCfg.AccessSecret, at, jwt.TokenAccess)
		if err != nil {
			return nil
		}
		if ttl := claims.Remaining(time.Now()); ttl > 0 {
			if err := uc.tokens.RevokeAccess(ctx, claims.ID, ttl); err != nil {
				return err
			}
		}
	}
	return nil
}

// IsAccessRevoked consulta la lista de access tokens revocados.
func (uc *AuthUseCase) IsAccessRevoked(ctx context.Context, jti string) (bool, error) {
	return uc.tokens.IsAccessRevoked(ctx, jti)
}

func (uc *AuthUseCase) issue(ctx context.Context, userID, userName string) (string, string, error) {
	access, err := jwt.Generate(uc.jwtCfg.AccessSecret, userID, userName, jwt.TokenAccess, uc.jwtCfg.Issuer, uc.jwtCfg.AccessExpMinutes)
	if err != nil {
		return "", "", err
	}
	refresh, err := jwt.Generate(uc.jwtCfg.RefreshSecret, userID, userName, jwt.TokenRefresh, uc.jwtCfg.Issuer, uc.jwtCfg.RefreshExpMinutes)
	if err != nil {
		return "", "", err
	}
	claims, err := jwt.Parse(uc.jwtCfg.RefreshSecret, refresh, jwt.TokenRefresh)
	if err != nil {
		return "", "", err
	}
	ttl := time.Duration(uc.jwtCfg.RefreshExpMinutes) * time.Minute
	if err := uc.tokens.SaveRefresh(ctx, claims.ID, userID, ttl); err != nil {
		return "", "", err
	}
	uc.log.Debug().Str("user_id", userID).Msg("tokens emitidos")
	return access, refresh, nil
}
