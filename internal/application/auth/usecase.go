package auth

import (
	"context"
	"strings"

	"github.com/jhoicas/pyme-erp/internal/application/dto"
	"github.com/jhoicas/pyme-erp/internal/domain"
	"github.com/jhoicas/pyme-erp/internal/domain/repository"
	"github.com/jhoicas/pyme-erp/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase caso de uso de login contra AppUsers.
type AuthUseCase struct {
	userRepo repository.UserRepository
	jwtCfg   JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, jwtCfg: jwtCfg}
}

// Login verifica usuario/password (solo bcrypt) y emite el JWT.
// Credenciales incorrectas -> ErrUnauthorized. Cuenta inactiva -> ErrForbidden, pero solo
// después de validar la password para no revelar el estado de la cuenta.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" || in.Password == "" {
		return nil, domain.ErrUnauthorized
	}
	user, err := uc.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	// un hash almacenado que no es bcrypt también falla aquí
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !user.IsActive {
		return nil, domain.ErrForbidden
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, uc.jwtCfg.Issuer, jwt.Subject{
		UID:      user.ID,
		Username: user.Username,
		Role:     user.SystemRole,
		EmpID:    user.EmployeeID,
	}, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:      token,
		Username:   user.Username,
		Role:       user.SystemRole,
		EmployeeID: user.EmployeeID,
	}, nil
}
