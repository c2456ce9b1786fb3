package commands

import (
	"context"

	"storebot/internal/pkg/config"
	"storebot/internal/pkg/errs"
	"storebot/internal/pkg/jwt"
	"storebot/internal/pkg/password"
)

var ErrInvalidCredentials = errs.New("invalid credentials")

type LoginResult struct {
	Token string
}

type AuthCommands interface {
	Login(ctx context.Context, username, plainPassword string) (*LoginResult, error)
}

type authUseCaseImpl struct {
	admin config.AdminConfig
	jwt   *jwt.Service
}

func NewAuthUseCase(cfg config.Config, jwtService *jwt.Service) AuthCommands {
	return &authUseCaseImpl{
		admin: cfg.Admin,
		jwt:   jwtService,
	}
}

func (u *authUseCaseImpl) Login(_ context.Context, username, plainPassword string) (*LoginResult, error) {
	if username != u.admin.Username || !password.Verify(u.admin.PasswordHash, plainPassword) {
		return nil, ErrInvalidCredentials
	}

	token, err := u.jwt.GenerateToken(username)
	if err != nil {
		return nil, errs.Wrap(err, "failed to issue token")
	}

	return &LoginResult{Token: token}, nil
}
