package auth

import (
	"github.com/smallbiznis/catalog/internal/auth/token"
	"github.com/smallbiznis/catalog/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Module("auth",
	fx.Provide(ProvideValidator),
)

func ProvideValidator(cfg config.Config) *token.Validator {
	return token.NewValidator(cfg.AuthJWTSecret)
}
