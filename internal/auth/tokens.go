package auth

import (
	"fmt"

	"github.com/redmonkez12/crm-api/internal/config"
)

// NewTokenService returns the token implementation selected by cfg.TokenFormat.
func NewTokenService(cfg config.AuthConfig) (TokenService, error) {
	switch cfg.TokenFormat {
	case config.TokenFormatJWT:
		svc, err := NewJWTService(cfg.JWTSecret, cfg.JWTIssuer)
		if err != nil {
			return nil, err
		}
		return svc, nil
	case config.TokenFormatPaseto:
		svc, err := NewPasetoService(cfg.PasetoKey, cfg.JWTIssuer)
		if err != nil {
			return nil, err
		}
		return svc, nil
	default:
		return nil, fmt.Errorf("unsupported token format %q", cfg.TokenFormat)
	}
}
