package service

import (
	"context"
	"time"

	"cp_arena/internal/common"
	"cp_arena/internal/common/security"

	"github.com/go-chi/jwtauth/v5"
)

// AuthService exchanges the operator's authoring key for a short-lived admin
// token. There are no user accounts; contest authoring is the only guarded
// surface.
type AuthService struct {
	tokenAuth *jwtauth.JWTAuth
	keyHash   string
	tokenTTL  time.Duration
}

func NewAuthService(tokenAuth *jwtauth.JWTAuth, keyHash string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		tokenAuth: tokenAuth,
		keyHash:   keyHash,
		tokenTTL:  tokenTTL,
	}
}

type TokenRequest struct {
	Key string `json:"key"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

func (s *AuthService) IssueToken(ctx context.Context, req TokenRequest) (*TokenResponse, error) {
	if s.keyHash == "" {
		return nil, common.Errorf("contest authoring is disabled: %w", common.ErrForbidden)
	}
	if req.Key == "" {
		return nil, common.Errorf("key is required: %w", common.ErrBadRequest)
	}
	if !security.CheckKeyHash(req.Key, s.keyHash) {
		return nil, common.ErrUnauthorized
	}

	token, err := security.GenerateToken(s.tokenAuth, "authoring", security.RoleAdmin, s.tokenTTL)
	if err != nil {
		return nil, common.Errorf("failed to generate token: %w", err)
	}
	return &TokenResponse{Token: token}, nil
}
