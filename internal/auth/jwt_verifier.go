package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"treelink/internal/domain"
	"treelink/internal/domain/models"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

// allowedAlgorithms prevents algorithm confusion attacks
var allowedAlgorithms = []string{"RS256", "ES256"}

// JWKSVerifier implements JWTVerifier using keys from a JWKS endpoint
type JWKSVerifier struct {
	keyfunc jwt.Keyfunc
	logger  *slog.Logger
}

// NewJWTVerifier creates a verifier that fetches public keys from jwksURL.
// The keys are cached and refreshed based on HTTP cache headers.
func NewJWTVerifier(ctx context.Context, jwksURL string, logger *slog.Logger) (JWTVerifier, error) {
	if jwksURL == "" {
		return nil, errors.New("JWKS URL cannot be empty")
	}

	jwks, err := keyfunc.NewDefaultCtx(ctx, []string{jwksURL})
	if err != nil {
		return nil, fmt.Errorf("failed to create JWKS client: %w", err)
	}

	logger.Info("JWT verifier initialized", "jwks_url", jwksURL)

	return NewKeyfuncVerifier(jwks.Keyfunc, logger), nil
}

// NewKeyfuncVerifier creates a verifier around an existing key lookup
func NewKeyfuncVerifier(kf jwt.Keyfunc, logger *slog.Logger) *JWKSVerifier {
	return &JWKSVerifier{keyfunc: kf, logger: logger}
}

// VerifyToken validates a JWT and extracts the actor claims
func (v *JWKSVerifier) VerifyToken(tokenString string) (*models.ActorClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.ActorClaims{}, v.keyfunc,
		jwt.WithValidMethods(allowedAlgorithms),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		v.logger.Debug("token rejected", "error", err)
		return nil, &domain.UnauthorizedError{Message: "invalid token"}
	}

	claims, ok := token.Claims.(*models.ActorClaims)
	if !ok || !token.Valid {
		return nil, &domain.UnauthorizedError{Message: "invalid token"}
	}

	if claims.Subject == "" {
		v.logger.Debug("token missing subject claim")
		return nil, &domain.UnauthorizedError{Message: "token has no subject"}
	}

	return claims, nil
}

// Close is a no-op; keyfunc v3 manages its own refresh goroutine through
// the context it was created with
func (v *JWKSVerifier) Close() error {
	v.logger.Info("JWT verifier closed")
	return nil
}
