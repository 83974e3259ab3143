package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"workflow/internal/domain"
	"workflow/internal/domain/models"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

// allowedAlgorithms are the asymmetric algorithms Supabase signs with.
// Anything else (notably HS256 and "none") is rejected.
var allowedAlgorithms = []string{"RS256", "ES256"}

// SupabaseJWTVerifier implements JWTVerifier using JWKS from Supabase.
type SupabaseJWTVerifier struct {
	keyFunc jwt.Keyfunc
	cancel  context.CancelFunc
	logger  *slog.Logger
}

// NewJWTVerifier creates a verifier that fetches public keys from Supabase's JWKS endpoint.
// Keys are cached and refreshed in the background until Close is called.
func NewJWTVerifier(jwksURL string, logger *slog.Logger) (*SupabaseJWTVerifier, error) {
	if jwksURL == "" {
		return nil, errors.New("JWKS URL cannot be empty")
	}

	ctx, cancel := context.WithCancel(context.Background())
	jwks, err := keyfunc.NewDefaultCtx(ctx, []string{jwksURL})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create JWKS client: %w", err)
	}

	logger.Info("JWT verifier initialized", "jwks_url", jwksURL)

	return &SupabaseJWTVerifier{
		keyFunc: jwks.Keyfunc,
		cancel:  cancel,
		logger:  logger,
	}, nil
}

// VerifyToken validates a JWT token and extracts Supabase claims.
func (v *SupabaseJWTVerifier) VerifyToken(tokenString string) (*models.SupabaseClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.SupabaseClaims{}, v.keyFunc,
		jwt.WithValidMethods(allowedAlgorithms),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		v.logger.Debug("token parse failed", "error", err.Error())
		return nil, domain.ErrUnauthorized
	}

	claims, err := checkClaims(token)
	if err != nil {
		v.logger.Debug("token rejected", "error", err.Error())
		return nil, domain.ErrUnauthorized
	}
	return claims, nil
}

// checkClaims applies the Supabase-specific rules on top of signature and
// expiry validation.
func checkClaims(token *jwt.Token) (*models.SupabaseClaims, error) {
	if token == nil || !token.Valid {
		return nil, errors.New("token is invalid")
	}

	// Prevent algorithm confusion even if the parser options change
	alg := token.Method.Alg()
	allowed := false
	for _, a := range allowedAlgorithms {
		if alg == a {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, fmt.Errorf("unexpected signing algorithm %q", alg)
	}

	claims, ok := token.Claims.(*models.SupabaseClaims)
	if !ok {
		return nil, errors.New("unexpected claims type")
	}

	if claims.Subject == "" {
		return nil, errors.New("token missing subject claim")
	}

	// Reject anonymous tokens
	if claims.Role != "authenticated" {
		return nil, fmt.Errorf("token has role %q, expected authenticated", claims.Role)
	}

	return claims, nil
}

// Close stops the background JWKS refresh.
func (v *SupabaseJWTVerifier) Close() error {
	v.cancel()
	v.logger.Info("JWT verifier closed")
	return nil
}
