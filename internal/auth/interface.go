package auth

import "workflow/internal/domain/models"

// JWTVerifier is the Identity Provider boundary: it turns a bearer token
// into a verified subject or fails with domain.ErrUnauthorized.
type JWTVerifier interface {
	// VerifyToken validates a JWT token string and returns the parsed claims.
	VerifyToken(tokenString string) (*models.SupabaseClaims, error)

	// Close releases any resources held by the verifier (e.g. the JWKS refresh loop).
	Close() error
}
