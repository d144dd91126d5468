package auth

import (
	"context"
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// ErrVerification is returned when a bearer token fails cryptographic or
// claim verification. Callers map it to a forbidden response.
var ErrVerification = errors.New("token verification failed")

// Verifier resolves a bearer token to a verified subject email. The token
// issuer is an external identity service; this side only verifies.
type Verifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

// JWTVerifier verifies HS256 tokens with a shared secret.
type JWTVerifier struct {
	secret []byte
}

// NewJWTVerifier creates a verifier with the given shared secret.
func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

// Verify parses and validates the token and returns the subject email,
// taken from the "email" claim or, failing that, the "sub" claim.
func (v *JWTVerifier) Verify(ctx context.Context, tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrVerification
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrVerification
	}

	if email, ok := claims["email"].(string); ok && email != "" {
		return email, nil
	}
	if sub, ok := claims["sub"].(string); ok && sub != "" {
		return sub, nil
	}

	return "", ErrVerification
}

var _ Verifier = (*JWTVerifier)(nil)
