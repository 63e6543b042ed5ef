package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iliyamo/save-n-serve/internal/model"
)

// Claims is the payload carried by every access token. UserID is omitted for
// admin tokens, so decoding an admin token yields a nil UserID rather than
// an error.
type Claims struct {
	Role   model.Role `json:"role"`
	UserID *int64     `json:"user_id,omitempty"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 tokens with a process-wide key and
// TTL injected at startup. Tokens are stateless: the server never stores
// them and invalidation is purely time-based.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService builds a TokenService from the signing secret and TTL.
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token for the given subject and role. userID may be nil;
// admin tokens carry no user_id claim.
func (t *TokenService) Issue(subject string, role model.Role, userID *int64) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		Role:   role,
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Decode parses and verifies a token, returning its claims. Failures are
// reported as ErrTokenExpired, ErrSignatureInvalid or ErrTokenMalformed so
// callers can decide what to log or surface.
func (t *TokenService) Decode(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrSignatureInvalid
		}
		return t.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, ErrSignatureInvalid):
			return nil, ErrSignatureInvalid
		default:
			return nil, ErrTokenMalformed
		}
	}
	if !parsed.Valid {
		return nil, ErrTokenMalformed
	}
	return claims, nil
}

// Validate reports whether the token parses, is signed with the service key
// and has not expired. All failures collapse to false.
func (t *TokenService) Validate(token string) bool {
	_, err := t.Decode(token)
	return err == nil
}

// ValidateFor additionally requires the token subject to match.
func (t *TokenService) ValidateFor(token, subject string) bool {
	claims, err := t.Decode(token)
	return err == nil && claims.Subject == subject
}
