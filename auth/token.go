package auth

import (
	"time"

	"daneth-messenger/domain"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the payload stored inside a session JWT.
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and validates session tokens. The secret comes from
// configuration; there is no package-level key.
type TokenIssuer struct {
	secret   []byte
	duration time.Duration
}

func NewTokenIssuer(secret string, duration time.Duration) TokenIssuer {
	return TokenIssuer{secret: []byte(secret), duration: duration}
}

// Generate creates a signed HS256 token for the identity.
func (t TokenIssuer) Generate(identity domain.Identity) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:   identity.ID,
		Username: identity.Username,
		IsAdmin:  identity.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(t.duration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "daneth-messenger",
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Validate parses the token and returns the identity it vouches for.
func (t TokenIssuer) Validate(tokenString string) (domain.Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return t.secret, nil
	})
	if err != nil {
		return domain.Identity{}, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return domain.Identity{}, jwt.ErrSignatureInvalid
	}
	return domain.Identity{ID: claims.UserID, Username: claims.Username, IsAdmin: claims.IsAdmin}, nil
}
