package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the session payload: a snapshot of the charity's identity
// fields taken at login time. It is not re-validated against the database
// on each read, only on protected writes.
type Claims struct {
	CharityID int64  `json:"charity_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Postcode  string `json:"postcode"`
	jwt.RegisteredClaims
}

// SessionExpiry is how long a charity login session stays valid.
const SessionExpiry = 24 * time.Hour

// NewSession creates a signed session token for a charity with a unique JTI.
func NewSession(secret string, charityID int64, name, email, postcode string) (string, error) {
	jti, err := generateJTI()
	if err != nil {
		return "", fmt.Errorf("generating JTI: %w", err)
	}

	claims := Claims{
		CharityID: charityID,
		Name:      name,
		Email:     email,
		Postcode:  postcode,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(SessionExpiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("signing session token: %w", err)
	}
	return signed, nil
}

// ParseSession parses and validates a session token, returning the claims.
// Expired, tampered, or malformed tokens all fail.
func ParseSession(secret, tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parsing session token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid session token")
	}

	return claims, nil
}

// generateJTI creates a random session ID.
func generateJTI() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
