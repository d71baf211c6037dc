package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrSigningTokenInvalid = errors.New("signing token invalid")
	ErrSigningTokenExpired = errors.New("signing token expired")
)

type signingClaims struct {
	SubmissionID string `json:"sub_id"`
	jwt.RegisteredClaims
}

// GenerateSigningToken creates the single-use link token the care
// recipient uses to sign a submission. The token is invalidated by
// completion, not by the JWT layer, so the TTL only bounds how long an
// unsigned link stays live.
func GenerateSigningToken(secret, submissionID string, ttl time.Duration) (string, error) {
	claims := signingClaims{
		SubmissionID: submissionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseSigningToken verifies a recipient link token and returns the
// submission it was issued for.
func ParseSigningToken(secret, tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &signingClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, ErrSigningTokenInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrSigningTokenExpired
		}
		return "", ErrSigningTokenInvalid
	}
	claims, ok := token.Claims.(*signingClaims)
	if !ok || !token.Valid || claims.SubmissionID == "" {
		return "", ErrSigningTokenInvalid
	}
	return claims.SubmissionID, nil
}
