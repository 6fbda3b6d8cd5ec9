package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token audiences. A token is only accepted for the purpose it was minted for.
const (
	AudienceAuth   = "socialsimple:auth"
	AudienceReset  = "socialsimple:reset"
	AudienceVerify = "socialsimple:verify"
)

// Claims carried by every token the service issues
type Claims struct {
	Email               string `json:"email,omitempty"`
	PasswordFingerprint string `json:"password_fgpt,omitempty"`
	jwt.RegisteredClaims
}

func (s *Service) signToken(audience string, subject uuid.UUID, ttl time.Duration, extra Claims) (string, error) {
	now := s.now()
	claims := extra
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   subject.String(),
		Audience:  jwt.ClaimStrings{audience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (s *Service) parseToken(tokenString, audience string) (*Claims, uuid.UUID, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, uuid.Nil, fmt.Errorf("invalid token: %w", err)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, uuid.Nil, fmt.Errorf("invalid token subject: %w", err)
	}
	return claims, userID, nil
}

// passwordFingerprint ties a reset token to the password hash it was issued
// against, so the token stops working once the password changes.
func passwordFingerprint(hashedPassword string) string {
	sum := sha256.Sum256([]byte(hashedPassword))
	return hex.EncodeToString(sum[:])
}
