package utils

import (
	"errors"
	"fmt"
	"time"

	"ytcollector/infrastructure/logger"

	"github.com/golang-jwt/jwt"
)

func GetCurrentTime() time.Time {
	return time.Now().UTC()
}

// IssueReaderToken signs an HS256 bearer token for the read-only API. The
// token is valid from issuedAt for ttl; a non-positive ttl never expires.
func IssueReaderToken(subject string, issuedAt time.Time, ttl time.Duration, secretKey string) (string, error) {
	if secretKey == "" {
		return "", errors.New("empty signing key")
	}
	claims := jwt.StandardClaims{
		Subject:  subject,
		IssuedAt: issuedAt.Unix(),
	}
	if ttl > 0 {
		claims.ExpiresAt = issuedAt.Add(ttl).Unix()
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secretKey))
	if err != nil {
		logger.GetLogger().WithField("subject", subject).WithField("error", err).Error("Error while signing reader token")
		return "", fmt.Errorf("sign token for %s: %w", subject, err)
	}
	return signed, nil
}
