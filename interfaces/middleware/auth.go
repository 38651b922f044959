package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"ytcollector/infrastructure/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
)

// Auth requires an HS256 bearer token signed with secretKey. An empty
// secretKey disables the check.
func Auth(secretKey string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if secretKey == "" {
			ctx.Next()
			return
		}
		authorization := ctx.Request.Header.Get("Authorization")
		raw, ok := strings.CutPrefix(authorization, "Bearer ")
		if !ok || raw == "" {
			unauthorized(ctx, "Unauthorized")
			return
		}

		var claims jwt.StandardClaims
		token, err := jwt.ParseWithClaims(raw, &claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
			}
			return []byte(secretKey), nil
		})
		if err != nil || !token.Valid {
			logger.GetLogger().WithField("error", err).Warn("Rejected bearer token")
			unauthorized(ctx, reason(err))
			return
		}
		ctx.Set("subject", claims.Subject)
		ctx.Next()
	}
}

func unauthorized(ctx *gin.Context, message string) {
	ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "message": message})
}

func reason(err error) string {
	var ve *jwt.ValidationError
	if errors.As(err, &ve) {
		switch {
		case ve.Errors&jwt.ValidationErrorMalformed != 0:
			return "That's not even a token"
		case ve.Errors&(jwt.ValidationErrorExpired|jwt.ValidationErrorNotValidYet) != 0:
			return "Timing is everything"
		}
	}
	return fmt.Sprintf("Couldn't handle this token: %v", err)
}
