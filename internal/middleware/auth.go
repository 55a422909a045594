package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"go-gin-airport/internal/model"
	"go-gin-airport/internal/policy"
	apperrors "go-gin-airport/pkg/app_errors"
	"go-gin-airport/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const callerKey = "caller"

var errInvalidToken = errors.New("invalid token")

// Claims are issued by the identity provider. Subject carries the numeric
// user id.
type Claims struct {
	Username string `json:"username"`
	IsStaff  bool   `json:"is_staff"`
	jwt.RegisteredClaims
}

// Authenticate verifies an HS256 bearer token and stores the caller in the
// context. A request without an Authorization header stays anonymous.
func Authenticate(secret, issuer string) gin.HandlerFunc {
	key := []byte(secret)
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	parser := jwt.NewParser(opts...)

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Set(callerKey, model.Caller{})
			c.Next()
			return
		}

		caller, err := parseBearer(parser, key, header)
		if err != nil {
			logger.WithComponent("auth").Warn("Rejected token", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid token",
			})
			return
		}

		c.Set(callerKey, caller)
		c.Next()
	}
}

func parseBearer(parser *jwt.Parser, key []byte, header string) (model.Caller, error) {
	tokenString, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || tokenString == "" {
		return model.Caller{}, errInvalidToken
	}

	claims := &Claims{}
	if _, err := parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return key, nil
	}); err != nil {
		return model.Caller{}, err
	}

	userID, err := strconv.Atoi(claims.Subject)
	if err != nil || userID <= 0 {
		return model.Caller{}, errInvalidToken
	}

	return model.Caller{
		UserID:   userID,
		Username: claims.Username,
		IsStaff:  claims.IsStaff,
	}, nil
}

// CallerFrom returns the caller set by Authenticate, anonymous otherwise.
func CallerFrom(c *gin.Context) model.Caller {
	if v, ok := c.Get(callerKey); ok {
		if caller, ok := v.(model.Caller); ok {
			return caller
		}
	}
	return model.Caller{}
}

// Authorize applies the collection policy at collection level. Ownership of
// single objects is checked by the services.
func Authorize(p policy.Policy) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch policy.Evaluate(p, CallerFrom(c), c.Request.Method, policy.NoOwner) {
		case policy.Allow:
			c.Next()
		case policy.Unauthenticated:
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": apperrors.ErrUnauthenticated.Error(),
			})
		default:
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": apperrors.ErrForbidden.Error(),
			})
		}
	}
}
