package middleware

import (
	"net/http"
	"strings"
	"time"

	"mecanica_jobs/internal/domain/entities"
	"mecanica_jobs/pkg"
	"mecanica_jobs/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const actorKey = "actor"

var (
	errMissingAuthorization = pkg.NewDomainErrorSimple("UNAUTHENTICATED", "Authorization header required", http.StatusUnauthorized)
	errInvalidAuthorization = pkg.NewDomainErrorSimple("UNAUTHENTICATED", "Invalid authorization header format", http.StatusUnauthorized)
	errInvalidToken         = pkg.NewDomainErrorSimple("UNAUTHENTICATED", "Invalid or expired token", http.StatusUnauthorized)
	errForbiddenRole        = pkg.NewDomainErrorSimple(string(entities.CodeNotAuthorized), "Role not allowed on this route", http.StatusForbidden)
)

// Claims carries the caller's identity. The user id is the standard subject.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// GenerateToken signs an HS256 token for userID acting as role.
func GenerateToken(userID string, role entities.Role, secret string, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(ttl)
	claims := Claims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Auth validates the bearer token and stores the actor on the gin context and
// the request context (for log fields).
func Auth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abort(c, errMissingAuthorization)
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abort(c, errInvalidAuthorization)
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid {
			logger.Debug(c.Request.Context(), "[http][auth] token rejected", "err", err)
			abort(c, errInvalidToken)
			return
		}
		role, ok := entities.ParseRole(claims.Role)
		if !ok || claims.Subject == "" {
			abort(c, errInvalidToken)
			return
		}

		actor := entities.Actor{UserID: claims.Subject, Role: role}
		c.Set(actorKey, actor)
		ctx := logger.With(c.Request.Context(), logger.UserIDKey, actor.UserID)
		ctx = logger.With(ctx, logger.RoleKey, string(actor.Role))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RequireRole must run after Auth.
func RequireRole(roles ...entities.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := GetActor(c)
		for _, r := range roles {
			if actor.Role == r {
				c.Next()
				return
			}
		}
		abort(c, errForbiddenRole)
	}
}

// GetActor returns the authenticated caller, or the zero Actor.
func GetActor(c *gin.Context) entities.Actor {
	if v, exists := c.Get(actorKey); exists {
		if actor, ok := v.(entities.Actor); ok {
			return actor
		}
	}
	return entities.Actor{}
}

// WithActor is used by tests and internal callers that authenticate elsewhere.
func WithActor(actor entities.Actor) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(actorKey, actor)
		c.Request = c.Request.WithContext(logger.With(c.Request.Context(), logger.UserIDKey, actor.UserID))
		c.Next()
	}
}

func abort(c *gin.Context, appErr *pkg.AppError) {
	c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToHTTPError())
}
