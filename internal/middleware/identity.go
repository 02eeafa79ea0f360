package middleware

import (
	"context"
	"crypto/rsa"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/models"
	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/utils"
)

type contextKey string

const (
	ContextKeyUserID   = contextKey("userID")
	ContextKeyUserRole = contextKey("userRole")

	// TokenIssuer identifies the identity service that signs agent tokens.
	TokenIssuer = "Aaraazi"
)

// AgentAuthMiddleware resolves the calling agent from a Bearer JWT and
// stores the agent ID and role in the request context. When pub is nil
// the signature check is skipped and identity is taken from the
// X-User-Id / X-User-Role headers instead; that mode exists for local
// development against seeded data and must never ship with a real key
// absent.
func AgentAuthMiddleware(pub *rsa.PublicKey) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, role, err := resolveIdentity(r, pub)
			if err != nil {
				if errors.Is(err, jwt.ErrTokenExpired) {
					utils.RespondErrorWithCode(
						w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Token expired", nil, err,
					)
					return
				}
				utils.RespondErrorWithCode(
					w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, err.Error(), nil, err,
				)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUserID, userID)
			ctx = context.WithValue(ctx, ContextKeyUserRole, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func resolveIdentity(r *http.Request, pub *rsa.PublicKey) (uuid.UUID, models.UserRole, error) {
	if pub == nil {
		return headerIdentity(r)
	}

	tokenStr, err := extractBearerToken(r)
	if err != nil {
		return uuid.Nil, "", err
	}
	tok, err := ValidateToken(tokenStr, pub)
	if err != nil {
		return uuid.Nil, "", err
	}

	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, "", errors.New("invalid token claims")
	}
	sub, ok := claims["sub"].(string)
	if !ok {
		return uuid.Nil, "", errors.New("missing subject claim")
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, "", errors.New("subject claim is not a valid agent id")
	}

	role := models.UserRoleAgent
	if raw, ok := claims["role"].(string); ok && strings.EqualFold(raw, string(models.UserRoleAdmin)) {
		role = models.UserRoleAdmin
	}
	return userID, role, nil
}

func headerIdentity(r *http.Request) (uuid.UUID, models.UserRole, error) {
	raw := r.Header.Get("X-User-Id")
	if raw == "" {
		return uuid.Nil, "", errors.New("missing X-User-Id header")
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, "", errors.New("X-User-Id is not a valid agent id")
	}

	role := models.UserRoleAgent
	if strings.EqualFold(r.Header.Get("X-User-Role"), string(models.UserRoleAdmin)) {
		role = models.UserRoleAdmin
	}
	return userID, role, nil
}

func extractBearerToken(r *http.Request) (string, error) {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return "", errors.New("missing Authorization header")
	}
	return strings.TrimPrefix(h, "Bearer "), nil
}

// ValidateToken checks the token's signature and standard claims. Any
// deviation returns a descriptive error.
func ValidateToken(tokenString string, publicKey *rsa.PublicKey) (*jwt.Token, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return publicKey, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		return nil, errors.New("missing expiration claim")
	}
	if time.Unix(int64(exp), 0).Before(time.Now()) {
		return nil, jwt.ErrTokenExpired
	}

	iss, ok := claims["iss"].(string)
	if !ok {
		return nil, errors.New("missing issuer claim")
	}
	if iss != TokenIssuer {
		return nil, errors.New("invalid token issuer")
	}

	return token, nil
}

// UserFromContext returns the identity placed by AgentAuthMiddleware.
// The boolean is false on routes that bypassed the middleware.
func UserFromContext(ctx context.Context) (uuid.UUID, models.UserRole, bool) {
	userID, ok := ctx.Value(ContextKeyUserID).(uuid.UUID)
	if !ok {
		return uuid.Nil, "", false
	}
	role, ok := ctx.Value(ContextKeyUserRole).(models.UserRole)
	if !ok {
		return uuid.Nil, "", false
	}
	return userID, role, true
}
