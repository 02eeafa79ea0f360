package middleware

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/models"
	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/utils"
)

func testKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return key
}

func signToken(t *testing.T, key *rsa.PrivateKey, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	require.NoError(t, err)
	return signed
}

func agentClaims(userID uuid.UUID) jwt.MapClaims {
	now := time.Now().Unix()
	return jwt.MapClaims{
		"iss": TokenIssuer,
		"sub": userID.String(),
		"iat": now,
		"exp": now + 15*60,
	}
}

type seenIdentity struct {
	UserID uuid.UUID
	Role   models.UserRole
}

// runThrough sends req through the middleware and reports the identity
// the inner handler observed, if it was reached at all.
func runThrough(t *testing.T, pub *rsa.PublicKey, req *http.Request) (*httptest.ResponseRecorder, *seenIdentity) {
	t.Helper()
	var seen *seenIdentity
	handler := AgentAuthMiddleware(pub)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, role, ok := UserFromContext(r.Context())
		require.True(t, ok)
		seen = &seenIdentity{UserID: userID, Role: role}
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec, seen
}

func requireUnauthorized(t *testing.T, rec *httptest.ResponseRecorder) utils.ErrorResponse {
	t.Helper()
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	var body utils.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, utils.ErrCodeUnauthorized, body.Code)
	return body
}

func TestHeaderIdentityMode(t *testing.T) {
	userID := uuid.New()

	t.Run("valid headers pass through as agent", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/properties", nil)
		req.Header.Set("X-User-Id", userID.String())

		rec, seen := runThrough(t, nil, req)
		require.Equal(t, http.StatusNoContent, rec.Code)
		require.NotNil(t, seen)
		require.Equal(t, userID, seen.UserID)
		require.Equal(t, models.UserRoleAgent, seen.Role)
	})

	t.Run("role header is case insensitive", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/properties", nil)
		req.Header.Set("X-User-Id", userID.String())
		req.Header.Set("X-User-Role", "admin")

		rec, seen := runThrough(t, nil, req)
		require.Equal(t, http.StatusNoContent, rec.Code)
		require.Equal(t, models.UserRoleAdmin, seen.Role)
	})

	t.Run("missing id header is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/properties", nil)

		rec, seen := runThrough(t, nil, req)
		requireUnauthorized(t, rec)
		require.Nil(t, seen)
	})

	t.Run("malformed id header is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/properties", nil)
		req.Header.Set("X-User-Id", "not-a-uuid")

		rec, _ := runThrough(t, nil, req)
		requireUnauthorized(t, rec)
	})
}

func TestJWTIdentityMode(t *testing.T) {
	key := testKey(t)
	pub := &key.PublicKey
	userID := uuid.New()

	t.Run("valid bearer token resolves the agent", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/deals", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, key, agentClaims(userID)))

		rec, seen := runThrough(t, pub, req)
		require.Equal(t, http.StatusNoContent, rec.Code)
		require.Equal(t, userID, seen.UserID)
		require.Equal(t, models.UserRoleAgent, seen.Role)
	})

	t.Run("admin role claim is honored", func(t *testing.T) {
		claims := agentClaims(userID)
		claims["role"] = "Admin"
		req := httptest.NewRequest(http.MethodGet, "/api/v1/deals", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, key, claims))

		rec, seen := runThrough(t, pub, req)
		require.Equal(t, http.StatusNoContent, rec.Code)
		require.Equal(t, models.UserRoleAdmin, seen.Role)
	})

	t.Run("identity headers are ignored once a key is configured", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/deals", nil)
		req.Header.Set("X-User-Id", userID.String())

		rec, _ := runThrough(t, pub, req)
		requireUnauthorized(t, rec)
	})

	t.Run("expired token is rejected with a dedicated message", func(t *testing.T) {
		claims := agentClaims(userID)
		claims["iat"] = time.Now().Add(-time.Hour).Unix()
		claims["exp"] = time.Now().Add(-30 * time.Minute).Unix()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/deals", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, key, claims))

		rec, _ := runThrough(t, pub, req)
		body := requireUnauthorized(t, rec)
		require.Equal(t, "Token expired", body.Message)
	})

	t.Run("foreign issuer is rejected", func(t *testing.T) {
		claims := agentClaims(userID)
		claims["iss"] = "SomeOtherShop"
		req := httptest.NewRequest(http.MethodGet, "/api/v1/deals", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, key, claims))

		rec, _ := runThrough(t, pub, req)
		requireUnauthorized(t, rec)
	})

	t.Run("token signed with another key is rejected", func(t *testing.T) {
		otherKey := testKey(t)
		req := httptest.NewRequest(http.MethodGet, "/api/v1/deals", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, otherKey, agentClaims(userID)))

		rec, _ := runThrough(t, pub, req)
		requireUnauthorized(t, rec)
	})

	t.Run("hmac tokens are rejected regardless of secret", func(t *testing.T) {
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, agentClaims(userID)).SignedString([]byte("shared-secret"))
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/api/v1/deals", nil)
		req.Header.Set("Authorization", "Bearer "+signed)

		rec, _ := runThrough(t, pub, req)
		requireUnauthorized(t, rec)
	})

	t.Run("non-uuid subject is rejected", func(t *testing.T) {
		claims := agentClaims(userID)
		claims["sub"] = "agent-42"
		req := httptest.NewRequest(http.MethodGet, "/api/v1/deals", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, key, claims))

		rec, _ := runThrough(t, pub, req)
		requireUnauthorized(t, rec)
	})
}

func TestUserFromContextWithoutMiddleware(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	_, _, ok := UserFromContext(req.Context())
	require.False(t, ok)
}
