package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaishnavid04/Everwear/internal/auth"
)

func authProbe(t *testing.T) (http.Handler, *string) {
	t.Helper()
	var seenOwner string
	issuer := auth.NewTokenIssuer("test-secret", time.Hour)
	handler := AuthMiddleware(issuer)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenOwner = getOwnerIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))
	return handler, &seenOwner
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	issuer := auth.NewTokenIssuer("test-secret", time.Hour)
	token, err := issuer.Issue("owner-1")
	require.NoError(t, err)

	handler, seenOwner := authProbe(t)
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("GET", "/", nil)
	request.Header.Set("Authorization", "Bearer "+token)

	handler.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "owner-1", *seenOwner)
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	handler, _ := authProbe(t)
	recorder := httptest.NewRecorder()

	handler.ServeHTTP(recorder, httptest.NewRequest("GET", "/", nil))

	require.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestAuthMiddleware_GarbageToken(t *testing.T) {
	handler, _ := authProbe(t)
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("GET", "/", nil)
	request.Header.Set("Authorization", "Bearer not-a-token")

	handler.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestAuthMiddleware_WrongSecret(t *testing.T) {
	other := auth.NewTokenIssuer("other-secret", time.Hour)
	token, err := other.Issue("owner-1")
	require.NoError(t, err)

	handler, _ := authProbe(t)
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("GET", "/", nil)
	request.Header.Set("Authorization", "Bearer "+token)

	handler.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestRequestIDMiddleware_GeneratesID(t *testing.T) {
	handler := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, getRequestID(r.Context()))
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest("GET", "/", nil))

	assert.NotEmpty(t, recorder.Header().Get("X-Request-ID"))
}

func TestRequestIDMiddleware_PreservesInboundID(t *testing.T) {
	handler := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("GET", "/", nil)
	request.Header.Set("X-Request-ID", "req-abc")
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, "req-abc", recorder.Header().Get("X-Request-ID"))
}
