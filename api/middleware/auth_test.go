package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	pkgAuth "github.com/tgshopai/tgshop-backend/pkg/auth"
	"github.com/tgshopai/tgshop-backend/pkg/config"
)

var testJWTConfig = config.JWTConfig{
	Secret:            "middleware-test-secret",
	Issuer:            "tgshop",
	ExpirationMinutes: 5,
}

func protectedHandler(t *testing.T, gotRole *string) http.Handler {
	t.Helper()
	return AdminAuth(testJWTConfig, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*gotRole = RoleFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))
}

func TestAdminAuthAcceptsValidToken(t *testing.T) {
	token, err := pkgAuth.MintAdminToken(testJWTConfig, time.Now())
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	var role string
	handler := protectedHandler(t, &role)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", w.Code)
	}
	if role != pkgAuth.RoleAdmin {
		t.Fatalf("role = %q, want %q", role, pkgAuth.RoleAdmin)
	}
}

func TestAdminAuthRejectsBadCredentials(t *testing.T) {
	expired, err := pkgAuth.MintAdminToken(testJWTConfig, time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("mint expired token: %v", err)
	}
	wrongKey, err := pkgAuth.MintAdminToken(config.JWTConfig{
		Secret:            "some-other-secret",
		Issuer:            "tgshop",
		ExpirationMinutes: 5,
	}, time.Now())
	if err != nil {
		t.Fatalf("mint foreign token: %v", err)
	}

	cases := map[string]string{
		"missing header": "",
		"empty bearer":   "Bearer ",
		"garbage":        "Bearer not-a-jwt",
		"expired":        "Bearer " + expired,
		"wrong key":      "Bearer " + wrongKey,
	}

	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			var role string
			handler := protectedHandler(t, &role)

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", w.Code)
			}
			if role != "" {
				t.Fatalf("handler ran with role %q", role)
			}
		})
	}
}

func TestRequestIDGeneratesAndEchoesHeader(t *testing.T) {
	handler := RequestID(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Header().Get("X-Request-Id") == "" {
		t.Fatal("no generated request id header")
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "req-123")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if got := w.Header().Get("X-Request-Id"); got != "req-123" {
		t.Fatalf("request id = %q, want echo of req-123", got)
	}
}
