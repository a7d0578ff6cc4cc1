package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	pkgauth "github.com/jvaldezcruz/assetdesk-backend/pkg/auth"
	"github.com/jvaldezcruz/assetdesk-backend/pkg/config"
	"github.com/jvaldezcruz/assetdesk-backend/pkg/enums"
	"github.com/jvaldezcruz/assetdesk-backend/pkg/logger"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "middleware-test-secret",
		Issuer:            "assetdesk-test",
		ExpirationMinutes: 60,
	}
}

func authedHandler(t *testing.T, cfg config.JWTConfig) (http.Handler, *string, *string) {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test"})
	var gotEmployee, gotRole string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotEmployee = EmployeeIDFromContext(r.Context())
		gotRole = RoleFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	return Auth(cfg, logg)(inner), &gotEmployee, &gotRole
}

func TestAuthSeedsContextFromToken(t *testing.T) {
	t.Parallel()
	cfg := testJWTConfig()
	handler, gotEmployee, gotRole := authedHandler(t, cfg)

	employeeID := uuid.New()
	token, err := pkgauth.MintAccessToken(cfg, time.Now(), pkgauth.AccessTokenPayload{
		EmployeeID: employeeID,
		Role:       enums.EmployeeRoleManager,
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if *gotEmployee != employeeID.String() {
		t.Fatalf("employee = %q, want %q", *gotEmployee, employeeID)
	}
	if *gotRole != "manager" {
		t.Fatalf("role = %q, want manager", *gotRole)
	}
}

func TestAuthRejectsMissingAndMalformedTokens(t *testing.T) {
	t.Parallel()
	cfg := testJWTConfig()
	handler, _, _ := authedHandler(t, cfg)

	cases := map[string]string{
		"missing":     "",
		"bare bearer": "Bearer ",
		"garbage":     "Bearer not-a-jwt",
	}
	for name, header := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: status = %d, want 401", name, rec.Code)
		}
	}
}

func TestAuthRejectsExpiredToken(t *testing.T) {
	t.Parallel()
	cfg := testJWTConfig()
	handler, _, _ := authedHandler(t, cfg)

	token, err := pkgauth.MintAccessToken(cfg, time.Now().Add(-2*time.Hour), pkgauth.AccessTokenPayload{
		EmployeeID: uuid.New(),
		Role:       enums.EmployeeRoleEmployee,
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestRequireAnyRole(t *testing.T) {
	t.Parallel()
	logg := logger.New(logger.Options{ServiceName: "test"})
	inner := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	handler := RequireAnyRole(logg, "manager", "admin")(inner)

	for role, want := range map[string]int{
		"admin":    http.StatusNoContent,
		"manager":  http.StatusNoContent,
		"employee": http.StatusForbidden,
		"":         http.StatusForbidden,
	} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(WithRole(req.Context(), role))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != want {
			t.Fatalf("role %q: status = %d, want %d", role, rec.Code, want)
		}
	}
}
