package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func protectedEcho(t *testing.T, tokens *TokenService) http.Handler {
	t.Helper()
	return RequireAuth(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := UserIDFromContext(r.Context())
		if !ok {
			t.Error("UserIDFromContext() returned false inside a protected handler")
		}
		w.Write([]byte(userID))
	}))
}

func TestRequireAuth_CookieToken(t *testing.T) {
	tokens := newTestTokenService(t)
	handler := protectedEcho(t, tokens)

	token, _ := tokens.Generate("user-42")
	req := httptest.NewRequest(http.MethodGet, "/api/binders", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: token})
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Body.String() != "user-42" {
		t.Errorf("handler saw userID %q, want user-42", rec.Body.String())
	}
}

func TestRequireAuth_BearerToken(t *testing.T) {
	tokens := newTestTokenService(t)
	handler := protectedEcho(t, tokens)

	token, _ := tokens.Generate("user-42")
	req := httptest.NewRequest(http.MethodGet, "/api/binders", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestRequireAuth_MissingToken(t *testing.T) {
	tokens := newTestTokenService(t)
	handler := protectedEcho(t, tokens)

	req := httptest.NewRequest(http.MethodGet, "/api/binders", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	tokens := newTestTokenService(t)
	handler := protectedEcho(t, tokens)

	req := httptest.NewRequest(http.MethodGet, "/api/binders", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: "garbage"})
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestUserIDFromContext_Anonymous(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, ok := UserIDFromContext(req.Context()); ok {
		t.Error("UserIDFromContext() on a bare context should return false")
	}
}
