package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/oauth2"
)

func newTestHandler(tokenURL string) *OAuthHandler {
	config := &oauth2.Config{
		ClientID:     "client",
		ClientSecret: "secret",
		RedirectURL:  "http://localhost:3000/callback",
		Endpoint: oauth2.Endpoint{
			AuthURL:  tokenURL,
			TokenURL: tokenURL,
		},
	}
	return NewOAuthHandler(config, "expected_state")
}

func TestOAuthHandler(t *testing.T) {
	t.Run("successful exchange delivers token", func(t *testing.T) {
		tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"access_token":"exchanged_token","token_type":"Bearer"}`))
		}))
		defer tokenServer.Close()

		handler := newTestHandler(tokenServer.URL)

		req := httptest.NewRequest(http.MethodGet, "/callback?state=expected_state&code=auth_code", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", rec.Code)
		}

		result := <-handler.Result()
		if result.Error() != nil {
			t.Fatalf("expected no error, got %v", result.Error())
		}
		if result.Token == nil || result.Token.AccessToken != "exchanged_token" {
			t.Errorf("expected exchanged token, got %+v", result.Token)
		}
	})

	t.Run("state mismatch fails", func(t *testing.T) {
		handler := newTestHandler("http://localhost:0")

		req := httptest.NewRequest(http.MethodGet, "/callback?state=wrong&code=auth_code", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}

		result := <-handler.Result()
		if result.Error() == nil {
			t.Error("expected error for state mismatch")
		}
	})

	t.Run("missing code fails", func(t *testing.T) {
		handler := newTestHandler("http://localhost:0")

		req := httptest.NewRequest(http.MethodGet, "/callback?state=expected_state&error=access_denied", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}

		result := <-handler.Result()
		if result.Error() == nil {
			t.Error("expected error for missing code")
		}
	})

	t.Run("second callback is rejected", func(t *testing.T) {
		handler := newTestHandler("http://localhost:0")

		first := httptest.NewRequest(http.MethodGet, "/callback?state=wrong", nil)
		handler.ServeHTTP(httptest.NewRecorder(), first)

		second := httptest.NewRequest(http.MethodGet, "/callback?state=expected_state&code=auth_code", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, second)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400 for repeated callback, got %d", rec.Code)
		}
	})

	t.Run("routes serve the callback path", func(t *testing.T) {
		handler := newTestHandler("http://localhost:0")

		routes := handler.Routes()
		if len(routes) != 1 || routes[0] != CallbackPath {
			t.Errorf("expected [%s], got %v", CallbackPath, routes)
		}
	})
}

func TestBasicRouter(t *testing.T) {
	t.Run("Handle filters methods", func(t *testing.T) {
		router := NewBasicRouter()
		router.Handle(http.MethodGet, "/ping", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
		if rec.Code != http.StatusOK {
			t.Errorf("expected 200 for GET, got %d", rec.Code)
		}

		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ping", nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405 for POST, got %d", rec.Code)
		}
	})

	t.Run("middleware wraps handlers", func(t *testing.T) {
		router := NewBasicRouter()
		router.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("X-Wrapped", "yes")
				next.ServeHTTP(w, r)
			})
		})
		router.Handle(http.MethodGet, "/ping", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

		if rec.Header().Get("X-Wrapped") != "yes" {
			t.Error("expected middleware to wrap handler")
		}
	})
}
