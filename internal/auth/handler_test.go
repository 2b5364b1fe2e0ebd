package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/paulpark6/salesvision/internal/auth"
	"github.com/paulpark6/salesvision/internal/shared"
	_ "github.com/paulpark6/salesvision/testing"
)

const seedPassword = "password"

func newAuthHandler(t *testing.T) (*auth.Handler, *shared.SessionManager) {
	t.Helper()
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = redisClient.Close() })
	sessionManager := shared.NewSessionManager(redisClient, "test_session", "secret", time.Hour, false)
	csrfManager := shared.NewCSRFManager("csrfsecret")
	users, err := auth.SeedUsers(seedPassword, bcrypt.MinCost)
	if err != nil {
		t.Fatalf("seed users: %v", err)
	}
	service := auth.NewService(auth.NewMemoryRepository(users...))
	return auth.NewHandler(nil, service, sessionManager, csrfManager), sessionManager
}

func postLogin(t *testing.T, handler *auth.Handler, sm *shared.SessionManager, body string) (*httptest.ResponseRecorder, *shared.Session) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	sess, err := sm.Load(context.Background(), req)
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	ctx := shared.ContextWithSession(req.Context(), sess)
	req = req.WithContext(ctx)

	res := httptest.NewRecorder()
	handler.HandleLoginForTest(res, req)
	if err := sm.Commit(ctx, res, req, sess); err != nil {
		t.Fatalf("commit session: %v", err)
	}
	return res, sess
}

func TestLoginSuccess(t *testing.T) {
	handler, sm := newAuthHandler(t)
	res, sess := postLogin(t, handler, sm, `{"email":"Jane.Smith@example.com","password":"password"}`)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}

	var payload struct {
		Principal shared.Principal `json:"principal"`
		CSRFToken string           `json:"csrf_token"`
	}
	if err := json.Unmarshal(res.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Principal.Role != shared.RoleEmployee || payload.Principal.Name != "Jane Smith" {
		t.Fatalf("unexpected principal %+v", payload.Principal)
	}
	if payload.CSRFToken == "" || payload.CSRFToken != sess.Get(shared.CSRFSessionKey) {
		t.Fatalf("csrf token not rotated into session")
	}

	// The committed session must resolve the principal on the next request.
	meReq := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	meReq.AddCookie(&http.Cookie{Name: sm.CookieName(), Value: sess.ID})
	loaded, err := sm.Load(context.Background(), meReq)
	if err != nil {
		t.Fatalf("load session for me: %v", err)
	}
	meReq = meReq.WithContext(shared.ContextWithSession(meReq.Context(), loaded))
	meRes := httptest.NewRecorder()
	handler.HandleMeForTest(meRes, meReq)
	if meRes.Code != http.StatusOK {
		t.Fatalf("expected 200 from me, got %d", meRes.Code)
	}
	if !strings.Contains(meRes.Body.String(), "usr-employee") {
		t.Fatalf("expected user id in body: %s", meRes.Body.String())
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	handler, sm := newAuthHandler(t)
	res, sess := postLogin(t, handler, sm, `{"email":"admin@example.com","password":"wrongpass"}`)
	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", res.Code)
	}
	if _, ok := sess.Principal(); ok {
		t.Fatalf("principal must not be set after a failed login")
	}

	res, _ = postLogin(t, handler, sm, `{"email":"nobody@example.com","password":"password"}`)
	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unknown user, got %d", res.Code)
	}
}

func TestLoginValidation(t *testing.T) {
	handler, sm := newAuthHandler(t)
	res, _ := postLogin(t, handler, sm, `{"email":"not-an-email","password":"short"}`)
	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
	var payload struct {
		Errors map[string]string `json:"errors"`
	}
	if err := json.Unmarshal(res.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Errors["Email"] != "email" || payload.Errors["Password"] != "min" {
		t.Fatalf("unexpected errors %v", payload.Errors)
	}
}

func TestMeRequiresLogin(t *testing.T) {
	handler, sm := newAuthHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	sess, err := sm.Load(context.Background(), req)
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	req = req.WithContext(shared.ContextWithSession(req.Context(), sess))
	res := httptest.NewRecorder()
	handler.HandleMeForTest(res, req)
	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", res.Code)
	}
}
