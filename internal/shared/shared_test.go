package shared

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paulpark6/salesvision/internal/platform/httpx"
)

func TestCapabilityTable(t *testing.T) {
	assert.True(t, RoleAdmin.Can(CapManageTargets))
	assert.False(t, RoleManager.Can(CapManageTargets))
	assert.True(t, RoleOwner.Can(CapViewChecks))
	assert.False(t, RoleEmployee.Can(CapViewCommissions))
	assert.False(t, RoleEmployee.Can(CapViewChecks))
	assert.True(t, RoleEmployee.Can(CapViewCash))
	assert.False(t, Role("guest").Can(CapViewCash))
}

func TestParseRole(t *testing.T) {
	role, err := ParseRole(" Manager ")
	require.NoError(t, err)
	assert.Equal(t, RoleManager, role)
	_, err = ParseRole("guest")
	require.Error(t, err)
}

func TestPrincipalScopeAndRequire(t *testing.T) {
	emp := Principal{UserID: "u3", Name: "Jane Smith", Role: RoleEmployee}
	assert.Equal(t, "Jane Smith", emp.ScopeEmployee())
	err := emp.Require(CapViewCommissions)
	require.ErrorIs(t, err, ErrPermissionDenied)
	assert.ErrorIs(t, err, httpx.ErrForbidden)
	assert.True(t, IsAuthError(err))

	mgr := Principal{UserID: "u2", Name: "Manager", Role: RoleManager}
	assert.Empty(t, mgr.ScopeEmployee())
	assert.NoError(t, mgr.Require(CapViewCommissions))
}

type amountForm struct {
	Amount decimal.Decimal `json:"amount" validate:"nonneg"`
	Name   string          `json:"name" validate:"required"`
}

func TestValidateStructDecimal(t *testing.T) {
	require.NoError(t, ValidateStruct(amountForm{Amount: decimal.NewFromInt(3), Name: "x"}))

	err := ValidateStruct(amountForm{Amount: decimal.NewFromInt(-3), Name: "x"})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "amount", verr.Field)
	assert.ErrorIs(t, err, httpx.ErrValidation)
	assert.Equal(t, "must not be negative", verr.Reason)

	tiny := decimal.New(-1, -400)
	require.True(t, tiny.IsNegative())
	err = ValidateStruct(amountForm{Amount: tiny, Name: "x"})
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "amount", verr.Field)

	require.NoError(t, ValidateStruct(amountForm{Amount: decimal.Zero, Name: "x"}))
	require.NoError(t, ValidateStruct(amountForm{Amount: decimal.New(1, -400), Name: "x"}))

	err = ValidateStruct(amountForm{Amount: decimal.NewFromInt(1)})
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "name", verr.Field)
	assert.Equal(t, "is required", verr.Reason)
}

func TestParseAmount(t *testing.T) {
	v, err := ParseAmount("amount", " 12.50 ")
	require.NoError(t, err)
	assert.True(t, v.Equal(decimal.RequireFromString("12.5")))

	for _, raw := range []string{"", "abc", "-1", "NaN"} {
		_, err := ParseAmount("amount", raw)
		assert.ErrorIs(t, err, httpx.ErrValidation, raw)
	}

	q, err := ParseQuantity("quantity", "4")
	require.NoError(t, err)
	assert.Equal(t, 4, q)
	_, err = ParseQuantity("quantity", "1.5")
	assert.Error(t, err)
	_, err = ParseQuantity("quantity", "-2")
	assert.Error(t, err)
}

func TestRecordErrorJSONRoundTrip(t *testing.T) {
	in := []RecordError{
		{Index: 2, Key: "r2", Err: NewValidationError("amount", "must not be negative")},
		{Index: 5, Err: errors.New("boom")},
	}
	raw, err := json.Marshal(in)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"field":"amount"`)
	assert.Contains(t, string(raw), `"message":"boom"`)

	var out []RecordError
	require.NoError(t, json.Unmarshal(raw, &out))
	require.Len(t, out, 2)
	assert.Equal(t, "amount", out[0].Field())
	assert.ErrorIs(t, out[0], httpx.ErrValidation)
	assert.Equal(t, "boom", out[1].Err.Error())
}

func newSessionManager(t *testing.T) *SessionManager {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewSessionManager(client, "salesvision_session", "secret", time.Hour, false)
}

func TestSessionPrincipalRoundTrip(t *testing.T) {
	sm := newSessionManager(t)
	ctx := context.Background()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := sm.Load(ctx, req)
	require.NoError(t, err)
	_, ok := sess.Principal()
	assert.False(t, ok)

	sess.SetPrincipal(Principal{UserID: "u1", Name: "Admin", Role: RoleAdmin})
	rec := httptest.NewRecorder()
	require.NoError(t, sm.Commit(ctx, rec, req, sess))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)

	next := httptest.NewRequest(http.MethodGet, "/", nil)
	next.AddCookie(cookies[0])
	loaded, err := sm.Load(ctx, next)
	require.NoError(t, err)
	p, ok := loaded.Principal()
	require.True(t, ok)
	assert.Equal(t, RoleAdmin, p.Role)
	assert.Equal(t, "u1", loaded.User())

	pctx := ContextWithSession(ctx, loaded)
	fromCtx, ok := PrincipalFromContext(pctx)
	require.True(t, ok)
	assert.Equal(t, p, fromCtx)

	sm.Destroy(loaded)
	rec = httptest.NewRecorder()
	require.NoError(t, sm.Commit(ctx, rec, next, loaded))
	gone, err := sm.Load(ctx, next)
	require.NoError(t, err)
	_, ok = gone.Principal()
	assert.False(t, ok)
}

func TestCSRFTokens(t *testing.T) {
	sm := newSessionManager(t)
	ctx := context.Background()
	sess, err := sm.Load(ctx, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	csrf := NewCSRFManager("csrf-secret")
	token, err := csrf.EnsureToken(ctx, sess)
	require.NoError(t, err)
	again, err := csrf.EnsureToken(ctx, sess)
	require.NoError(t, err)
	assert.Equal(t, token, again)

	require.NoError(t, csrf.VerifyToken(ctx, sess, token))
	assert.ErrorIs(t, csrf.VerifyToken(ctx, sess, "forged"), ErrCSRFTokenMismatch)
	assert.ErrorIs(t, csrf.VerifyToken(ctx, sess, ""), ErrCSRFTokenMissing)
	assert.ErrorIs(t, csrf.VerifyToken(ctx, nil, token), ErrCSRFTokenMissing)

	rotated, err := csrf.Rotate(ctx, sess)
	require.NoError(t, err)
	assert.ErrorIs(t, csrf.VerifyToken(ctx, sess, token), ErrCSRFTokenMismatch)
	assert.NoError(t, csrf.VerifyToken(ctx, sess, rotated))
}
