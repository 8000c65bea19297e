package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"optiretail/internal/core/apperror"
	appctx "optiretail/internal/core/context"
)

type staticValidator map[string]*appctx.UserContext

func (v staticValidator) ValidateToken(token string) (*appctx.UserContext, error) {
	if u, ok := v[token]; ok {
		return u, nil
	}
	return nil, errors.New("unknown token")
}

func newGuardedEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)

	validator := staticValidator{
		"cashier": {UserID: "1", Permissions: []string{PermLedgerRead}},
		"admin":   {UserID: "2", IsAdmin: true},
	}

	r := gin.New()
	r.Use(ErrorHandler(), Recovery())
	r.GET("/ledger", Auth(validator), RequirePermission(PermLedgerRead), func(c *gin.Context) {
		c.String(http.StatusOK, appctx.GetUserID(c.Request.Context()))
	})
	r.PATCH("/confirm", Auth(validator), RequirePermission(PermDepositConfirm), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	r.GET("/open", RequirePermission(PermLedgerRead), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	r.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})
	return r
}

func request(r http.Handler, method, path, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Status string `json:"status"`
		Code   string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "error", body.Status)
	return body.Code
}

func TestAuth(t *testing.T) {
	r := newGuardedEngine()

	tests := []struct {
		name   string
		header string
		status int
		code   string
	}{
		{"missing header", "", http.StatusUnauthorized, apperror.CodeUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, apperror.CodeUnauthorized},
		{"unknown token", "Bearer nope", http.StatusUnauthorized, apperror.CodeUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := request(r, http.MethodGet, "/ledger", tt.header)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, errorCode(t, w))
		})
	}

	w := request(r, http.MethodGet, "/ledger", "bearer cashier")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Body.String())
}

func TestRequirePermission(t *testing.T) {
	r := newGuardedEngine()

	w := request(r, http.MethodPatch, "/confirm", "Bearer cashier")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, apperror.CodeForbidden, errorCode(t, w))

	w = request(r, http.MethodPatch, "/confirm", "Bearer admin")
	assert.Equal(t, http.StatusOK, w.Code)

	w = request(r, http.MethodGet, "/open", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRecoveryRendersEnvelope(t *testing.T) {
	r := newGuardedEngine()

	w := request(r, http.MethodGet, "/panic", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, apperror.CodeInternal, errorCode(t, w))
	assert.NotContains(t, w.Body.String(), "boom")
}
