package middlewares

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	jwthandling "github.com/Jay121305/Medical-Follow-Up-System-sub001/pkg/jwt-handling"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

const testSignKey = "middleware-test-key"

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/staff", GetAndValidateStaffUserJWT(testSignKey), func(c *gin.Context) {
		token := c.MustGet("validatedToken").(*jwthandling.StaffUserClaims)
		c.JSON(http.StatusOK, gin.H{"id": token.Subject})
	})
	r.POST("/payload", RequireJSONPayload(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.GET("/keyed", HasValidAPIKey([]string{"key-1"}), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func TestGetAndValidateStaffUserJWT(t *testing.T) {
	r := newTestRouter()

	t.Run("missing header", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/staff", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/staff", nil)
		req.Header.Set(HeaderAuthorization, "Bearer not-a-token")
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		token, err := jwthandling.GenerateNewStaffUserToken(time.Minute, "doctor-1", "", jwthandling.STAFF_ROLE_DOCTOR, testSignKey)
		assert.NoError(t, err)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/staff", nil)
		req.Header.Set(HeaderAuthorization, "Bearer "+token)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "doctor-1")
	})
}

func TestRequireJSONPayload(t *testing.T) {
	r := newTestRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/payload", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/payload", strings.NewReader(`code=123`))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/payload", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHasValidAPIKey(t *testing.T) {
	r := newTestRouter()

	tests := []struct {
		name     string
		keys     []string
		expected int
	}{
		{"missing", nil, http.StatusUnauthorized},
		{"wrong", []string{"wrong"}, http.StatusUnauthorized},
		{"valid", []string{"key-1"}, http.StatusOK},
		{"one of several", []string{"wrong", "key-1"}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/keyed", nil)
			for _, k := range tt.keys {
				req.Header.Add(HeaderAPIKey, k)
			}
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.expected, w.Code)
		})
	}
}
