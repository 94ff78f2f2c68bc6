package resources

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signed(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)

	return token
}

func TestAuthMiddleware(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	valid := jwt.MapClaims{"sub": "staff-1", "exp": time.Now().Add(time.Hour).Unix()}
	expired := jwt.MapClaims{"sub": "staff-1", "exp": time.Now().Add(-time.Hour).Unix()}

	tests := []struct {
		name          string
		secret        string
		required      bool
		header        func(t *testing.T) string
		wantStatus    int
		wantStaffID   string
		wantAnonymous bool
	}{
		{
			name:        "signed token",
			secret:      "s3cret",
			required:    true,
			header:      func(t *testing.T) string { return "Bearer " + signed(t, "s3cret", valid) },
			wantStatus:  http.StatusOK,
			wantStaffID: "staff-1",
		},
		{
			name:       "wrong secret",
			secret:     "s3cret",
			required:   true,
			header:     func(t *testing.T) string { return "Bearer " + signed(t, "other", valid) },
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "expired token",
			secret:     "s3cret",
			required:   true,
			header:     func(t *testing.T) string { return "Bearer " + signed(t, "s3cret", expired) },
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:        "unverified token without secret",
			required:    true,
			header:      func(t *testing.T) string { return "Bearer " + signed(t, "anything", valid) },
			wantStatus:  http.StatusOK,
			wantStaffID: "staff-1",
		},
		{
			name:       "missing token when required",
			required:   true,
			header:     func(*testing.T) string { return "" },
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:          "missing token when optional",
			header:        func(*testing.T) string { return "" },
			wantStatus:    http.StatusOK,
			wantAnonymous: true,
		},
		{
			name:       "garbage token",
			header:     func(*testing.T) string { return "Bearer not-a-jwt" },
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var gotStaffID string
			var gotOK bool

			router := gin.New()
			router.Use(AuthMiddleware(tt.secret, tt.required))
			router.GET("/", func(c *gin.Context) {
				gotStaffID, gotOK = StaffID(c.Request.Context())
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if h := tt.header(t); h != "" {
				req.Header.Set("Authorization", h)
			}

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)

			if tt.wantStaffID != "" {
				assert.True(t, gotOK)
				assert.Equal(t, tt.wantStaffID, gotStaffID)
			}

			if tt.wantAnonymous {
				assert.False(t, gotOK)
			}
		})
	}
}

func TestLoggerMiddleware(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(LoggerMiddleware())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "req-1")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "req-1", w.Header().Get("X-Request-Id"))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
}

func TestCORS(t *testing.T) {
	t.Parallel()

	handler := CORS(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}), "http://diary.local, http://admin.local")

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/events", nil)
	req.Header.Set("Origin", "http://admin.local")
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, "http://admin.local", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/v1/events", nil)
	req.Header.Set("Origin", "http://evil.local")

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
