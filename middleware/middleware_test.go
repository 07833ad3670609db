package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lokai/config"
	"lokai/services/geolocation"
	"lokai/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded chain", map[string]string{"X-Forwarded-For": "49.207.1.1, 10.0.0.1"}, "10.0.0.2:443", "49.207.1.1"},
		{"real ip", map[string]string{"X-Real-IP": " 49.207.1.2 "}, "10.0.0.2:443", "49.207.1.2"},
		{"remote addr", nil, "49.207.1.3:5555", "49.207.1.3"},
		{"remote without port", nil, "49.207.1.4", "49.207.1.4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			c.Request.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				c.Request.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, ClientIP(c))
		})
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RateLimitMiddleware(2))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	hit := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Forwarded-For", ip)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, hit("1.1.1.1"))
	assert.Equal(t, http.StatusOK, hit("1.1.1.1"))
	assert.Equal(t, http.StatusTooManyRequests, hit("1.1.1.1"))
	assert.Equal(t, http.StatusOK, hit("2.2.2.2"), "limits are per address")
}

func TestGeolocationMiddleware(t *testing.T) {
	var got geolocation.Locator
	var ip string
	r := gin.New()
	r.Use(GeolocationMiddleware(geolocation.NewIPLookup("", zap.NewNop())))
	r.GET("/", func(c *gin.Context) {
		ip = c.GetString("clientIP")
		got, _ = c.MustGet("locator").(geolocation.Locator)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Real-IP", "49.207.1.1")
	r.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "49.207.1.1", ip)
	require.NotNil(t, got)
	assert.False(t, got.Supported(), "no lookup service configured")
}

func identityRouter(roles ...string) *gin.Engine {
	r := gin.New()
	r.Use(IdentityMiddleware())
	handler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userID": c.GetString("userID"), "role": c.GetString("role")})
	}
	r.GET("/open", handler)
	r.GET("/admin", RequireRole(roles...), handler)
	return r
}

func get(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIdentityAndRoles(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"
	t.Cleanup(func() { config.AppConfig.JWTSecret = "" })

	admin, err := utils.GenerateToken("u-admin", utils.RoleAdmin, time.Hour)
	require.NoError(t, err)
	buyer, err := utils.GenerateToken("u-buyer", "", time.Hour)
	require.NoError(t, err)

	r := identityRouter(utils.RoleAdmin)

	w := get(r, "/open", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"userID":"","role":""}`, w.Body.String())

	w = get(r, "/open", "Bearer "+buyer)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"userID":"u-buyer","role":"buyer"}`, w.Body.String())

	assert.Equal(t, http.StatusUnauthorized, get(r, "/open", "Bearer garbage").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/open", "Basic abc").Code)

	assert.Equal(t, http.StatusUnauthorized, get(r, "/admin", "").Code)
	assert.Equal(t, http.StatusForbidden, get(r, "/admin", "Bearer "+buyer).Code)
	assert.Equal(t, http.StatusOK, get(r, "/admin", "Bearer "+admin).Code)
}

func TestRequestLogger(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger(zap.NewNop()))
	var hasLogger bool
	r.GET("/", func(c *gin.Context) {
		_, hasLogger = c.Get("logger")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.True(t, hasLogger)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc", w.Header().Get("X-Request-ID"))
}
