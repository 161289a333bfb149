package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	appuser "github.com/oksasatya/go-user-service/internal/application"
	"github.com/oksasatya/go-user-service/internal/infrastructure/memory"
	"github.com/oksasatya/go-user-service/pkg/helpers"
	"github.com/oksasatya/go-user-service/pkg/validation"
)

func buildEngine(t *testing.T, opts EngineOptions, d Deps) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.Init()
	logger := helpers.NewDiscardLogger()
	opts.Logger = logger

	r, err := NewEngine(opts)
	require.NoError(t, err)
	d.UseCases = appuser.NewUseCases(appuser.Deps{
		Repo:   memory.NewUserRepository(),
		Hasher: helpers.NewBcryptHasher(bcrypt.MinCost),
		Logger: logger,
	})
	if d.RateLimitPerMinute == 0 {
		d.RateLimitPerMinute = 300
	}
	reg := NewRegistry(r)
	InitModules(reg, d)
	reg.RegisterAll()
	return r
}

func newTestEngine(t *testing.T, debug bool) *gin.Engine {
	return buildEngine(t, EngineOptions{}, Deps{DebugMetrics: debug})
}

func limitedEngine(t *testing.T, bypass bool, trusted ...string) *gin.Engine {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return buildEngine(t, EngineOptions{TrustedProxies: trusted}, Deps{
		Redis:              rdb,
		RateLimitPerMinute: 1,
		BypassPrivateIPs:   bypass,
	})
}

func callFrom(r *gin.Engine, remote string, hdr map[string]string) int {
	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	req.RemoteAddr = remote
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func call(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestUserLifecycle(t *testing.T) {
	r := newTestEngine(t, false)

	w := call(r, http.MethodPost, "/api/users", `{"name":"A","email":"a@x.com","password":"secret1"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		Data appuser.UserResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	id := created.Data.ID
	require.NotZero(t, id)
	path := "/api/users/" + jsonNumber(id)

	w = call(r, http.MethodGet, path, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "password")

	w = call(r, http.MethodPut, path, `{"name":"B"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"B"`)

	w = call(r, http.MethodDelete, path, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "User deleted successfully")

	w = call(r, http.MethodGet, path, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"error"`)
}

func TestEngine_HealthRequestIDAndCORS(t *testing.T) {
	r := newTestEngine(t, false)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://frontend.test")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","message":"API is running"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestDebugVars_OnlyWhenEnabled(t *testing.T) {
	w := call(newTestEngine(t, false), http.MethodGet, "/api/debug/vars", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = call(newTestEngine(t, true), http.MethodGet, "/api/debug/vars", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "memstats")
}

func jsonNumber(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}

func TestRateLimit_PrivateBypassFollowsConfig(t *testing.T) {
	const loopback = "127.0.0.1:5000"

	r := limitedEngine(t, true)
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, callFrom(r, loopback, nil))
	}

	r = limitedEngine(t, false)
	assert.Equal(t, http.StatusOK, callFrom(r, loopback, nil))
	assert.Equal(t, http.StatusTooManyRequests, callFrom(r, loopback, nil))
}

func TestRateLimit_ForwardedHeadersNeedTrustedProxy(t *testing.T) {
	const public = "192.0.2.1:40000"

	// untrusted peer: rotating or private-looking headers do not help
	r := limitedEngine(t, true)
	assert.Equal(t, http.StatusOK, callFrom(r, public, map[string]string{"X-Forwarded-For": "10.0.0.1"}))
	assert.Equal(t, http.StatusTooManyRequests, callFrom(r, public, map[string]string{"X-Forwarded-For": "10.0.0.2"}))
	assert.Equal(t, http.StatusTooManyRequests, callFrom(r, public, map[string]string{"X-Forwarded-For": "203.0.113.7"}))

	// trusted proxy: each forwarded client is limited on its own address
	r = limitedEngine(t, false, "192.0.2.1")
	assert.Equal(t, http.StatusOK, callFrom(r, public, map[string]string{"X-Forwarded-For": "203.0.113.7"}))
	assert.Equal(t, http.StatusTooManyRequests, callFrom(r, public, map[string]string{"X-Forwarded-For": "203.0.113.7"}))
	assert.Equal(t, http.StatusOK, callFrom(r, public, map[string]string{"X-Forwarded-For": "203.0.113.8"}))
}
