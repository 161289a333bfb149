package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() { gin.SetMode(gin.TestMode) }

func TestSuccess_EmptyListStaysArray(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("request_id", "rid-1")

	Success(c, 0, []string{}, "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"success","data":[],"request_id":"rid-1"}`, w.Body.String())
}

func TestError_Envelope(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	AbortWithError(c, http.StatusConflict, "Email already in use", nil)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.True(t, c.IsAborted())

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, "Email already in use", body["message"])
	assert.NotContains(t, body, "data")
	assert.NotContains(t, body, "errors")
}
