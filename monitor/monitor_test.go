package monitor

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func monitorRouter(db func() *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterMonitorRoutes(r, db)
	return r
}

func status(t *testing.T, r *gin.Engine) (int, map[string]interface{}) {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/monitor/status", nil))
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestMonitorStatus(t *testing.T) {
	code, body := status(t, monitorRouter(nil))
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "skipped", body["database"])

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	r := monitorRouter(func() *gorm.DB { return db })

	code, body = status(t, r)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["database"])

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	code, _ = status(t, r)
	assert.Equal(t, http.StatusServiceUnavailable, code)
}

func TestObserveRequest(t *testing.T) {
	ObserveRequest(http.MethodGet, "/api/v1/pets", http.StatusOK, 15*time.Millisecond)

	w := httptest.NewRecorder()
	monitorRouter(nil).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `pet_api_http_requests_total{method="GET",route="/api/v1/pets",status="200"}`)
	assert.Contains(t, w.Body.String(), "pet_api_http_request_duration_seconds_bucket")
}
