package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"pet-adoption-api/config"
	"pet-adoption-api/models"
	"pet-adoption-api/services"
)

type testEnv struct {
	router *gin.Engine
	db     *gorm.DB
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, models.Migrate(db))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	prevDB, prevCfg, prevRedis := config.DB, config.Cfg, config.Redis
	cfg := config.DefaultSettings()
	cfg.JWT.Secret = "routes-test-secret-0123456789abcdef"
	config.DB, config.Cfg, config.Redis = db, cfg, rdb
	t.Cleanup(func() {
		config.DB, config.Cfg, config.Redis = prevDB, prevCfg, prevRedis
		_ = rdb.Close()
		_ = sqlDB.Close()
	})

	router := gin.New()
	SetupRoutes(router, nil)
	return &testEnv{router: router, db: db}
}

func (e *testEnv) user(t *testing.T, name, role string) (models.User, string) {
	t.Helper()
	u := models.User{
		Name:         name,
		Email:        uuid.NewString() + "@example.com",
		Role:         role,
		AuthProvider: models.ProviderLocal,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	require.NoError(t, e.db.Create(&u).Error)
	token, _, err := services.TokensFromConfig().Issue(u)
	require.NoError(t, err)
	return u, token
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodGet, "/api/v1/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode(t, w)["status"])
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodPost, "/api/v1/adoption-application", "", map[string]interface{}{})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/notifications", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdoptionWorkflowOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	owner, ownerToken := env.user(t, "Owner", models.RoleUser)
	_, modToken := env.user(t, "Mod", models.RoleModerator)
	a1, a1Token := env.user(t, "First", models.RoleUser)
	a2, a2Token := env.user(t, "Second", models.RoleUser)

	// owner lists a pet
	w := env.do(t, http.MethodPost, "/api/v1/pets", ownerToken, map[string]interface{}{"name": "Biscuit", "species": "dog"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	petID := uint(decode(t, w)["pet_id"].(float64))

	// moderation
	w = env.do(t, http.MethodPut, "/api/v1/listing-approvals", ownerToken, map[string]interface{}{"pet_id": petID, "approved": true})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodPut, "/api/v1/listing-approvals", modToken, `{"pet_id": 1, "approved": "yes"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "validation", decode(t, w)["kind"])

	w = env.do(t, http.MethodPut, "/api/v1/listing-approvals", modToken, map[string]interface{}{"approved": true})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPut, "/api/v1/listing-approvals", modToken, map[string]interface{}{"pet_id": 9999, "approved": true})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodPut, "/api/v1/listing-approvals", modToken, map[string]interface{}{"pet_id": petID, "approved": true})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, true, decode(t, w)["notified"])

	w = env.do(t, http.MethodGet, "/api/v1/pets", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode(t, w)["total"])

	// applications
	apply := func(token string, userID uint, pet uint) *httptest.ResponseRecorder {
		return env.do(t, http.MethodPost, "/api/v1/adoption-application", token, map[string]interface{}{
			"user_id":        userID,
			"pet_id":         pet,
			"applicant_name": "Applicant",
			"address":        "1 Main St",
			"household_size": 2,
			"terms_agreed":   true,
		})
	}

	w = apply(a1Token, a2.UserID, petID)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = apply(a1Token, a1.UserID, 9999)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "not_found", decode(t, w)["kind"])

	w = apply(a1Token, a1.UserID, petID)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	firstID := uint(decode(t, w)["application_id"].(float64))
	assert.Equal(t, "pending", decode(t, w)["status"])

	w = apply(a2Token, a2.UserID, petID)
	require.Equal(t, http.StatusCreated, w.Code)
	secondID := uint(decode(t, w)["application_id"].(float64))

	w = env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/pets/%d/adoption-applications", petID), a1Token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/pets/%d/adoption-applications", petID), ownerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 2, decode(t, w)["total"])

	// decisions
	w = env.do(t, http.MethodPost, "/api/v1/accept-adoption-application/abc", ownerToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, fmt.Sprintf("/api/v1/accept-adoption-application/%d", firstID), a2Token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodPost, fmt.Sprintf("/api/v1/accept-adoption-application/%d", firstID), ownerToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, "adopted", body["pet"].(map[string]interface{})["adoption_status"])
	assert.EqualValues(t, 2, body["notifications"])

	w = env.do(t, http.MethodPost, fmt.Sprintf("/api/v1/accept-adoption-application/%d", firstID), ownerToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodPost, fmt.Sprintf("/api/v1/reject-adoption-application/%d", firstID), ownerToken, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.do(t, http.MethodPost, "/api/v1/reject-adoption-application/777", ownerToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// notifications
	w = env.do(t, http.MethodGet, "/api/v1/my/adoption-applications", a2Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	items := decode(t, w)["items"].([]interface{})
	require.Len(t, items, 1)
	assert.EqualValues(t, secondID, items[0].(map[string]interface{})["application_id"])
	assert.Equal(t, "rejected", items[0].(map[string]interface{})["status"])

	w = env.do(t, http.MethodGet, "/api/v1/notifications/counter", a2Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 2, decode(t, w)["unread"])

	w = env.do(t, http.MethodPatch, "/api/v1/notifications/read-all", a2Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = env.do(t, http.MethodGet, "/api/v1/notifications/counter", a2Token, nil)
	assert.EqualValues(t, 0, decode(t, w)["unread"])

	w = env.do(t, http.MethodGet, "/api/v1/notifications/counter", ownerToken, nil)
	assert.EqualValues(t, 3, decode(t, w)["unread"], "listing approval plus two received")
	_ = owner
}

func TestRegisterLoginLogout(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/register", "", map[string]interface{}{
		"name": "Sam", "email": "sam@example.com", "password": "correct-horse",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = env.do(t, http.MethodPost, "/api/v1/register", "", map[string]interface{}{
		"name": "Sam", "email": "sam@example.com", "password": "correct-horse",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.do(t, http.MethodPost, "/api/v1/login", "", map[string]interface{}{"email": "sam@example.com", "password": "wrong-pass"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodPost, "/api/v1/login", "", map[string]interface{}{"email": "sam@example.com", "password": "correct-horse"})
	require.Equal(t, http.StatusOK, w.Code)
	token := decode(t, w)["token"].(string)

	var cookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == config.Cfg.JWT.CookieName {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)

	// cookie-only session
	req := httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil)
	req.AddCookie(&http.Cookie{Name: cookie.Name, Value: cookie.Value})
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	w = env.do(t, http.MethodPut, "/api/v1/profile/founders-club", token, map[string]interface{}{"founders_club": true})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["user"].(map[string]interface{})["founders_club"])

	w = env.do(t, http.MethodPost, "/api/v1/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/profile", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDirectoryRoutes(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.user(t, "Shelter admin", models.RoleUser)

	w := env.do(t, http.MethodPost, "/api/v1/shelters", "", map[string]interface{}{"name": "Paws", "city": "Dhaka"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodPost, "/api/v1/shelters", token, map[string]interface{}{"name": "Paws", "city": "Dhaka"})
	require.Equal(t, http.StatusCreated, w.Code)
	id := uint(decode(t, w)["shelter_id"].(float64))

	w = env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/shelters/%d", id), "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/qurbani-animals?city=Dhaka", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/vets/12", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/does-not-exist", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDashboardAndPasswordReset(t *testing.T) {
	env := newTestEnv(t)
	_, userToken := env.user(t, "User", models.RoleUser)
	_, adminToken := env.user(t, "Admin", models.RoleAdmin)

	w := env.do(t, http.MethodGet, "/api/v1/dashboard", userToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user", decode(t, w)["scope"])

	w = env.do(t, http.MethodGet, "/api/v1/dashboard", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "admin", body["scope"])
	assert.EqualValues(t, 2, body["stats"].(map[string]interface{})["users"])

	w = env.do(t, http.MethodPost, "/api/v1/reset-password", "", map[string]interface{}{
		"token": "deadbeef", "new_password": "brand-new-pass", "confirm_password": "brand-new-pass",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/api/v1/forgot-password", "", map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
