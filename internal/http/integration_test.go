package http

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/account-manager/internal/audit"
	"github.com/mrlokans/account-manager/internal/cache"
	"github.com/mrlokans/account-manager/internal/database/accounts"
	auditrepo "github.com/mrlokans/account-manager/internal/database/audit"
	"github.com/mrlokans/account-manager/internal/entities"
	"github.com/mrlokans/account-manager/internal/i18n"
	"github.com/mrlokans/account-manager/internal/importers"
	"github.com/mrlokans/account-manager/internal/services"
)

type testApp struct {
	router       *gin.Engine
	auditService *audit.Service
	redis        *miniredis.Miniredis
}

func setupTestApp(t *testing.T) *testApp {
	t.Helper()
	db := setupTestDatabase(t)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	statsCache := cache.NewStatsCache(client, time.Minute)

	auditService := audit.NewService(auditrepo.NewRepository(db.DB))
	accountService := services.NewAccountService(accounts.NewRepository(db.DB), statsCache, services.PasswordOptions{})
	validator := services.NewRecordValidator()

	router := NewRouter(RouterConfig{
		Accounts:        accountService,
		Validator:       validator,
		Importer:        importers.NewPipeline(accountService, validator, importers.Limits{}),
		AuditService:    auditService,
		Database:        db,
		StatsCache:      statsCache,
		Localizer:       i18n.NewLocalizer("vi"),
		ImportRateLimit: 100,
		Version:         "test",
	})

	return &testApp{router: router, auditService: auditService, redis: mr}
}

func TestRouter_AccountLifecycle(t *testing.T) {
	app := setupTestApp(t)

	w := doJSON(app.router, "POST", "/api/accounts", `{"username":"alice","password":"secret"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var alice entities.Account
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &alice))
	assert.True(t, alice.Status)
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	w = doJSON(app.router, "GET", "/api/accounts/stats", "")
	assert.JSONEq(t, `{"total":1,"active":1,"inactive":0}`, w.Body.String())

	w = doJSON(app.router, "PATCH", "/api/accounts/1/status", `{"status":false}`)
	require.Equal(t, http.StatusOK, w.Code)

	// The status change invalidated the cached statistics.
	w = doJSON(app.router, "GET", "/api/accounts/stats", "")
	assert.JSONEq(t, `{"total":1,"active":0,"inactive":1}`, w.Body.String())

	w = doJSON(app.router, "POST", "/api/accounts", `{"username":"alice","password":"again"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"message":"Tên tài khoản đã tồn tại"}`, w.Body.String())

	w = doJSON(app.router, "DELETE", "/api/accounts/1", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(app.router, "DELETE", "/api/accounts/1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message":"Không tìm thấy tài khoản"}`, w.Body.String())

	w = doJSON(app.router, "GET", "/api/accounts", "")
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestRouter_ImportThenAudit(t *testing.T) {
	app := setupTestApp(t)

	doJSON(app.router, "POST", "/api/accounts", `{"username":"carol","password":"c"}`)

	content := `accounts = [
		{username: 'alice', password: 'a'},
		{username: 'bob', password: 'b'},
		{username: 'alice', password: 'again'},
		{username: 'carol', password: 'c2'},
		{username: 'dave'},
	]`
	w := postImport(t, app.router, []byte(content), "")

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeImportResponse(t, w)
	assert.Equal(t, 2, resp.Imported)
	assert.Equal(t, 3, resp.Errors)
	assert.Equal(t, "Tên tài khoản trùng lặp trong file", resp.ErrorDetails[0].Error)
	assert.Equal(t, "Tên tài khoản đã tồn tại trong database", resp.ErrorDetails[1].Error)
	assert.Equal(t, "password: required", resp.ErrorDetails[2].Error)

	w = doJSON(app.router, "GET", "/api/accounts", "")
	var all []entities.Account
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &all))
	usernames := make([]string, 0, len(all))
	for _, a := range all {
		usernames = append(usernames, a.Username)
	}
	assert.Equal(t, []string{"carol", "alice", "bob"}, usernames)

	app.auditService.Flush()

	w = doJSON(app.router, "GET", "/api/audit?type=import", "")
	require.Equal(t, http.StatusOK, w.Code)

	var page struct {
		Data  []entities.AuditEvent `json:"data"`
		Total int64                 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	require.Equal(t, int64(1), page.Total)
	assert.Equal(t, entities.AuditStatusPartial, page.Data[0].Status)
	assert.True(t, strings.Contains(page.Data[0].Metadata, `"imported":2`))

	w = doJSON(app.router, "GET", "/api/audit?limit=1", "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, int64(2), page.Total)
	assert.Len(t, page.Data, 1)
	assert.Contains(t, w.Body.String(), `"has_more":true`)
}

func TestRouter_Health(t *testing.T) {
	app := setupTestApp(t)

	w := doJSON(app.router, "GET", "/health", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"redis": "ok"`)
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
}
