package router_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"special-requests/internal/config"
	"special-requests/internal/middleware"
	"special-requests/internal/models"
	"special-requests/internal/repository/memory"
	"special-requests/internal/router"
	"special-requests/internal/service"
	"special-requests/internal/summary"
	"special-requests/internal/utils"
)

func TestMain(m *testing.M) {
	utils.BcryptCost = bcrypt.MinCost
	os.Exit(m.Run())
}

func newServer(t *testing.T) http.Handler {
	t.Helper()
	store, err := memory.New(
		[]models.MasterItem{{Code: "A1", Description: "Widget Small"}, {Code: "B1", Description: "Gadget"}},
		memory.Account{User: models.User{StoreCode: "HQ", StoreName: "Head Office", Email: "hq@stores.io", Role: models.RoleAdmin}, Password: "admin-pass"},
		memory.Account{User: models.User{StoreCode: "A01", StoreName: "Alpha", Email: "alpha@stores.io", Role: models.RoleUser}, Password: "alpha-pass"},
	)
	require.NoError(t, err)
	cfg := config.Config{
		Env:           "dev",
		Origin:        "http://localhost:3000",
		SessionSecret: "router-test-secret",
		SessionTTL:    time.Hour,
		Store:         config.StoreMemory,
	}
	log := zerolog.Nop()
	return router.New(log, cfg, router.Services{
		Auth:      service.NewAuthService(store, cfg.SessionSecret, cfg.SessionTTL),
		Admin:     service.NewAdminDashboard(store, summary.NewService(nil, nil, log), log),
		Submitter: service.NewSubmitterDashboard(store, service.NewCatalog(store, nil, log), log),
	})
}

func do(t *testing.T, h http.Handler, method, path string, body any, session *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if session != nil {
		req.AddCookie(session)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, h http.Handler, code, password string) *http.Cookie {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/api/auth/login", map[string]string{"storeCode": code, "password": password}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.SessionCookie {
			return c
		}
	}
	t.Fatal("no session cookie")
	return nil
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func TestHealthz(t *testing.T) {
	h := newServer(t)
	rec := do(t, h, http.MethodGet, "/healthz", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
}

func TestLogin_Errors(t *testing.T) {
	h := newServer(t)

	rec := do(t, h, http.MethodPost, "/api/auth/login", map[string]string{"storeCode": "HQ"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Store Code and Password are required."}`, rec.Body.String())

	rec = do(t, h, http.MethodPost, "/api/auth/login", map[string]string{"storeCode": "HQ", "password": "nope"}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegisterThenMe(t *testing.T) {
	h := newServer(t)

	rec := do(t, h, http.MethodPost, "/api/auth/register", map[string]string{"storeCode": "C03", "storeName": "Gamma"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"All fields are required for registration."}`, rec.Body.String())

	rec = do(t, h, http.MethodPost, "/api/auth/register", map[string]string{
		"storeCode": "C03", "storeName": "Gamma", "password": "pw", "email": "gamma@stores.io",
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	session := login(t, h, "C03", "pw")
	rec = do(t, h, http.MethodGet, "/api/auth/me", nil, session)
	require.Equal(t, http.StatusOK, rec.Code)
	var me models.User
	decode(t, rec, &me)
	assert.Equal(t, models.User{StoreCode: "C03", StoreName: "Gamma", Email: "gamma@stores.io", Role: models.RoleUser}, me)
}

func TestRequiresSession(t *testing.T) {
	h := newServer(t)

	rec := do(t, h, http.MethodGet, "/api/requests", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/requests", nil, &http.Cookie{Name: middleware.SessionCookie, Value: "garbage"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	h := newServer(t)
	session := login(t, h, "A01", "alpha-pass")

	rec := do(t, h, http.MethodGet, "/api/admin/requests", nil, session)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestSubmitTrackAndUpdate(t *testing.T) {
	h := newServer(t)
	store := login(t, h, "A01", "alpha-pass")
	admin := login(t, h, "HQ", "admin-pass")

	rec := do(t, h, http.MethodPost, "/api/requests", map[string]any{"items": []map[string]string{}}, store)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/requests", map[string]any{"items": []map[string]string{
		{"code": "A1", "name": "Widget Small", "qty": "3", "reason": "empty shelf"},
		{"code": "B1", "name": "Gadget", "qty": "1"},
	}}, store)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var list struct {
		Items []models.Ticket `json:"items"`
		Total int             `json:"total"`
	}
	rec = do(t, h, http.MethodGet, "/api/requests", nil, store)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &list)
	require.Equal(t, 1, list.Total)
	assert.Equal(t, "R100", list.Items[0].ID)
	assert.Len(t, list.Items[0].Items, 2)
	assert.Equal(t, models.StatusPending, list.Items[0].Status)

	rec = do(t, h, http.MethodGet, "/api/admin/requests?status=Ongoing", nil, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &list)
	assert.Equal(t, 0, list.Total)

	rec = do(t, h, http.MethodGet, "/api/admin/requests?status=Archived", nil, admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPatch, "/api/admin/requests/R100/status", map[string]string{"status": "Ongoing"}, admin)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated models.Ticket
	decode(t, rec, &updated)
	assert.Equal(t, models.StatusOngoing, updated.Status)

	rec = do(t, h, http.MethodPatch, "/api/admin/requests/R999/status", map[string]string{"status": "Ongoing"}, admin)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/requests/R100", nil, store)
	require.Equal(t, http.StatusOK, rec.Code)
	var mine models.Ticket
	decode(t, rec, &mine)
	assert.Equal(t, models.StatusOngoing, mine.Status)

	rec = do(t, h, http.MethodGet, "/api/admin/reports/status", nil, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"Pending":0,"Ongoing":1,"Completed":0,"Rejected":0,"total":1}`, rec.Body.String())
}

func TestSummary(t *testing.T) {
	h := newServer(t)
	admin := login(t, h, "HQ", "admin-pass")

	rec := do(t, h, http.MethodGet, "/api/admin/requests/summary", nil, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"summary":"There are no requests in the current filter to summarize."}`, rec.Body.String())
}

func TestSearchItems(t *testing.T) {
	h := newServer(t)
	session := login(t, h, "A01", "alpha-pass")

	rec := do(t, h, http.MethodGet, "/api/items?q=widget", nil, session)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"items":[{"code":"A1","desc":"Widget Small"}],"total":1}`, rec.Body.String())
}
