package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/stockroom/internal/config"
	"github.com/ahmetcoskunkizilkaya/stockroom/internal/database"
	"github.com/ahmetcoskunkizilkaya/stockroom/internal/database/dbtest"
	"github.com/ahmetcoskunkizilkaya/stockroom/internal/depot"
	"github.com/ahmetcoskunkizilkaya/stockroom/internal/directory"
	"github.com/ahmetcoskunkizilkaya/stockroom/internal/guard"
	"github.com/ahmetcoskunkizilkaya/stockroom/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/stockroom/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/stockroom/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/stockroom/internal/models"
	"github.com/ahmetcoskunkizilkaya/stockroom/internal/services"
	"github.com/ahmetcoskunkizilkaya/stockroom/internal/session"
	"github.com/ahmetcoskunkizilkaya/stockroom/internal/web"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const depotsYAML = `
depots:
  - agent_id: A1
    name: Sydney Central
    address: 1 George St
    clients: [Telstra, Optus]
`

type portal struct {
	app *fiber.App
	db  *gorm.DB
	dir *directory.Directory
	cfg *config.Config
}

func newPortal(t *testing.T) *portal {
	t.Helper()
	db := dbtest.Open(t)
	database.DB = db

	cfg := &config.Config{
		SessionSecret: "test-secret",
		SessionTTL:    time.Hour,
		SessionCookie: "stockroom_session",
		SignupRole:    "merchant",
		LoginPath:     "/",
		PendingPath:   "/pending",
		LandingPath:   "/dashboard",
		CORSOrigins:   "*",
	}
	depots, err := depot.Parse([]byte(depotsYAML))
	require.NoError(t, err)

	sessions := session.NewStore(db, cfg.SessionSecret, cfg.SessionTTL)
	dir := directory.New(db)
	m := metrics.New()
	g := guard.New(sessions, dir, guard.Destinations{Login: "/", Pending: "/pending", Landing: "/dashboard"})
	inventory := services.NewInventoryService(db)

	app := fiber.New(fiber.Config{Views: web.NewEngine(time.UTC)})
	Setup(app, cfg, middleware.GuardConfig{Guard: g, Cookie: cfg.SessionCookie, Metrics: m}, m,
		handlers.NewAuthHandler(services.NewAuthService(db, sessions, dir, guard.RoleMerchant), cfg),
		handlers.NewPageHandler(inventory, dir, depots, time.UTC),
		handlers.NewExportHandler(inventory, time.UTC),
		handlers.NewHealthHandler(depots),
		handlers.NewAPIHandler(depots),
	)
	return &portal{app: app, db: db, dir: dir, cfg: cfg}
}

func (p *portal) do(t *testing.T, method, path, token string, form url.Values) *http.Response {
	t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: p.cfg.SessionCookie, Value: token})
	}
	resp, err := p.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func (p *portal) signup(t *testing.T, email string) string {
	t.Helper()
	resp := p.do(t, fiber.MethodPost, "/signup", "", url.Values{"email": {email}, "password": {"long-enough"}})
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/dashboard", resp.Header.Get("Location"))
	token := cookie(resp, p.cfg.SessionCookie)
	require.NotEmpty(t, token)
	return token
}

func (p *portal) provision(t *testing.T, email string, role guard.Role) {
	t.Helper()
	var user models.User
	require.NoError(t, p.db.Where("email = ?", email).First(&user).Error)
	require.NoError(t, p.dir.Provision(context.Background(), nil, user.ID, email, role, "A1"))
}

func cookie(resp *http.Response, name string) string {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func TestSignupLandsOnPending(t *testing.T) {
	p := newPortal(t)
	token := p.signup(t, "new@example.com")

	resp := p.do(t, fiber.MethodGet, "/dashboard", token, nil)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/pending", resp.Header.Get("Location"))

	resp = p.do(t, fiber.MethodGet, "/pending", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "not yet assigned")
}

func TestLoginFailureSetsNotice(t *testing.T) {
	p := newPortal(t)
	p.signup(t, "tech@example.com")

	resp := p.do(t, fiber.MethodPost, "/login", "", url.Values{"email": {"tech@example.com"}, "password": {"nope-nope"}})
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
	assert.Empty(t, cookie(resp, p.cfg.SessionCookie))
	assert.Contains(t, cookie(resp, "stockroom_notice"), "error")
}

func TestTechnicianStockFlow(t *testing.T) {
	p := newPortal(t)
	token := p.signup(t, "tech@example.com")
	p.provision(t, "tech@example.com", guard.RoleTechnician)

	resp := p.do(t, fiber.MethodGet, "/dashboard", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	page := readBody(t, resp)
	assert.Contains(t, page, "Telstra")
	assert.Contains(t, page, `data-role="manager" style="display:none"`)
	assert.Contains(t, page, `<label data-role="technician">Job number`)
	assert.Contains(t, page, "Sydney Central")

	form := url.Values{"client": {"Telstra"}, "job_id": {"5"}, "serials": {"SN1\nSN2"}}
	resp = p.do(t, fiber.MethodPost, "/dashboard", token, form)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/boxes", resp.Header.Get("Location"))
	assert.Contains(t, cookie(resp, "stockroom_notice"), "A1-TEL-001")

	resp = p.do(t, fiber.MethodPost, "/dashboard", token, form)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "<code>SN1</code>")

	resp = p.do(t, fiber.MethodGet, "/boxes", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "A1-TEL-001")

	resp = p.do(t, fiber.MethodGet, "/boxes.csv", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv;charset=utf-8", resp.Header.Get(fiber.HeaderContentType))
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), `filename="boxes-A1-`)
	csv := readBody(t, resp)
	assert.True(t, strings.HasPrefix(csv, "Box ID,Client,Serial Number,Job ID,Packed At\n"))
	assert.Contains(t, csv, "A1-TEL-001,Telstra,SN1,5,\"")

	resp = p.do(t, fiber.MethodGet, "/admin-depot", token, nil)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/dashboard", resp.Header.Get("Location"))
	assert.Contains(t, cookie(resp, "stockroom_notice"), "permission")

	resp = p.do(t, fiber.MethodGet, "/api/me", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	me := readBody(t, resp)
	assert.Contains(t, me, `"agent_id":"A1"`)
	assert.Contains(t, me, `"role":"technician"`)
}

func TestManagerAdminPages(t *testing.T) {
	p := newPortal(t)
	token := p.signup(t, "boss@example.com")
	p.provision(t, "boss@example.com", guard.RoleManager)

	end := time.Date(2026, 5, 1, 15, 0, 0, 0, time.UTC)
	require.NoError(t, p.db.Create(&models.Shift{
		UserID: uuid.New(), Email: "tech@example.com", AgentID: "A1", Vehicle: "VAN-7",
		StartedAt: end.Add(-8 * time.Hour), EndedAt: &end, Jobs: 4,
	}).Error)

	resp := p.do(t, fiber.MethodGet, "/admin-depot", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	page := readBody(t, resp)
	assert.Contains(t, page, "boss@example.com")
	assert.Contains(t, page, "1 George St")
	assert.NotContains(t, page, "display:none")

	resp = p.do(t, fiber.MethodGet, "/admin-shifts", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "VAN-7")

	resp = p.do(t, fiber.MethodGet, "/admin-shifts.csv", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "tech@example.com,VAN-7,\"01/05/2026, 07:00 am\",\"01/05/2026, 03:00 pm\",8.00,4")
}

func TestShiftReportsSinceFilter(t *testing.T) {
	p := newPortal(t)
	token := p.signup(t, "boss@example.com")
	p.provision(t, "boss@example.com", guard.RoleManager)

	early := time.Date(2026, 5, 1, 7, 0, 0, 0, time.UTC)
	late := time.Date(2026, 5, 2, 7, 0, 0, 0, time.UTC)
	require.NoError(t, p.db.Create(&[]models.Shift{
		{UserID: uuid.New(), Email: "early@example.com", AgentID: "A1", Vehicle: "VAN-1", StartedAt: early},
		{UserID: uuid.New(), Email: "late@example.com", AgentID: "A1", Vehicle: "VAN-2", StartedAt: late},
	}).Error)

	resp := p.do(t, fiber.MethodGet, "/admin-shifts?since=2026-05-02T00:00", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	page := readBody(t, resp)
	assert.Contains(t, page, `value="2026-05-02T00:00"`)
	assert.Contains(t, page, "VAN-2")
	assert.NotContains(t, page, "VAN-1")

	resp = p.do(t, fiber.MethodGet, "/admin-shifts.csv?since=2026-05-02T00:00", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	csv := readBody(t, resp)
	assert.Contains(t, csv, "late@example.com")
	assert.NotContains(t, csv, "early@example.com")

	resp = p.do(t, fiber.MethodGet, "/admin-shifts?since=yesterday", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	page = readBody(t, resp)
	assert.Contains(t, page, "VAN-1")
	assert.Contains(t, page, "VAN-2")
}

func TestMerchantSeesNoTechnicianFields(t *testing.T) {
	p := newPortal(t)
	token := p.signup(t, "shop@example.com")
	p.provision(t, "shop@example.com", guard.RoleMerchant)

	resp := p.do(t, fiber.MethodGet, "/dashboard", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	page := readBody(t, resp)
	assert.Contains(t, page, `<label data-role="technician" style="display:none">Job number`)
	assert.Contains(t, page, `data-role="manager" style="display:none"`)
}

func TestLogoutRevokesSession(t *testing.T) {
	p := newPortal(t)
	token := p.signup(t, "tech@example.com")
	p.provision(t, "tech@example.com", guard.RoleTechnician)

	resp := p.do(t, fiber.MethodPost, "/logout", token, nil)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	resp = p.do(t, fiber.MethodGet, "/dashboard", token, nil)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	resp = p.do(t, fiber.MethodGet, "/api/me", token, nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestHealthAndMetrics(t *testing.T) {
	p := newPortal(t)

	resp := p.do(t, fiber.MethodGet, "/api/health", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), `"depot_count":1`)

	p.do(t, fiber.MethodGet, "/dashboard", "", nil)
	resp = p.do(t, fiber.MethodGet, "/metrics", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), `stockroom_guard_decisions_total{outcome="unauthenticated"} 1`)

	resp = p.do(t, fiber.MethodGet, "/static/app.css", "", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
