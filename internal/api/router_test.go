package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/maraseel/shipping-site/internal/api/handler"
	"github.com/maraseel/shipping-site/internal/core/domain"
	"github.com/maraseel/shipping-site/internal/core/ports"
	"github.com/maraseel/shipping-site/internal/core/service"
	"github.com/maraseel/shipping-site/internal/infrastructure/db/memory"
	"github.com/maraseel/shipping-site/internal/infrastructure/session"
	"github.com/maraseel/shipping-site/internal/pkg/password"
	"github.com/maraseel/shipping-site/internal/pkg/token"
)

type nopDispatcher struct{}

func (nopDispatcher) Enqueue(ports.ResetNotification) bool { return true }

type emptySite struct{}

func (emptySite) Track(context.Context, string) (*domain.Shipment, error) {
	return nil, domain.ErrShipmentNotFound
}

func (emptySite) RequestQuote(context.Context, ports.QuoteInput) (*domain.Quote, error) {
	return nil, service.ErrQuoteFieldsRequired
}

func (emptySite) SubmitContact(context.Context, ports.ContactInput) error { return nil }

type testServer struct {
	url   string
	store *memory.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	store := memory.NewStore()
	issuer := token.NewIssuer()
	sessions := session.NewMemoryStore(issuer, domain.SessionTTL)
	cookies, err := session.NewCookies("test-secret", false)
	require.NoError(t, err)

	srv := httptest.NewUnstartedServer(nil)
	appURL := "http://" + srv.Listener.Addr().String()

	auth := service.NewAuthService(store, store, sessions, password.NewBcryptHasher(bcrypt.MinCost), issuer,
		nopDispatcher{}, service.AuthOptions{AppURL: appURL, ExposeDevLink: true}, zerolog.Nop())

	e := NewRouter(Dependencies{
		Auth:      auth,
		Admin:     service.NewAdminService(store, zerolog.Nop()),
		Site:      emptySite{},
		Cookies:   cookies,
		Readiness: map[string]handler.PingFunc{"credentials": store.Ping},
		Log:       zerolog.Nop(),
	}, Options{})

	srv.Config.Handler = e
	srv.Start()
	t.Cleanup(srv.Close)
	return &testServer{url: srv.URL, store: store}
}

// browser is an HTTP client with its own cookie jar.
type browser struct {
	t      *testing.T
	base   string
	client *http.Client
}

func (s *testServer) browser(t *testing.T) *browser {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &browser{t: t, base: s.url, client: &http.Client{Jar: jar}}
}

func (b *browser) do(method, path string, body any) (int, map[string]any) {
	b.t.Helper()
	var payload *strings.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(b.t, err)
		payload = strings.NewReader(string(raw))
	} else {
		payload = strings.NewReader("")
	}

	req, err := http.NewRequest(method, b.base+path, payload)
	require.NoError(b.t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	require.NoError(b.t, err)
	defer resp.Body.Close()

	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

type creds map[string]string

func TestRouter_AccountLifecycle(t *testing.T) {
	srv := newTestServer(t)
	b := srv.browser(t)

	code, body := b.do(http.MethodPost, "/api/auth/signup", creds{"email": "a@x.com", "password": "password1"})
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, handler.MsgSignupOK, body["message"])

	code, body = b.do(http.MethodPost, "/api/auth/signup", creds{"email": "a@x.com", "password": "password9"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, handler.MsgEmailTaken, body["message"])

	code, body = b.do(http.MethodPost, "/api/auth/signup", creds{"email": "b@x.com", "password": "short"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, handler.MsgWeakPassword, body["message"])

	code, wrong := b.do(http.MethodPost, "/api/auth/login", creds{"email": "a@x.com", "password": "nope-nope"})
	assert.Equal(t, http.StatusUnauthorized, code)
	code, unknown := b.do(http.MethodPost, "/api/auth/login", creds{"email": "ghost@x.com", "password": "password1"})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, wrong, unknown, "login failures must be indistinguishable")

	code, body = b.do(http.MethodPost, "/api/auth/login", creds{"email": "a@x.com", "password": "password1"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, handler.MsgLoginOK, body["message"])

	_, body = b.do(http.MethodGet, "/api/auth/me", nil)
	assert.Equal(t, true, body["authenticated"])
	user := body["user"].(map[string]any)
	assert.Equal(t, "a@x.com", user["email"])
	assert.Equal(t, domain.RoleUser, user["role"])

	code, body = b.do(http.MethodGet, "/api/admin/stats", nil)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, handler.MsgAdminRequired, body["message"])

	code, body = b.do(http.MethodPost, "/api/auth/logout", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, handler.MsgLogoutOK, body["message"])

	_, body = b.do(http.MethodGet, "/api/auth/me", nil)
	assert.Equal(t, false, body["authenticated"])

	code, body = b.do(http.MethodGet, "/api/admin/stats", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, handler.MsgAuthRequired, body["message"])
}

func TestRouter_PasswordReset(t *testing.T) {
	srv := newTestServer(t)
	b := srv.browser(t)

	code, _ := b.do(http.MethodPost, "/api/auth/signup", creds{"email": "a@x.com", "password": "password1"})
	require.Equal(t, http.StatusCreated, code)

	code, ghost := b.do(http.MethodPost, "/api/auth/forgot-password", creds{"email": "ghost@x.com"})
	require.Equal(t, http.StatusOK, code)
	code, known := b.do(http.MethodPost, "/api/auth/forgot-password", creds{"email": "a@x.com"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, ghost["message"], known["message"])
	assert.NotContains(t, ghost, "devLink")

	link, _ := known["devLink"].(string)
	require.NotEmpty(t, link)
	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "/reset-password.html", u.Path)
	secret := u.Query().Get("token")
	require.Len(t, secret, 64)

	code, body := b.do(http.MethodPost, "/api/auth/reset-password", creds{"token": secret, "newPassword": "short"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, handler.MsgResetWeakPassword, body["message"])

	code, body = b.do(http.MethodPost, "/api/auth/reset-password", creds{"token": secret, "newPassword": "password2"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, handler.MsgResetOK, body["message"])

	code, body = b.do(http.MethodPost, "/api/auth/reset-password", creds{"token": secret, "newPassword": "password3"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, handler.MsgInvalidResetToken, body["message"])

	code, _ = b.do(http.MethodPost, "/api/auth/login", creds{"email": "a@x.com", "password": "password1"})
	assert.Equal(t, http.StatusUnauthorized, code)
	code, _ = b.do(http.MethodPost, "/api/auth/login", creds{"email": "a@x.com", "password": "password2"})
	assert.Equal(t, http.StatusOK, code)
}

func TestRouter_Admin(t *testing.T) {
	srv := newTestServer(t)
	admin := srv.browser(t)
	ctx := context.Background()

	code, body := admin.do(http.MethodPost, "/api/auth/signup", creds{"email": "root@x.com", "password": "password1"})
	require.Equal(t, http.StatusCreated, code)
	adminID := body["user"].(map[string]any)["id"].(string)
	_, err := srv.store.UpdateRole(ctx, adminID, domain.RoleAdmin)
	require.NoError(t, err)

	code, body = admin.do(http.MethodPost, "/api/auth/signup", creds{"email": "b@x.com", "password": "password1"})
	require.Equal(t, http.StatusCreated, code)
	userID := body["user"].(map[string]any)["id"].(string)

	code, _ = admin.do(http.MethodPost, "/api/auth/login", creds{"email": "root@x.com", "password": "password1"})
	require.Equal(t, http.StatusOK, code)

	code, stats := admin.do(http.MethodGet, "/api/admin/stats", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(2), stats["total_users"])

	code, body = admin.do(http.MethodDelete, "/api/admin/users/"+adminID, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, handler.MsgSelfDelete, body["message"])

	code, body = admin.do(http.MethodPatch, "/api/admin/users/"+userID+"/role", creds{"role": "owner"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, handler.MsgInvalidRole, body["message"])

	code, body = admin.do(http.MethodPatch, "/api/admin/users/"+userID+"/role", creds{"role": "admin"})
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "User b@x.com role changed to admin", body["message"])

	code, body = admin.do(http.MethodDelete, "/api/admin/users/"+userID, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "User b@x.com deleted successfully", body["message"])

	code, body = admin.do(http.MethodDelete, "/api/admin/users/"+userID, nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, handler.MsgUserNotFound, body["message"])
}

func TestRouter_SiteAndOperations(t *testing.T) {
	srv := newTestServer(t)
	b := srv.browser(t)

	code, body := b.do(http.MethodPost, "/api/tracking", map[string]string{"trackingNumber": "MRS-1"})
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, handler.MsgShipmentNotFound, body["error"])

	code, body = b.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])

	code, body = b.do(http.MethodGet, "/health/ready", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])

	code, body = b.do(http.MethodGet, "/nowhere", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Not Found", body["message"])

	resp, err := http.Get(srv.url + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
