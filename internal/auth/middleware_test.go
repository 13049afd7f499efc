package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/marketplace-service/internal/domain"
	apperrors "github.com/spec-kit/marketplace-service/pkg/util"
)

type countingVerifier struct {
	inner TokenVerifier
	calls int
}

func (v *countingVerifier) Verify(token string) (*domain.Principal, error) {
	v.calls++
	return v.inner.Verify(token)
}

func newGateApp(verifier TokenVerifier, extra ...fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).JSON(fiber.Map{"error": fiber.Map{"code": de.Code}})
		},
	})
	mw := NewAuthMiddleware(verifier)
	handlers := append([]fiber.Handler{mw.Handle}, extra...)
	handlers = append(handlers, func(c *fiber.Ctx) error {
		p, ok := PrincipalFromContext(c)
		if !ok {
			return c.SendStatus(http.StatusTeapot)
		}
		fromCtx, ok := PrincipalFrom(c.UserContext())
		if !ok || fromCtx.AccountID != p.AccountID {
			return c.SendStatus(http.StatusTeapot)
		}
		return c.JSON(p)
	})
	app.Get("/buyers/:id", handlers...)
	return app
}

func doGet(t *testing.T, app *fiber.App, path, authorization string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestAuthMiddleware_RejectsBeforeVerifying(t *testing.T) {
	tm := NewTokenManager("secret", time.Minute)
	token, _, err := tm.Issue(alice)
	require.NoError(t, err)

	cases := map[string]string{
		"missing":          "",
		"basic scheme":     "Basic " + token,
		"lower-case":       "bearer " + token,
		"no token":         "Bearer ",
		"no space":         "Bearer" + token,
		"extra whitespace": "Bearer  " + token,
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			spy := &countingVerifier{inner: tm}
			resp := doGet(t, newGateApp(spy), "/buyers/"+alice.AccountID, header)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			assert.Zero(t, spy.calls)
		})
	}
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	spy := &countingVerifier{inner: NewTokenManager("secret", time.Minute)}
	forged, _, err := NewTokenManager("other", time.Minute).Issue(alice)
	require.NoError(t, err)

	resp := doGet(t, newGateApp(spy), "/buyers/"+alice.AccountID, "Bearer "+forged)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, 1, spy.calls)
}

func TestAuthMiddleware_InjectsPrincipal(t *testing.T) {
	tm := NewTokenManager("secret", time.Minute)
	token, _, err := tm.Issue(alice)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/buyers/"+alice.AccountID, nil)
	req.Header.Set("authorization", "Bearer "+token)
	resp, err := newGateApp(tm).Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequireOwner(t *testing.T) {
	tm := NewTokenManager("secret", time.Minute)
	token, _, err := tm.Issue(alice)
	require.NoError(t, err)

	app := newGateApp(tm, RequireOwner(domain.RoleBuyer))

	resp := doGet(t, app, "/buyers/"+alice.AccountID, "Bearer "+token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doGet(t, app, "/buyers/someone-else", "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	sellerApp := newGateApp(tm, RequireOwner(domain.RoleSeller))
	resp = doGet(t, sellerApp, "/buyers/"+alice.AccountID, "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRequireOwner_IgnoresIDCase(t *testing.T) {
	tm := NewTokenManager("secret", time.Minute)
	token, _, err := tm.Issue(alice)
	require.NoError(t, err)

	app := newGateApp(tm, RequireOwner(domain.RoleBuyer))

	resp := doGet(t, app, "/buyers/"+strings.ToUpper(alice.AccountID), "Bearer "+token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doGet(t, app, "/buyers/"+strings.ToUpper("1b6f7c1e-3f44-4c1d-9f5e-0d3b7c2a9e11"), "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
