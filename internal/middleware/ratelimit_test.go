package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"studyhall/internal/models"
	"studyhall/internal/ratelimit"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func governedApp(g *ratelimit.Governor, handler fiber.Handler) *fiber.App {
	app := fiber.New()
	app.Post("/op", func(c *fiber.Ctx) error {
		// Simulated identity injection; real routes run AuthRequired first.
		if uid := c.Get("X-Test-User"); uid != "" {
			c.Locals("userID", uint(7))
		}
		if role := c.Get("X-Test-Role"); role != "" {
			c.Locals("userRole", models.Role(role))
		}
		return c.Next()
	}, Govern(g, ratelimit.ClassVote), handler)
	return app
}

func okHandler(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusCreated)
}

func failHandler(c *fiber.Ctx) error {
	return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("bad input"))
}

func TestGovernDeniesAtCap(t *testing.T) {
	g := ratelimit.NewGovernor(map[ratelimit.Class]ratelimit.Limit{
		ratelimit.ClassVote: {Cap: 2, Window: time.Minute},
	})
	app := governedApp(g, okHandler)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/op", nil)
		req.Header.Set("X-Test-User", "7")
		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	req := httptest.NewRequest(http.MethodPost, "/op", nil)
	req.Header.Set("X-Test-User", "7")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderRetryAfter))

	var body models.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, models.CodeRateLimited, body.Code)
	assert.Greater(t, body.RetryAfterSeconds, 0)
}

func TestGovernFailedRequestsKeepBudget(t *testing.T) {
	g := ratelimit.NewGovernor(map[ratelimit.Class]ratelimit.Limit{
		ratelimit.ClassVote: {Cap: 1, Window: time.Minute},
	})
	app := governedApp(g, failHandler)

	// Repeated failures must never exhaust the budget.
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodPost, "/op", nil)
		req.Header.Set("X-Test-User", "7")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "request %d", i+1)
	}
}

func TestGovernServiceRoleExempt(t *testing.T) {
	g := ratelimit.NewGovernor(map[ratelimit.Class]ratelimit.Limit{
		ratelimit.ClassVote: {Cap: 1, Window: time.Minute},
	})
	app := governedApp(g, okHandler)

	for i := 0; i < 10; i++ {
		req := httptest.NewRequest(http.MethodPost, "/op", nil)
		req.Header.Set("X-Test-User", "7")
		req.Header.Set("X-Test-Role", string(models.RoleService))
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, resp.StatusCode, "service identities are never throttled")
	}
}

func TestGovernAnonymousKeyedByIP(t *testing.T) {
	g := ratelimit.NewGovernor(map[ratelimit.Class]ratelimit.Limit{
		ratelimit.ClassVote: {Cap: 1, Window: time.Minute},
	})
	app := governedApp(g, okHandler)

	req := httptest.NewRequest(http.MethodPost, "/op", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Same source address: over budget.
	req = httptest.NewRequest(http.MethodPost, "/op", nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}
