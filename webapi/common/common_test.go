package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/amirasaad/ledger/pkg/domain"
	"github.com/amirasaad/ledger/pkg/domain/account"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorToStatusCode(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{account.ErrAccountNotFound, fiber.StatusNotFound},
		{account.ErrNotOwner, fiber.StatusForbidden},
		{account.ErrAccountNotActive, fiber.StatusBadRequest},
		{account.ErrCannotTransferToSameAccount, fiber.StatusBadRequest},
		{fmt.Errorf("parse: %w", domain.ErrValidation), fiber.StatusBadRequest},
		{account.ErrInsufficientFunds, fiber.StatusUnprocessableEntity},
		{&domain.LimitExceededError{}, fiber.StatusUnprocessableEntity},
		{domain.ErrTransient, fiber.StatusServiceUnavailable},
		{domain.ErrUnauthorized, fiber.StatusUnauthorized},
		{domain.ErrAlreadyExists, fiber.StatusConflict},
		{errors.New("boom"), fiber.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ErrorToStatusCode(tc.err), tc.err.Error())
	}
}

func problem(t *testing.T, err error, args ...any) (int, ProblemDetails, string) {
	t.Helper()
	app := fiber.New()
	app.Get("/x", func(c *fiber.Ctx) error {
		return ProblemDetailsJSON(c, "Failed", err, args...)
	})
	resp, testErr := app.Test(httptest.NewRequest(fiber.MethodGet, "/x", nil))
	require.NoError(t, testErr)
	defer resp.Body.Close() //nolint:errcheck
	raw, readErr := io.ReadAll(resp.Body)
	require.NoError(t, readErr)
	var pd ProblemDetails
	require.NoError(t, json.Unmarshal(raw, &pd))
	return resp.StatusCode, pd, resp.Header.Get(fiber.HeaderContentType)
}

func TestProblemDetailsCarriesLimitDetails(t *testing.T) {
	err := fmt.Errorf("withdraw: %w", &domain.LimitExceededError{
		Window:       "DAILY_WITHDRAWAL",
		Reason:       "Daily withdrawal limit exceeded",
		CurrentUsage: decimal.RequireFromString("80"),
		Limit:        decimal.RequireFromString("100"),
		Requested:    decimal.RequireFromString("25.5"),
	})
	status, pd, contentType := problem(t, err)

	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Equal(t, "application/problem+json", contentType)
	assert.Equal(t, "/x", pd.Instance)
	details, ok := pd.Errors.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "DAILY_WITHDRAWAL", details["window"])
	assert.Equal(t, "80.00", details["currentUsage"])
	assert.Equal(t, "100.00", details["limit"])
	assert.Equal(t, "25.50", details["requested"])
}

func TestProblemDetailsOverrides(t *testing.T) {
	status, pd, _ := problem(t, errors.New("bad uuid"), "Account ID must be a valid UUID", fiber.StatusBadRequest)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Account ID must be a valid UUID", pd.Detail)
}

func TestProblemDetailsHidesInternalErrors(t *testing.T) {
	status, pd, _ := problem(t, errors.New("pq: connection refused at 10.0.0.3"))
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, "internal error", pd.Detail)
}

type sample struct {
	Name string `json:"name" validate:"required"`
}

func TestBindAndValidate(t *testing.T) {
	app := fiber.New()
	app.Post("/x", func(c *fiber.Ctx) error {
		in, err := BindAndValidate[sample](c)
		if in == nil {
			return err
		}
		return c.SendString(in.Name)
	})
	send := func(body string) int {
		req := httptest.NewRequest(fiber.MethodPost, "/x", strings.NewReader(body))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		resp, err := app.Test(req)
		require.NoError(t, err)
		resp.Body.Close() //nolint:errcheck
		return resp.StatusCode
	}
	assert.Equal(t, fiber.StatusOK, send(`{"name":"ok"}`))
	assert.Equal(t, fiber.StatusBadRequest, send(`{}`))
	assert.Equal(t, fiber.StatusBadRequest, send(`{"name":`))
}
