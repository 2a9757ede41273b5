package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/amirasaad/ledger/pkg/config"
	"github.com/amirasaad/ledger/pkg/domain"
	"github.com/amirasaad/ledger/webapi/testutils"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func protectedApp() *fiber.App {
	app := fiber.New()
	app.Use(JwtProtected(&config.Jwt{Secret: testutils.TestSecret}))
	app.Get("/", func(c *fiber.Ctx) error {
		userID, err := CurrentUserID(c)
		if err != nil {
			return c.SendStatus(fiber.StatusUnauthorized)
		}
		return c.SendString(userID.String())
	})
	return app
}

func TestJwtProtectedAcceptsValidToken(t *testing.T) {
	userID := uuid.New()
	resp := testutils.MakeRequestWithApp(protectedApp(), http.MethodGet, "/", "", testutils.NewToken(testutils.TestSecret, userID))
	defer resp.Body.Close() //nolint:errcheck
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestJwtProtectedMissingToken(t *testing.T) {
	resp := testutils.MakeRequestWithApp(protectedApp(), http.MethodGet, "/", "", "")
	defer resp.Body.Close() //nolint:errcheck
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestJwtProtectedWrongSecret(t *testing.T) {
	resp := testutils.MakeRequestWithApp(protectedApp(), http.MethodGet, "/", "", testutils.NewToken("other", uuid.New()))
	defer resp.Body.Close() //nolint:errcheck
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestJwtError(t *testing.T) {
	cases := map[error]int{
		jwtware.ErrJWTMissingOrMalformed: fiber.StatusBadRequest,
		errors.New("token is expired"):   fiber.StatusUnauthorized,
	}
	for err, want := range cases {
		app := fiber.New()
		app.Use(func(c *fiber.Ctx) error { return jwtError(c, err) })
		resp, testErr := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, testErr)
		resp.Body.Close() //nolint:errcheck
		assert.Equal(t, want, resp.StatusCode, err.Error())
	}
}

func TestCurrentUserIDRejectsBadClaims(t *testing.T) {
	cases := map[string]any{
		"no token":     nil,
		"no claim":     &jwt.Token{Claims: jwt.MapClaims{}},
		"not a uuid":   &jwt.Token{Claims: jwt.MapClaims{UserIDClaim: "alice"}},
		"wrong claims": &jwt.Token{Claims: &jwt.RegisteredClaims{}},
	}
	for name, local := range cases {
		app := fiber.New()
		var got error
		app.Get("/", func(c *fiber.Ctx) error {
			if local != nil {
				c.Locals(tokenKey, local)
			}
			_, got = CurrentUserID(c)
			return nil
		})
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, err)
		resp.Body.Close() //nolint:errcheck
		assert.ErrorIs(t, got, domain.ErrUnauthorized, name)
	}
}
