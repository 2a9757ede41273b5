// Package middleware holds the fiber middleware shared by the HTTP routes.
package middleware

import (
	"errors"

	"github.com/amirasaad/ledger/pkg/config"
	"github.com/amirasaad/ledger/pkg/domain"
	"github.com/amirasaad/ledger/webapi/common"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// UserIDClaim is the token claim holding the caller's user id.
const UserIDClaim = "user_id"

// tokenKey is where the validated token is stored in fiber locals.
const tokenKey = "user"

// JwtProtected rejects requests without a valid HS256 bearer token.
func JwtProtected(cfg *config.Jwt) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:   jwtware.SigningKey{Key: []byte(cfg.Secret)},
		ContextKey:   tokenKey,
		ErrorHandler: jwtError,
	})
}

func jwtError(c *fiber.Ctx, err error) error {
	if errors.Is(err, jwtware.ErrJWTMissingOrMalformed) {
		return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Missing or malformed JWT", err.Error())
	}
	return common.ErrorResponseJSON(c, fiber.StatusUnauthorized, "Invalid or expired JWT", err.Error())
}

// CurrentUserID returns the caller identified by the token JwtProtected validated.
func CurrentUserID(c *fiber.Ctx) (uuid.UUID, error) {
	token, ok := c.Locals(tokenKey).(*jwt.Token)
	if !ok {
		return uuid.Nil, domain.ErrUnauthorized
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, domain.ErrUnauthorized
	}
	raw, ok := claims[UserIDClaim].(string)
	if !ok {
		return uuid.Nil, domain.ErrUnauthorized
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errors.Join(domain.ErrUnauthorized, err)
	}
	return userID, nil
}
