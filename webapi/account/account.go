// Package account exposes account opening and owner-scoped lookups over HTTP.
package account

import (
	"strings"

	"github.com/amirasaad/ledger/pkg/config"
	"github.com/amirasaad/ledger/pkg/domain/account"
	accountsvc "github.com/amirasaad/ledger/pkg/service/account"
	"github.com/amirasaad/ledger/webapi/common"
	"github.com/amirasaad/ledger/webapi/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

// Routes registers the account endpoints. All of them require a bearer token.
//
//   - POST /accounts     : Open an account for the caller.
//   - GET  /accounts     : List the caller's accounts.
//   - GET  /accounts/:id : Fetch one of the caller's accounts.
func Routes(app *fiber.App, accountSvc *accountsvc.Service, cfg *config.App) {
	protected := middleware.JwtProtected(cfg.Auth.Jwt)
	app.Post("/accounts", protected, CreateAccount(accountSvc))
	app.Get("/accounts", protected, ListAccounts(accountSvc))
	app.Get("/accounts/:id", protected, GetAccount(accountSvc))
}

// CreateAccount returns a handler that opens an account for the current user.
// The type defaults to CHECKING.
func CreateAccount(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := middleware.CurrentUserID(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		input, err := common.BindAndValidate[CreateAccountRequest](c)
		if input == nil {
			return err // error response already written
		}
		accountType := account.TypeChecking
		if input.Type != "" {
			accountType = account.Type(strings.ToUpper(input.Type))
		}
		a, err := accountSvc.Create(c.UserContext(), userID, accountsvc.CreateInput{
			Type:           accountType,
			InitialDeposit: input.InitialDeposit,
			OverdraftLimit: input.OverdraftLimit,
		})
		if err != nil {
			log.Errorf("Failed to create account: %v", err)
			return common.ProblemDetailsJSON(c, "Failed to create account", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Account created", ToAccountDTO(a))
	}
}

// ListAccounts returns a handler listing the current user's accounts.
func ListAccounts(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := middleware.CurrentUserID(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		list, err := accountSvc.ListByUser(c.UserContext(), userID)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to list accounts", err)
		}
		dtos := make([]*AccountDTO, 0, len(list))
		for _, a := range list {
			dtos = append(dtos, ToAccountDTO(a))
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Accounts fetched", dtos)
	}
}

// GetAccount returns a handler fetching one account owned by the current user.
func GetAccount(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := middleware.CurrentUserID(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid account ID", err, "Account ID must be a valid UUID", fiber.StatusBadRequest)
		}
		a, err := accountSvc.Get(c.UserContext(), id, userID)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to fetch account", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Account fetched", ToAccountDTO(a))
	}
}
