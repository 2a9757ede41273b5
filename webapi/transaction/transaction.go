// Package transaction exposes the transaction engine and history over HTTP.
package transaction

import (
	"github.com/amirasaad/ledger/pkg/config"
	"github.com/amirasaad/ledger/pkg/domain/account"
	txsvc "github.com/amirasaad/ledger/pkg/service/transaction"
	"github.com/amirasaad/ledger/webapi/common"
	"github.com/amirasaad/ledger/webapi/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

// Routes registers the transaction endpoints. Both require a bearer token.
//
//   - POST /transactions                    : Execute a deposit, withdrawal or transfer.
//   - GET  /transactions/account/:accountId : List an owned account's history, newest first.
func Routes(app *fiber.App, engine *txsvc.Service, query *txsvc.QueryService, cfg *config.App) {
	protected := middleware.JwtProtected(cfg.Auth.Jwt)
	app.Post("/transactions", protected, CreateTransaction(engine))
	app.Get("/transactions/account/:accountId", protected, ListByAccount(query))
}

// CreateTransaction returns a handler that parses the request into its
// deposit, withdrawal or transfer form and runs it through the engine.
func CreateTransaction(engine *txsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := middleware.CurrentUserID(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		input, err := common.BindAndValidate[CreateTransactionRequest](c)
		if input == nil {
			return err // error response already written
		}
		req, err := account.ParseRequest(input.toInput())
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid transaction request", err)
		}
		tx, err := engine.Execute(c.UserContext(), userID, req)
		if err != nil {
			if common.ErrorToStatusCode(err) == fiber.StatusInternalServerError {
				log.Errorf("Failed to execute %s: %v", req.Kind(), err)
			}
			return common.ProblemDetailsJSON(c, "Transaction failed", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Transaction completed", ToTransactionDTO(tx))
	}
}

// ListByAccount returns a handler listing the transactions of one of the caller's accounts.
func ListByAccount(query *txsvc.QueryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := middleware.CurrentUserID(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		accountID, err := uuid.Parse(c.Params("accountId"))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid account ID", err, "Account ID must be a valid UUID", fiber.StatusBadRequest)
		}
		txs, err := query.FindAllByAccount(c.UserContext(), accountID, userID)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to list transactions", err)
		}
		dtos := make([]*TransactionDTO, 0, len(txs))
		for _, tx := range txs {
			dtos = append(dtos, ToTransactionDTO(tx))
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transactions fetched", dtos)
	}
}
