package account

import (
	"fmt"
	"strings"

	"github.com/amirasaad/ledger/pkg/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	// ErrMissingSourceAccount is returned when a withdrawal or transfer names no source.
	ErrMissingSourceAccount = fmt.Errorf("%w: source account is required", domain.ErrInvalidOperation)
	// ErrMissingDestinationAccount is returned when a deposit names no destination.
	ErrMissingDestinationAccount = fmt.Errorf("%w: destination account is required", domain.ErrInvalidOperation)
	// ErrMissingDestinationNumber is returned when a transfer names no destination account number.
	ErrMissingDestinationNumber = fmt.Errorf("%w: destination account number is required", domain.ErrInvalidOperation)
)

// Request is a validated transaction request. The set of implementations is
// closed: DepositRequest, WithdrawalRequest and TransferRequest.
type Request interface {
	Kind() TransactionType
	Value() decimal.Decimal
	isRequest()
}

// DepositRequest credits money into one of the caller's accounts.
type DepositRequest struct {
	DestinationAccountID uuid.UUID
	Amount               decimal.Decimal
	Description          *string
}

// WithdrawalRequest debits money from one of the caller's accounts.
type WithdrawalRequest struct {
	SourceAccountID uuid.UUID
	Amount          decimal.Decimal
	Description     *string
}

// TransferRequest moves money from one of the caller's accounts to any
// account identified by its public number.
type TransferRequest struct {
	SourceAccountID          uuid.UUID
	DestinationAccountNumber string
	Amount                   decimal.Decimal
	Description              *string
}

func (DepositRequest) Kind() TransactionType    { return TransactionTypeDeposit }
func (WithdrawalRequest) Kind() TransactionType { return TransactionTypeWithdrawal }
func (TransferRequest) Kind() TransactionType   { return TransactionTypeTransfer }

func (r DepositRequest) Value() decimal.Decimal    { return r.Amount }
func (r WithdrawalRequest) Value() decimal.Decimal { return r.Amount }
func (r TransferRequest) Value() decimal.Decimal   { return r.Amount }

func (DepositRequest) isRequest()    {}
func (WithdrawalRequest) isRequest() {}
func (TransferRequest) isRequest()   {}

// RequestInput is the flat shape transaction requests arrive in.
type RequestInput struct {
	Type                     TransactionType
	Amount                   decimal.Decimal
	Description              *string
	SourceAccountID          *uuid.UUID
	DestinationAccountID     *uuid.UUID
	DestinationAccountNumber string
}

// ParseRequest turns the flat input into the matching Request variant.
// References the variant does not use are ignored.
func ParseRequest(in RequestInput) (Request, error) {
	switch in.Type {
	case TransactionTypeDeposit:
		if in.DestinationAccountID == nil || *in.DestinationAccountID == uuid.Nil {
			return nil, ErrMissingDestinationAccount
		}
		return DepositRequest{
			DestinationAccountID: *in.DestinationAccountID,
			Amount:               in.Amount,
			Description:          in.Description,
		}, nil
	case TransactionTypeWithdrawal:
		if in.SourceAccountID == nil || *in.SourceAccountID == uuid.Nil {
			return nil, ErrMissingSourceAccount
		}
		return WithdrawalRequest{
			SourceAccountID: *in.SourceAccountID,
			Amount:          in.Amount,
			Description:     in.Description,
		}, nil
	case TransactionTypeTransfer:
		if in.SourceAccountID == nil || *in.SourceAccountID == uuid.Nil {
			return nil, ErrMissingSourceAccount
		}
		number := strings.TrimSpace(in.DestinationAccountNumber)
		if number == "" {
			return nil, ErrMissingDestinationNumber
		}
		return TransferRequest{
			SourceAccountID:          *in.SourceAccountID,
			DestinationAccountNumber: number,
			Amount:                   in.Amount,
			Description:              in.Description,
		}, nil
	default:
		return nil, ErrUnknownTransactionType
	}
}
