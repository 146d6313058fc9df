package ports

import (
	"context"

	"github.com/ledgerbook/debt-ledger/internal/core/balance"
	"github.com/ledgerbook/debt-ledger/internal/core/domain"
)

// PersonBalance pairs a person with the figures of their transactions.
type PersonBalance struct {
	Person  domain.Person   `json:"person"`
	Summary balance.Summary `json:"summary"`
}

// Dashboard is the whole-ledger view: aggregate figures plus one entry per person.
// Degraded is set when the underlying fetch failed and the view is empty.
type Dashboard struct {
	Aggregate balance.Summary `json:"aggregate"`
	People    []PersonBalance `json:"people"`
	Degraded  bool            `json:"degraded"`
}

// LedgerService defines owner-scoped operations over people and transactions.
// Every call takes the owner explicitly; an empty owner yields ErrUnauthenticated.
type LedgerService interface {
	ListPeople(ctx context.Context, owner string) ([]domain.Person, error)
	GetPerson(ctx context.Context, owner, id string) (*domain.Person, error)
	CreatePerson(ctx context.Context, owner string, in domain.PersonInsert) (string, error)
	UpdatePerson(ctx context.Context, owner, id string, in domain.PersonUpdate) error
	DeletePerson(ctx context.Context, owner, id string) error

	ListTransactions(ctx context.Context, owner string) ([]domain.Transaction, error)
	ListTransactionsForPerson(ctx context.Context, owner, personID string) ([]domain.Transaction, error)
	GetTransaction(ctx context.Context, owner, id string) (*domain.Transaction, error)
	CreateTransaction(ctx context.Context, owner string, in domain.TransactionInsert) (string, error)
	UpdateTransaction(ctx context.Context, owner, id string, in domain.TransactionUpdate) error
	SettleTransaction(ctx context.Context, owner, id string, settle bool) error
	DeleteTransaction(ctx context.Context, owner, id string) error

	PersonBalance(ctx context.Context, owner, personID string) (*PersonBalance, error)
	Dashboard(ctx context.Context, owner string) *Dashboard
}
