package ports

import (
	"context"

	"github.com/ledgerbook/debt-ledger/internal/core/domain"
)

// TransactionRepository persists transactions.
type TransactionRepository interface {
	Create(ctx context.Context, owner string, in domain.TransactionInsert) (string, error)
	FindByID(ctx context.Context, id string) (*domain.Transaction, error)
	// ListByOwner returns the owner's transactions ordered by date descending.
	ListByOwner(ctx context.Context, owner string) ([]domain.Transaction, error)
	// ListByPerson returns the owner's transactions for one person, date descending.
	ListByPerson(ctx context.Context, owner, personID string) ([]domain.Transaction, error)
	Update(ctx context.Context, id string, in domain.TransactionUpdate) error
	// SetSettled sets is_settled and stamps or clears settlement_date in one write.
	SetSettled(ctx context.Context, id string, settled bool) error
	Delete(ctx context.Context, id string) error
}
