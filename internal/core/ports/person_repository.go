package ports

import (
	"context"

	"github.com/ledgerbook/debt-ledger/internal/core/domain"
)

// PersonRepository persists people. Implementations stamp created/updated
// timestamps with store time and never trust caller-supplied values.
type PersonRepository interface {
	Create(ctx context.Context, owner string, in domain.PersonInsert) (string, error)
	// FindByID returns the person regardless of owner; ownership is checked by the caller.
	FindByID(ctx context.Context, id string) (*domain.Person, error)
	// ListByOwner returns the owner's people ordered by name ascending.
	ListByOwner(ctx context.Context, owner string) ([]domain.Person, error)
	Update(ctx context.Context, id string, in domain.PersonUpdate) error
	Delete(ctx context.Context, id string) error
}
