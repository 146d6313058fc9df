package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ledgerbook/debt-ledger/internal/core/balance"
	"github.com/ledgerbook/debt-ledger/internal/core/domain"
	"github.com/ledgerbook/debt-ledger/internal/core/ports"
	"github.com/ledgerbook/debt-ledger/internal/pkg/metrics"
)

const cascadeConcurrency = 8

// LedgerService implements owner-scoped CRUD over people and transactions.
// The store has no native ownership, so every id is resolved first and its
// owner compared against the caller.
type LedgerService struct {
	people       ports.PersonRepository
	transactions ports.TransactionRepository
	logger       zerolog.Logger
}

func NewLedgerService(people ports.PersonRepository, transactions ports.TransactionRepository, logger zerolog.Logger) *LedgerService {
	return &LedgerService{people: people, transactions: transactions, logger: logger}
}

// --- People ---

func (s *LedgerService) ListPeople(ctx context.Context, owner string) ([]domain.Person, error) {
	if owner == "" {
		return nil, domain.ErrUnauthenticated
	}
	return s.people.ListByOwner(ctx, owner)
}

func (s *LedgerService) GetPerson(ctx context.Context, owner, id string) (*domain.Person, error) {
	if owner == "" {
		return nil, domain.ErrUnauthenticated
	}
	return s.ownedPerson(ctx, owner, id)
}

func (s *LedgerService) CreatePerson(ctx context.Context, owner string, in domain.PersonInsert) (string, error) {
	if owner == "" {
		return "", domain.ErrUnauthenticated
	}
	if err := in.Validate(); err != nil {
		return "", err
	}

	id, err := s.people.Create(ctx, owner, in)
	if err != nil {
		s.logger.Error().Err(err).Str("owner", owner).Msg("failed to create person")
		return "", err
	}

	metrics.LedgerWritesTotal.WithLabelValues("person", "create").Inc()
	s.logger.Info().Str("owner", owner).Str("person_id", id).Msg("person created")
	return id, nil
}

func (s *LedgerService) UpdatePerson(ctx context.Context, owner, id string, in domain.PersonUpdate) error {
	if owner == "" {
		return domain.ErrUnauthenticated
	}
	if err := in.Validate(); err != nil {
		return err
	}
	if _, err := s.ownedPerson(ctx, owner, id); err != nil {
		return err
	}
	if in.IsEmpty() {
		return nil
	}

	if err := s.people.Update(ctx, id, in); err != nil {
		return fmt.Errorf("update person: %w", err)
	}

	metrics.LedgerWritesTotal.WithLabelValues("person", "update").Inc()
	s.logger.Info().Str("owner", owner).Str("person_id", id).Msg("person updated")
	return nil
}

// DeletePerson removes every transaction of the person before removing the
// person itself. The person is deleted only when all transaction deletions
// succeeded; on failure the person and the surviving transactions stay in place
// and the caller may retry.
func (s *LedgerService) DeletePerson(ctx context.Context, owner, id string) error {
	if owner == "" {
		return domain.ErrUnauthenticated
	}
	if _, err := s.ownedPerson(ctx, owner, id); err != nil {
		return err
	}

	// Phase 1: enumerate and delete children.
	txs, err := s.transactions.ListByPerson(ctx, owner, id)
	if err != nil {
		metrics.CascadeDeletesTotal.WithLabelValues("failed").Inc()
		return fmt.Errorf("delete person: list transactions: %w", err)
	}

	if err := s.deleteAll(ctx, txs); err != nil {
		metrics.CascadeDeletesTotal.WithLabelValues("failed").Inc()
		s.logger.Error().Err(err).
			Str("owner", owner).
			Str("person_id", id).
			Int("transactions", len(txs)).
			Msg("cascade aborted, person kept")
		return fmt.Errorf("delete person: %w", err)
	}

	// Phase 2: only now remove the parent.
	if err := s.people.Delete(ctx, id); err != nil {
		metrics.CascadeDeletesTotal.WithLabelValues("failed").Inc()
		return fmt.Errorf("delete person: %w", err)
	}

	metrics.CascadeDeletesTotal.WithLabelValues("completed").Inc()
	metrics.CascadeDeletedTransactions.Observe(float64(len(txs)))
	s.logger.Info().
		Str("owner", owner).
		Str("person_id", id).
		Int("transactions", len(txs)).
		Msg("person deleted")
	return nil
}

// deleteAll deletes txs concurrently and waits for every deletion to finish.
// A transaction that is already gone counts as deleted. All failures are
// reported together.
func (s *LedgerService) deleteAll(ctx context.Context, txs []domain.Transaction) error {
	var (
		mu       sync.Mutex
		failures []error
		g        errgroup.Group
	)
	g.SetLimit(cascadeConcurrency)

	for _, t := range txs {
		t := t
		g.Go(func() error {
			err := s.transactions.Delete(ctx, t.ID)
			if err == nil || errors.Is(err, domain.ErrNotFound) {
				return nil
			}
			mu.Lock()
			failures = append(failures, fmt.Errorf("transaction %s: %w", t.ID, err))
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	if len(failures) > 0 {
		return fmt.Errorf("%d of %d transaction deletions failed: %w", len(failures), len(txs), errors.Join(failures...))
	}
	return nil
}

// --- Transactions ---

func (s *LedgerService) ListTransactions(ctx context.Context, owner string) ([]domain.Transaction, error) {
	if owner == "" {
		return nil, domain.ErrUnauthenticated
	}
	return s.transactions.ListByOwner(ctx, owner)
}

func (s *LedgerService) ListTransactionsForPerson(ctx context.Context, owner, personID string) ([]domain.Transaction, error) {
	if owner == "" {
		return nil, domain.ErrUnauthenticated
	}
	return s.transactions.ListByPerson(ctx, owner, personID)
}

func (s *LedgerService) GetTransaction(ctx context.Context, owner, id string) (*domain.Transaction, error) {
	if owner == "" {
		return nil, domain.ErrUnauthenticated
	}
	return s.ownedTransaction(ctx, owner, id)
}

// CreateTransaction validates the input before any store call, then checks
// that the referenced person belongs to owner.
func (s *LedgerService) CreateTransaction(ctx context.Context, owner string, in domain.TransactionInsert) (string, error) {
	if owner == "" {
		return "", domain.ErrUnauthenticated
	}
	if err := in.Validate(); err != nil {
		return "", err
	}
	if _, err := s.ownedPerson(ctx, owner, in.PersonID); err != nil {
		return "", err
	}

	id, err := s.transactions.Create(ctx, owner, in)
	if err != nil {
		s.logger.Error().Err(err).Str("owner", owner).Str("person_id", in.PersonID).Msg("failed to create transaction")
		return "", err
	}

	metrics.LedgerWritesTotal.WithLabelValues("transaction", "create").Inc()
	s.logger.Info().
		Str("owner", owner).
		Str("person_id", in.PersonID).
		Str("transaction_id", id).
		Str("type", string(in.Type)).
		Msg("transaction created")
	return id, nil
}

// UpdateTransaction applies a partial update. A change of isSettled goes
// through the same rule as SettleTransaction; repeating the current state is
// dropped so the settlement date is kept.
func (s *LedgerService) UpdateTransaction(ctx context.Context, owner, id string, in domain.TransactionUpdate) error {
	if owner == "" {
		return domain.ErrUnauthenticated
	}
	if err := in.Validate(); err != nil {
		return err
	}
	current, err := s.ownedTransaction(ctx, owner, id)
	if err != nil {
		return err
	}

	if in.IsSettled != nil && *in.IsSettled == current.IsSettled {
		in.IsSettled = nil
	}
	if in.IsEmpty() {
		return nil
	}

	if err := s.transactions.Update(ctx, id, in); err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}

	metrics.LedgerWritesTotal.WithLabelValues("transaction", "update").Inc()
	s.logger.Info().Str("owner", owner).Str("transaction_id", id).Msg("transaction updated")
	return nil
}

// SettleTransaction sets isSettled and settlementDate together. Settling an
// already settled transaction is a no-op and keeps the original date; the same
// holds for unsettling an unsettled one.
func (s *LedgerService) SettleTransaction(ctx context.Context, owner, id string, settle bool) error {
	if owner == "" {
		return domain.ErrUnauthenticated
	}
	current, err := s.ownedTransaction(ctx, owner, id)
	if err != nil {
		return err
	}
	if current.IsSettled == settle {
		return nil
	}

	if err := s.transactions.SetSettled(ctx, id, settle); err != nil {
		return fmt.Errorf("settle transaction: %w", err)
	}

	op := "settle"
	if !settle {
		op = "unsettle"
	}
	metrics.LedgerWritesTotal.WithLabelValues("transaction", op).Inc()
	s.logger.Info().Str("owner", owner).Str("transaction_id", id).Bool("settled", settle).Msg("transaction settlement changed")
	return nil
}

func (s *LedgerService) DeleteTransaction(ctx context.Context, owner, id string) error {
	if owner == "" {
		return domain.ErrUnauthenticated
	}
	if _, err := s.ownedTransaction(ctx, owner, id); err != nil {
		return err
	}
	if err := s.transactions.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	metrics.LedgerWritesTotal.WithLabelValues("transaction", "delete").Inc()
	s.logger.Info().Str("owner", owner).Str("transaction_id", id).Msg("transaction deleted")
	return nil
}

// --- Balances ---

func (s *LedgerService) PersonBalance(ctx context.Context, owner, personID string) (*ports.PersonBalance, error) {
	if owner == "" {
		return nil, domain.ErrUnauthenticated
	}
	p, err := s.ownedPerson(ctx, owner, personID)
	if err != nil {
		return nil, err
	}
	txs, err := s.transactions.ListByPerson(ctx, owner, personID)
	if err != nil {
		return nil, err
	}
	return &ports.PersonBalance{Person: *p, Summary: balance.Summarize(txs)}, nil
}

// Dashboard fetches people and transactions concurrently and derives the
// whole-ledger figures. A failed fetch is logged and yields an empty, degraded
// view instead of an error.
func (s *LedgerService) Dashboard(ctx context.Context, owner string) *ports.Dashboard {
	empty := &ports.Dashboard{
		Aggregate: balance.Summarize(nil),
		People:    []ports.PersonBalance{},
		Degraded:  true,
	}
	if owner == "" {
		return empty
	}

	var (
		people []domain.Person
		txs    []domain.Transaction
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		people, err = s.people.ListByOwner(gctx, owner)
		return err
	})
	g.Go(func() (err error) {
		txs, err = s.transactions.ListByOwner(gctx, owner)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Warn().Err(err).Str("owner", owner).Msg("dashboard refresh failed, showing no data")
		return empty
	}

	byPerson := balance.ByPerson(txs)
	out := &ports.Dashboard{
		Aggregate: balance.Summarize(txs),
		People:    make([]ports.PersonBalance, 0, len(people)),
	}
	for _, p := range people {
		sum, ok := byPerson[p.ID]
		if !ok {
			sum = balance.Summarize(nil)
		}
		out.People = append(out.People, ports.PersonBalance{Person: p, Summary: sum})
	}
	return out
}

// --- Ownership ---

func (s *LedgerService) ownedPerson(ctx context.Context, owner, id string) (*domain.Person, error) {
	p, err := s.people.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.UserID != owner {
		s.logger.Warn().Str("owner", owner).Str("person_id", id).Msg("person owner mismatch")
		return nil, domain.ErrForbidden
	}
	return p, nil
}

func (s *LedgerService) ownedTransaction(ctx context.Context, owner, id string) (*domain.Transaction, error) {
	t, err := s.transactions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.UserID != owner {
		s.logger.Warn().Str("owner", owner).Str("transaction_id", id).Msg("transaction owner mismatch")
		return nil, domain.ErrForbidden
	}
	return t, nil
}
