package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/ledgerbook/debt-ledger/internal/core/domain"
	"github.com/ledgerbook/debt-ledger/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories shared by the ledger and session tests.
// ---------------------------------------------------------------------------

type ledgerStore struct {
	mu     sync.Mutex
	seq    int
	clock  time.Time
	people map[string]domain.Person
	txs    map[string]domain.Transaction

	// deletes records every successful delete in order, as "person:<id>" or "tx:<id>".
	deletes []string
	writes  int

	listErr       error
	txDeleteErr   map[string]error
	personDelErr  error
	findPersonErr error
}

func newLedgerStore() *ledgerStore {
	return &ledgerStore{
		clock:       time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		people:      make(map[string]domain.Person),
		txs:         make(map[string]domain.Transaction),
		txDeleteErr: make(map[string]error),
	}
}

func (s *ledgerStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *ledgerStore) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s%d", prefix, s.seq)
}

type stubPersonRepo struct{ s *ledgerStore }

type stubTransactionRepo struct{ s *ledgerStore }

func newStubRepos() (*ledgerStore, ports.PersonRepository, ports.TransactionRepository) {
	st := newLedgerStore()
	return st, &stubPersonRepo{st}, &stubTransactionRepo{st}
}

func (r *stubPersonRepo) Create(_ context.Context, owner string, in domain.PersonInsert) (string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := r.s.tick()
	id := r.s.nextID("p")
	r.s.people[id] = domain.Person{
		ID: id, UserID: owner, Name: in.Name, Email: in.Email, Phone: in.Phone, Notes: in.Notes,
		CreatedAt: now, UpdatedAt: now,
	}
	r.s.writes++
	return id, nil
}

func (r *stubPersonRepo) FindByID(_ context.Context, id string) (*domain.Person, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.findPersonErr != nil {
		return nil, r.s.findPersonErr
	}
	p, ok := r.s.people[id]
	if !ok {
		return nil, domain.ErrPersonNotFound
	}
	return &p, nil
}

func (r *stubPersonRepo) ListByOwner(_ context.Context, owner string) ([]domain.Person, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.listErr != nil {
		return nil, r.s.listErr
	}
	out := []domain.Person{}
	for _, p := range r.s.people {
		if p.UserID == owner {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *stubPersonRepo) Update(_ context.Context, id string, in domain.PersonUpdate) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.people[id]
	if !ok {
		return domain.ErrPersonNotFound
	}
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Email != nil {
		p.Email = in.Email
	}
	if in.Phone != nil {
		p.Phone = in.Phone
	}
	if in.Notes != nil {
		p.Notes = in.Notes
	}
	p.UpdatedAt = r.s.tick()
	r.s.people[id] = p
	r.s.writes++
	return nil
}

func (r *stubPersonRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.personDelErr != nil {
		return r.s.personDelErr
	}
	if _, ok := r.s.people[id]; !ok {
		return domain.ErrPersonNotFound
	}
	delete(r.s.people, id)
	r.s.deletes = append(r.s.deletes, "person:"+id)
	r.s.writes++
	return nil
}

func (r *stubTransactionRepo) Create(_ context.Context, owner string, in domain.TransactionInsert) (string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := r.s.tick()
	id := r.s.nextID("t")
	t := domain.Transaction{
		ID: id, UserID: owner, PersonID: in.PersonID, Type: in.Type, Amount: in.Amount,
		Description: in.Description, Date: in.Date, IsSettled: in.IsSettled,
		CreatedAt: now, UpdatedAt: now,
	}
	if in.IsSettled {
		t.SettlementDate = &now
	}
	r.s.txs[id] = t
	r.s.writes++
	return id, nil
}

func (r *stubTransactionRepo) FindByID(_ context.Context, id string) (*domain.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.txs[id]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}
	return &t, nil
}

func (r *stubTransactionRepo) list(owner, personID string) ([]domain.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.listErr != nil {
		return nil, r.s.listErr
	}
	out := []domain.Transaction{}
	for _, t := range r.s.txs {
		if t.UserID != owner || (personID != "" && t.PersonID != personID) {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out, nil
}

func (r *stubTransactionRepo) ListByOwner(_ context.Context, owner string) ([]domain.Transaction, error) {
	return r.list(owner, "")
}

func (r *stubTransactionRepo) ListByPerson(_ context.Context, owner, personID string) ([]domain.Transaction, error) {
	return r.list(owner, personID)
}

func (r *stubTransactionRepo) Update(_ context.Context, id string, in domain.TransactionUpdate) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.txs[id]
	if !ok {
		return domain.ErrTransactionNotFound
	}
	now := r.s.tick()
	if in.Type != nil {
		t.Type = *in.Type
	}
	if in.Amount != nil {
		t.Amount = *in.Amount
	}
	if in.Description != nil {
		t.Description = *in.Description
	}
	if in.Date != nil {
		t.Date = *in.Date
	}
	if in.IsSettled != nil {
		t.IsSettled = *in.IsSettled
		t.SettlementDate = nil
		if t.IsSettled {
			t.SettlementDate = &now
		}
	}
	t.UpdatedAt = now
	r.s.txs[id] = t
	r.s.writes++
	return nil
}

func (r *stubTransactionRepo) SetSettled(_ context.Context, id string, settled bool) error {
	settledPtr := settled
	return r.Update(context.Background(), id, domain.TransactionUpdate{IsSettled: &settledPtr})
}

func (r *stubTransactionRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.txDeleteErr[id]; err != nil {
		return err
	}
	if _, ok := r.s.txs[id]; !ok {
		return domain.ErrTransactionNotFound
	}
	delete(r.s.txs, id)
	r.s.deletes = append(r.s.deletes, "tx:"+id)
	r.s.writes++
	return nil
}
