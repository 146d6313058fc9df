package balance

import (
	"testing"
	"time"

	"github.com/ledgerbook/debt-ledger/internal/core/domain"
)

func tx(typ domain.TransactionType, amount float64) domain.Transaction {
	return domain.Transaction{PersonID: "alice", Type: typ, Amount: amount, Date: "2024-01-01"}
}

func TestBalanceOf(t *testing.T) {
	cases := []struct {
		name string
		txs  []domain.Transaction
		want float64
	}{
		{"empty", nil, 0},
		{"lent only", []domain.Transaction{tx(domain.TypeLent, 50)}, 50},
		{"borrowed only", []domain.Transaction{tx(domain.TypeBorrowed, 20)}, -20},
		{"mixed", []domain.Transaction{tx(domain.TypeLent, 50), tx(domain.TypeBorrowed, 20)}, 30},
		{"nets to zero", []domain.Transaction{tx(domain.TypeLent, 12.5), tx(domain.TypeBorrowed, 12.5)}, 0},
		{"zero amount", []domain.Transaction{tx(domain.TypeLent, 0)}, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := BalanceOf(tc.txs); got != tc.want {
				t.Errorf("BalanceOf: want %v, got %v", tc.want, got)
			}
			if got := TotalLent(tc.txs) - TotalBorrowed(tc.txs); got != BalanceOf(tc.txs) {
				t.Errorf("BalanceOf must equal TotalLent - TotalBorrowed, got %v vs %v", BalanceOf(tc.txs), got)
			}
		})
	}
}

func TestEmptyInputYieldsZero(t *testing.T) {
	if BalanceOf(nil) != 0 || TotalLent(nil) != 0 || TotalBorrowed(nil) != 0 || AggregateBalance(nil) != 0 {
		t.Fatal("empty input must yield zero for every figure")
	}
}

func TestBalanceOf_OrderIndependent(t *testing.T) {
	// Values chosen so that naive left-to-right float addition differs by order.
	txs := []domain.Transaction{
		tx(domain.TypeLent, 0.1),
		tx(domain.TypeLent, 0.2),
		tx(domain.TypeLent, 0.3),
		tx(domain.TypeBorrowed, 1e16),
		tx(domain.TypeLent, 1e16),
		tx(domain.TypeBorrowed, 0.7),
	}
	want := BalanceOf(txs)

	reversed := make([]domain.Transaction, len(txs))
	for i, x := range txs {
		reversed[len(txs)-1-i] = x
	}
	rotated := append(append([]domain.Transaction{}, txs[3:]...), txs[:3]...)

	for _, perm := range [][]domain.Transaction{reversed, rotated} {
		if got := BalanceOf(perm); got != want {
			t.Errorf("reordering changed balance: want %v, got %v", want, got)
		}
		if TotalLent(perm) != TotalLent(txs) || TotalBorrowed(perm) != TotalBorrowed(txs) {
			t.Error("reordering changed totals")
		}
	}
}

func TestSettlementDoesNotAffectBalance(t *testing.T) {
	now := time.Now().UTC()
	unsettled := []domain.Transaction{tx(domain.TypeLent, 40), tx(domain.TypeBorrowed, 15)}
	settled := []domain.Transaction{tx(domain.TypeLent, 40), tx(domain.TypeBorrowed, 15)}
	for i := range settled {
		settled[i].IsSettled = true
		settled[i].SettlementDate = &now
	}

	if BalanceOf(settled) != BalanceOf(unsettled) {
		t.Errorf("settled balance %v differs from unsettled %v", BalanceOf(settled), BalanceOf(unsettled))
	}
	if TotalLent(settled) != 40 || TotalBorrowed(settled) != 15 {
		t.Errorf("settled transactions must still count: lent=%v borrowed=%v", TotalLent(settled), TotalBorrowed(settled))
	}
}

func TestScenario_AliceOwesThirty(t *testing.T) {
	txs := []domain.Transaction{
		{PersonID: "alice", Type: domain.TypeLent, Amount: 50.00, Date: "2024-01-01"},
		{PersonID: "alice", Type: domain.TypeBorrowed, Amount: 20.00, Date: "2024-01-05"},
	}

	s := Summarize(txs)
	if s.Balance != 30 {
		t.Errorf("balance: want 30, got %v", s.Balance)
	}
	if s.TotalLent != 50 || s.TotalBorrowed != 20 {
		t.Errorf("totals: want 50/20, got %v/%v", s.TotalLent, s.TotalBorrowed)
	}
	if s.Direction != OwesYou {
		t.Errorf("direction: want %q, got %q", OwesYou, s.Direction)
	}
	if s.Count != 2 {
		t.Errorf("count: want 2, got %d", s.Count)
	}
}

func TestDirectionOf(t *testing.T) {
	if DirectionOf(1) != OwesYou || DirectionOf(-1) != YouOwe || DirectionOf(0) != SettledUp {
		t.Fatal("unexpected direction labels")
	}
}

func TestByPerson(t *testing.T) {
	txs := []domain.Transaction{
		{PersonID: "alice", Type: domain.TypeLent, Amount: 50},
		{PersonID: "bob", Type: domain.TypeBorrowed, Amount: 10},
		{PersonID: "alice", Type: domain.TypeBorrowed, Amount: 20},
	}

	got := ByPerson(txs)
	if len(got) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(got))
	}
	if got["alice"].Balance != 30 {
		t.Errorf("alice: want 30, got %v", got["alice"].Balance)
	}
	if got["bob"].Balance != -10 || got["bob"].Direction != YouOwe {
		t.Errorf("bob: unexpected summary %+v", got["bob"])
	}
	if AggregateBalance(txs) != 20 {
		t.Errorf("aggregate: want 20, got %v", AggregateBalance(txs))
	}
}
