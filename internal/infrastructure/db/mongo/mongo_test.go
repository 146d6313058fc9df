package mongo

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ledgerbook/debt-ledger/internal/core/domain"
)

func TestObjectID_MalformedIsNotFound(t *testing.T) {
	if _, err := objectID("nope", domain.ErrPersonNotFound); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	oid := primitive.NewObjectID()
	got, err := objectID(oid.Hex(), domain.ErrPersonNotFound)
	if err != nil || got != oid {
		t.Fatalf("expected %v, got %v (%v)", oid, got, err)
	}
}

func TestStoreErr_MatchesStoreUnavailable(t *testing.T) {
	err := storeErr("find person", errors.New("connection refused"))
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}

func TestPeopleFindOptions_SortByName(t *testing.T) {
	want := bson.D{{Key: "name", Value: 1}}
	if got := peopleFindOptions().Sort; !reflect.DeepEqual(got, want) {
		t.Fatalf("expected sort %v, got %v", want, got)
	}
}

func TestTransactionFindOptions_NewestFirst(t *testing.T) {
	want := bson.D{{Key: "date", Value: -1}, {Key: "created_at", Value: -1}}
	if got := transactionFindOptions().Sort; !reflect.DeepEqual(got, want) {
		t.Fatalf("expected sort %v, got %v", want, got)
	}
}

func TestPersonInsert_ServerTimestamps(t *testing.T) {
	email := "bob@example.com"
	update := personInsert("user-1", domain.PersonInsert{Name: "Bob", Email: &email})

	fields := update["$setOnInsert"].(bson.M)
	current := update["$currentDate"].(bson.M)
	if fields["user_id"] != "user-1" || fields["name"] != "Bob" {
		t.Fatalf("unexpected insert fields %v", fields)
	}
	if current["created_at"] != true || current["updated_at"] != true {
		t.Fatalf("expected created and updated stamps, got %v", current)
	}
	if _, ok := fields["created_at"]; ok {
		t.Fatal("created_at must come from the server clock")
	}
}

func TestTransactionInsert_SettledStampsSettlementDate(t *testing.T) {
	update := transactionInsert("user-1", domain.TransactionInsert{
		PersonID: "p1", Type: domain.TypeLent, Amount: 10, Date: "2024-03-01", IsSettled: true,
	})

	fields := update["$setOnInsert"].(bson.M)
	current := update["$currentDate"].(bson.M)
	if current["settlement_date"] != true {
		t.Fatalf("expected settlement stamp, got %v", current)
	}
	if _, ok := fields["settlement_date"]; ok {
		t.Fatal("settlement_date must not be both set and stamped")
	}
	if fields["type"] != "lent" || fields["is_settled"] != true {
		t.Fatalf("unexpected insert fields %v", fields)
	}
}

func TestTransactionInsert_OpenHasNoSettlementDate(t *testing.T) {
	update := transactionInsert("user-1", domain.TransactionInsert{
		PersonID: "p1", Type: domain.TypeBorrowed, Amount: 5, Date: "2024-03-01",
	})

	fields := update["$setOnInsert"].(bson.M)
	current := update["$currentDate"].(bson.M)
	if v, ok := fields["settlement_date"]; !ok || v != nil {
		t.Fatalf("expected explicit null settlement_date, got %v", fields)
	}
	if _, ok := current["settlement_date"]; ok {
		t.Fatal("open transaction must not stamp settlement_date")
	}
}

func TestTransactionUpdate_Settle(t *testing.T) {
	settled := true
	update := transactionUpdate(domain.TransactionUpdate{IsSettled: &settled})

	set := update["$set"].(bson.M)
	current := update["$currentDate"].(bson.M)
	if set["is_settled"] != true {
		t.Fatalf("expected is_settled true, got %v", set["is_settled"])
	}
	if current["settlement_date"] != true || current["updated_at"] != true {
		t.Fatalf("expected settlement and updated stamps, got %v", current)
	}
	if _, ok := set["settlement_date"]; ok {
		t.Fatal("settlement_date must not be both set and stamped")
	}
}

func TestTransactionUpdate_Unsettle(t *testing.T) {
	settled := false
	update := transactionUpdate(domain.TransactionUpdate{IsSettled: &settled})

	set := update["$set"].(bson.M)
	current := update["$currentDate"].(bson.M)
	if v, ok := set["settlement_date"]; !ok || v != nil {
		t.Fatalf("expected settlement_date cleared, got %v", v)
	}
	if _, ok := current["settlement_date"]; ok {
		t.Fatal("unsettle must not stamp a settlement date")
	}
}

func TestTransactionUpdate_FieldsOnly(t *testing.T) {
	amount := 12.5
	desc := "lunch"
	update := transactionUpdate(domain.TransactionUpdate{Amount: &amount, Description: &desc})

	set := update["$set"].(bson.M)
	if set["amount"] != 12.5 || set["description"] != "lunch" {
		t.Fatalf("unexpected $set: %v", set)
	}
	if _, ok := set["is_settled"]; ok {
		t.Fatal("settlement state must be untouched")
	}
}

func TestPersonSet_OnlyProvidedFields(t *testing.T) {
	name := "Alice"
	set := personSet(domain.PersonUpdate{Name: &name})
	if len(set) != 1 || set["name"] != "Alice" {
		t.Fatalf("unexpected $set: %v", set)
	}
}

func TestMongoTransaction_ToDomain(t *testing.T) {
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.FixedZone("x", 3600))
	mt := mongoTransaction{
		ID:             primitive.NewObjectID(),
		UserID:         "u1",
		PersonID:       "p1",
		Type:           "borrowed",
		Amount:         20,
		Date:           "2024-03-01",
		IsSettled:      true,
		SettlementDate: &at,
	}
	tx := mt.toDomain()
	if tx.Type != domain.TypeBorrowed || tx.Signed() != -20 {
		t.Fatalf("unexpected transaction %+v", tx)
	}
	if tx.SettlementDate == nil || tx.SettlementDate.Location() != time.UTC {
		t.Fatalf("expected settlement date in UTC, got %v", tx.SettlementDate)
	}
}
