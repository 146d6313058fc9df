package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ledgerbook/debt-ledger/internal/core/domain"
)

const collectionTransactions = "transactions"

type TransactionRepository struct {
	col *mongo.Collection
}

func NewTransactionRepository(db *mongo.Database) *TransactionRepository {
	return &TransactionRepository{col: db.Collection(collectionTransactions)}
}

type mongoTransaction struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	UserID         string             `bson:"user_id"`
	PersonID       string             `bson:"person_id"`
	Type           string             `bson:"type"`
	Amount         float64            `bson:"amount"`
	Description    string             `bson:"description"`
	Date           string             `bson:"date"`
	IsSettled      bool               `bson:"is_settled"`
	SettlementDate *time.Time         `bson:"settlement_date"`
	CreatedAt      time.Time          `bson:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at"`
}

func (mt mongoTransaction) toDomain() domain.Transaction {
	t := domain.Transaction{
		ID:          mt.ID.Hex(),
		UserID:      mt.UserID,
		PersonID:    mt.PersonID,
		Type:        domain.TransactionType(mt.Type),
		Amount:      mt.Amount,
		Description: mt.Description,
		Date:        mt.Date,
		IsSettled:   mt.IsSettled,
		CreatedAt:   utc(mt.CreatedAt),
		UpdatedAt:   utc(mt.UpdatedAt),
	}
	if mt.SettlementDate != nil {
		at := mt.SettlementDate.UTC()
		t.SettlementDate = &at
	}
	return t
}

// transactionUpdate builds the update document for a partial change.
// Settlement state and its date always move together.
func transactionUpdate(in domain.TransactionUpdate) bson.M {
	set := bson.M{}
	current := bson.M{"updated_at": true}

	if in.Type != nil {
		set["type"] = string(*in.Type)
	}
	if in.Amount != nil {
		set["amount"] = *in.Amount
	}
	if in.Description != nil {
		set["description"] = *in.Description
	}
	if in.Date != nil {
		set["date"] = *in.Date
	}
	if in.IsSettled != nil {
		set["is_settled"] = *in.IsSettled
		if *in.IsSettled {
			current["settlement_date"] = true
		} else {
			set["settlement_date"] = nil
		}
	}

	update := bson.M{"$currentDate": current}
	if len(set) > 0 {
		update["$set"] = set
	}
	return update
}

// transactionInsert builds the upsert document for a new transaction. A
// transaction created settled gets its settlement date from the server clock.
func transactionInsert(owner string, in domain.TransactionInsert) bson.M {
	fields := bson.M{
		"user_id":     owner,
		"person_id":   in.PersonID,
		"type":        string(in.Type),
		"amount":      in.Amount,
		"description": in.Description,
		"date":        in.Date,
		"is_settled":  in.IsSettled,
	}
	current := bson.M{"created_at": true, "updated_at": true}
	if in.IsSettled {
		current["settlement_date"] = true
	} else {
		fields["settlement_date"] = nil
	}
	return bson.M{"$setOnInsert": fields, "$currentDate": current}
}

// transactionFindOptions orders newest first. Calendar dates sort lexically
// in DateLayout; creation time breaks ties within a day.
func transactionFindOptions() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "created_at", Value: -1}})
}

// Create inserts a transaction with server-side timestamps. A transaction
// created settled gets its settlement date stamped at the same time.
func (r *TransactionRepository) Create(ctx context.Context, owner string, in domain.TransactionInsert) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id := primitive.NewObjectID()
	update := transactionInsert(owner, in)
	if _, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, update, upsert()); err != nil {
		return "", storeErr("insert transaction", err)
	}
	return id.Hex(), nil
}

func (r *TransactionRepository) FindByID(ctx context.Context, id string) (*domain.Transaction, error) {
	oid, err := objectID(id, domain.ErrTransactionNotFound)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mt mongoTransaction
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&mt); err != nil {
		if isNoDocuments(err) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, storeErr("find transaction", err)
	}
	t := mt.toDomain()
	return &t, nil
}

func (r *TransactionRepository) ListByOwner(ctx context.Context, owner string) ([]domain.Transaction, error) {
	return r.list(ctx, bson.M{"user_id": owner})
}

func (r *TransactionRepository) ListByPerson(ctx context.Context, owner, personID string) ([]domain.Transaction, error) {
	return r.list(ctx, bson.M{"user_id": owner, "person_id": personID})
}

// list returns matching transactions newest first.
func (r *TransactionRepository) list(ctx context.Context, filter bson.M) ([]domain.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter, transactionFindOptions())
	if err != nil {
		return nil, storeErr("list transactions", err)
	}
	defer cur.Close(ctx)

	var docs []mongoTransaction
	if err := cur.All(ctx, &docs); err != nil {
		return nil, storeErr("decode transactions", err)
	}

	txs := make([]domain.Transaction, 0, len(docs))
	for _, d := range docs {
		txs = append(txs, d.toDomain())
	}
	return txs, nil
}

func (r *TransactionRepository) Update(ctx context.Context, id string, in domain.TransactionUpdate) error {
	return r.update(ctx, id, transactionUpdate(in))
}

func (r *TransactionRepository) SetSettled(ctx context.Context, id string, settled bool) error {
	return r.update(ctx, id, transactionUpdate(domain.TransactionUpdate{IsSettled: &settled}))
}

func (r *TransactionRepository) update(ctx context.Context, id string, update bson.M) error {
	oid, err := objectID(id, domain.ErrTransactionNotFound)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return storeErr("update transaction", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

func (r *TransactionRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id, domain.ErrTransactionNotFound)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return storeErr("delete transaction", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

// EnsureIndexes creates necessary indexes on the transactions collection.
func (r *TransactionRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "date", Value: -1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "person_id", Value: 1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
