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

const collectionPeople = "people"

type PersonRepository struct {
	col *mongo.Collection
}

func NewPersonRepository(db *mongo.Database) *PersonRepository {
	return &PersonRepository{col: db.Collection(collectionPeople)}
}

type mongoPerson struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    string             `bson:"user_id"`
	Name      string             `bson:"name"`
	Email     *string            `bson:"email"`
	Phone     *string            `bson:"phone"`
	Notes     *string            `bson:"notes"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (mp mongoPerson) toDomain() domain.Person {
	return domain.Person{
		ID:        mp.ID.Hex(),
		UserID:    mp.UserID,
		Name:      mp.Name,
		Email:     mp.Email,
		Phone:     mp.Phone,
		Notes:     mp.Notes,
		CreatedAt: utc(mp.CreatedAt),
		UpdatedAt: utc(mp.UpdatedAt),
	}
}

// personSet maps a partial update onto $set fields.
func personSet(in domain.PersonUpdate) bson.M {
	set := bson.M{}
	if in.Name != nil {
		set["name"] = *in.Name
	}
	if in.Email != nil {
		set["email"] = in.Email
	}
	if in.Phone != nil {
		set["phone"] = in.Phone
	}
	if in.Notes != nil {
		set["notes"] = in.Notes
	}
	return set
}

// personInsert builds the upsert document for a new person. Timestamps come
// from the server clock.
func personInsert(owner string, in domain.PersonInsert) bson.M {
	return bson.M{
		"$setOnInsert": bson.M{
			"user_id": owner,
			"name":    in.Name,
			"email":   in.Email,
			"phone":   in.Phone,
			"notes":   in.Notes,
		},
		"$currentDate": bson.M{"created_at": true, "updated_at": true},
	}
}

func peopleFindOptions() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
}

// Create inserts a person with server-side timestamps and returns its id.
func (r *PersonRepository) Create(ctx context.Context, owner string, in domain.PersonInsert) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id := primitive.NewObjectID()
	update := personInsert(owner, in)
	if _, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, update, upsert()); err != nil {
		return "", storeErr("insert person", err)
	}
	return id.Hex(), nil
}

func (r *PersonRepository) FindByID(ctx context.Context, id string) (*domain.Person, error) {
	oid, err := objectID(id, domain.ErrPersonNotFound)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mp mongoPerson
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&mp); err != nil {
		if isNoDocuments(err) {
			return nil, domain.ErrPersonNotFound
		}
		return nil, storeErr("find person", err)
	}
	p := mp.toDomain()
	return &p, nil
}

// ListByOwner returns the owner's people sorted by name.
func (r *PersonRepository) ListByOwner(ctx context.Context, owner string) ([]domain.Person, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"user_id": owner}, peopleFindOptions())
	if err != nil {
		return nil, storeErr("list people", err)
	}
	defer cur.Close(ctx)

	var docs []mongoPerson
	if err := cur.All(ctx, &docs); err != nil {
		return nil, storeErr("decode people", err)
	}

	people := make([]domain.Person, 0, len(docs))
	for _, d := range docs {
		people = append(people, d.toDomain())
	}
	return people, nil
}

func (r *PersonRepository) Update(ctx context.Context, id string, in domain.PersonUpdate) error {
	oid, err := objectID(id, domain.ErrPersonNotFound)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$currentDate": bson.M{"updated_at": true}}
	if set := personSet(in); len(set) > 0 {
		update["$set"] = set
	}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return storeErr("update person", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrPersonNotFound
	}
	return nil
}

func (r *PersonRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id, domain.ErrPersonNotFound)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return storeErr("delete person", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrPersonNotFound
	}
	return nil
}

// EnsureIndexes creates necessary indexes on the people collection.
func (r *PersonRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "name", Value: 1}}},
	})
	return err
}

func upsert() *options.UpdateOptions {
	return options.Update().SetUpsert(true)
}
