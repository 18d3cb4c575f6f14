package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoAccountRepository struct {
	collection *mongo.Collection
}

type dbAccount struct {
	ID        ID        `bson:"_id"`
	Name      string    `bson:"nombre"`
	Email     string    `bson:"email"`
	Password  string    `bson:"password"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

func NewMongoAccountRepository(c *mongo.Collection) Repository {
	return &mongoAccountRepository{collection: c}
}

// EnsureIndexes creates the unique email index. Concurrent registrations with
// the same email race past the service's lookup; the index is what rejects
// the second insert.
func EnsureIndexes(ctx context.Context, c *mongo.Collection) error {
	_, err := c.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("email_unique"),
	})
	if err != nil {
		return fmt.Errorf("error creating email index: %w", err)
	}
	return nil
}

func (m *mongoAccountRepository) FindByEmail(ctx context.Context, email string) (*Account, error) {
	return m.findAccountBy(ctx, "email", email)
}

func (m *mongoAccountRepository) FindByID(ctx context.Context, id ID) (*Account, error) {
	return m.findAccountBy(ctx, "_id", string(id))
}

func (m *mongoAccountRepository) findAccountBy(ctx context.Context, key string, val string) (*Account, error) {
	var a dbAccount
	err := m.collection.FindOne(ctx, bson.M{key: val}).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	acc := accountFromDBAccount(a)
	return &acc, nil
}

func (m *mongoAccountRepository) FindAll(ctx context.Context) ([]*Account, error) {
	cur, err := m.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}

	var docs []dbAccount
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	accs := make([]*Account, 0, len(docs))
	for _, d := range docs {
		acc := accountFromDBAccount(d)
		accs = append(accs, &acc)
	}
	return accs, nil
}

func (m *mongoAccountRepository) Store(ctx context.Context, acc *Account) error {
	dba := dbAccountFromAccount(acc)
	_, err := m.collection.InsertOne(ctx, &dba)
	if mongo.IsDuplicateKeyError(err) {
		return ErrExistingEmail
	}
	return err
}

func (m *mongoAccountRepository) Update(ctx context.Context, id ID, c Changes) (*Account, error) {
	set := bson.D{}
	if c.Name != nil {
		set = append(set, bson.E{Key: "nombre", Value: *c.Name})
	}
	if c.Email != nil {
		set = append(set, bson.E{Key: "email", Value: *c.Email})
	}
	if c.PasswordHash != nil {
		set = append(set, bson.E{Key: "password", Value: *c.PasswordHash})
	}
	set = append(set, bson.E{Key: "updatedAt", Value: time.Now().UTC()})

	var a dbAccount
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := m.collection.FindOneAndUpdate(ctx, bson.M{"_id": string(id)}, bson.D{{Key: "$set", Value: set}}, opts).Decode(&a)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return nil, ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return nil, ErrExistingEmail
	case err != nil:
		return nil, err
	}

	acc := accountFromDBAccount(a)
	return &acc, nil
}

func (m *mongoAccountRepository) Delete(ctx context.Context, id ID) (bool, error) {
	res, err := m.collection.DeleteOne(ctx, bson.M{"_id": string(id)})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func dbAccountFromAccount(a *Account) dbAccount {
	return dbAccount{a.ID, a.Name, a.Email, a.PasswordHash, a.CreatedAt, a.UpdatedAt}
}

func accountFromDBAccount(a dbAccount) Account {
	return Account{a.ID, a.Name, a.Email, a.Password, a.CreatedAt, a.UpdatedAt}
}
