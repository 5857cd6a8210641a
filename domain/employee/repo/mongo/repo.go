// Package mongo provides a MongoDB-backed implementation of the employee
// domain's Repo dependency, following the document/options shape of the
// teacher's registry/store/mongo client.
package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"goa.design/cq-runtime/domain/employee"
)

// Repo persists onboarded employees to a MongoDB collection.
type Repo struct {
	collection *mongo.Collection
}

// Compile-time check that Repo implements employee.Repo.
var _ employee.Repo = (*Repo)(nil)

// employeeDocument is the MongoDB document representation of a stored
// employee.
type employeeDocument struct {
	ID         string `bson:"_id"`
	FirstName  string `bson:"first_name"`
	LastName   string `bson:"last_name"`
	Supervisor string `bson:"supervisor,omitempty"`
	Email      string `bson:"email"`
}

// New returns a Repo backed by the given collection, typically from a
// connected mongo.Client.
func New(collection *mongo.Collection) *Repo {
	return &Repo{collection: collection}
}

// Save upserts e (keyed by first+last name) with its generated work email
// and returns the stored document's ID.
func (r *Repo) Save(ctx context.Context, e employee.EmployeeCreated, email string) (string, error) {
	id := e.FirstName + "." + e.LastName
	doc := employeeDocument{
		ID:         id,
		FirstName:  e.FirstName,
		LastName:   e.LastName,
		Supervisor: e.Supervisor,
		Email:      email,
	}
	opts := options.Replace().SetUpsert(true)
	if _, err := r.collection.ReplaceOne(ctx, bson.M{"_id": id}, doc, opts); err != nil {
		return "", fmt.Errorf("mongodb save employee %q: %w", id, err)
	}
	return id, nil
}

// FindByName looks up a previously stored employee by first and last name,
// reporting store.ErrNotFound-style absence via a plain bool rather than a
// sentinel error, since the dedupe cache (not this repo) is the existence
// source of truth for the CONTEXT actor.
func (r *Repo) FindByName(ctx context.Context, firstName, lastName string) (bool, error) {
	id := firstName + "." + lastName
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Err()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, fmt.Errorf("mongodb find employee %q: %w", id, err)
	}
	return true, nil
}

// EnsureIndexes creates the indexes Repo relies on. Call once at start-up.
func EnsureIndexes(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "last_name", Value: 1}},
	})
	return err
}
