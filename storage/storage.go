package storage

import (
	"context"
	"encoding/hex"
	"errors"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"todo-api/domain"
)

// ErrNotFound is returned when a list id (or an addressed item within the
// list) does not resolve to a stored document.
var ErrNotFound error = notFoundError{}

type notFoundError struct{}

func (notFoundError) Error() string { return "list not found" }

// NotFound marks the error as a not-found signal for the API layer.
func (notFoundError) NotFound() {}

// collection is the slice of *mongo.Collection the storage layer uses. Tests
// substitute a fake built on the driver's test result constructors.
type collection interface {
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error)
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) *mongo.SingleResult
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error)
	FindOneAndUpdate(ctx context.Context, filter interface{}, update interface{}, opts ...*options.FindOneAndUpdateOptions) *mongo.SingleResult
}

// IDGenerator produces identifiers for newly created items. Items are
// sub-documents without a storage-level primary key, so the application
// assigns ids up front; array position is unstable under concurrent pulls.
type IDGenerator func() string

// HexItemID is the default IDGenerator: 32 hex characters from a random UUID.
func HexItemID() string {
	u := uuid.New()
	return hex.EncodeToString(u[:])
}

// Storage issues single-document operations against the todo list collection.
// Every method is one atomic round trip with no retries or internal recovery;
// a mongo.SessionContext passed as ctx composes a call into an external
// session, but no session spans multiple calls internally.
type Storage struct {
	lists     collection
	newItemID IDGenerator
}

// New creates a Storage over the given collection. A nil gen selects
// HexItemID.
func New(lists *mongo.Collection, gen IDGenerator) *Storage {
	return newStorage(lists, gen)
}

func newStorage(lists collection, gen IDGenerator) *Storage {
	if gen == nil {
		gen = HexItemID
	}
	return &Storage{lists: lists, newItemID: gen}
}

// listFilter resolves the two id formats a caller may present. Lists created
// by this system use ObjectID primary keys; ids imported from older
// deployments can be plain strings, so a hex-decode failure falls back to a
// literal match instead of surfacing as an error.
func listFilter(id string) bson.M {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return bson.M{"_id": oid}
	}
	return bson.M{"_id": id}
}

// ListLists enumerates every list as a summary, sorted by name ascending.
// Only the name and items fields are fetched; the item count is computed
// client-side from the embedded array.
func (s *Storage) ListLists(ctx context.Context) ([]domain.ListSummary, error) {
	opts := options.Find().
		SetProjection(bson.M{"name": 1, "items": 1}).
		SetSort(bson.D{{Key: "name", Value: 1}})
	cur, err := s.lists.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	summaries := []domain.ListSummary{}
	for cur.Next(ctx) {
		var doc bson.M
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		summaries = append(summaries, ListSummaryFromDoc(doc))
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return summaries, nil
}

// CreateList inserts a new list with no items and returns its identity.
func (s *Storage) CreateList(ctx context.Context, name string) (string, error) {
	res, err := s.lists.InsertOne(ctx, bson.M{"name": name, "items": bson.A{}})
	if err != nil {
		return "", err
	}
	return stringifyID(res.InsertedID), nil
}

// GetList fetches one list by id.
func (s *Storage) GetList(ctx context.Context, id string) (*domain.List, error) {
	var doc bson.M
	err := s.lists.FindOne(ctx, listFilter(id)).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return ListFromDoc(doc), nil
}

// DeleteList removes one list wholesale. It reports whether exactly one
// document was removed; a miss is not an error.
func (s *Storage) DeleteList(ctx context.Context, id string) (bool, error) {
	res, err := s.lists.DeleteOne(ctx, listFilter(id))
	if err != nil {
		return false, err
	}
	return res.DeletedCount == 1, nil
}

// CreateItem appends a new unchecked item with a generated id and returns the
// post-mutation list.
func (s *Storage) CreateItem(ctx context.Context, listID, label string) (*domain.List, error) {
	item := bson.M{"id": s.newItemID(), "label": label, "checked": false}
	return s.updateList(ctx, listFilter(listID), bson.M{"$push": bson.M{"items": item}})
}

// SetCheckedState updates one item's checked flag and returns the
// post-mutation list. A miss on either the list or the item id yields
// ErrNotFound.
func (s *Storage) SetCheckedState(ctx context.Context, listID, itemID string, checked bool) (*domain.List, error) {
	filter := listFilter(listID)
	filter["items.id"] = itemID
	return s.updateList(ctx, filter, bson.M{"$set": bson.M{"items.$.checked": checked}})
}

// DeleteItem pulls one item from the list and returns the post-mutation list.
// Removing an id that is not present is a no-op, indistinguishable from a
// successful removal; only a list-identity miss yields ErrNotFound.
func (s *Storage) DeleteItem(ctx context.Context, listID, itemID string) (*domain.List, error) {
	return s.updateList(ctx, listFilter(listID), bson.M{"$pull": bson.M{"items": bson.M{"id": itemID}}})
}

// updateList runs one atomic find-and-modify and maps the post-state, so
// mutations never need a separate read-after-write round trip.
func (s *Storage) updateList(ctx context.Context, filter, update bson.M) (*domain.List, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc bson.M
	err := s.lists.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return ListFromDoc(doc), nil
}
