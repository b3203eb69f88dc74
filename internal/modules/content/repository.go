package content

import (
	"context"
	"errors"

	"github.com/folio-space/core/internal/database"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrNotFound = errors.New("content not found")

// Repository persists one content collection.
type Repository[T Document] interface {
	List(ctx context.Context, activeOnly bool) ([]T, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (T, error)
	Insert(ctx context.Context, doc T) error
	Save(ctx context.Context, doc T) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type MongoRepository[T Document] struct {
	coll   *mongo.Collection
	sort   bson.D
	newDoc func() T
}

func NewMongoRepository[T Document](store *database.Store, kind Kind[T]) *MongoRepository[T] {
	return &MongoRepository[T]{
		coll:   store.Collection(kind.Collection),
		sort:   kind.Sort,
		newDoc: kind.New,
	}
}

func (r *MongoRepository[T]) List(ctx context.Context, activeOnly bool) ([]T, error) {
	filter := bson.D{}
	if activeOnly {
		filter = bson.D{{Key: "isActive", Value: true}}
	}
	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(r.sort))
	if err != nil {
		return nil, database.Classify("list "+r.coll.Name(), err)
	}
	out := make([]T, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, database.Classify("decode "+r.coll.Name(), err)
	}
	return out, nil
}

func (r *MongoRepository[T]) FindByID(ctx context.Context, id primitive.ObjectID) (T, error) {
	doc := r.newDoc()
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(doc); err != nil {
		var zero T
		if errors.Is(err, mongo.ErrNoDocuments) {
			return zero, ErrNotFound
		}
		return zero, database.Classify("find "+r.coll.Name(), err)
	}
	return doc, nil
}

func (r *MongoRepository[T]) Insert(ctx context.Context, doc T) error {
	base := doc.Content()
	if base.ID.IsZero() {
		base.ID = primitive.NewObjectID()
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return database.Classify("insert "+r.coll.Name(), err)
	}
	return nil
}

func (r *MongoRepository[T]) Save(ctx context.Context, doc T) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": doc.Content().ID}, doc)
	if err != nil {
		return database.Classify("save "+r.coll.Name(), err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRepository[T]) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return database.Classify("delete "+r.coll.Name(), err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
