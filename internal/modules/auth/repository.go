package auth

import (
	"context"
	"errors"

	"github.com/folio-space/core/internal/database"
	"github.com/folio-space/core/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrNotFound       = errors.New("admin not found")
	ErrDuplicateEmail = errors.New("admin email already exists")
)

// Repository persists admin accounts.
type Repository interface {
	Count(ctx context.Context) (int64, error)
	FindByEmail(ctx context.Context, email string) (*models.AdminModel, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.AdminModel, error)
	List(ctx context.Context) ([]models.AdminModel, error)
	Insert(ctx context.Context, a *models.AdminModel) error
	Save(ctx context.Context, a *models.AdminModel) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type MongoRepository struct {
	coll *mongo.Collection
}

func NewMongoRepository(store *database.Store) *MongoRepository {
	return &MongoRepository{coll: store.Collection(database.CollectionAdmins)}
}

func (r *MongoRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, database.Classify("count admins", err)
	}
	return n, nil
}

func (r *MongoRepository) FindByEmail(ctx context.Context, email string) (*models.AdminModel, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *MongoRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.AdminModel, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoRepository) findOne(ctx context.Context, filter bson.M) (*models.AdminModel, error) {
	var a models.AdminModel
	if err := r.coll.FindOne(ctx, filter).Decode(&a); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, database.Classify("find admin", err)
	}
	return &a, nil
}

func (r *MongoRepository) List(ctx context.Context) ([]models.AdminModel, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, database.Classify("list admins", err)
	}
	out := make([]models.AdminModel, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, database.Classify("decode admins", err)
	}
	return out, nil
}

func (r *MongoRepository) Insert(ctx context.Context, a *models.AdminModel) error {
	res, err := r.coll.InsertOne(ctx, a)
	if err != nil {
		if database.IsDuplicateKey(err) {
			return ErrDuplicateEmail
		}
		return database.Classify("insert admin", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		a.ID = id
	}
	return nil
}

func (r *MongoRepository) Save(ctx context.Context, a *models.AdminModel) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": a.ID}, a)
	if err != nil {
		if database.IsDuplicateKey(err) {
			return ErrDuplicateEmail
		}
		return database.Classify("save admin", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return database.Classify("delete admin", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
