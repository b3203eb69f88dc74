package subscriber

import (
	"context"
	"errors"
	"regexp"

	"github.com/folio-space/core/internal/database"
	"github.com/folio-space/core/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoRepository struct {
	coll *mongo.Collection
}

func NewMongoRepository(store *database.Store) *MongoRepository {
	return &MongoRepository{coll: store.Collection(database.CollectionSubscribers)}
}

func (r *MongoRepository) FindByEmail(ctx context.Context, email string) (*models.SubscriberModel, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *MongoRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.SubscriberModel, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoRepository) findOne(ctx context.Context, filter bson.M) (*models.SubscriberModel, error) {
	var m models.SubscriberModel
	if err := r.coll.FindOne(ctx, filter).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, database.Classify("find subscriber", err)
	}
	return &m, nil
}

func (r *MongoRepository) Insert(ctx context.Context, s *models.SubscriberModel) error {
	res, err := r.coll.InsertOne(ctx, s)
	if err != nil {
		if database.IsDuplicateKey(err) {
			return ErrDuplicateEmail
		}
		return database.Classify("insert subscriber", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		s.ID = id
	}
	return nil
}

func (r *MongoRepository) Save(ctx context.Context, s *models.SubscriberModel) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": s.ID}, s)
	if err != nil {
		if database.IsDuplicateKey(err) {
			return ErrDuplicateEmail
		}
		return database.Classify("save subscriber", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return database.Classify("delete subscriber", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRepository) List(ctx context.Context, f ListFilter) ([]models.SubscriberModel, error) {
	cur, err := r.coll.Find(ctx, listFilter(f), options.Find().SetSort(listSort(f)))
	if err != nil {
		return nil, database.Classify("list subscribers", err)
	}
	out := make([]models.SubscriberModel, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, database.Classify("decode subscribers", err)
	}
	return out, nil
}

func (r *MongoRepository) Count(ctx context.Context, f ListFilter) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, listFilter(f))
	if err != nil {
		return 0, database.Classify("count subscribers", err)
	}
	return n, nil
}

func (r *MongoRepository) CountBySource(ctx context.Context) (map[models.Source]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$source"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, database.Classify("aggregate subscribers", err)
	}
	var rows []struct {
		Source models.Source `bson:"_id"`
		Count  int64         `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, database.Classify("decode subscriber stats", err)
	}
	out := make(map[models.Source]int64, len(rows))
	for _, row := range rows {
		out[row.Source] = row.Count
	}
	return out, nil
}

func listFilter(f ListFilter) bson.D {
	filter := bson.D{}
	if f.Subscribed != nil {
		filter = append(filter, bson.E{Key: "subscribed", Value: *f.Subscribed})
	}
	if f.Source != "" {
		filter = append(filter, bson.E{Key: "source", Value: f.Source})
	}
	if f.Read != nil {
		filter = append(filter, bson.E{Key: "read", Value: *f.Read})
	}
	if f.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		filter = append(filter, bson.E{Key: "$or", Value: bson.A{
			bson.D{{Key: "email", Value: pattern}},
			bson.D{{Key: "name", Value: pattern}},
		}})
	}
	return filter
}

// listSort puts unread contact messages first when listing the inbox.
func listSort(f ListFilter) bson.D {
	if f.Source == models.SourcePartner {
		return bson.D{{Key: "read", Value: 1}, {Key: "createdAt", Value: -1}}
	}
	return bson.D{{Key: "createdAt", Value: -1}}
}
