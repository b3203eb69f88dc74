package database

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func indexes() map[string][]mongo.IndexModel {
	activeOrder := []mongo.IndexModel{
		{Keys: bson.D{{Key: "isActive", Value: 1}, {Key: "order", Value: 1}}},
	}
	return map[string][]mongo.IndexModel{
		CollectionSubscribers: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetName("email_unique")},
			{Keys: bson.D{{Key: "source", Value: 1}, {Key: "read", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "subscribed", Value: 1}}},
		},
		CollectionAdmins: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetName("email_unique")},
		},
		CollectionHeaderImages: activeOrder,
		CollectionHeroImages:   activeOrder,
		CollectionHeaderVideos: {
			{Keys: bson.D{{Key: "isActive", Value: 1}, {Key: "position", Value: 1}}},
		},
		CollectionLatestPosts: {
			{Keys: bson.D{{Key: "isActive", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
	}
}
