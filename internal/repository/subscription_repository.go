package repository

import (
	"context"
	"fmt"

	"github.com/Dias221467/solo-system/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type SubscriptionRepository struct {
	collection *mongo.Collection
}

func NewSubscriptionRepository(db *mongo.Database) *SubscriptionRepository {
	return &SubscriptionRepository{
		collection: db.Collection("push_subscriptions"),
	}
}

// SaveSubscription inserts a push subscription
func (r *SubscriptionRepository) SaveSubscription(ctx context.Context, sub *models.PushSubscription) error {
	_, err := r.collection.InsertOne(ctx, sub)
	if err != nil {
		logrus.WithError(err).Error("Failed to insert push subscription")
		return fmt.Errorf("failed to save push subscription: %w", err)
	}
	return nil
}

// DeleteSubscription removes a push subscription by id
func (r *SubscriptionRepository) DeleteSubscription(ctx context.Context, id string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete push subscription: %w", err)
	}
	return nil
}

// ListSubscriptions returns every stored subscription, oldest first
func (r *SubscriptionRepository) ListSubscriptions(ctx context.Context) ([]*models.PushSubscription, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch push subscriptions: %w", err)
	}
	defer cursor.Close(ctx)

	var subs []*models.PushSubscription
	if err := cursor.All(ctx, &subs); err != nil {
		return nil, fmt.Errorf("failed to decode push subscriptions: %w", err)
	}
	return subs, nil
}
