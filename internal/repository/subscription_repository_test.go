package repository

import (
	"context"
	"testing"
	"time"

	"github.com/Dias221467/solo-system/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestSubscriptionRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("save", func(mt *mtest.T) {
		repo := NewSubscriptionRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		err := repo.SaveSubscription(context.Background(), &models.PushSubscription{
			ID:        "sub-1",
			Endpoint:  "https://fcm.googleapis.com/fcm/send/abc",
			Keys:      models.PushSubscriptionKeys{P256dh: "key", Auth: "auth"},
			CreatedAt: time.Now(),
		})
		require.NoError(mt, err)
	})

	mt.Run("save error", func(mt *mtest.T) {
		repo := NewSubscriptionRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))

		err := repo.SaveSubscription(context.Background(), &models.PushSubscription{ID: "sub-1"})
		assert.Error(mt, err)
	})

	mt.Run("list", func(mt *mtest.T) {
		repo := NewSubscriptionRepository(mt.DB)
		ns := mt.DB.Name() + ".push_subscriptions"
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{
				{Key: "_id", Value: "sub-1"},
				{Key: "endpoint", Value: "https://push.example/1"},
				{Key: "keys", Value: bson.D{{Key: "p256dh", Value: "k1"}, {Key: "auth", Value: "a1"}}},
			},
			bson.D{
				{Key: "_id", Value: "sub-2"},
				{Key: "endpoint", Value: "https://push.example/2"},
				{Key: "keys", Value: bson.D{{Key: "p256dh", Value: "k2"}, {Key: "auth", Value: "a2"}}},
			},
		))

		subs, err := repo.ListSubscriptions(context.Background())
		require.NoError(mt, err)
		require.Len(mt, subs, 2)
		assert.Equal(mt, "sub-1", subs[0].ID)
		assert.Equal(mt, "https://push.example/2", subs[1].Endpoint)
		assert.Equal(mt, "k2", subs[1].Keys.P256dh)
	})

	mt.Run("delete", func(mt *mtest.T) {
		repo := NewSubscriptionRepository(mt.DB)
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "n", Value: 1}})

		require.NoError(mt, repo.DeleteSubscription(context.Background(), "sub-1"))
	})
}
