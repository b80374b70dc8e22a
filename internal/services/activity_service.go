package services

import (
	"context"
	"sync"
	"time"

	"github.com/Dias221467/solo-system/internal/feed"
	"github.com/Dias221467/solo-system/internal/models"
	"github.com/Dias221467/solo-system/internal/realtime"
	"github.com/sirupsen/logrus"
)

const defaultActivityPage = 50

// ActivityService owns the social activity feed. Every mutation is broadcast
// as the whole activity so clients can replace their copy by id.
type ActivityService struct {
	// mu serializes find-then-mutate sequences and their broadcasts.
	mu   sync.Mutex
	feed *feed.Feed[*models.Activity]
	hub  Hub
}

func NewActivityService(hub Hub, capacity int) *ActivityService {
	return &ActivityService{
		feed: feed.New[*models.Activity](capacity),
		hub:  hub,
	}
}

// CreateActivity stores a new activity and announces it.
func (s *ActivityService) CreateActivity(ctx context.Context, input models.ActivityInput) *models.Activity {
	s.mu.Lock()
	defer s.mu.Unlock()

	activity := &models.Activity{
		ID:         newID(),
		UserID:     input.UserID,
		UserName:   input.UserName,
		UserAvatar: input.UserAvatar,
		UserLevel:  input.UserLevel,
		Type:       input.Type,
		Title:      input.Title,
		Distance:   input.Distance,
		Duration:   input.Duration,
		Steps:      input.Steps,
		XPGained:   input.XPGained,
		Timestamp:  time.Now().UTC(),
		Likes:      []string{},
		Comments:   []models.Comment{},
	}
	s.feed.Append(activity)

	out := activity.Clone()
	s.publish(ctx, realtime.EventActivityCreated, out)

	logrus.WithFields(logrus.Fields{
		"activity_id": activity.ID,
		"user_id":     activity.UserID,
		"type":        activity.Type,
	}).Info("Activity created")

	return out
}

// ListRecent returns up to limit activities, newest first.
func (s *ActivityService) ListRecent(limit int) []*models.Activity {
	if limit <= 0 {
		limit = defaultActivityPage
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	activities := s.feed.Reversed(limit)
	for i, a := range activities {
		activities[i] = a.Clone()
	}
	return activities
}

// ToggleLike adds userID to the activity's likes, or removes it if present.
func (s *ActivityService) ToggleLike(ctx context.Context, activityID, userID string) (*models.Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	activity, ok := s.find(activityID)
	if !ok {
		return nil, ErrNotFound
	}

	if activity.HasLike(userID) {
		likes := activity.Likes[:0]
		for _, id := range activity.Likes {
			if id != userID {
				likes = append(likes, id)
			}
		}
		activity.Likes = likes
	} else {
		activity.Likes = append(activity.Likes, userID)
	}

	out := activity.Clone()
	s.publish(ctx, realtime.EventActivityUpdated, out)
	return out, nil
}

// AddComment appends a comment to the activity.
func (s *ActivityService) AddComment(ctx context.Context, activityID string, input models.CommentInput) (*models.Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	activity, ok := s.find(activityID)
	if !ok {
		return nil, ErrNotFound
	}

	activity.Comments = append(activity.Comments, models.Comment{
		ID:        newID(),
		UserID:    input.UserID,
		UserName:  input.UserName,
		Content:   input.Content,
		Timestamp: time.Now().UTC(),
	})

	out := activity.Clone()
	s.publish(ctx, realtime.EventActivityUpdated, out)
	return out, nil
}

func (s *ActivityService) find(id string) (*models.Activity, bool) {
	return s.feed.Find(func(a *models.Activity) bool { return a.ID == id })
}

func (s *ActivityService) publish(ctx context.Context, eventType string, activity *models.Activity) {
	if err := s.hub.Broadcast(realtime.Event{Type: eventType, Payload: activity}); err != nil {
		logrus.WithContext(ctx).WithError(err).WithField("activity_id", activity.ID).Warn("Failed to broadcast activity")
	}
}
