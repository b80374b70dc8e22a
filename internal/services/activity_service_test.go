package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/Dias221467/solo-system/internal/models"
	"github.com/Dias221467/solo-system/internal/realtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createActivity(t *testing.T, svc *ActivityService, title string) *models.Activity {
	t.Helper()
	steps := 4200
	return svc.CreateActivity(context.Background(), models.ActivityInput{
		UserID:    "u1",
		UserName:  "Jin",
		UserLevel: 7,
		Type:      "walk",
		Title:     title,
		Steps:     &steps,
		XPGained:  40,
	})
}

func TestCreateActivityInitializesAndBroadcasts(t *testing.T) {
	hub := newRecordingHub()
	svc := NewActivityService(hub, 200)

	a := createActivity(t, svc, "Morning walk")

	assert.NotEmpty(t, a.ID)
	assert.False(t, a.Timestamp.IsZero())
	assert.NotNil(t, a.Likes)
	assert.Empty(t, a.Likes)
	assert.NotNil(t, a.Comments)
	assert.Empty(t, a.Comments)
	require.NotNil(t, a.Steps)
	assert.Equal(t, 4200, *a.Steps)

	events := hub.broadcasts()
	require.Len(t, events, 1)
	assert.Equal(t, realtime.EventActivityCreated, events[0].Type)
}

func TestListRecentNewestFirst(t *testing.T) {
	svc := NewActivityService(newRecordingHub(), 200)
	for i := 1; i <= 5; i++ {
		createActivity(t, svc, fmt.Sprintf("a%d", i))
	}

	var titles []string
	for _, a := range svc.ListRecent(5) {
		titles = append(titles, a.Title)
	}
	assert.Equal(t, []string{"a5", "a4", "a3", "a2", "a1"}, titles)
	assert.Len(t, svc.ListRecent(0), 5)
	assert.Len(t, svc.ListRecent(2), 2)
}

func TestListRecentDefaultsToFifty(t *testing.T) {
	svc := NewActivityService(newRecordingHub(), 200)
	for i := 0; i < 80; i++ {
		createActivity(t, svc, "x")
	}
	assert.Len(t, svc.ListRecent(0), 50)
	assert.Len(t, svc.ListRecent(500), 80)
}

func TestActivityFeedEvictsOldest(t *testing.T) {
	svc := NewActivityService(newRecordingHub(), 200)
	first := createActivity(t, svc, "first")
	for i := 0; i < 200; i++ {
		createActivity(t, svc, "x")
	}

	_, err := svc.ToggleLike(context.Background(), first.ID, "u2")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestToggleLikePairs(t *testing.T) {
	hub := newRecordingHub()
	svc := NewActivityService(hub, 200)
	a := createActivity(t, svc, "run")

	for i := 0; i < 4; i++ {
		got, err := svc.ToggleLike(context.Background(), a.ID, "u2")
		require.NoError(t, err)
		if i%2 == 0 {
			assert.Equal(t, []string{"u2"}, got.Likes)
		} else {
			assert.Empty(t, got.Likes)
		}
	}

	events := hub.broadcasts()
	require.Len(t, events, 5)
	for _, evt := range events[1:] {
		assert.Equal(t, realtime.EventActivityUpdated, evt.Type)
	}
}

func TestToggleLikeKeepsOtherUsers(t *testing.T) {
	svc := NewActivityService(newRecordingHub(), 200)
	a := createActivity(t, svc, "run")
	ctx := context.Background()

	_, _ = svc.ToggleLike(ctx, a.ID, "u1")
	_, _ = svc.ToggleLike(ctx, a.ID, "u2")
	_, _ = svc.ToggleLike(ctx, a.ID, "u3")
	got, err := svc.ToggleLike(ctx, a.ID, "u2")
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"u1", "u3"}, got.Likes)
}

func TestConcurrentToggleLikeNeverDuplicates(t *testing.T) {
	svc := NewActivityService(newRecordingHub(), 200)
	a := createActivity(t, svc, "run")

	var wg sync.WaitGroup
	for i := 0; i < 51; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = svc.ToggleLike(context.Background(), a.ID, "u2")
		}()
	}
	wg.Wait()

	got := svc.ListRecent(1)[0]
	assert.Equal(t, []string{"u2"}, got.Likes, "odd number of toggles leaves exactly one like")
}

func TestAddCommentAppends(t *testing.T) {
	hub := newRecordingHub()
	svc := NewActivityService(hub, 200)
	a := createActivity(t, svc, "run")
	ctx := context.Background()

	_, err := svc.AddComment(ctx, a.ID, models.CommentInput{UserID: "u2", UserName: "Cha", Content: "nice"})
	require.NoError(t, err)
	got, err := svc.AddComment(ctx, a.ID, models.CommentInput{UserID: "u3", UserName: "Ahn", Content: "gg"})
	require.NoError(t, err)

	require.Len(t, got.Comments, 2)
	assert.Equal(t, "nice", got.Comments[0].Content)
	assert.Equal(t, "gg", got.Comments[1].Content)
	assert.NotEmpty(t, got.Comments[0].ID)
	assert.NotEqual(t, got.Comments[0].ID, got.Comments[1].ID)
	assert.False(t, got.Comments[1].Timestamp.IsZero())

	last := hub.broadcasts()[2]
	assert.Equal(t, realtime.EventActivityUpdated, last.Type)
	assert.Len(t, last.Payload.(*models.Activity).Comments, 2)
}

func TestMissingActivityIsNotFoundWithoutSideEffects(t *testing.T) {
	hub := newRecordingHub()
	svc := NewActivityService(hub, 200)
	createActivity(t, svc, "run")
	ctx := context.Background()

	_, err := svc.ToggleLike(ctx, "nonexistent", "u1")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.AddComment(ctx, "nonexistent", models.CommentInput{UserID: "u1", Content: "hi"})
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Len(t, hub.broadcasts(), 1)
	got := svc.ListRecent(1)[0]
	assert.Empty(t, got.Likes)
	assert.Empty(t, got.Comments)
}

func TestReturnedActivityIsDetached(t *testing.T) {
	svc := NewActivityService(newRecordingHub(), 200)
	a := createActivity(t, svc, "run")

	got, err := svc.ToggleLike(context.Background(), a.ID, "u1")
	require.NoError(t, err)
	got.Likes[0] = "mallory"

	assert.Equal(t, []string{"u1"}, svc.ListRecent(1)[0].Likes)
}
