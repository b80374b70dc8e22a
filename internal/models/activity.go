package models

import "time"

type Activity struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	UserName   string    `json:"userName"`
	UserAvatar string    `json:"userAvatar,omitempty"`
	UserLevel  int       `json:"userLevel"`
	Type       string    `json:"type"` // e.g. "run", "walk", "quest_completed"
	Title      string    `json:"title"`
	Distance   *float64  `json:"distance,omitempty"` // km
	Duration   *int      `json:"duration,omitempty"` // minutes
	Steps      *int      `json:"steps,omitempty"`
	XPGained   int       `json:"xpGained"`
	Timestamp  time.Time `json:"timestamp"`
	Likes      []string  `json:"likes"`
	Comments   []Comment `json:"comments"`
}

// Clone returns a deep copy so callers never share slices with the feed.
func (a *Activity) Clone() *Activity {
	c := *a
	c.Likes = append(make([]string, 0, len(a.Likes)), a.Likes...)
	c.Comments = append(make([]Comment, 0, len(a.Comments)), a.Comments...)
	if a.Distance != nil {
		d := *a.Distance
		c.Distance = &d
	}
	if a.Duration != nil {
		d := *a.Duration
		c.Duration = &d
	}
	if a.Steps != nil {
		s := *a.Steps
		c.Steps = &s
	}
	return &c
}

// HasLike reports whether userID currently likes the activity.
func (a *Activity) HasLike(userID string) bool {
	for _, id := range a.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

type Comment struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

type ActivityInput struct {
	UserID     string   `json:"userId"`
	UserName   string   `json:"userName"`
	UserAvatar string   `json:"userAvatar,omitempty"`
	UserLevel  int      `json:"userLevel"`
	Type       string   `json:"type"`
	Title      string   `json:"title"`
	Distance   *float64 `json:"distance,omitempty"`
	Duration   *int     `json:"duration,omitempty"`
	Steps      *int     `json:"steps,omitempty"`
	XPGained   int      `json:"xpGained"`
}

type CommentInput struct {
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
	Content  string `json:"content"`
}
