package domain

import (
	"context"
	"time"
)

// Comment is a user comment on a published event.
// swagger:model Comment
type Comment struct {
	ID       int64     `json:"id"`
	EventID  int64     `json:"event"`
	AuthorID int64     `json:"author"`
	Text     string    `json:"text"`
	Created  time.Time `json:"created"`
}

// CommentRepository defines the interface for comment storage.
type CommentRepository interface {
	Create(ctx context.Context, comment *Comment) error
	ListByEvent(ctx context.Context, eventID int64) ([]*Comment, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Delete(ctx context.Context, id int64) error
}

// CommentService manages comments on events.
type CommentService interface {
	AddComment(ctx context.Context, userID, eventID int64, text string) (*Comment, error)
	ListComments(ctx context.Context, eventID int64) ([]*Comment, error)
	DeleteComment(ctx context.Context, commentID int64) error
}
