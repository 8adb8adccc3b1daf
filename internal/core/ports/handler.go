package ports

import (
	"context"

	"github.com/rbroggi/commentsvc/internal/core/model"
)

// CommentEventHandler handles incoming CommentEvents.
type CommentEventHandler interface {
	// Handle will receive an incoming comment event and handle it.
	Handle(ctx context.Context, event model.CommentEvent) error
}
