package ports

import (
	"context"

	"github.com/rbroggi/commentsvc/internal/core/model"
)

// Sender is the port for publishing outbound comment-events.
type Sender interface {
	// Send sends comment-event data.
	Send(ctx context.Context, event model.CommentEvent) error
}
