package usecase

import (
	"context"
	"fmt"

	"github.com/rbroggi/commentsvc/internal/core/model"
	"github.com/rbroggi/commentsvc/internal/core/ports"
)

// NewInformer builds a new informer.
func NewInformer(sender ports.Sender) *Informer {
	return &Informer{sender: sender}
}

// Informer adapts CDC events to a public-facing event. It publicly 'informs' about comment changes.
type Informer struct {
	sender ports.Sender
}

// Handle forwards the event to the sender unless nothing visible to consumers changed.
func (i *Informer) Handle(ctx context.Context, event model.CommentEvent) error {
	// updatedate is not part of the public comment, so an edit that rewrote the same text is a no-op.
	if commentsAreEqual(event.Before, event.After) {
		return nil
	}

	if err := i.sender.Send(ctx, event); err != nil {
		return fmt.Errorf("error sending comment event ID [%s]: %w", event.ID, err)
	}

	return nil
}

func commentsAreEqual(before *model.Comment, after *model.Comment) bool {
	if before == nil || after == nil {
		return before == after
	}
	if before.ID != after.ID || before.UserID != after.UserID || before.Comment != after.Comment {
		return false
	}
	if !before.Datetime.Equal(after.Datetime) {
		return false
	}
	switch {
	case before.ParentID == nil && after.ParentID == nil:
		return true
	case before.ParentID == nil || after.ParentID == nil:
		return false
	default:
		return *before.ParentID == *after.ParentID
	}
}
