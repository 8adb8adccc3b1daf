package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/rbroggi/commentsvc/internal/core/model"
)

// ReadRepository is the interface for the read path of the persistence layer.
// Single-record lookups return the zero value when nothing matches, lists return an empty slice.
type ReadRepository interface {
	// GetUserByUserID fetches a user.
	GetUserByUserID(ctx context.Context, userID uuid.UUID) (model.User, error)

	// GetUserCommentsByUserID lists the comments of a user, newest first.
	GetUserCommentsByUserID(ctx context.Context, userID uuid.UUID) ([]model.Comment, error)

	// GetCommentByCommentID fetches a comment.
	GetCommentByCommentID(ctx context.Context, commentID uuid.UUID) (model.Comment, error)

	// GetRepliesByCommentID lists the direct replies to a comment, newest first.
	GetRepliesByCommentID(ctx context.Context, commentID uuid.UUID) ([]model.Comment, error)

	// GetAllUserComments lists every top-level comment with its author, newest first.
	GetAllUserComments(ctx context.Context) ([]model.CommentWithAuthor, error)

	// GetAllUsers lists every user.
	GetAllUsers(ctx context.Context) ([]model.User, error)
}

// WriteRepository is the interface for the transactional write path of the persistence layer.
type WriteRepository interface {
	// AddUserComment durably saves a new comment and returns its generated id.
	AddUserComment(ctx context.Context, args model.AddCommentArgs) (uuid.UUID, error)

	// UpdateUserComment replaces the text of a comment and returns its id.
	// It returns model.ErrNotFound (normalized) if no comment was updated.
	UpdateUserComment(ctx context.Context, commentID uuid.UUID, comment string) (uuid.UUID, error)
}
