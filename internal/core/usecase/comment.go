package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rbroggi/commentsvc/internal/core/model"
	"github.com/rbroggi/commentsvc/internal/core/ports"
)

// CommentServiceArgs contains the mandatory arguments for the CommentService.
type CommentServiceArgs struct {
	// Reader is the read path of the persistence layer.
	Reader ports.ReadRepository

	// Writer is the transactional write path of the persistence layer.
	Writer ports.WriteRepository
}

// NewCommentService creates a new CommentService.
func NewCommentService(args CommentServiceArgs) *CommentService {
	return &CommentService{reader: args.Reader, writer: args.Writer}
}

// CommentService composes repository calls into the comment use-cases.
// It does not recover from repository errors; it only adds context to them.
type CommentService struct {
	reader ports.ReadRepository
	writer ports.WriteRepository
}

// GetUsers lists all users.
func (s *CommentService) GetUsers(ctx context.Context) ([]model.User, error) {
	users, err := s.reader.GetAllUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}
	return users, nil
}

// GetUserByUserID fetches a single user. A zero-value user is returned when there is no match.
func (s *CommentService) GetUserByUserID(ctx context.Context, userID uuid.UUID) (model.User, error) {
	user, err := s.reader.GetUserByUserID(ctx, userID)
	if err != nil {
		return model.User{}, fmt.Errorf("error fetching user [%s]: %w", userID, err)
	}
	return user, nil
}

// GetCommentsByUserID fetches a user together with its comments. The comments are looked up
// even when the user does not exist.
func (s *CommentService) GetCommentsByUserID(ctx context.Context, userID uuid.UUID) (*model.UserComments, error) {
	user, err := s.reader.GetUserByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error fetching user [%s]: %w", userID, err)
	}
	comments, err := s.reader.GetUserCommentsByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing comments of user [%s]: %w", userID, err)
	}
	return &model.UserComments{User: user, Comments: comments}, nil
}

// GetCommentReplyByCommentID lists the replies to a comment.
func (s *CommentService) GetCommentReplyByCommentID(ctx context.Context, commentID uuid.UUID) ([]model.Comment, error) {
	replies, err := s.reader.GetRepliesByCommentID(ctx, commentID)
	if err != nil {
		return nil, fmt.Errorf("error listing replies of comment [%s]: %w", commentID, err)
	}
	return replies, nil
}

// GetAllUserComments lists all top-level comments with their authors.
func (s *CommentService) GetAllUserComments(ctx context.Context) ([]model.CommentWithAuthor, error) {
	comments, err := s.reader.GetAllUserComments(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing comments: %w", err)
	}
	return comments, nil
}

// AddUserComment saves a comment (or a reply) and returns it as stored.
func (s *CommentService) AddUserComment(ctx context.Context, args model.AddCommentArgs) (*model.Comment, error) {
	commentID, err := s.writer.AddUserComment(ctx, args)
	if err != nil {
		return nil, fmt.Errorf("error saving comment: %w", err)
	}
	comment, err := s.reader.GetCommentByCommentID(ctx, commentID)
	if err != nil {
		return nil, fmt.Errorf("error fetching saved comment [%s]: %w", commentID, err)
	}
	return &comment, nil
}

// EditUserComment replaces the text of an existing comment and returns it as stored.
func (s *CommentService) EditUserComment(ctx context.Context, args model.EditCommentArgs) (*model.Comment, error) {
	existing, err := s.reader.GetCommentByCommentID(ctx, args.ID)
	if err != nil {
		return nil, fmt.Errorf("error fetching comment [%s]: %w", args.ID, err)
	}
	commentID, err := s.writer.UpdateUserComment(ctx, existing.ID, args.Comment)
	if err != nil {
		return nil, fmt.Errorf("error updating comment [%s]: %w", args.ID, err)
	}
	updated, err := s.reader.GetCommentByCommentID(ctx, commentID)
	if err != nil {
		return nil, fmt.Errorf("error fetching updated comment [%s]: %w", commentID, err)
	}
	return &updated, nil
}
