package model

import (
	"time"

	"github.com/google/uuid"
)

// User represents an author of comments. Users are created outside of this service.
type User struct {
	// ID unique identifier of the user.
	ID uuid.UUID `json:"userid"`

	// FirstName is the user first name.
	FirstName string `json:"firstName"`

	// MiddleName is the user middle name.
	MiddleName string `json:"middleName"`

	// LastName is the user last name.
	LastName string `json:"lastName"`

	// Email is the user email
	Email string `json:"email"`

	// Username is the user handle
	Username string `json:"username"`
}

// Comment represents a top-level comment or a reply.
type Comment struct {
	// ID unique identifier of the comment. Generated on creation.
	ID uuid.UUID `json:"commentid"`

	// UserID is the id of the author.
	UserID uuid.UUID `json:"userid"`

	// Comment is the (trimmed) comment text.
	Comment string `json:"comment"`

	// ParentID is the id of the comment being replied to. Nil for top-level comments.
	ParentID *uuid.UUID `json:"parentid"`

	// Datetime is the time at which the comment was created.
	Datetime time.Time `json:"datetime"`
}

// IsReply reports whether the comment answers another comment.
func (c Comment) IsReply() bool {
	return c.ParentID != nil
}

// CommentWithAuthor is a comment joined with the display fields of its author.
type CommentWithAuthor struct {
	Comment

	// Name is firstName, middleName and lastName concatenated without separators.
	Name string `json:"name"`

	// Username is the author handle.
	Username string `json:"username"`

	// Email is the author email.
	Email string `json:"email"`
}

// UserComments aggregates a user with its comments, newest first.
type UserComments struct {
	User     User      `json:"user"`
	Comments []Comment `json:"comments"`
}

// CommentEvent collects a comment change. It can represent creation, edition and removal of a comment.
type CommentEvent struct {
	// ID is the event id.
	ID string `json:"id"`

	// Before is the comment state before the event. It will be nil in case of comment-creations.
	Before *Comment `json:"before"`

	// After is the comment state after the event. It will be nil in case of removals.
	After *Comment `json:"after"`
}
