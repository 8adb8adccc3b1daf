package model

import "github.com/google/uuid"

// AddCommentArgs contain the arguments of the AddUserComment use-case.
type AddCommentArgs struct {
	// UserID is the id of the author.
	UserID uuid.UUID

	// Comment is the comment text. It is trimmed before persistence.
	Comment string

	// ParentID is the comment being replied to. Nil for top-level comments.
	ParentID *uuid.UUID
}

// EditCommentArgs contain the arguments of the EditUserComment use-case.
type EditCommentArgs struct {
	// ID is the id of the comment to be edited.
	ID uuid.UUID

	// UserID is the id of the author issuing the edit. It is not checked against the comment owner.
	UserID uuid.UUID

	// Comment is the replacement text. It is trimmed before persistence.
	Comment string
}
