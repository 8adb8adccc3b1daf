package rest

import (
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/google/uuid"
	"github.com/rbroggi/commentsvc/internal/core/model"
)

// idTag accepts version-4 UUIDs in either case.
const idTag = "uuid4_rfc4122"

// newCommentRequest is the payload of both /add and /reply. A null or empty parentid means top-level.
type newCommentRequest struct {
	UserID   string `json:"userid" validate:"required,uuid4_rfc4122"`
	Comment  string `json:"comment" validate:"notblank"`
	ParentID string `json:"parentid" validate:"omitempty,uuid4_rfc4122"`
}

func (r newCommentRequest) toArgs() model.AddCommentArgs {
	args := model.AddCommentArgs{
		UserID:  uuid.MustParse(r.UserID),
		Comment: r.Comment,
	}
	if r.ParentID != "" {
		parentID := uuid.MustParse(r.ParentID)
		args.ParentID = &parentID
	}
	return args
}

type editCommentRequest struct {
	CommentID string `json:"commentid" validate:"required,uuid4_rfc4122"`
	UserID    string `json:"userid" validate:"required,uuid4_rfc4122"`
	Comment   string `json:"comment" validate:"notblank"`
}

func (r editCommentRequest) toArgs() model.EditCommentArgs {
	return model.EditCommentArgs{
		ID:      uuid.MustParse(r.CommentID),
		UserID:  uuid.MustParse(r.UserID),
		Comment: r.Comment,
	}
}

// RequestValidator checks request shapes. It only looks at formats, never at the store.
// It satisfies echo.Validator.
type RequestValidator struct {
	validate *validator.Validate
}

// NewRequestValidator builds a RequestValidator.
func NewRequestValidator() *RequestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	// registering a static function on a fresh validator cannot fail
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	return &RequestValidator{validate: v}
}

// Validate validates a request struct.
func (v *RequestValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

// ValidID reports whether id is a version-4 UUID.
func (v *RequestValidator) ValidID(id string) bool {
	return v.validate.Var(id, "required,"+idTag) == nil
}

// parseID validates and parses a path id.
func (v *RequestValidator) parseID(id string) (uuid.UUID, bool) {
	if !v.ValidID(id) {
		return uuid.Nil, false
	}
	return uuid.MustParse(id), true
}
