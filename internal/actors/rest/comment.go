package rest

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rbroggi/commentsvc/internal/core/model"
	log "github.com/sirupsen/logrus"
)

// InvalidModelMessage is the body of every 400 response.
const InvalidModelMessage = "Model invalid."

// CommentHandlerArgs are the mandatory args to instantiate the CommentHandler.
type CommentHandlerArgs struct {
	// Usecase is the usecase for the comment routes
	Usecase commentUsecase
	// Validator checks the shape of incoming requests
	Validator *RequestValidator
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(args CommentHandlerArgs) *CommentHandler {
	return &CommentHandler{usecase: args.Usecase, validator: args.Validator}
}

// CommentHandler serves the /comment routes.
type CommentHandler struct {
	usecase   commentUsecase
	validator *RequestValidator
}

// RegisterRoutes registers the comment routes on g.
func (h *CommentHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.ListComments)
	g.GET("/", h.ListComments)
	g.GET("/users", h.ListUsers)
	g.GET("/reply/:commentid", h.ListReplies)
	g.GET("/:userid", h.ListUserComments)
	g.PUT("/edit", h.EditComment)
	g.POST("/add", h.AddComment)
	g.POST("/reply", h.ReplyComment)
}

// ListComments returns every top-level comment with its author.
func (h *CommentHandler) ListComments(c echo.Context) error {
	comments, err := h.usecase.GetAllUserComments(c.Request().Context())
	if err != nil {
		return respondError(c, "GetAllUserComments", err)
	}
	return c.JSON(http.StatusOK, comments)
}

// ListUsers returns every user.
func (h *CommentHandler) ListUsers(c echo.Context) error {
	users, err := h.usecase.GetUsers(c.Request().Context())
	if err != nil {
		return respondError(c, "GetUsers", err)
	}
	return c.JSON(http.StatusOK, users)
}

// ListUserComments returns a user and their comments.
func (h *CommentHandler) ListUserComments(c echo.Context) error {
	userID, ok := h.validator.parseID(c.Param("userid"))
	if !ok {
		return c.String(http.StatusBadRequest, InvalidModelMessage)
	}
	resp, err := h.usecase.GetCommentsByUserID(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, "GetCommentsByUserID", err)
	}
	return c.JSON(http.StatusOK, resp)
}

// ListReplies returns the direct replies to a comment.
func (h *CommentHandler) ListReplies(c echo.Context) error {
	commentID, ok := h.validator.parseID(c.Param("commentid"))
	if !ok {
		return c.String(http.StatusBadRequest, InvalidModelMessage)
	}
	replies, err := h.usecase.GetCommentReplyByCommentID(c.Request().Context(), commentID)
	if err != nil {
		return respondError(c, "GetCommentReplyByCommentID", err)
	}
	return c.JSON(http.StatusOK, replies)
}

// EditComment replaces the text of a comment.
func (h *CommentHandler) EditComment(c echo.Context) error {
	var req editCommentRequest
	if !h.bind(c, &req) {
		return c.String(http.StatusBadRequest, InvalidModelMessage)
	}
	comment, err := h.usecase.EditUserComment(c.Request().Context(), req.toArgs())
	if err != nil {
		return respondError(c, "EditUserComment", err)
	}
	return c.JSON(http.StatusOK, comment)
}

// AddComment creates a comment.
func (h *CommentHandler) AddComment(c echo.Context) error {
	return h.create(c, "AddUserComment")
}

// ReplyComment creates a reply. The payload rules are the ones of AddComment.
func (h *CommentHandler) ReplyComment(c echo.Context) error {
	return h.create(c, "ReplyUserComment")
}

func (h *CommentHandler) create(c echo.Context, op string) error {
	var req newCommentRequest
	if !h.bind(c, &req) {
		return c.String(http.StatusBadRequest, InvalidModelMessage)
	}
	comment, err := h.usecase.AddUserComment(c.Request().Context(), req.toArgs())
	if err != nil {
		return respondError(c, op, err)
	}
	return c.JSON(http.StatusOK, comment)
}

// bind decodes and validates the body into req.
func (h *CommentHandler) bind(c echo.Context, req interface{}) bool {
	if err := c.Bind(req); err != nil {
		log.WithError(err).Debug("undecodable request body")
		return false
	}
	if err := h.validator.Validate(req); err != nil {
		log.WithError(err).Debug("invalid request body")
		return false
	}
	return true
}

// respondError writes the uniform error of err.
func respondError(c echo.Context, op string, err error) error {
	// Normalize never returns anything but *model.Error for a non-nil err
	uniform := model.Normalize(err).(*model.Error)
	if errors.Is(err, model.ErrNotFound) || errors.Is(err, model.ErrNotPersisted) {
		log.WithError(err).WithField("op", op).Warn("no row matched the request")
	} else {
		log.WithError(err).WithField("op", op).Error("error invoking usecase")
	}
	return c.JSON(uniform.Status, uniform.Body())
}

// commentUsecase
type commentUsecase interface {
	// GetUsers lists every user.
	GetUsers(ctx context.Context) ([]model.User, error)

	// GetCommentsByUserID returns a user together with their comments.
	GetCommentsByUserID(ctx context.Context, userID uuid.UUID) (*model.UserComments, error)

	// GetCommentReplyByCommentID lists the replies to a comment.
	GetCommentReplyByCommentID(ctx context.Context, commentID uuid.UUID) ([]model.Comment, error)

	// GetAllUserComments lists every top-level comment with its author.
	GetAllUserComments(ctx context.Context) ([]model.CommentWithAuthor, error)

	// AddUserComment creates a comment or a reply.
	AddUserComment(ctx context.Context, args model.AddCommentArgs) (*model.Comment, error)

	// EditUserComment replaces the text of a comment.
	EditUserComment(ctx context.Context, args model.EditCommentArgs) (*model.Comment, error)
}
