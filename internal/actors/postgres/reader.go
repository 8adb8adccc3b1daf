package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/go-pg/pg/v10"
	"github.com/google/uuid"
	"github.com/rbroggi/commentsvc/internal/core/model"
	log "github.com/sirupsen/logrus"
)

const (
	selectUserByIDQuery = `
		SELECT userid, firstname, middlename, lastname, email, username
		FROM users
		WHERE userid = ?
		ORDER BY createdate DESC
		LIMIT 1`

	selectCommentsByUserIDQuery = `
		SELECT commentid, userid, comment, parentid, createdate
		FROM comments
		WHERE userid = ?
		ORDER BY createdate DESC`

	selectCommentByIDQuery = `
		SELECT commentid, userid, comment, parentid, createdate
		FROM comments
		WHERE commentid = ?`

	selectRepliesByCommentIDQuery = `
		SELECT commentid, userid, comment, parentid, createdate
		FROM comments
		WHERE parentid = ?
		ORDER BY createdate DESC`

	// CONCAT without separators is what clients display today.
	selectAllTopLevelCommentsQuery = `
		SELECT
			c.commentid AS commentid,
			c.comment AS comment,
			c.parentid AS parentid,
			c.createdate AS createdate,
			u.userid AS userid,
			CONCAT(u.firstname, u.middlename, u.lastname) AS name,
			u.username AS username,
			u.email AS email
		FROM comments AS c
		INNER JOIN users AS u ON c.userid = u.userid
		WHERE c.parentid IS NULL
		ORDER BY c.createdate DESC`

	selectAllUsersQuery = `
		SELECT userid, firstname, middlename, lastname, email, username
		FROM users`
)

// Reader is the read path of the postgres adapter. Every call runs on its own connection.
type Reader struct {
	connector *Connector
}

// ReaderArgs are the mandatory arguments for the creation of a Reader
type ReaderArgs struct {
	// Connector provides the read connections.
	Connector *Connector
}

// NewReader creates a new Reader.
func NewReader(args ReaderArgs) *Reader {
	return &Reader{connector: args.Connector}
}

// GetUserByUserID fetches a user. It returns the zero-value user if none matches.
func (r *Reader) GetUserByUserID(ctx context.Context, userID uuid.UUID) (model.User, error) {
	conn := r.connector.ReadConnection()
	defer closeConn(conn)

	row := new(userDB)
	if _, err := conn.QueryOneContext(ctx, row, selectUserByIDQuery, userID); err != nil {
		if errors.Is(err, pg.ErrNoRows) {
			return model.User{}, nil
		}
		return model.User{}, normalize("GetUserByUserID", err)
	}
	return translateUserToModel(*row), nil
}

// GetUserCommentsByUserID lists the comments of a user, newest first.
func (r *Reader) GetUserCommentsByUserID(ctx context.Context, userID uuid.UUID) ([]model.Comment, error) {
	return r.listComments(ctx, "GetUserCommentsByUserID", selectCommentsByUserIDQuery, userID)
}

// GetCommentByCommentID fetches a comment. It returns the zero-value comment if none matches.
func (r *Reader) GetCommentByCommentID(ctx context.Context, commentID uuid.UUID) (model.Comment, error) {
	conn := r.connector.ReadConnection()
	defer closeConn(conn)

	row := new(commentDB)
	if _, err := conn.QueryOneContext(ctx, row, selectCommentByIDQuery, commentID); err != nil {
		if errors.Is(err, pg.ErrNoRows) {
			return model.Comment{}, nil
		}
		return model.Comment{}, normalize("GetCommentByCommentID", err)
	}
	return translateCommentToModel(*row), nil
}

// GetRepliesByCommentID lists the replies to a comment, newest first.
func (r *Reader) GetRepliesByCommentID(ctx context.Context, commentID uuid.UUID) ([]model.Comment, error) {
	return r.listComments(ctx, "GetRepliesByCommentID", selectRepliesByCommentIDQuery, commentID)
}

// GetAllUserComments lists the top-level comments joined with their author, newest first.
func (r *Reader) GetAllUserComments(ctx context.Context) ([]model.CommentWithAuthor, error) {
	conn := r.connector.ReadConnection()
	defer closeConn(conn)

	var rows []commentWithAuthorDB
	if _, err := conn.QueryContext(ctx, &rows, selectAllTopLevelCommentsQuery); err != nil {
		return nil, normalize("GetAllUserComments", err)
	}
	comments := make([]model.CommentWithAuthor, len(rows))
	for i, row := range rows {
		comments[i] = model.CommentWithAuthor{
			Comment: model.Comment{
				ID:       row.ID,
				UserID:   row.UserID,
				Comment:  row.Comment,
				ParentID: row.ParentID,
				Datetime: row.CreateDate,
			},
			Name:     row.Name,
			Username: row.Username,
			Email:    row.Email,
		}
	}
	return comments, nil
}

// GetAllUsers lists every user.
func (r *Reader) GetAllUsers(ctx context.Context) ([]model.User, error) {
	conn := r.connector.ReadConnection()
	defer closeConn(conn)

	var rows []userDB
	if _, err := conn.QueryContext(ctx, &rows, selectAllUsersQuery); err != nil {
		return nil, normalize("GetAllUsers", err)
	}
	users := make([]model.User, len(rows))
	for i, row := range rows {
		users[i] = translateUserToModel(row)
	}
	return users, nil
}

func (r *Reader) listComments(ctx context.Context, op, query string, id uuid.UUID) ([]model.Comment, error) {
	conn := r.connector.ReadConnection()
	defer closeConn(conn)

	var rows []commentDB
	if _, err := conn.QueryContext(ctx, &rows, query, id); err != nil {
		return nil, normalize(op, err)
	}
	return translateCommentsToModels(rows), nil
}

func closeConn(conn *pg.Conn) {
	if err := conn.Close(); err != nil {
		log.WithError(err).Warn("error closing read connection")
	}
}

// normalize logs the original failure and converts it into the uniform error.
func normalize(op string, err error) error {
	entry := log.WithError(err).WithField("operation", op)
	if errors.Is(err, model.ErrNotFound) || errors.Is(err, model.ErrNotPersisted) {
		entry.Warn("database operation affected no rows")
	} else {
		entry.Error("database operation failed")
	}
	return model.Normalize(err)
}

func translateUserToModel(row userDB) model.User {
	return model.User{
		ID:         row.ID,
		FirstName:  row.FirstName,
		MiddleName: row.MiddleName,
		LastName:   row.LastName,
		Email:      row.Email,
		Username:   row.Username,
	}
}

func translateCommentsToModels(rows []commentDB) []model.Comment {
	comments := make([]model.Comment, len(rows))
	for i, row := range rows {
		comments[i] = translateCommentToModel(row)
	}
	return comments
}

func translateCommentToModel(row commentDB) model.Comment {
	return model.Comment{
		ID:       row.ID,
		UserID:   row.UserID,
		Comment:  row.Comment,
		ParentID: row.ParentID,
		Datetime: row.CreateDate,
	}
}

type userDB struct {
	// ID unique identifier of the user.
	ID uuid.UUID `pg:"userid,type:uuid"`

	FirstName  string `pg:"firstname"`
	MiddleName string `pg:"middlename"`
	LastName   string `pg:"lastname"`
	Email      string `pg:"email"`
	Username   string `pg:"username"`
}

type commentDB struct {
	// ID unique identifier of the comment.
	ID uuid.UUID `pg:"commentid,type:uuid"`

	// UserID is the author of the comment.
	UserID uuid.UUID `pg:"userid,type:uuid"`

	Comment string `pg:"comment"`

	// ParentID is NULL for top-level comments.
	ParentID *uuid.UUID `pg:"parentid,type:uuid"`

	// CreateDate is the time at which the comment was inserted.
	CreateDate time.Time `pg:"createdate"`
}

type commentWithAuthorDB struct {
	ID         uuid.UUID  `pg:"commentid,type:uuid"`
	UserID     uuid.UUID  `pg:"userid,type:uuid"`
	Comment    string     `pg:"comment"`
	ParentID   *uuid.UUID `pg:"parentid,type:uuid"`
	CreateDate time.Time  `pg:"createdate"`

	// Name is the author display name.
	Name     string `pg:"name"`
	Username string `pg:"username"`
	Email    string `pg:"email"`
}
