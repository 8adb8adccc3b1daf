package postgres

import (
	"context"
	"strings"
	"time"

	"github.com/go-pg/pg/v10"
	"github.com/google/uuid"
	"github.com/rbroggi/commentsvc/internal/core/model"
	log "github.com/sirupsen/logrus"
)

const (
	insertCommentQuery = `
		INSERT INTO comments (commentid, userid, comment, parentid, createdate, updatedate)
		VALUES ($1, $2, $3, $4, $5, $6)`

	updateCommentQuery = `
		UPDATE comments
		SET comment = $1, updatedate = $2
		WHERE commentid = $3`
)

// Writer is the transactional write path of the postgres adapter.
type Writer struct {
	connector *Connector
	nowFunc   func() time.Time
	idFunc    func() uuid.UUID
}

// WriterArgs are the mandatory arguments for the creation of a Writer
type WriterArgs struct {
	// Connector provides the transactions.
	Connector *Connector
}

// WriterOptArgs are the optional arguments for building a Writer
type WriterOptArgs = func(*Writer)

// WithNowFunc can be used to override the nowFunc. Useful for testing.
func WithNowFunc(nowFunc func() time.Time) WriterOptArgs {
	return func(w *Writer) {
		w.nowFunc = nowFunc
	}
}

// WithIDFunc can be used to override the comment id generator. Useful for testing.
func WithIDFunc(idFunc func() uuid.UUID) WriterOptArgs {
	return func(w *Writer) {
		w.idFunc = idFunc
	}
}

// NewWriter creates a new Writer.
func NewWriter(args WriterArgs, optArgs ...WriterOptArgs) *Writer {
	w := &Writer{
		connector: args.Connector,
		nowFunc:   func() time.Time { return time.Now().UTC() },
		idFunc:    uuid.New,
	}
	for _, opt := range optArgs {
		opt(w)
	}
	return w
}

// AddUserComment inserts a comment in its own transaction and returns the generated id.
// The id is generated before touching the database. model.ErrNotPersisted is returned
// (normalized) if the insert affected no row.
func (w *Writer) AddUserComment(ctx context.Context, args model.AddCommentArgs) (uuid.UUID, error) {
	commentID := w.idFunc()
	now := w.nowFunc()
	if err := w.execInTx(ctx, "AddUserComment", insertCommentQuery, model.ErrNotPersisted,
		commentID,
		args.UserID,
		strings.TrimSpace(args.Comment),
		nullableUUID(args.ParentID),
		now,
		now,
	); err != nil {
		return uuid.Nil, err
	}
	return commentID, nil
}

// UpdateUserComment replaces the text of a comment in its own transaction.
// model.ErrNotFound is returned (normalized) if no comment has the given id.
func (w *Writer) UpdateUserComment(ctx context.Context, commentID uuid.UUID, comment string) (uuid.UUID, error) {
	if err := w.execInTx(ctx, "UpdateUserComment", updateCommentQuery, model.ErrNotFound,
		strings.TrimSpace(comment),
		w.nowFunc(),
		commentID,
	); err != nil {
		return uuid.Nil, err
	}
	return commentID, nil
}

// execInTx runs one prepared statement in a dedicated transaction, strictly in the order
// begin, prepare, execute, commit (or rollback), release. noRowsErr is returned when the
// statement affected nothing, after rolling back.
func (w *Writer) execInTx(ctx context.Context, op, query string, noRowsErr error, params ...interface{}) error {
	tx, err := w.connector.TransactionConnection(ctx)
	if err != nil {
		return normalize(op, err)
	}

	stmt, err := tx.Prepare(query)
	if err != nil {
		rollback(ctx, tx)
		return normalize(op, err)
	}
	defer releaseStmt(stmt)

	res, err := stmt.ExecContext(ctx, params...)
	if err != nil {
		rollback(ctx, tx)
		return normalize(op, err)
	}

	if res.RowsAffected() < 1 {
		rollback(ctx, tx)
		return normalize(op, noRowsErr)
	}

	if err := tx.CommitContext(ctx); err != nil {
		return normalize(op, err)
	}
	return nil
}

func rollback(ctx context.Context, tx *pg.Tx) {
	if err := tx.RollbackContext(ctx); err != nil {
		log.WithError(err).Error("error rolling back transaction")
	}
}

// releaseStmt closes the statement. Ending the transaction may already have released it.
func releaseStmt(stmt *pg.Stmt) {
	if err := stmt.Close(); err != nil {
		log.WithError(err).Debug("prepared statement already released")
	}
}

func nullableUUID(id *uuid.UUID) interface{} {
	if id == nil {
		return nil
	}
	return *id
}
