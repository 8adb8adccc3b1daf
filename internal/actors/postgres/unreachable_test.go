package postgres

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rbroggi/commentsvc/internal/config"
	"github.com/rbroggi/commentsvc/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unreachableConnector points at a port nothing listens on.
func unreachableConnector(t *testing.T) *Connector {
	t.Helper()
	connector, err := Connect(config.DBSettings{Server: "127.0.0.1:1", Timeout: time.Second})
	require.NoError(t, err)
	t.Cleanup(func() { _ = connector.Close() })
	return connector
}

func requireDatabaseError(t *testing.T, err error) {
	t.Helper()
	var uniform *model.Error
	require.ErrorAs(t, err, &uniform)
	assert.Equal(t, http.StatusInternalServerError, uniform.Status)
	assert.Equal(t, model.GenericErrorMessage, uniform.Message)
	assert.Equal(t, "DatabaseError", uniform.Name)
}

func TestReader_UnreachableDatabase(t *testing.T) {
	reader := NewReader(ReaderArgs{Connector: unreachableConnector(t)})
	ctx := context.Background()
	id := uuid.New()

	tests := []struct {
		name string
		call func() error
	}{
		{name: "GetUserByUserID", call: func() error { _, err := reader.GetUserByUserID(ctx, id); return err }},
		{name: "GetUserCommentsByUserID", call: func() error { _, err := reader.GetUserCommentsByUserID(ctx, id); return err }},
		{name: "GetCommentByCommentID", call: func() error { _, err := reader.GetCommentByCommentID(ctx, id); return err }},
		{name: "GetRepliesByCommentID", call: func() error { _, err := reader.GetRepliesByCommentID(ctx, id); return err }},
		{name: "GetAllUserComments", call: func() error { _, err := reader.GetAllUserComments(ctx); return err }},
		{name: "GetAllUsers", call: func() error { _, err := reader.GetAllUsers(ctx); return err }},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			requireDatabaseError(t, test.call())
		})
	}
}

func TestWriter_UnreachableDatabase(t *testing.T) {
	writer := NewWriter(WriterArgs{Connector: unreachableConnector(t)})
	ctx := context.Background()

	id, err := writer.AddUserComment(ctx, model.AddCommentArgs{UserID: uuid.New(), Comment: "hello"})
	requireDatabaseError(t, err)
	assert.Equal(t, uuid.Nil, id)

	id, err = writer.UpdateUserComment(ctx, uuid.New(), "hello")
	requireDatabaseError(t, err)
	assert.Equal(t, uuid.Nil, id)
}
